package cli

import (
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "migrate", Short: "two-step V1 to V2 reservation migration"}
	cmd.AddCommand(migrateStep1Cmd())
	cmd.AddCommand(migrateStep2Cmd())
	return cmd
}

func migrateStep1Cmd() *cobra.Command {
	return &cobra.Command{
		Use:   "step1 <reservation-address>",
		Short: "close the V1 reservation and stash it in the migration helper",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := buildContext(cmd)
			if err != nil {
				return err
			}
			addr, err := parseAddr(args[0])
			if err != nil {
				return err
			}
			return engine.MigrateStep1(ctx, addr)
		},
	}
}

func migrateStep2Cmd() *cobra.Command {
	return &cobra.Command{
		Use:   "step2 <reservation-address>",
		Short: "create the V2 reservation from the migration helper",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := buildContext(cmd)
			if err != nil {
				return err
			}
			addr, err := parseAddr(args[0])
			if err != nil {
				return err
			}
			r, err := engine.MigrateStep2(ctx, addr)
			if err != nil {
				return err
			}
			printReservation(r)
			return nil
		},
	}
}
