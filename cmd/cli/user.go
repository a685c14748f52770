package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func userCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "user", Short: "manage per-owner UserInfo records"}
	cmd.AddCommand(userInfoCmd())
	cmd.AddCommand(userAgreeTosCmd())
	return cmd
}

func userInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <owner-address>",
		Short: "show an owner's UserInfo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := parseAddr(args[0])
			if err != nil {
				return err
			}
			u, err := engine.UserInfoView(owner)
			if err != nil {
				return err
			}
			fmt.Printf("account_counter=%d del_counter=%d agreed_to_tos=%t lifetime_bad_csam=%t\n",
				u.AccountCounter, u.DelCounter, u.AgreedToTOS, u.LifetimeBadCsam)
			return nil
		},
	}
}

func userAgreeTosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agree-tos <owner-address>",
		Short: "record an owner's agreement to the terms of service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := buildContext(cmd)
			if err != nil {
				return err
			}
			owner, err := parseAddr(args[0])
			if err != nil {
				return err
			}
			return engine.AgreeToTOS(ctx, owner)
		},
	}
}
