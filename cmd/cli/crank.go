package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func crankCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crank <reservation-address> <caller-address>",
		Short: "run the fee engine for a reservation; callable by anyone",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := buildContext(cmd)
			if err != nil {
				return err
			}
			addr, err := parseAddr(args[0])
			if err != nil {
				return err
			}
			caller, err := parseAddr(args[1])
			if err != nil {
				return err
			}
			res, err := engine.Crank(ctx, addr, caller)
			if err != nil {
				return err
			}
			if !res.Active {
				fmt.Println("crank: inactive (no mutable fees configured)")
				return nil
			}
			fmt.Printf("crank: emissions_fee=%d cranker_fee=%d exhausted=%t\n", res.EmissionsFee, res.CrankerFee, res.Exhausted)
			return nil
		},
	}
}
