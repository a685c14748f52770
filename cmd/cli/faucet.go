package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"shadowstake/core"
)

func faucetCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "faucet", Short: "fund a wallet with shades for local development and testing"}
	cmd.AddCommand(faucetFundCmd())
	cmd.AddCommand(faucetBalanceCmd())
	return cmd
}

func faucetFundCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fund <address> <amount>",
		Short: "mint shades directly into an address's balance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddr(args[0])
			if err != nil {
				return err
			}
			amount, err := parseUint64(args[1])
			if err != nil {
				return err
			}
			f := core.NewFaucet(engine.Ledger())
			return f.Fund(addr, amount)
		},
	}
}

func faucetBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <address>",
		Short: "show an address's shade balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddr(args[0])
			if err != nil {
				return err
			}
			f := core.NewFaucet(engine.Ledger())
			fmt.Println(f.Balance(addr))
			return nil
		},
	}
}
