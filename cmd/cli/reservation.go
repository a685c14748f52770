package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"shadowstake/core"
)

func reservationCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "reservation", Short: "provision, resize and manage storage reservations"}
	cmd.AddCommand(reservationInitCmd())
	cmd.AddCommand(reservationShowCmd())
	cmd.AddCommand(reservationResizeUpCmd())
	cmd.AddCommand(reservationResizeUpImmutableCmd())
	cmd.AddCommand(reservationResizeDownCmd())
	cmd.AddCommand(reservationClaimStakeCmd())
	cmd.AddCommand(reservationRefreshStakeCmd())
	cmd.AddCommand(reservationTopUpCmd())
	cmd.AddCommand(reservationUpdateCmd())
	cmd.AddCommand(reservationRequestDeleteCmd())
	cmd.AddCommand(reservationUnmarkDeleteCmd())
	cmd.AddCommand(reservationDeleteCmd())
	cmd.AddCommand(reservationMakeImmutableCmd())
	cmd.AddCommand(reservationStakeVaultCmd())
	return cmd
}

func printReservation(r core.Reservation) {
	switch v := r.(type) {
	case *core.ReservationV1:
		fmt.Printf("v1 storage=%d owner1=%s owner2=%s immutable=%t to_be_deleted=%t identifier=%q\n",
			v.Storage, v.Owner1.String(), v.Owner2.String(), v.Immutable, v.ToBeDeleted, v.Identifier)
	case *core.ReservationV2:
		fmt.Printf("v2 storage=%d owner1=%s immutable=%t to_be_deleted=%t identifier=%q\n",
			v.Storage, v.Owner1.String(), v.Immutable, v.ToBeDeleted, v.Identifier)
	}
}

func reservationInitCmd() *cobra.Command {
	var v2 bool
	var owner2 string
	c := &cobra.Command{
		Use:   "init <owner-address> <identifier> <bytes>",
		Short: "provision a new reservation",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := buildContext(cmd)
			if err != nil {
				return err
			}
			owner, err := parseAddr(args[0])
			if err != nil {
				return err
			}
			bytes, err := parseUint64(args[2])
			if err != nil {
				return err
			}
			var secondary core.Address
			if owner2 != "" {
				secondary, err = parseAddr(owner2)
				if err != nil {
					return err
				}
			}
			kind := core.KindV1
			if v2 {
				kind = core.KindV2
			}
			r, err := engine.InitializeAccount(ctx, kind, owner, args[1], bytes, secondary)
			if err != nil {
				return err
			}
			printReservation(r)
			return nil
		},
	}
	c.Flags().BoolVar(&v2, "v2", false, "provision a V2 reservation instead of V1")
	c.Flags().StringVar(&owner2, "owner2", "", "secondary owner (V1 only)")
	return c
}

func reservationShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <owner-address> <account-counter-seed>",
		Short: "show a reservation at its derived address",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := parseAddr(args[0])
			if err != nil {
				return err
			}
			seed, err := parseUint32(args[1])
			if err != nil {
				return err
			}
			addr := core.ReservationAddress(owner, seed)
			fmt.Println("address:", addr.String())
			return nil
		},
	}
}

func reservationResizeUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resize-up <reservation-address> <additional-bytes>",
		Short: "IncreaseStorage on a mutable reservation",
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
			additional, err := parseUint64(args[1])
			if err != nil {
				return err
			}
			r, err := engine.IncreaseStorage(ctx, addr, additional)
			if err != nil {
				return err
			}
			printReservation(r)
			return nil
		},
	}
}

func reservationResizeUpImmutableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resize-up-immutable <reservation-address> <additional-bytes>",
		Short: "IncreaseImmutableStorage on an immutable reservation",
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
			additional, err := parseUint64(args[1])
			if err != nil {
				return err
			}
			r, err := engine.IncreaseImmutableStorage(ctx, addr, additional)
			if err != nil {
				return err
			}
			printReservation(r)
			return nil
		},
	}
}

func reservationResizeDownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resize-down <reservation-address> <removed-bytes> <caller-address>",
		Short: "DecreaseStorage, opening or topping up an unstake ticket",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := buildContext(cmd)
			if err != nil {
				return err
			}
			addr, err := parseAddr(args[0])
			if err != nil {
				return err
			}
			removed, err := parseUint64(args[1])
			if err != nil {
				return err
			}
			caller, err := parseAddr(args[2])
			if err != nil {
				return err
			}
			r, err := engine.DecreaseStorage(ctx, addr, removed, caller)
			if err != nil {
				return err
			}
			printReservation(r)
			return nil
		},
	}
}

func reservationClaimStakeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "claim-stake <reservation-address> <signer-address>",
		Short: "ClaimStake after both delay periods have elapsed",
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
			signer, err := parseAddr(args[1])
			if err != nil {
				return err
			}
			return engine.ClaimStake(ctx, addr, signer)
		},
	}
}

func reservationRefreshStakeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh-stake <reservation-address> <payer-address>",
		Short: "RefreshStake, topping up the vault and clearing any deletion mark",
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
			payer, err := parseAddr(args[1])
			if err != nil {
				return err
			}
			r, err := engine.RefreshStake(ctx, addr, payer)
			if err != nil {
				return err
			}
			printReservation(r)
			return nil
		},
	}
}

func reservationTopUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "top-up <reservation-address> <payer-address> <amount>",
		Short: "TopUp: SDK-only arbitrary vault deposit",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := buildContext(cmd)
			if err != nil {
				return err
			}
			addr, err := parseAddr(args[0])
			if err != nil {
				return err
			}
			payer, err := parseAddr(args[1])
			if err != nil {
				return err
			}
			amount, err := parseUint64(args[2])
			if err != nil {
				return err
			}
			return engine.TopUp(ctx, addr, payer, amount)
		},
	}
}

func reservationUpdateCmd() *cobra.Command {
	var identifier, owner2 string
	c := &cobra.Command{
		Use:   "update <reservation-address>",
		Short: "UpdateAccount: change identifier and/or V1 owner2",
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
			var idPtr *string
			if cmd.Flags().Changed("identifier") {
				idPtr = &identifier
			}
			var owner2Ptr *core.Address
			if owner2 != "" {
				a, err := parseAddr(owner2)
				if err != nil {
					return err
				}
				owner2Ptr = &a
			}
			r, err := engine.UpdateAccount(ctx, addr, idPtr, owner2Ptr)
			if err != nil {
				return err
			}
			printReservation(r)
			return nil
		},
	}
	c.Flags().StringVar(&identifier, "identifier", "", "new identifier")
	c.Flags().StringVar(&owner2, "owner2", "", "new secondary owner (V1 only)")
	return c
}

func reservationRequestDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "request-delete <reservation-address>",
		Short: "RequestDeleteAccount",
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
			_, err = engine.RequestDeleteAccount(ctx, addr)
			return err
		},
	}
}

func reservationUnmarkDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unmark-delete <reservation-address>",
		Short: "UnmarkDeleteAccount",
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
			_, err = engine.UnmarkDeleteAccount(ctx, addr)
			return err
		},
	}
}

func reservationDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <reservation-address> <caller-address>",
		Short: "DeleteAccount after the grace period has elapsed",
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
			return engine.DeleteAccount(ctx, addr, caller)
		},
	}
}

func reservationStakeVaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stake-vault <reservation-address>",
		Short: "show the stake vault and any pending unstake ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddr(args[0])
			if err != nil {
				return err
			}
			v, err := engine.StakeVault(addr)
			if err != nil {
				return err
			}
			fmt.Printf("vault=%s balance=%d unstake_vault=%s unstake_balance=%d pending_unstake=%t\n",
				v.Vault.String(), v.VaultBalance, v.UnstakeVault.String(), v.UnstakeBalance, v.PendingUnstake)
			if v.PendingUnstake {
				fmt.Printf("  time_last_unstaked=%d epoch_last_unstaked=%d unstaker=%s\n",
					v.UnstakeTicket.TimeLastUnstaked, v.UnstakeTicket.EpochLastUnstaked, v.UnstakeTicket.Unstaker.String())
			}
			return nil
		},
	}
}

func reservationMakeImmutableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "make-immutable <reservation-address> <caller-address>",
		Short: "MakeAccountImmutable",
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
			r, err := engine.MakeAccountImmutable(ctx, addr, caller)
			if err != nil {
				return err
			}
			printReservation(r)
			return nil
		},
	}
}
