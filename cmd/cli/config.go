package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"shadowstake/core"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "manage the global Config singleton"}
	cmd.AddCommand(configInitCmd())
	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(configUpdateCmd())
	cmd.AddCommand(configMutableFeesCmd())
	return cmd
}

func configInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init <uploader-address>",
		Short: "create the Config singleton (admin-1 only, one-shot)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := buildContext(cmd)
			if err != nil {
				return err
			}
			uploader, err := parseAddr(args[0])
			if err != nil {
				return err
			}
			cfg, err := engine.InitializeConfig(ctx, uploader)
			if err != nil {
				return err
			}
			fmt.Printf("config initialized: shades_per_gib=%d storage_available=%d\n", cfg.ShadesPerGiB, cfg.StorageAvailable)
			return nil
		},
	}
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "print the current Config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := engine.ConfigView()
			if err != nil {
				return err
			}
			fmt.Printf("shades_per_gib=%d storage_available=%d admin2=%s uploader=%s crank_bps=%d max_account_size=%d min_account_size=%d\n",
				cfg.ShadesPerGiB, cfg.StorageAvailable, cfg.Admin2.String(), cfg.Uploader.String(), cfg.CrankBps, cfg.MaxAccountSize, cfg.MinAccountSize)
			return nil
		},
	}
}

func configUpdateCmd() *cobra.Command {
	var shadesPerGiB, storageAvailable, maxSize, minSize string
	var admin2 string
	c := &cobra.Command{
		Use:   "update <signer-address>",
		Short: "patch price/quota/admin2/size bounds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := buildContext(cmd)
			if err != nil {
				return err
			}
			signer, err := parseAddr(args[0])
			if err != nil {
				return err
			}
			var patch core.ConfigPatch
			if shadesPerGiB != "" {
				v, err := strconv.ParseUint(shadesPerGiB, 10, 64)
				if err != nil {
					return err
				}
				patch.ShadesPerGiB = &v
			}
			if storageAvailable != "" {
				v, err := strconv.ParseUint(storageAvailable, 10, 64)
				if err != nil {
					return err
				}
				patch.StorageAvailable = &v
			}
			if maxSize != "" {
				v, err := strconv.ParseUint(maxSize, 10, 64)
				if err != nil {
					return err
				}
				patch.MaxAccountSize = &v
			}
			if minSize != "" {
				v, err := strconv.ParseUint(minSize, 10, 64)
				if err != nil {
					return err
				}
				patch.MinAccountSize = &v
			}
			if admin2 != "" {
				a, err := parseAddr(admin2)
				if err != nil {
					return err
				}
				patch.Admin2 = &a
			}
			_, err = engine.UpdateConfig(ctx, signer, patch)
			return err
		},
	}
	c.Flags().StringVar(&shadesPerGiB, "shades-per-gib", "", "new storage price")
	c.Flags().StringVar(&storageAvailable, "storage-available", "", "new global quota")
	c.Flags().StringVar(&maxSize, "max-account-size", "", "new maximum account size")
	c.Flags().StringVar(&minSize, "min-account-size", "", "new minimum account size")
	c.Flags().StringVar(&admin2, "admin2", "", "new second admin (admin-1 signer required)")
	return c
}

func configMutableFeesCmd() *cobra.Command {
	var rate uint64
	var bps uint16
	var disable bool
	c := &cobra.Command{
		Use:   "mutable-fees <signer-address>",
		Short: "toggle the ongoing-fee subsystem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := buildContext(cmd)
			if err != nil {
				return err
			}
			signer, err := parseAddr(args[0])
			if err != nil {
				return err
			}
			if disable {
				_, err := engine.MutableFees(ctx, signer, nil, nil)
				return err
			}
			_, err = engine.MutableFees(ctx, signer, &rate, &bps)
			return err
		},
	}
	c.Flags().Uint64Var(&rate, "rate", 0, "shades per GiB per epoch")
	c.Flags().Uint16Var(&bps, "crank-bps", 0, "cranker share in basis points")
	c.Flags().BoolVar(&disable, "disable", false, "turn mutable fees off")
	return c
}
