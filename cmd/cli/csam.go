package cli

import (
	"github.com/spf13/cobra"
)

func csamCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "csam-eject <reservation-address> <storage-available>",
		Short: "BadCsam: eject a reservation that failed content screening",
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
			storageAvailable, err := parseUint64(args[1])
			if err != nil {
				return err
			}
			return engine.BadCsam(ctx, addr, storageAvailable)
		},
	}
}
