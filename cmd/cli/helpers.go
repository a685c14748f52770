package cli

// helpers.go — shared flag parsing for the shadowstake command tree.
// Grounded on the teacher's cmd/cli/stake_penalty.go, whose
// spParseAddr decodes a hex CLI argument into a core.Address; this
// engine addresses accounts in base58 instead, so addresses parse
// through core.ParseAddress rather than hex.DecodeString.

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"shadowstake/core"
)

func parseUint64(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}

func parseUint32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	return uint32(v), err
}

func parseAddr(s string) (core.Address, error) {
	a, err := core.ParseAddress(s)
	if err != nil {
		return core.Address{}, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return a, nil
}

// buildContext assembles a core.CallContext from the root command's
// persistent --epoch/--now/--signer flags.
func buildContext(cmd *cobra.Command) (*core.CallContext, error) {
	epoch, err := cmd.Flags().GetUint32("epoch")
	if err != nil {
		return nil, err
	}
	now, err := cmd.Flags().GetInt64("now")
	if err != nil {
		return nil, err
	}
	signerStrs, err := cmd.Flags().GetStringSlice("signer")
	if err != nil {
		return nil, err
	}
	signers := make([]core.Address, 0, len(signerStrs))
	for _, s := range signerStrs {
		a, err := parseAddr(s)
		if err != nil {
			return nil, err
		}
		signers = append(signers, a)
	}
	return &core.CallContext{
		Signers: core.NewSignerSet(signers...),
		Epoch:   epoch,
		Now:     now,
	}, nil
}

func addContextFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().Uint32("epoch", 0, "current epoch for this call")
	cmd.PersistentFlags().Int64("now", 0, "current unix time in seconds for this call")
	cmd.PersistentFlags().StringSlice("signer", nil, "address authorized to sign this call (repeatable)")
}
