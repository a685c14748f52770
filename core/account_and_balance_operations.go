package core

// account_and_balance_operations.go — a thin wallet-funding helper for
// the CLI and tests. Adapted from the teacher's AccountManager: that
// type kept its own mutex over Ledger.TokenBalances, which would race
// against Ledger's own locked Transfer/Mint/Burn methods if used
// concurrently with them, so Faucet delegates every mutation to the
// Ledger's already-synchronized methods instead of touching the map
// directly.

import "fmt"

// Faucet funds owner and uploader wallets for local development and
// tests, where there is no off-chain token-transfer path to rely on.
type Faucet struct {
	ledger *Ledger
}

// NewFaucet constructs a Faucet bound to the given ledger.
func NewFaucet(l *Ledger) *Faucet {
	return &Faucet{ledger: l}
}

// Fund mints amount shades directly into addr's balance.
func (f *Faucet) Fund(addr Address, amount uint64) error {
	if f.ledger == nil {
		return fmt.Errorf("faucet: nil ledger")
	}
	if amount == 0 {
		return fmt.Errorf("faucet: amount must be positive")
	}
	return f.ledger.Mint(addr, amount)
}

// Balance returns addr's current shade balance.
func (f *Faucet) Balance(addr Address) uint64 {
	if f.ledger == nil {
		return 0
	}
	return f.ledger.BalanceOf(addr)
}
