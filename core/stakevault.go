package core

// stakevault.go — read-only snapshot of a reservation's stake vault and
// any pending unstake ticket, grounded on the teacher's
// core/liquidity_views.go (PoolView / AMM.Snapshot): a thin *View struct
// plus a getter, rather than a stored account, since the vault itself is
// just a ledger balance keyed off the reservation's derived address.

// StakeVaultView exposes the balances and addresses a client needs to
// reason about a reservation's staked funds without touching the ledger
// or reservation encoding directly.
type StakeVaultView struct {
	Reservation    Address
	Vault          Address
	VaultBalance   uint64
	UnstakeVault   Address
	UnstakeBalance uint64
	PendingUnstake bool
	UnstakeTicket  UnstakeTicket
}

// StakeVault reports the current stake-vault and unstake-vault state for
// a reservation. It is read-only: no crank, no claim, no authorization
// check — just a snapshot for CLI and test callers.
func (e *Engine) StakeVault(reservationAddr Address) (StakeVaultView, error) {
	if _, err := e.loadReservation(reservationAddr); err != nil {
		return StakeVaultView{}, err
	}
	vault := vaultAddress(reservationAddr)
	unstakeVault := unstakeVaultAddress(reservationAddr)
	view := StakeVaultView{
		Reservation:    reservationAddr,
		Vault:          vault,
		VaultBalance:   e.ledger.BalanceOf(vault),
		UnstakeVault:   unstakeVault,
		UnstakeBalance: e.ledger.BalanceOf(unstakeVault),
	}
	if t, err := e.loadUnstakeTicket(reservationAddr); err == nil {
		view.PendingUnstake = true
		view.UnstakeTicket = *t
	}
	return view, nil
}
