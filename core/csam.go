package core

// csam.go — content-screening ejection (spec §4.6). The original program
// hands the closed account's rent to the uploader as restitution for the
// wasted upload; this engine has no separate rent concept for
// reservation accounts (see DESIGN.md), so the vault's remaining balance
// is swept to the emissions wallet instead, and the owner is
// permanently banned from provisioning again.

// BadCsam drains the vault, returns storageAvailable bytes to the
// global quota, bans owner from ever provisioning again, and closes
// the reservation.
func (e *Engine) BadCsam(ctx *CallContext, reservationAddr Address, storageAvailable uint64) error {
	cfg, err := e.loadConfig()
	if err != nil {
		return err
	}
	if err := e.requireUploaderSigned(ctx, cfg); err != nil {
		return err
	}
	r, err := e.loadReservation(reservationAddr)
	if err != nil {
		return err
	}
	b := r.base()

	if storageAvailable > b.Storage {
		return newProgramError(ErrRemovingTooMuchStorage, "storage_available argument exceeds reservation's storage")
	}

	vaultAddr := vaultAddress(reservationAddr)
	balance := e.ledger.BalanceOf(vaultAddr)
	if balance > 0 {
		if err := e.ledger.Transfer(vaultAddr, EmissionsWallet, balance); err != nil {
			return newProgramError(ErrFailedToTransferToEmissions, err.Error())
		}
	}
	e.ledger.CloseAccount(vaultAddr)

	b.Storage -= storageAvailable
	cfg.StorageAvailable += storageAvailable
	if err := e.saveConfig(cfg); err != nil {
		return err
	}

	u, err := e.userInfo(b.Owner1)
	if err != nil {
		return err
	}
	u.LifetimeBadCsam = true
	if err := e.saveUserInfo(b.Owner1, u); err != nil {
		return err
	}

	if err := e.deleteReservation(reservationAddr); err != nil {
		return newProgramError(ErrFailedToCloseAccount, err.Error())
	}
	e.log.WithField("reservation", reservationAddr.String()).WithField("owner", b.Owner1.String()).Warn("csam: reservation ejected, owner permanently banned")
	return nil
}
