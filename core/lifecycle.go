package core

// lifecycle.go — metadata mutation and the deletion state machine
// (spec §4.3): Active ↔ MarkedForDeletion → Closed, and Active →
// Immutable.

// identifierRentPerByte is the nominal per-byte cost this engine
// charges or refunds on an identifier resize. The original program's
// equivalent is a Solana account-size rent delta; this engine has no
// on-disk rent concept, so a flat per-byte shade rate stands in for
// it (see DESIGN.md's Open-Question decision).
const identifierRentPerByte = 1

// UpdateAccount changes identifier and, for V1, owner2. Reject if
// immutable; V2 rejects any owner2 change (it has none to change).
func (e *Engine) UpdateAccount(ctx *CallContext, reservationAddr Address, newIdentifier *string, newOwner2 *Address) (Reservation, error) {
	r, err := e.loadReservation(reservationAddr)
	if err != nil {
		return nil, err
	}
	b := r.base()
	if err := requireNotImmutable(r); err != nil {
		return nil, err
	}
	if err := ctx.requireSigner(b.Owner1); err != nil {
		return nil, err
	}

	if newOwner2 != nil {
		v1, ok := r.(*ReservationV1)
		if !ok {
			return nil, newProgramError(ErrOnlyOneOwnerAllowedInV1_5, "v2 reservations cannot set a secondary owner")
		}
		v1.Owner2 = *newOwner2
	}

	if newIdentifier != nil {
		if err := validateIdentifier(*newIdentifier); err != nil {
			return nil, err
		}
		oldLen := int64(len(b.Identifier))
		newLen := int64(len(*newIdentifier))
		delta := newLen - oldLen
		switch {
		case delta > 0:
			cost := uint64(delta) * identifierRentPerByte
			if err := e.ledger.Transfer(b.Owner1, EmissionsWallet, cost); err != nil {
				return nil, newProgramError(ErrInsufficientFunds, err.Error())
			}
		case delta < 0:
			refund := uint64(-delta) * identifierRentPerByte
			if refund > 0 {
				if err := e.ledger.Transfer(EmissionsWallet, b.Owner1, refund); err != nil {
					return nil, newProgramError(ErrFailedToReturnUserFunds, err.Error())
				}
			}
		}
		b.Identifier = *newIdentifier
	}

	if err := e.saveReservation(reservationAddr, r); err != nil {
		return nil, err
	}
	e.log.WithField("reservation", reservationAddr.String()).Info("lifecycle: updated account metadata")
	return r, nil
}

// RequestDeleteAccount marks a reservation for deletion.
func (e *Engine) RequestDeleteAccount(ctx *CallContext, reservationAddr Address) (Reservation, error) {
	r, err := e.loadReservation(reservationAddr)
	if err != nil {
		return nil, err
	}
	b := r.base()
	if err := requireNotImmutable(r); err != nil {
		return nil, err
	}
	if err := ctx.requireSigner(b.Owner1); err != nil {
		return nil, err
	}
	if b.ToBeDeleted {
		return nil, newProgramError(ErrAlreadyMarkedForDeletion, "reservation is already marked for deletion")
	}
	b.ToBeDeleted = true
	b.DeleteRequestEpoch = ctx.Epoch
	if err := e.saveReservation(reservationAddr, r); err != nil {
		return nil, err
	}
	e.log.WithField("reservation", reservationAddr.String()).Info("lifecycle: marked for deletion")
	return r, nil
}

// UnmarkDeleteAccount clears a pending deletion mark.
func (e *Engine) UnmarkDeleteAccount(ctx *CallContext, reservationAddr Address) (Reservation, error) {
	r, err := e.loadReservation(reservationAddr)
	if err != nil {
		return nil, err
	}
	b := r.base()
	if err := requireNotImmutable(r); err != nil {
		return nil, err
	}
	if err := ctx.requireSigner(b.Owner1); err != nil {
		return nil, err
	}
	if !b.ToBeDeleted {
		return nil, newProgramError(ErrAccountNotMarkedToBeDeleted, "reservation is not marked for deletion")
	}
	vaultAddr := vaultAddress(reservationAddr)
	if e.ledger.BalanceOf(vaultAddr) == 0 {
		return nil, newProgramError(ErrEmptyStakeAccount, "cannot unmark deletion with an empty stake vault")
	}
	b.ToBeDeleted = false
	b.DeleteRequestEpoch = 0
	if err := e.saveReservation(reservationAddr, r); err != nil {
		return nil, err
	}
	e.log.WithField("reservation", reservationAddr.String()).Info("lifecycle: unmarked deletion")
	return r, nil
}

// DeleteAccount closes a reservation past its grace period, paid
// final fees first, and returns the remaining stake to the owner.
// The uploader must sign; caller receives any cranker fee.
func (e *Engine) DeleteAccount(ctx *CallContext, reservationAddr Address, caller Address) error {
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
	if b.Immutable {
		return newProgramError(ErrStorageAccountMarkedImmutable, "reservation is immutable")
	}
	if !b.ToBeDeleted {
		return newProgramError(ErrAccountNotMarkedToBeDeleted, "reservation is not marked for deletion")
	}
	if ctx.Epoch-b.DeleteRequestEpoch < DeletionGracePeriod {
		return newProgramError(ErrAccountStillInGracePeriod, "reservation is still in its deletion grace period")
	}

	vaultAddr := vaultAddress(reservationAddr)
	if _, err := e.crank(ctx, cfg, r, vaultAddr, caller); err != nil {
		return err
	}

	remaining := e.ledger.BalanceOf(vaultAddr)
	if remaining > 0 {
		if err := e.ledger.Transfer(vaultAddr, b.Owner1, remaining); err != nil {
			return newProgramError(ErrFailedToReturnUserFunds, err.Error())
		}
	}
	e.ledger.CloseAccount(vaultAddr)

	cfg.StorageAvailable += b.Storage
	if err := e.saveConfig(cfg); err != nil {
		return err
	}

	u, err := e.userInfo(b.Owner1)
	if err != nil {
		return err
	}
	u.DelCounter++
	if err := e.saveUserInfo(b.Owner1, u); err != nil {
		return err
	}

	if err := e.deleteReservation(reservationAddr); err != nil {
		return newProgramError(ErrFailedToCloseAccount, err.Error())
	}
	e.log.WithField("reservation", reservationAddr.String()).Info("lifecycle: deleted account")
	return nil
}

// MakeAccountImmutable cranks, settles the immutability cost against
// the vault (topping up from the owner if short), closes the vault,
// and marks the reservation immutable.
func (e *Engine) MakeAccountImmutable(ctx *CallContext, reservationAddr Address, caller Address) (Reservation, error) {
	cfg, err := e.loadConfig()
	if err != nil {
		return nil, err
	}
	r, err := e.loadReservation(reservationAddr)
	if err != nil {
		return nil, err
	}
	b := r.base()
	if err := requireNotImmutable(r); err != nil {
		return nil, err
	}
	if err := ctx.requireSigner(b.Owner1); err != nil {
		return nil, err
	}

	vaultAddr := vaultAddress(reservationAddr)
	if _, err := e.crank(ctx, cfg, r, vaultAddr, caller); err != nil {
		return nil, err
	}

	cost, err := storageCostChecked(b.Storage, cfg.ShadesPerGiB)
	if err != nil {
		return nil, err
	}
	vaultBalance := e.ledger.BalanceOf(vaultAddr)
	if vaultBalance >= cost {
		if cost > 0 {
			if err := e.ledger.Transfer(vaultAddr, EmissionsWallet, cost); err != nil {
				return nil, newProgramError(ErrFailedToTransferToEmissions, err.Error())
			}
		}
		refund := vaultBalance - cost
		if refund > 0 {
			if err := e.ledger.Transfer(vaultAddr, b.Owner1, refund); err != nil {
				return nil, newProgramError(ErrFailedToReturnUserFunds, err.Error())
			}
		}
	} else {
		if vaultBalance > 0 {
			if err := e.ledger.Transfer(vaultAddr, EmissionsWallet, vaultBalance); err != nil {
				return nil, newProgramError(ErrFailedToTransferToEmissions, err.Error())
			}
		}
		shortfall := cost - vaultBalance
		if shortfall > 0 {
			if err := e.ledger.Transfer(b.Owner1, EmissionsWallet, shortfall); err != nil {
				return nil, newProgramError(ErrInsufficientFunds, err.Error())
			}
		}
	}
	e.ledger.CloseAccount(vaultAddr)
	b.Immutable = true

	if err := e.saveReservation(reservationAddr, r); err != nil {
		return nil, err
	}
	e.log.WithField("reservation", reservationAddr.String()).Info("lifecycle: made account immutable")
	return r, nil
}

// RedeemRent closes an orphaned legacy file account, returning its
// rent to owner. Legacy V1-era accounts that predate the Stake Vault
// model have no reservation record to validate against beyond the
// address itself, so this is deliberately address-scoped rather than
// reservation-scoped.
func (e *Engine) RedeemRent(ctx *CallContext, legacyAccount Address, owner Address) error {
	if err := ctx.requireSigner(owner); err != nil {
		return err
	}
	if ok, _ := e.ledger.HasState(reservationKey(legacyAccount)); ok {
		return newProgramError(ErrFailedToCloseAccount, "account is not an orphaned legacy file account")
	}
	balance := e.ledger.BalanceOf(legacyAccount)
	if balance > 0 {
		if err := e.ledger.Transfer(legacyAccount, owner, balance); err != nil {
			return newProgramError(ErrFailedToReturnUserFunds, err.Error())
		}
	}
	e.ledger.CloseAccount(legacyAccount)
	e.log.WithField("account", legacyAccount.String()).Info("lifecycle: redeemed legacy rent")
	return nil
}
