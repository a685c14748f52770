package core

// provisioning.go — account creation and resizing (spec §4.2).

// InitializeAccount creates a new reservation for owner. Pass variant
// KindV1 (with an optional owner2) or KindV2 (owner2 must be
// AddressZero; a non-zero owner2 with V2 is rejected per §6.3's
// OnlyOneOwnerAllowedInV1_5).
func (e *Engine) InitializeAccount(ctx *CallContext, kind ReservationKind, owner Address, identifier string, bytes uint64, owner2 Address) (Reservation, error) {
	cfg, err := e.loadConfig()
	if err != nil {
		return nil, err
	}
	if err := e.requireUploaderSigned(ctx, cfg); err != nil {
		return nil, err
	}
	if err := ctx.requireSigner(owner); err != nil {
		return nil, err
	}
	if kind == KindV2 && owner2 != AddressZero {
		return nil, newProgramError(ErrOnlyOneOwnerAllowedInV1_5, "v2 reservations accept only one owner")
	}
	if err := validateIdentifier(identifier); err != nil {
		return nil, err
	}
	if err := validateSize(bytes, cfg); err != nil {
		return nil, err
	}

	u, err := e.userInfo(owner)
	if err != nil {
		return nil, err
	}
	if err := requireNotCsamBanned(u); err != nil {
		return nil, err
	}

	seed := u.AccountCounter
	addr := reservationAddress(owner, seed)
	if ok, _ := e.ledger.HasState(reservationKey(addr)); ok {
		return nil, newProgramError(ErrBadAddress, "reservation address already in use")
	}

	base := ReservationBase{
		Immutable:          false,
		ToBeDeleted:        false,
		Storage:            bytes,
		Owner1:             owner,
		AccountCounterSeed: seed,
		CreationTime:       uint32(ctx.Now),
		CreationEpoch:      ctx.Epoch,
		LastFeeEpoch:       ctx.Epoch,
		Identifier:         identifier,
	}

	var r Reservation
	switch kind {
	case KindV1:
		r = &ReservationV1{ReservationBase: base, Owner2: owner2, ShdwPayer: owner}
	case KindV2:
		r = &ReservationV2{ReservationBase: base}
	default:
		return nil, newProgramError(ErrBadAddress, "unknown reservation kind")
	}

	if cfg.StorageAvailable < bytes {
		return nil, newProgramError(ErrNotEnoughStorage, "global storage quota exhausted")
	}

	cost, err := storageCostChecked(bytes, cfg.ShadesPerGiB)
	if err != nil {
		return nil, err
	}
	if e.ledger.BalanceOf(owner) < cost {
		return nil, newProgramError(ErrInsufficientFunds, "owner balance insufficient for required stake")
	}
	vaultAddr := vaultAddress(addr)
	if cost > 0 {
		if err := e.ledger.Transfer(owner, vaultAddr, cost); err != nil {
			return nil, newProgramError(ErrInsufficientFunds, err.Error())
		}
	}

	cfg.StorageAvailable -= bytes
	u.AccountCounter++

	if err := e.saveConfig(cfg); err != nil {
		return nil, err
	}
	if err := e.saveUserInfo(owner, u); err != nil {
		return nil, err
	}
	if err := e.saveReservation(addr, r); err != nil {
		return nil, err
	}
	e.log.WithField("reservation", addr.String()).Info("provisioning: initialized account")
	return r, nil
}

// IncreaseStorage adds bytes to a mutable reservation, charging the
// owner into the Stake Vault.
func (e *Engine) IncreaseStorage(ctx *CallContext, reservationAddr Address, additional uint64) (Reservation, error) {
	cfg, err := e.loadConfig()
	if err != nil {
		return nil, err
	}
	if err := e.requireUploaderSigned(ctx, cfg); err != nil {
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
	if additional == 0 {
		return nil, newProgramError(ErrNoStorageIncrease, "additional bytes must be nonzero")
	}
	if b.Storage+additional > cfg.MaxAccountSize {
		return nil, newProgramError(ErrExceededStorageLimit, "resulting size exceeds maximum account size")
	}

	cost, err := storageCostCeilChecked(additional, cfg.ShadesPerGiB)
	if err != nil {
		return nil, err
	}
	vaultAddr := vaultAddress(reservationAddr)
	if err := e.ledger.Transfer(b.Owner1, vaultAddr, cost); err != nil {
		return nil, newProgramError(ErrInsufficientFunds, err.Error())
	}
	b.Storage += additional

	if err := e.saveReservation(reservationAddr, r); err != nil {
		return nil, err
	}
	e.log.WithField("reservation", reservationAddr.String()).Info("provisioning: increased storage")
	return r, nil
}

// IncreaseImmutableStorage is IncreaseStorage's counterpart for
// immutable reservations: payment goes directly to the emissions
// wallet since immutable reservations have no vault.
func (e *Engine) IncreaseImmutableStorage(ctx *CallContext, reservationAddr Address, additional uint64) (Reservation, error) {
	cfg, err := e.loadConfig()
	if err != nil {
		return nil, err
	}
	if err := e.requireUploaderSigned(ctx, cfg); err != nil {
		return nil, err
	}
	r, err := e.loadReservation(reservationAddr)
	if err != nil {
		return nil, err
	}
	b := r.base()
	if !b.Immutable {
		return nil, newProgramError(ErrStorageAccountMarkedImmutable, "reservation is not immutable")
	}
	if additional == 0 {
		return nil, newProgramError(ErrNoStorageIncrease, "additional bytes must be nonzero")
	}
	if b.Storage+additional > cfg.MaxAccountSize {
		return nil, newProgramError(ErrExceededStorageLimit, "resulting size exceeds maximum account size")
	}

	cost, err := storageCostCeilChecked(additional, cfg.ShadesPerGiB)
	if err != nil {
		return nil, err
	}
	if err := e.ledger.Transfer(b.Owner1, EmissionsWallet, cost); err != nil {
		return nil, newProgramError(ErrInsufficientFunds, err.Error())
	}
	b.Storage += additional

	if err := e.saveReservation(reservationAddr, r); err != nil {
		return nil, err
	}
	e.log.WithField("reservation", reservationAddr.String()).Info("provisioning: increased immutable storage")
	return r, nil
}

// DecreaseStorage shrinks a mutable reservation and opens (or tops
// up) an unstake ticket with the refund.
func (e *Engine) DecreaseStorage(ctx *CallContext, reservationAddr Address, removed uint64, caller Address) (Reservation, error) {
	cfg, err := e.loadConfig()
	if err != nil {
		return nil, err
	}
	if err := e.requireUploaderSigned(ctx, cfg); err != nil {
		return nil, err
	}
	r, err := e.loadReservation(reservationAddr)
	if err != nil {
		return nil, err
	}
	if err := requireNotImmutable(r); err != nil {
		return nil, err
	}
	b := r.base()
	if removed > b.Storage {
		return nil, newProgramError(ErrRemovingTooMuchStorage, "cannot remove more storage than is reserved")
	}

	vaultAddr := vaultAddress(reservationAddr)
	if _, err := e.crank(ctx, cfg, r, vaultAddr, caller); err != nil {
		return nil, err
	}

	vaultBalance := e.ledger.BalanceOf(vaultAddr)
	var refund uint64
	if b.Storage > 0 {
		refund, _, err = checkedMulDiv(removed, vaultBalance, b.Storage)
		if err != nil {
			return nil, err
		}
	}
	if refund > vaultBalance {
		refund = vaultBalance
	}

	if refund > 0 {
		unstakeVaultAddr := unstakeVaultAddress(reservationAddr)
		if err := e.ledger.Transfer(vaultAddr, unstakeVaultAddr, refund); err != nil {
			return nil, newProgramError(ErrInvalidTokenTransferAmounts, err.Error())
		}
		if err := e.saveUnstakeTicket(reservationAddr, &UnstakeTicket{
			TimeLastUnstaked:  ctx.Now,
			EpochLastUnstaked: ctx.Epoch,
			Unstaker:          caller,
		}); err != nil {
			return nil, err
		}
	}
	b.Storage -= removed

	if err := e.saveReservation(reservationAddr, r); err != nil {
		return nil, err
	}
	e.log.WithField("reservation", reservationAddr.String()).Info("provisioning: decreased storage")
	return r, nil
}

// ClaimStake finalizes a previously started withdrawal, once both the
// time and epoch delays have elapsed.
func (e *Engine) ClaimStake(ctx *CallContext, reservationAddr Address, signer Address) error {
	if err := ctx.requireSigner(signer); err != nil {
		return err
	}
	ticket, err := e.loadUnstakeTicket(reservationAddr)
	if err != nil {
		return err
	}
	if signer != ticket.Unstaker {
		return newProgramError(ErrBadAddress, "signer is not the unstaker of record")
	}
	if ctx.Now-ticket.TimeLastUnstaked < UnstakeTimePeriod {
		return newProgramError(ErrClaimingStakeTooSoon, "unstake time period has not elapsed")
	}
	if ctx.Epoch-ticket.EpochLastUnstaked < UnstakeEpochPeriod {
		return newProgramError(ErrClaimingStakeTooSoon, "unstake epoch period has not elapsed")
	}

	unstakeVaultAddr := unstakeVaultAddress(reservationAddr)
	balance := e.ledger.BalanceOf(unstakeVaultAddr)
	if balance > 0 {
		if err := e.ledger.Transfer(unstakeVaultAddr, signer, balance); err != nil {
			return newProgramError(ErrFailedToReturnUserFunds, err.Error())
		}
	}
	e.ledger.CloseAccount(unstakeVaultAddr)
	if err := e.deleteUnstakeTicket(reservationAddr); err != nil {
		return err
	}
	e.log.WithField("reservation", reservationAddr.String()).Info("provisioning: claimed stake")
	return nil
}

// RefreshStake tops the vault back up to storage*shades_per_gib/2^30
// and, on success, clears a pending deletion mark.
func (e *Engine) RefreshStake(ctx *CallContext, reservationAddr Address, payer Address) (Reservation, error) {
	cfg, err := e.loadConfig()
	if err != nil {
		return nil, err
	}
	r, err := e.loadReservation(reservationAddr)
	if err != nil {
		return nil, err
	}
	if err := requireNotImmutable(r); err != nil {
		return nil, err
	}
	if err := ctx.requireSigner(payer); err != nil {
		return nil, err
	}
	b := r.base()

	vaultAddr := vaultAddress(reservationAddr)
	required, err := storageCostChecked(b.Storage, cfg.ShadesPerGiB)
	if err != nil {
		return nil, err
	}
	current := e.ledger.BalanceOf(vaultAddr)
	if required > current {
		topUp := required - current
		if err := e.ledger.Transfer(payer, vaultAddr, topUp); err != nil {
			return nil, newProgramError(ErrInsufficientFunds, err.Error())
		}
	}

	b.ToBeDeleted = false
	b.DeleteRequestEpoch = 0

	if err := e.saveReservation(reservationAddr, r); err != nil {
		return nil, err
	}
	e.log.WithField("reservation", reservationAddr.String()).Info("provisioning: refreshed stake")
	return r, nil
}

// TopUp (SDK-only per §4.2) transfers an arbitrary caller-specified
// amount into the vault, with no effect on the deletion flag.
func (e *Engine) TopUp(ctx *CallContext, reservationAddr Address, payer Address, amount uint64) error {
	if err := ctx.requireSigner(payer); err != nil {
		return err
	}
	if _, err := e.loadReservation(reservationAddr); err != nil {
		return err
	}
	vaultAddr := vaultAddress(reservationAddr)
	if err := e.ledger.Transfer(payer, vaultAddr, amount); err != nil {
		return newProgramError(ErrInsufficientFunds, err.Error())
	}
	return nil
}
