package core

// migration.go — the two-step V1→V2 migration helper (spec §4.5). The
// split exists so the original Solana transaction could close and
// create accounts within a single instruction's account-count limit;
// this engine has no such limit, but the two-call shape is kept
// because §8's testable property 8 (round-trip of migration) and any
// off-chain client logic are both written against it.

// MigrationHelper is the temporary holding record between step 1 and
// step 2, a verbatim copy of the closed V1 reservation's fields.
type MigrationHelper struct {
	V1 ReservationV1
}

func migrationHelperKey(reservation Address) []byte {
	return []byte(migrationHelperAddress(reservation).String())
}

func encodeMigrationHelper(h *MigrationHelper) []byte {
	e := &encoder{}
	e.disc(discReservationV1)
	encodeReservationBase(e, &h.V1.ReservationBase)
	e.boolean(h.V1.IsStatic)
	e.u32(h.V1.InitCounter)
	e.u32(h.V1.DelCounter)
	e.u64(h.V1.StorageAvailable)
	e.addr(h.V1.Owner2)
	e.addr(h.V1.ShdwPayer)
	e.u64(h.V1.TotalCostOfCurrentStorage)
	e.u64(h.V1.TotalFeesPaid)
	return e.buf
}

func decodeMigrationHelper(raw []byte) (*MigrationHelper, error) {
	r, err := decodeReservation(raw)
	if err != nil {
		return nil, err
	}
	v1, ok := r.(*ReservationV1)
	if !ok {
		return nil, newProgramError(ErrBadAddress, "migration helper does not hold a V1 record")
	}
	return &MigrationHelper{V1: *v1}, nil
}

// MigrateStep1 closes the V1 reservation and writes its contents into
// the migration-helper slot. No tokens move here; the stake vault is
// untouched and keeps its address, since vault addresses derive from the
// unchanged reservation address.
func (e *Engine) MigrateStep1(ctx *CallContext, reservationAddr Address) error {
	r, err := e.loadReservation(reservationAddr)
	if err != nil {
		return err
	}
	v1, ok := r.(*ReservationV1)
	if !ok {
		return newProgramError(ErrBadAddress, "reservation is not a V1 record")
	}
	if err := ctx.requireSigner(v1.Owner1); err != nil {
		return err
	}

	if err := e.ledger.SetState(migrationHelperKey(reservationAddr), encodeMigrationHelper(&MigrationHelper{V1: *v1})); err != nil {
		return err
	}
	if err := e.deleteReservation(reservationAddr); err != nil {
		return newProgramError(ErrFailedToCloseAccount, err.Error())
	}
	e.log.WithField("reservation", reservationAddr.String()).Info("migration: step 1 complete")
	return nil
}

// MigrateStep2 reads the migration-helper, creates a fresh V2
// reservation at the original address with the transcribed common
// fields, and closes the helper.
func (e *Engine) MigrateStep2(ctx *CallContext, reservationAddr Address) (Reservation, error) {
	raw, err := e.ledger.GetState(migrationHelperKey(reservationAddr))
	if err != nil {
		return nil, newProgramError(ErrNotFound, "no pending migration for this reservation")
	}
	helper, err := decodeMigrationHelper(raw)
	if err != nil {
		return nil, err
	}
	if err := ctx.requireSigner(helper.V1.Owner1); err != nil {
		return nil, err
	}

	v2 := &ReservationV2{ReservationBase: helper.V1.ReservationBase}
	if err := e.saveReservation(reservationAddr, v2); err != nil {
		return nil, err
	}
	if err := e.ledger.DeleteState(migrationHelperKey(reservationAddr)); err != nil {
		return nil, newProgramError(ErrFailedToCloseAccount, err.Error())
	}
	e.log.WithField("reservation", reservationAddr.String()).Info("migration: step 2 complete")
	return v2, nil
}
