package core

import "testing"

func TestUpdateAccountChangesIdentifierAndOwner2(t *testing.T) {
	e := newTestEngine(t)
	uploader := Address{0x60}
	owner := Address{0x61}
	owner2 := Address{0x62}
	bootstrapConfig(t, e, uploader, owner, 1<<20)
	if err := e.ledger.Mint(owner, 1<<10); err != nil {
		t.Fatalf("Mint: %v", err)
	}

	if _, err := e.InitializeAccount(ctxForAll(0, 0, uploader, owner), KindV1, owner, "short", 1<<20, AddressZero); err != nil {
		t.Fatalf("InitializeAccount: %v", err)
	}
	addr := reservationAddress(owner, 0)

	newID := "a-much-longer-identifier"
	r, err := e.UpdateAccount(ctxFor(owner, 0, 0), addr, &newID, &owner2)
	if err != nil {
		t.Fatalf("UpdateAccount: %v", err)
	}
	if r.base().Identifier != newID {
		t.Fatalf("identifier = %q want %q", r.base().Identifier, newID)
	}
	v1 := r.(*ReservationV1)
	if v1.Owner2 != owner2 {
		t.Fatalf("owner2 = %v want %v", v1.Owner2, owner2)
	}
}

func TestUpdateAccountRejectsOwner2OnV2(t *testing.T) {
	e := newTestEngine(t)
	uploader := Address{0x60}
	owner := Address{0x61}
	owner2 := Address{0x62}
	bootstrapConfig(t, e, uploader, owner, 1<<20)

	if _, err := e.InitializeAccount(ctxForAll(0, 0, uploader, owner), KindV2, owner, "doc", 1<<20, AddressZero); err != nil {
		t.Fatalf("InitializeAccount: %v", err)
	}
	addr := reservationAddress(owner, 0)

	if _, err := e.UpdateAccount(ctxFor(owner, 0, 0), addr, nil, &owner2); err == nil {
		t.Fatalf("expected error setting owner2 on a V2 reservation")
	}
}

func TestRequestAndUnmarkDeleteAccount(t *testing.T) {
	e := newTestEngine(t)
	uploader := Address{0x60}
	owner := Address{0x61}
	bootstrapConfig(t, e, uploader, owner, 1<<20)

	if _, err := e.InitializeAccount(ctxForAll(0, 0, uploader, owner), KindV2, owner, "doc", 1<<20, AddressZero); err != nil {
		t.Fatalf("InitializeAccount: %v", err)
	}
	addr := reservationAddress(owner, 0)

	if _, err := e.RequestDeleteAccount(ctxFor(owner, 0, 0), addr); err != nil {
		t.Fatalf("RequestDeleteAccount: %v", err)
	}
	if _, err := e.RequestDeleteAccount(ctxFor(owner, 0, 0), addr); err == nil {
		t.Fatalf("expected error requesting delete twice")
	}
	r, err := e.UnmarkDeleteAccount(ctxFor(owner, 0, 0), addr)
	if err != nil {
		t.Fatalf("UnmarkDeleteAccount: %v", err)
	}
	if r.base().ToBeDeleted {
		t.Fatalf("expected ToBeDeleted cleared")
	}
	if _, err := e.UnmarkDeleteAccount(ctxFor(owner, 0, 0), addr); err == nil {
		t.Fatalf("expected error unmarking a reservation that is not marked")
	}
}

func TestDeleteAccountRequiresGracePeriodAndUploaderSignature(t *testing.T) {
	e := newTestEngine(t)
	uploader := Address{0x60}
	owner := Address{0x61}
	caller := Address{0x63}
	bootstrapConfig(t, e, uploader, owner, 1<<20)

	if _, err := e.InitializeAccount(ctxForAll(0, 0, uploader, owner), KindV2, owner, "doc", 1<<20, AddressZero); err != nil {
		t.Fatalf("InitializeAccount: %v", err)
	}
	addr := reservationAddress(owner, 0)
	if _, err := e.RequestDeleteAccount(ctxFor(owner, 0, 0), addr); err != nil {
		t.Fatalf("RequestDeleteAccount: %v", err)
	}

	if err := e.DeleteAccount(ctxFor(uploader, 0, 0), addr, caller); err == nil {
		t.Fatalf("expected error deleting before the grace period elapses")
	}

	if err := e.DeleteAccount(ctxFor(uploader, DeletionGracePeriod, 0), addr, caller); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
	if _, err := e.loadReservation(addr); err == nil {
		t.Fatalf("expected reservation to be closed")
	}
	if bal := e.ledger.BalanceOf(owner); bal != 1<<20 {
		t.Fatalf("owner balance = %d want %d (full refund, no fees active)", bal, uint64(1)<<20)
	}
}

func TestMakeAccountImmutableClosesVaultAndBlocksFurtherMutation(t *testing.T) {
	e := newTestEngine(t)
	uploader := Address{0x60}
	owner := Address{0x61}
	caller := Address{0x63}
	bootstrapConfig(t, e, uploader, owner, 1<<20)

	if _, err := e.InitializeAccount(ctxForAll(0, 0, uploader, owner), KindV2, owner, "doc", 1<<20, AddressZero); err != nil {
		t.Fatalf("InitializeAccount: %v", err)
	}
	addr := reservationAddress(owner, 0)

	r, err := e.MakeAccountImmutable(ctxForAll(0, 0, uploader, owner), addr, caller)
	if err != nil {
		t.Fatalf("MakeAccountImmutable: %v", err)
	}
	if !r.base().Immutable {
		t.Fatalf("expected reservation marked immutable")
	}
	if bal := e.ledger.BalanceOf(vaultAddress(addr)); bal != 0 {
		t.Fatalf("expected vault closed, got balance %d", bal)
	}
	if _, err := e.MakeAccountImmutable(ctxForAll(0, 0, uploader, owner), addr, caller); err == nil {
		t.Fatalf("expected error making an already-immutable reservation immutable again")
	}
	if _, err := e.RequestDeleteAccount(ctxFor(owner, 0, 0), addr); err == nil {
		t.Fatalf("expected error requesting deletion of an immutable reservation")
	}
}

func TestRedeemRentRejectsLiveReservation(t *testing.T) {
	e := newTestEngine(t)
	uploader := Address{0x60}
	owner := Address{0x61}
	bootstrapConfig(t, e, uploader, owner, 1<<20)

	if _, err := e.InitializeAccount(ctxForAll(0, 0, uploader, owner), KindV2, owner, "doc", 1<<20, AddressZero); err != nil {
		t.Fatalf("InitializeAccount: %v", err)
	}
	addr := reservationAddress(owner, 0)

	if err := e.RedeemRent(ctxFor(owner, 0, 0), addr, owner); err == nil {
		t.Fatalf("expected error redeeming rent on a live reservation")
	}
}

func TestRedeemRentClosesOrphanedLegacyAccount(t *testing.T) {
	e := newTestEngine(t)
	owner := Address{0x61}
	legacy := Address{0x70}
	if err := e.ledger.Mint(legacy, 500); err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if err := e.RedeemRent(ctxFor(owner, 0, 0), legacy, owner); err != nil {
		t.Fatalf("RedeemRent: %v", err)
	}
	if bal := e.ledger.BalanceOf(owner); bal != 500 {
		t.Fatalf("owner balance = %d want 500", bal)
	}
	if bal := e.ledger.BalanceOf(legacy); bal != 0 {
		t.Fatalf("legacy balance = %d want 0", bal)
	}
}
