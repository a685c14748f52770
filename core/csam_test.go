package core

import "testing"

func TestBadCsamBansOwnerAndReclaimsQuota(t *testing.T) {
	e := newTestEngine(t)
	uploader := Address{0x50}
	owner := Address{0x51}
	bootstrapConfig(t, e, uploader, owner, 1<<20)

	if _, err := e.InitializeAccount(ctxForAll(0, 0, uploader, owner), KindV2, owner, "doc", 1<<20, AddressZero); err != nil {
		t.Fatalf("InitializeAccount: %v", err)
	}
	addr := reservationAddress(owner, 0)

	cfgBefore, err := e.ConfigView()
	if err != nil {
		t.Fatalf("ConfigView: %v", err)
	}

	if err := e.BadCsam(ctxFor(uploader, 0, 0), addr, 1<<20); err != nil {
		t.Fatalf("BadCsam: %v", err)
	}

	if _, err := e.loadReservation(addr); err == nil {
		t.Fatalf("expected reservation to be closed after BadCsam")
	}
	if bal := e.ledger.BalanceOf(vaultAddress(addr)); bal != 0 {
		t.Fatalf("expected vault drained, got %d", bal)
	}

	u, err := e.UserInfoView(owner)
	if err != nil {
		t.Fatalf("UserInfoView: %v", err)
	}
	if !u.LifetimeBadCsam {
		t.Fatalf("expected owner permanently banned")
	}

	cfgAfter, err := e.ConfigView()
	if err != nil {
		t.Fatalf("ConfigView: %v", err)
	}
	if cfgAfter.StorageAvailable != cfgBefore.StorageAvailable+(1<<20) {
		t.Fatalf("storage quota = %d want %d", cfgAfter.StorageAvailable, cfgBefore.StorageAvailable+(1<<20))
	}

	if _, err := e.InitializeAccount(ctxForAll(0, 0, uploader, owner), KindV2, owner, "doc2", 1<<20, AddressZero); err == nil {
		t.Fatalf("expected banned owner to be rejected from provisioning again")
	} else if code, _ := CodeOf(err); code != ErrHasHadBadCsam {
		t.Fatalf("code = %v want ErrHasHadBadCsam", code)
	}
}

func TestBadCsamRejectsOverLargeStorageAvailableBeforeTouchingVault(t *testing.T) {
	e := newTestEngine(t)
	uploader := Address{0x50}
	owner := Address{0x51}
	bootstrapConfig(t, e, uploader, owner, 1<<20)

	if _, err := e.InitializeAccount(ctxForAll(0, 0, uploader, owner), KindV2, owner, "doc", 1<<20, AddressZero); err != nil {
		t.Fatalf("InitializeAccount: %v", err)
	}
	addr := reservationAddress(owner, 0)

	if err := e.BadCsam(ctxFor(uploader, 0, 0), addr, (1<<20)+1); err == nil {
		t.Fatalf("expected error for storage_available exceeding the reservation's storage")
	} else if code, _ := CodeOf(err); code != ErrRemovingTooMuchStorage {
		t.Fatalf("code = %v want ErrRemovingTooMuchStorage", code)
	}

	if bal := e.ledger.BalanceOf(vaultAddress(addr)); bal != 1<<20 {
		t.Fatalf("vault balance = %d want %d: a rejected BadCsam must leave the vault untouched", bal, uint64(1)<<20)
	}
	if _, err := e.loadReservation(addr); err != nil {
		t.Fatalf("expected the reservation to still exist after a rejected BadCsam: %v", err)
	}
}

func TestBadCsamRequiresUploaderSignature(t *testing.T) {
	e := newTestEngine(t)
	uploader := Address{0x50}
	owner := Address{0x51}
	bootstrapConfig(t, e, uploader, owner, 1<<20)

	if _, err := e.InitializeAccount(ctxForAll(0, 0, uploader, owner), KindV2, owner, "doc", 1<<20, AddressZero); err != nil {
		t.Fatalf("InitializeAccount: %v", err)
	}
	addr := reservationAddress(owner, 0)

	if err := e.BadCsam(ctxFor(owner, 0, 0), addr, 1<<20); err == nil {
		t.Fatalf("expected error: BadCsam requires the uploader's signature")
	}
}
