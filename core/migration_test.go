package core

import "testing"

func TestMigrateStep1ThenStep2RoundTrips(t *testing.T) {
	e := newTestEngine(t)
	uploader := Address{0x40}
	owner := Address{0x41}
	owner2 := Address{0x42}
	bootstrapConfig(t, e, uploader, owner, 1<<20)

	r, err := e.InitializeAccount(ctxForAll(0, 0, uploader, owner), KindV1, owner, "legacy-doc", 1<<20, owner2)
	if err != nil {
		t.Fatalf("InitializeAccount: %v", err)
	}
	addr := reservationAddress(owner, 0)
	v1 := r.(*ReservationV1)
	if v1.Owner2 != owner2 {
		t.Fatalf("owner2 = %v want %v", v1.Owner2, owner2)
	}

	if err := e.MigrateStep1(ctxFor(owner, 0, 0), addr); err != nil {
		t.Fatalf("MigrateStep1: %v", err)
	}
	if _, err := e.loadReservation(addr); err == nil {
		t.Fatalf("expected reservation slot to be closed after step 1")
	}

	r2, err := e.MigrateStep2(ctxFor(owner, 0, 0), addr)
	if err != nil {
		t.Fatalf("MigrateStep2: %v", err)
	}
	v2, ok := r2.(*ReservationV2)
	if !ok {
		t.Fatalf("expected *ReservationV2 after migration, got %T", r2)
	}
	if v2.Storage != 1<<20 || v2.Owner1 != owner || v2.Identifier != "legacy-doc" {
		t.Fatalf("migrated fields mismatch: %+v", v2)
	}

	if _, err := e.MigrateStep2(ctxFor(owner, 0, 0), addr); err == nil {
		t.Fatalf("expected error: migration helper already consumed")
	}
}

func TestMigrateStep1RejectsNonV1(t *testing.T) {
	e := newTestEngine(t)
	uploader := Address{0x40}
	owner := Address{0x41}
	bootstrapConfig(t, e, uploader, owner, 1<<20)

	if _, err := e.InitializeAccount(ctxForAll(0, 0, uploader, owner), KindV2, owner, "doc", 1<<20, AddressZero); err != nil {
		t.Fatalf("InitializeAccount: %v", err)
	}
	addr := reservationAddress(owner, 0)

	if err := e.MigrateStep1(ctxFor(owner, 0, 0), addr); err == nil {
		t.Fatalf("expected error migrating a V2 reservation")
	}
}
