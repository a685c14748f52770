package core

import "testing"

func TestReservationAddressIsDeterministicAndOwnerScoped(t *testing.T) {
	owner := Address{0x01}
	a1 := ReservationAddress(owner, 0)
	a2 := ReservationAddress(owner, 0)
	if a1 != a2 {
		t.Fatalf("expected deterministic derivation, got %v vs %v", a1, a2)
	}
	if a3 := ReservationAddress(owner, 1); a3 == a1 {
		t.Fatalf("expected distinct addresses for distinct counter seeds")
	}
	if a4 := ReservationAddress(Address{0x02}, 0); a4 == a1 {
		t.Fatalf("expected distinct addresses for distinct owners")
	}
}

func TestVaultAndUnstakeAddressesDeriveFromReservation(t *testing.T) {
	r1 := ReservationAddress(Address{0x01}, 0)
	r2 := ReservationAddress(Address{0x02}, 0)
	if vaultAddress(r1) == vaultAddress(r2) {
		t.Fatalf("expected distinct vault addresses for distinct reservations")
	}
	if vaultAddress(r1) == unstakeVaultAddress(r1) {
		t.Fatalf("expected vault and unstake vault to derive to distinct addresses")
	}
	if unstakeInfoAddress(r1) == migrationHelperAddress(r1) {
		t.Fatalf("expected unstake-info and migration-helper to derive to distinct addresses")
	}
}

func TestReservationV1EncodeDecodeRoundTrip(t *testing.T) {
	v1 := &ReservationV1{
		ReservationBase: ReservationBase{
			Immutable:          false,
			ToBeDeleted:        true,
			DeleteRequestEpoch: 4,
			Storage:            1 << 20,
			Owner1:             Address{0x01},
			AccountCounterSeed: 3,
			CreationTime:       100,
			CreationEpoch:      1,
			LastFeeEpoch:       2,
			Identifier:         "doc-1",
		},
		IsStatic:                  true,
		InitCounter:               5,
		DelCounter:                1,
		StorageAvailable:          1 << 10,
		Owner2:                    Address{0x02},
		ShdwPayer:                 Address{0x03},
		TotalCostOfCurrentStorage: 42,
		TotalFeesPaid:             7,
	}
	got, err := decodeReservation(encodeReservation(v1))
	if err != nil {
		t.Fatalf("decodeReservation: %v", err)
	}
	v1Got, ok := got.(*ReservationV1)
	if !ok {
		t.Fatalf("expected *ReservationV1, got %T", got)
	}
	if *v1Got != *v1 {
		t.Fatalf("round trip mismatch: got %+v want %+v", v1Got, v1)
	}
}

func TestReservationV2EncodeDecodeRoundTrip(t *testing.T) {
	v2 := &ReservationV2{
		ReservationBase: ReservationBase{
			Storage:    1 << 20,
			Owner1:     Address{0x01},
			Identifier: "doc-2",
		},
	}
	got, err := decodeReservation(encodeReservation(v2))
	if err != nil {
		t.Fatalf("decodeReservation: %v", err)
	}
	v2Got, ok := got.(*ReservationV2)
	if !ok {
		t.Fatalf("expected *ReservationV2, got %T", got)
	}
	if *v2Got != *v2 {
		t.Fatalf("round trip mismatch: got %+v want %+v", v2Got, v2)
	}
}

func TestIsImmutableAndIsOwner(t *testing.T) {
	owner := Address{0x01}
	r := &ReservationV2{ReservationBase: ReservationBase{Owner1: owner, Immutable: true}}
	if !IsImmutable(r) {
		t.Fatalf("expected IsImmutable true")
	}
	if !IsOwner(r, owner) {
		t.Fatalf("expected IsOwner true for owner1")
	}
	if IsOwner(r, Address{0x02}) {
		t.Fatalf("expected IsOwner false for a different address")
	}
}

func TestSaveLoadDeleteReservation(t *testing.T) {
	e := newTestEngine(t)
	addr := ReservationAddress(Address{0x01}, 0)
	r := &ReservationV2{ReservationBase: ReservationBase{Owner1: Address{0x01}, Storage: 10, Identifier: "x"}}

	if _, err := e.loadReservation(addr); err == nil {
		t.Fatalf("expected error loading a nonexistent reservation")
	}
	if err := e.saveReservation(addr, r); err != nil {
		t.Fatalf("saveReservation: %v", err)
	}
	got, err := e.loadReservation(addr)
	if err != nil {
		t.Fatalf("loadReservation: %v", err)
	}
	if got.base().Storage != 10 {
		t.Fatalf("loaded storage = %d want 10", got.base().Storage)
	}
	if err := e.deleteReservation(addr); err != nil {
		t.Fatalf("deleteReservation: %v", err)
	}
	if _, err := e.loadReservation(addr); err == nil {
		t.Fatalf("expected error loading a deleted reservation")
	}
}
