package core

import "testing"

func TestCrankInactiveWithoutMutableFees(t *testing.T) {
	e := newTestEngine(t)
	uploader := Address{0x30}
	owner := Address{0x31}
	caller := Address{0x32}
	bootstrapConfig(t, e, uploader, owner, 1<<20)

	if _, err := e.InitializeAccount(ctxForAll(0, 0, uploader, owner), KindV2, owner, "doc", 1<<20, AddressZero); err != nil {
		t.Fatalf("InitializeAccount: %v", err)
	}
	addr := reservationAddress(owner, 0)

	res, err := e.Crank(ctxFor(caller, 10, 0), addr, caller)
	if err != nil {
		t.Fatalf("Crank: %v", err)
	}
	if res.Active {
		t.Fatalf("expected crank to be inactive with no mutable fee rate configured")
	}
}

func TestCrankSplitsFeeByCrankBps(t *testing.T) {
	e := newTestEngine(t)
	uploader := Address{0x30}
	owner := Address{0x31}
	caller := Address{0x32}
	bootstrapConfig(t, e, uploader, owner, 1<<20)

	if _, err := e.InitializeAccount(ctxForAll(0, 0, uploader, owner), KindV2, owner, "doc", 1<<20, AddressZero); err != nil {
		t.Fatalf("InitializeAccount: %v", err)
	}
	addr := reservationAddress(owner, 0)

	rate := BytesPerGiB // so fee per elapsed epoch equals storage in bytes: elapsed*rate*storage/BytesPerGiB = elapsed*storage
	bps := uint16(2500)
	if _, err := e.MutableFees(ctxFor(admin1, 0, 0), admin1, &rate, &bps); err != nil {
		t.Fatalf("MutableFees: %v", err)
	}

	res, err := e.Crank(ctxFor(caller, 1, 0), addr, caller)
	if err != nil {
		t.Fatalf("Crank: %v", err)
	}
	if !res.Active {
		t.Fatalf("expected crank to be active")
	}
	wantTotal := uint64(1) * rate * (1 << 20) / BytesPerGiB
	if got := res.EmissionsFee + res.CrankerFee; got != wantTotal {
		t.Fatalf("total fee = %d want %d", got, wantTotal)
	}
	wantCranker := wantTotal * uint64(bps) / 10000
	if res.CrankerFee != wantCranker {
		t.Fatalf("cranker fee = %d want %d", res.CrankerFee, wantCranker)
	}
	if bal := e.ledger.BalanceOf(caller); bal != res.CrankerFee {
		t.Fatalf("caller balance = %d want %d", bal, res.CrankerFee)
	}
}

func TestCrankCapsFeeAtVaultBalanceAndMarksForDeletion(t *testing.T) {
	e := newTestEngine(t)
	uploader := Address{0x30}
	owner := Address{0x31}
	caller := Address{0x32}
	bootstrapConfig(t, e, uploader, owner, 1<<20)

	if _, err := e.InitializeAccount(ctxForAll(0, 0, uploader, owner), KindV2, owner, "doc", 1<<20, AddressZero); err != nil {
		t.Fatalf("InitializeAccount: %v", err)
	}
	addr := reservationAddress(owner, 0)

	rate := BytesPerGiB * 1000 // deliberately huge, to exhaust the vault quickly
	bps := uint16(1000)
	if _, err := e.MutableFees(ctxFor(admin1, 0, 0), admin1, &rate, &bps); err != nil {
		t.Fatalf("MutableFees: %v", err)
	}

	res, err := e.Crank(ctxFor(caller, 1, 0), addr, caller)
	if err != nil {
		t.Fatalf("Crank: %v", err)
	}
	if !res.Exhausted {
		t.Fatalf("expected vault to be exhausted by an oversized fee")
	}
	if bal := e.ledger.BalanceOf(vaultAddress(addr)); bal != 0 {
		t.Fatalf("expected vault fully drained, got %d", bal)
	}

	r, err := e.loadReservation(addr)
	if err != nil {
		t.Fatalf("loadReservation: %v", err)
	}
	if !r.base().ToBeDeleted {
		t.Fatalf("expected reservation marked for deletion after exhausting its vault")
	}
}

func TestCrankRejectsImmutableReservation(t *testing.T) {
	e := newTestEngine(t)
	uploader := Address{0x30}
	owner := Address{0x31}
	caller := Address{0x32}
	bootstrapConfig(t, e, uploader, owner, 1<<21)

	if _, err := e.InitializeAccount(ctxForAll(0, 0, uploader, owner), KindV2, owner, "doc", 1<<20, AddressZero); err != nil {
		t.Fatalf("InitializeAccount: %v", err)
	}
	addr := reservationAddress(owner, 0)
	if _, err := e.MakeAccountImmutable(ctxForAll(0, 0, uploader, owner), addr, owner); err != nil {
		t.Fatalf("MakeAccountImmutable: %v", err)
	}

	if _, err := e.Crank(ctxFor(caller, 10, 0), addr, caller); err == nil {
		t.Fatalf("expected error cranking an immutable reservation")
	}
}
