package core

import "testing"

func TestStakeVaultReportsBalancesAndPendingUnstake(t *testing.T) {
	e := newTestEngine(t)
	uploader := Address{0x80}
	owner := Address{0x81}
	bootstrapConfig(t, e, uploader, owner, 1<<20)

	if _, err := e.InitializeAccount(ctxForAll(0, 0, uploader, owner), KindV2, owner, "doc", 1<<20, AddressZero); err != nil {
		t.Fatalf("InitializeAccount: %v", err)
	}
	addr := reservationAddress(owner, 0)

	v, err := e.StakeVault(addr)
	if err != nil {
		t.Fatalf("StakeVault: %v", err)
	}
	if v.VaultBalance != 1<<20 {
		t.Fatalf("vault balance = %d want %d", v.VaultBalance, uint64(1)<<20)
	}
	if v.PendingUnstake {
		t.Fatalf("expected no pending unstake before any DecreaseStorage")
	}

	if _, err := e.DecreaseStorage(ctxForAll(0, 0, uploader), addr, 1<<19, owner); err != nil {
		t.Fatalf("DecreaseStorage: %v", err)
	}
	v, err = e.StakeVault(addr)
	if err != nil {
		t.Fatalf("StakeVault: %v", err)
	}
	if !v.PendingUnstake {
		t.Fatalf("expected a pending unstake ticket after DecreaseStorage")
	}
	if v.UnstakeBalance == 0 {
		t.Fatalf("expected a nonzero unstake vault balance")
	}
	if v.UnstakeTicket.Unstaker != owner {
		t.Fatalf("unstaker = %v want %v", v.UnstakeTicket.Unstaker, owner)
	}
}

func TestStakeVaultRejectsUnknownReservation(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.StakeVault(Address{0x99}); err == nil {
		t.Fatalf("expected error for an unknown reservation address")
	}
}
