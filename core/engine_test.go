package core

import "testing"

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	led, err := NewLedger(tmpLedgerConfig(t))
	if err != nil {
		t.Fatalf("NewLedger: %v", err)
	}
	t.Cleanup(func() { led.Close() })
	return NewEngine(led, nil)
}

func ctxFor(signer Address, epoch uint32, now int64) *CallContext {
	return &CallContext{Signers: NewSignerSet(signer), Epoch: epoch, Now: now}
}

func ctxForAll(epoch uint32, now int64, signers ...Address) *CallContext {
	return &CallContext{Signers: NewSignerSet(signers...), Epoch: epoch, Now: now}
}

// bootstrapConfig initializes the Config singleton with uploader as the
// uploader address and funds owner with enough balance to provision and
// resize a reservation in the tests that follow.
func bootstrapConfig(t *testing.T, e *Engine, uploader, owner Address, fund uint64) {
	t.Helper()
	if _, err := e.InitializeConfig(ctxFor(admin1, 0, 0), uploader); err != nil {
		t.Fatalf("InitializeConfig: %v", err)
	}
	if fund > 0 {
		if err := e.ledger.Mint(owner, fund); err != nil {
			t.Fatalf("Mint: %v", err)
		}
	}
}
