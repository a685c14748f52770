package cli

// root_test.go exercises the command tree end to end against a throwaway
// ledger, using internal/testutil's Sandbox for the backing directory
// instead of t.TempDir() directly, the way the teacher's node-level
// integration tests isolate on-disk state per test.

import (
	"testing"

	"shadowstake/core"
	"shadowstake/internal/testutil"
)

func execRoot(t *testing.T, args ...string) error {
	t.Helper()
	c := Root()
	c.SetArgs(args)
	return c.Execute()
}

// TestCLIEndToEndProvisionAndQuery drives config init, faucet funding and
// reservation provisioning through the same cobra command tree a real
// operator invokes, then checks the resulting state through the engine the
// PersistentPreRunE middleware wired up, confirming the commands reach it.
func TestCLIEndToEndProvisionAndQuery(t *testing.T) {
	sb, err := testutil.NewSandbox()
	if err != nil {
		t.Fatalf("NewSandbox: %v", err)
	}
	defer sb.Cleanup()

	t.Setenv("LEDGER_PATH", sb.Path("ledger"))
	t.Setenv("LOG_LEVEL", "error")

	uploader := core.DeriveAddress("cli-test-uploader")
	owner := core.DeriveAddress("cli-test-owner")

	if err := execRoot(t, "config", "init", uploader.String(),
		"--signer", core.Admin1().String()); err != nil {
		t.Fatalf("config init: %v", err)
	}

	if err := execRoot(t, "faucet", "fund", owner.String(), "1048576"); err != nil {
		t.Fatalf("faucet fund: %v", err)
	}
	if bal := engine.Ledger().BalanceOf(owner); bal != 1048576 {
		t.Fatalf("owner balance after faucet fund = %d want 1048576", bal)
	}

	if err := execRoot(t, "reservation", "init", owner.String(), "cli-doc", "1048576",
		"--signer", uploader.String(), "--signer", owner.String()); err != nil {
		t.Fatalf("reservation init: %v", err)
	}

	addr := core.ReservationAddress(owner, 0)
	if err := execRoot(t, "reservation", "stake-vault", addr.String()); err != nil {
		t.Fatalf("reservation stake-vault: %v", err)
	}
	v, err := engine.StakeVault(addr)
	if err != nil {
		t.Fatalf("StakeVault: %v", err)
	}
	if v.VaultBalance != 1048576 {
		t.Fatalf("vault balance = %d want 1048576", v.VaultBalance)
	}

	if err := execRoot(t, "config", "show"); err != nil {
		t.Fatalf("config show: %v", err)
	}
}
