package core

// authz.go — the shared signer, size and state-precondition checks
// that §5 and §7 describe as enforced by "the ledger itself" rather
// than by custom error codes, plus the handful of checks the spec
// does assign a dedicated code to (identifier length, immutability,
// CSAM ban). Centralised here so every operation in provisioning.go,
// lifecycle.go, migration.go and csam.go applies them identically.
//
// It also holds the checked bytes×rate arithmetic every fee and stake
// computation routes through: multiplication happens in a math/big
// intermediate so a large admin-set rate can never silently wrap a
// uint64, per §7's u128-intermediate requirement.

import "math/big"

func (e *Engine) requireUploaderSigned(ctx *CallContext, cfg *Config) error {
	if !ctx.Signers.HasSigned(cfg.Uploader) {
		return newProgramError(ErrMissingSigner, "uploader signature required")
	}
	return nil
}

func requireNotImmutable(r Reservation) error {
	if r.base().Immutable {
		return newProgramError(ErrStorageAccountMarkedImmutable, "reservation is immutable")
	}
	return nil
}

func requireNotCsamBanned(u *UserInfo) error {
	if u.LifetimeBadCsam {
		return newProgramError(ErrHasHadBadCsam, "owner is permanently banned from provisioning")
	}
	return nil
}

func validateIdentifier(id string) error {
	if len(id) > MaxIdentifierSize {
		return newProgramError(ErrIdentifierExceededMaxLength, "identifier exceeds max length")
	}
	return nil
}

func validateSize(bytes uint64, cfg *Config) error {
	if bytes < cfg.MinAccountSize {
		return newProgramError(ErrAccountTooSmall, "requested size below minimum account size")
	}
	if bytes > cfg.MaxAccountSize {
		return newProgramError(ErrExceededStorageLimit, "requested size exceeds maximum account size")
	}
	return nil
}

// checkedMulDiv computes (a*b)/divisor using a math/big intermediate,
// the u128-equivalent the spec requires: shadesPerGiB and
// ShadesPerGiBPerEpoch are admin-settable with no upper bound (§4.1
// UpdateConfig/MutableFees), so a plain uint64 multiply can overflow
// and wrap for a plausible admin-set rate. Returns
// ErrUnsignedIntegerCastFailed if the quotient itself does not fit
// back into a uint64.
func checkedMulDiv(a, b, divisor uint64) (quotient, remainder uint64, err error) {
	product := new(big.Int).Mul(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b))
	q, r := new(big.Int).QuoRem(product, new(big.Int).SetUint64(divisor), new(big.Int))
	if !q.IsUint64() {
		return 0, 0, newArithmeticError(ErrUnsignedIntegerCastFailed, "bytes*rate computation overflowed uint64")
	}
	return q.Uint64(), r.Uint64(), nil
}

// checkedMul3Div is checkedMulDiv with a third multiplicand, for the
// crank's elapsed*rate*storage fee formula.
func checkedMul3Div(a, b, c, divisor uint64) (uint64, error) {
	product := new(big.Int).Mul(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b))
	product.Mul(product, new(big.Int).SetUint64(c))
	q := new(big.Int).Quo(product, new(big.Int).SetUint64(divisor))
	if !q.IsUint64() {
		return 0, newArithmeticError(ErrUnsignedIntegerCastFailed, "elapsed*rate*storage computation overflowed uint64")
	}
	return q.Uint64(), nil
}

// storageCostChecked computes bytes * shadesPerGiB / BYTES_PER_GIB.
func storageCostChecked(bytes, shadesPerGiB uint64) (uint64, error) {
	cost, _, err := checkedMulDiv(bytes, shadesPerGiB, BytesPerGiB)
	return cost, err
}

// storageCostCeilChecked is storageCostChecked rounded up, with a
// floor of 1 shade, used by IncreaseStorage so a nonzero byte increase
// is never free.
func storageCostCeilChecked(bytes, shadesPerGiB uint64) (uint64, error) {
	cost, rem, err := checkedMulDiv(bytes, shadesPerGiB, BytesPerGiB)
	if err != nil {
		return 0, err
	}
	if rem != 0 {
		cost++
	}
	if cost == 0 {
		cost = 1
	}
	return cost, nil
}
