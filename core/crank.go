package core

// crank.go — the fee engine (spec §4.4). Grounded on the teacher's
// TxFeeManager.Distribute (transaction_fee_distribution_management.go):
// same shape (collect a pool, split by a fixed rate, transfer each
// share out), adapted from a global three-way split to a per-vault,
// time-proportional two-way split driven by Config's mutable-fee
// state instead of a hard-coded percentage.

// EmissionsWallet is the protocol-wide fee sink, the crank's
// counterpart to the teacher's FeeCollectorAccount/LoanPoolAccount
// singletons.
var EmissionsWallet = DeriveAddress("emissions-wallet")

// CrankResult reports the amounts moved by a single crank invocation,
// so lifecycle operations that crank internally can net refunds
// against the post-crank vault balance.
type CrankResult struct {
	Active       bool // false when mutable fees are inactive: a no-op
	EmissionsFee uint64
	CrankerFee   uint64
	Exhausted    bool // true if the fee cap hit the vault balance
}

// crank runs the fee engine for reservation r, whose vault lives at
// vaultAddr, paying the cranker share to caller. It mutates r's
// LastFeeEpoch and ToBeDeleted/DeleteRequestEpoch fields in place but
// does not persist r; callers persist after crank returns alongside
// whatever else the enclosing operation changes.
func (e *Engine) crank(ctx *CallContext, cfg *Config, r Reservation, vaultAddr Address, caller Address) (CrankResult, error) {
	b := r.base()
	if b.Immutable {
		return CrankResult{}, newProgramError(ErrStorageAccountMarkedImmutable, "cannot crank an immutable reservation")
	}
	if cfg.MutableFeeStartEpoch == nil {
		return CrankResult{Active: false}, nil
	}

	begin := *cfg.MutableFeeStartEpoch
	if b.LastFeeEpoch > begin {
		begin = b.LastFeeEpoch
	}
	end := ctx.Epoch
	if end <= begin {
		return CrankResult{Active: true}, nil
	}

	elapsed := uint64(end - begin)
	feeRaw, err := checkedMul3Div(elapsed, cfg.ShadesPerGiBPerEpoch, b.Storage, BytesPerGiB)
	if err != nil {
		return CrankResult{}, err
	}

	vaultBalance := e.ledger.BalanceOf(vaultAddr)
	exhausted := false
	fee := feeRaw
	if fee > vaultBalance {
		fee = vaultBalance
		exhausted = true
	}
	if exhausted {
		b.ToBeDeleted = true
		b.DeleteRequestEpoch = ctx.Epoch
	}
	if fee == 0 {
		return CrankResult{Active: true, Exhausted: exhausted}, nil
	}

	b.LastFeeEpoch = end

	crankerFee, _, err := checkedMulDiv(fee, uint64(cfg.CrankBps), 10000)
	if err != nil {
		return CrankResult{}, err
	}
	emissionsFee := fee - crankerFee

	if emissionsFee > 0 {
		if err := e.ledger.Transfer(vaultAddr, EmissionsWallet, emissionsFee); err != nil {
			return CrankResult{}, newProgramError(ErrFailedToTransferToEmissions, err.Error())
		}
	}
	if crankerFee > 0 {
		if err := e.ledger.Transfer(vaultAddr, caller, crankerFee); err != nil {
			return CrankResult{}, newProgramError(ErrFailedToTransferToEmissions, err.Error())
		}
	}

	e.log.WithField("emissions_fee", emissionsFee).WithField("cranker_fee", crankerFee).Info("crank: fees collected")
	return CrankResult{Active: true, EmissionsFee: emissionsFee, CrankerFee: crankerFee, Exhausted: exhausted}, nil
}

// Crank is the externally-visible, anyone-may-call operation: loads
// the reservation, runs the fee engine, and persists the result.
func (e *Engine) Crank(ctx *CallContext, reservationAddr Address, caller Address) (CrankResult, error) {
	cfg, err := e.loadConfig()
	if err != nil {
		return CrankResult{}, err
	}
	r, err := e.loadReservation(reservationAddr)
	if err != nil {
		return CrankResult{}, err
	}
	vaultAddr := vaultAddress(reservationAddr)
	res, err := e.crank(ctx, cfg, r, vaultAddr, caller)
	if err != nil {
		return CrankResult{}, err
	}
	if res.Active {
		if err := e.saveReservation(reservationAddr, r); err != nil {
			return CrankResult{}, err
		}
	}
	return res, nil
}
