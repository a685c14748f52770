package core

// errors.go — the wire-visible error taxonomy of §6.3. Every error code a
// client can depend on is a distinct exported ErrorCode constant;
// ProgramError pairs one with call-specific context, and CodeOf recovers
// the code from any error that is or wraps a *ProgramError.

import (
	"errors"
	"fmt"
)

// ErrorCode is a stable, wire-visible identifier for a program error.
type ErrorCode string

const (
	ErrNotEnoughStorage               ErrorCode = "NotEnoughStorage"
	ErrStorageAccountMarkedImmutable  ErrorCode = "StorageAccountMarkedImmutable"
	ErrClaimingStakeTooSoon           ErrorCode = "ClaimingStakeTooSoon"
	ErrRemovingTooMuchStorage         ErrorCode = "RemovingTooMuchStorage"
	ErrUnsignedIntegerCastFailed      ErrorCode = "UnsignedIntegerCastFailed"
	ErrAccountStillInGracePeriod      ErrorCode = "AccountStillInGracePeriod"
	ErrAccountNotMarkedToBeDeleted    ErrorCode = "AccountNotMarkedToBeDeleted"
	ErrAlreadyMarkedForDeletion       ErrorCode = "AlreadyMarkedForDeletion"
	ErrEmptyStakeAccount              ErrorCode = "EmptyStakeAccount"
	ErrFileMarkedImmutable            ErrorCode = "FileMarkedImmutable"
	ErrNoStorageIncrease              ErrorCode = "NoStorageIncrease"
	ErrExceededStorageLimit           ErrorCode = "ExceededStorageLimit"
	ErrInsufficientFunds              ErrorCode = "InsufficientFunds"
	ErrAccountTooSmall                ErrorCode = "AccountTooSmall"
	ErrInvalidTokenTransferAmounts    ErrorCode = "InvalidTokenTransferAmounts"
	ErrFailedToCloseAccount           ErrorCode = "FailedToCloseAccount"
	ErrFailedToTransferToEmissions    ErrorCode = "FailedToTransferToEmissionsWallet"
	ErrFailedToReturnUserFunds        ErrorCode = "FailedToReturnUserFunds"
	ErrNeedSomeFees                   ErrorCode = "NeedSomeFees"
	ErrNeedSomeCrankBps               ErrorCode = "NeedSomeCrankBps"
	ErrIdentifierExceededMaxLength    ErrorCode = "IdentifierExceededMaxLength"
	ErrOnlyAdmin1CanChangeAdmins      ErrorCode = "OnlyAdmin1CanChangeAdmins"
	ErrOnlyOneOwnerAllowedInV1_5      ErrorCode = "OnlyOneOwnerAllowedInV1_5"
	ErrHasHadBadCsam                  ErrorCode = "HasHadBadCsam"

	// ErrMissingSigner and ErrBadAddress are not part of the spec's
	// enumerated wire taxonomy (§7: "uploader/admin/owner authorization
	// failures surface as generic signer/constraint errors rather than
	// custom codes"). They exist so those generic failures still carry a
	// consistent type.
	ErrMissingSigner ErrorCode = "MissingSigner"
	ErrBadAddress    ErrorCode = "BadAddressConstraint"
	ErrConfigExists  ErrorCode = "ConfigAlreadyInitialized"
	ErrNotFound      ErrorCode = "AccountNotFound"
)

// ProgramError is the concrete error type every engine operation returns
// on failure. It distinguishes precondition errors (state/input violates
// an invariant, transaction aborts before any mutation) from arithmetic
// errors, per §7.
type ProgramError struct {
	Code        ErrorCode
	Msg         string
	Arithmetic  bool
	wrapped     error
}

func (e *ProgramError) Error() string {
	if e.Msg == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func (e *ProgramError) Unwrap() error { return e.wrapped }

// Is lets errors.Is(err, target) match a target *ProgramError by comparing
// codes instead of pointer identity; any other target never matches.
func (e *ProgramError) Is(target error) bool {
	var pe *ProgramError
	if errors.As(target, &pe) {
		return pe.Code == e.Code
	}
	return false
}

func newProgramError(code ErrorCode, msg string) *ProgramError {
	return &ProgramError{Code: code, Msg: msg}
}

func newArithmeticError(code ErrorCode, msg string) *ProgramError {
	return &ProgramError{Code: code, Msg: msg, Arithmetic: true}
}

// CodeOf extracts the ErrorCode from err if it is (or wraps) a
// *ProgramError, and ok=false otherwise.
func CodeOf(err error) (ErrorCode, bool) {
	var pe *ProgramError
	if errors.As(err, &pe) {
		return pe.Code, true
	}
	return "", false
}
