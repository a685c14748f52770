package core

// common_structs.go – centralised struct definitions referenced across the
// core package, kept separate to avoid import cycles between the ledger,
// the account model and the instruction handlers.
//
// Only the primitives the storage/stake accounting engine actually needs
// live here (Address, Hash, the StateRW contract and the Ledger's own
// field set). Blockchain-wide concerns such as blocks, UTXOs, contracts,
// AMM pools and P2P peers have no role in an accounting core with no
// scheduler and no network layer, so they have no place here.

import (
	"sync"
)

// Address is a 20-byte account identifier, the local stand-in for a Solana
// public key / PDA. It is produced either by truncating a Keccak256 digest
// (see DeriveAddress) or by decoding a base58-encoded key supplied by a
// caller.
type Address [20]byte

// Hash is a 32-byte digest, used for the ledger's state root.
type Hash [32]byte

// SignerSet records which addresses have authorized the current call. It
// stands in for the set of signing accounts a Solana transaction carries;
// every operation that requires a signature checks membership here instead
// of verifying a cryptographic signature, since off-chain key custody is
// explicitly out of scope for this core.
type SignerSet map[Address]bool

// HasSigned reports whether addr is present in the signer set.
func (s SignerSet) HasSigned(addr Address) bool {
	if s == nil {
		return false
	}
	return s[addr]
}

// NewSignerSet builds a SignerSet from a list of addresses.
func NewSignerSet(addrs ...Address) SignerSet {
	s := make(SignerSet, len(addrs))
	for _, a := range addrs {
		s[a] = true
	}
	return s
}

// CallContext bundles the per-call state a Solana instruction would read
// from the transaction and the Clock sysvar: who signed, the current epoch
// and wall-clock time. Every externally visible Engine operation takes one
// of these instead of reaching for global mutable time, keeping epoch
// advancement an explicit, caller-driven action as §5 of the spec requires.
type CallContext struct {
	Signers SignerSet
	Epoch   uint32
	Now     int64 // unix seconds
}

// requireSigner returns a ProgramError unless addr has signed.
func (c *CallContext) requireSigner(addr Address) error {
	if c == nil || !c.Signers.HasSigned(addr) {
		return newProgramError(ErrMissingSigner, "required signature missing")
	}
	return nil
}

// StateIterator walks a key range of the Ledger's state map in an
// unspecified but stable-for-the-call order.
type StateIterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Error() error
}

// StateRW is the generic key/value contract the accounting engine is built
// on. It mirrors the teacher platform's StateRW interface so that any
// compatible backend (the in-memory/WAL-backed Ledger here, or a future
// disk-backed store) can serve the same account model.
type StateRW interface {
	GetState(key []byte) ([]byte, error)
	SetState(key, value []byte) error
	DeleteState(key []byte) error
	HasState(key []byte) (bool, error)
	PrefixIterator(prefix []byte) StateIterator
}

// LedgerConfig configures where a Ledger persists its write-ahead log and
// periodic snapshots.
type LedgerConfig struct {
	WALPath          string
	SnapshotPath     string
	SnapshotInterval int // operations between snapshots; 0 disables
	ArchivePath      string
	PruneInterval    int // stored on the Ledger; no Ledger operation reads it
}

// Ledger is the accounting substrate: a crash-recoverable key/value store
// (for account records) plus a flat balance table (for the fungible shade
// token). It is the deterministic hash-addressed store §9 of the spec asks
// reimplementations to use in place of Solana's PDA-addressed account
// space.
type Ledger struct {
	mu sync.RWMutex

	State         map[string][]byte
	TokenBalances map[string]uint64

	walFile          *walJournal
	snapshotPath     string
	snapshotInterval int
	opsSinceSnapshot int
	archivePath      string
	pruneInterval    int
}

// snapshotDoc is the on-disk JSON shape of a Ledger snapshot.
type snapshotDoc struct {
	State         map[string][]byte `json:"state"`
	TokenBalances map[string]uint64 `json:"token_balances"`
}
