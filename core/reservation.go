package core

// reservation.go — the storage reservation record (spec §3.3), the
// program's central account type. V1 and V2 are a tagged union behind
// the Reservation interface, dispatched centrally by Engine rather
// than through per-variant method sprawl, the "tagged-union records
// with a central dispatch" option the original design notes allow.
//
// Grounded on the teacher's rental_management.go CRUD shape (key
// derivation + load/mutate/store around a single JSON-ish record),
// generalised to the binary §6.2 layout and the two-variant union.

import (
	"fmt"
)

// ReservationKind distinguishes the two on-wire variants.
type ReservationKind uint8

const (
	KindV1 ReservationKind = 1
	KindV2 ReservationKind = 2
)

// ReservationBase holds the fields common to both variants (spec
// §3.3, "Common fields").
type ReservationBase struct {
	Immutable          bool
	ToBeDeleted        bool
	DeleteRequestEpoch uint32
	Storage            uint64
	Owner1             Address
	AccountCounterSeed uint32
	CreationTime       uint32
	CreationEpoch      uint32
	LastFeeEpoch       uint32
	Identifier         string
}

// ReservationV1 carries the legacy fields a V1 reservation still
// tracks (spec §3.3, "V1 only"). Owner2 and the legacy counters are
// advisory only: no operation conditions its behavior on Owner2 once
// created (see DESIGN.md's Open-Question decision), and InitCounter/
// DelCounter are persisted for wire compatibility but never read by
// this engine's own logic.
type ReservationV1 struct {
	ReservationBase
	IsStatic                  bool
	InitCounter               uint32
	DelCounter                uint32
	StorageAvailable          uint64
	Owner2                    Address
	ShdwPayer                 Address
	TotalCostOfCurrentStorage uint64
	TotalFeesPaid             uint64
}

// ReservationV2 strips the legacy fields and collapses to a single
// owner (spec §3.3, "V2").
type ReservationV2 struct {
	ReservationBase
}

// Reservation is the capability interface §9's central-dispatch option
// asks for: every lifecycle/crank/provisioning operation is written
// against this interface, not against the concrete variant.
type Reservation interface {
	base() *ReservationBase
	Kind() ReservationKind
}

func (r *ReservationV1) base() *ReservationBase { return &r.ReservationBase }
func (r *ReservationV1) Kind() ReservationKind  { return KindV1 }
func (r *ReservationV2) base() *ReservationBase { return &r.ReservationBase }
func (r *ReservationV2) Kind() ReservationKind  { return KindV2 }

// IsImmutable reports whether further mutation is blocked.
func IsImmutable(r Reservation) bool { return r.base().Immutable }

// IsOwner reports whether addr is the reservation's owner_1. V1's
// owner_2 never grants write authority on its own (see ReservationV1
// doc comment); only owner_1 and the uploader are checked by engine
// operations.
func IsOwner(r Reservation, addr Address) bool { return r.base().Owner1 == addr }

// reservationAddress derives the reservation's PDA-equivalent from
// owner and the UserInfo.account_counter snapshot at creation time.
func reservationAddress(owner Address, counterSeed uint32) Address {
	return DeriveAddress("storage-account", owner, counterSeed)
}

func reservationKey(addr Address) []byte { return []byte(addr.String()) }

func vaultAddress(reservation Address) Address {
	return DeriveAddress("stake-account", reservation)
}

func unstakeInfoAddress(reservation Address) Address {
	return DeriveAddress("unstake-info", reservation)
}

func unstakeVaultAddress(reservation Address) Address {
	return DeriveAddress("unstake-account", reservation)
}

func migrationHelperAddress(reservation Address) Address {
	return DeriveAddress("migration-helper", reservation)
}

func encodeReservationBase(e *encoder, b *ReservationBase) {
	e.boolean(b.Immutable)
	e.boolean(b.ToBeDeleted)
	e.u32(b.DeleteRequestEpoch)
	e.u64(b.Storage)
	e.addr(b.Owner1)
	e.u32(b.AccountCounterSeed)
	e.u32(b.CreationTime)
	e.u32(b.CreationEpoch)
	e.u32(b.LastFeeEpoch)
	e.str(b.Identifier)
}

func decodeReservationBase(d *decoder) (ReservationBase, error) {
	var b ReservationBase
	var err error
	if b.Immutable, err = d.boolean(); err != nil {
		return b, err
	}
	if b.ToBeDeleted, err = d.boolean(); err != nil {
		return b, err
	}
	if b.DeleteRequestEpoch, err = d.u32(); err != nil {
		return b, err
	}
	if b.Storage, err = d.u64(); err != nil {
		return b, err
	}
	if b.Owner1, err = d.addr(); err != nil {
		return b, err
	}
	if b.AccountCounterSeed, err = d.u32(); err != nil {
		return b, err
	}
	if b.CreationTime, err = d.u32(); err != nil {
		return b, err
	}
	if b.CreationEpoch, err = d.u32(); err != nil {
		return b, err
	}
	if b.LastFeeEpoch, err = d.u32(); err != nil {
		return b, err
	}
	if b.Identifier, err = d.str(); err != nil {
		return b, err
	}
	return b, nil
}

func encodeReservation(r Reservation) []byte {
	e := &encoder{}
	switch v := r.(type) {
	case *ReservationV1:
		e.disc(discReservationV1)
		encodeReservationBase(e, &v.ReservationBase)
		e.boolean(v.IsStatic)
		e.u32(v.InitCounter)
		e.u32(v.DelCounter)
		e.u64(v.StorageAvailable)
		e.addr(v.Owner2)
		e.addr(v.ShdwPayer)
		e.u64(v.TotalCostOfCurrentStorage)
		e.u64(v.TotalFeesPaid)
	case *ReservationV2:
		e.disc(discReservationV2)
		encodeReservationBase(e, &v.ReservationBase)
	default:
		panic(fmt.Sprintf("core: unknown reservation variant %T", r))
	}
	return e.buf
}

func decodeReservation(raw []byte) (Reservation, error) {
	d := &decoder{buf: raw}
	disc, err := d.disc()
	if err != nil {
		return nil, err
	}
	switch disc {
	case discReservationV1:
		base, err := decodeReservationBase(d)
		if err != nil {
			return nil, err
		}
		v := &ReservationV1{ReservationBase: base}
		if v.IsStatic, err = d.boolean(); err != nil {
			return nil, err
		}
		if v.InitCounter, err = d.u32(); err != nil {
			return nil, err
		}
		if v.DelCounter, err = d.u32(); err != nil {
			return nil, err
		}
		if v.StorageAvailable, err = d.u64(); err != nil {
			return nil, err
		}
		if v.Owner2, err = d.addr(); err != nil {
			return nil, err
		}
		if v.ShdwPayer, err = d.addr(); err != nil {
			return nil, err
		}
		if v.TotalCostOfCurrentStorage, err = d.u64(); err != nil {
			return nil, err
		}
		if v.TotalFeesPaid, err = d.u64(); err != nil {
			return nil, err
		}
		return v, nil
	case discReservationV2:
		base, err := decodeReservationBase(d)
		if err != nil {
			return nil, err
		}
		return &ReservationV2{ReservationBase: base}, nil
	default:
		return nil, fmt.Errorf("core: unrecognized reservation discriminator %x", disc)
	}
}

func (e *Engine) loadReservation(addr Address) (Reservation, error) {
	raw, err := e.ledger.GetState(reservationKey(addr))
	if err != nil {
		return nil, newProgramError(ErrNotFound, "reservation not found")
	}
	return decodeReservation(raw)
}

func (e *Engine) saveReservation(addr Address, r Reservation) error {
	return e.ledger.SetState(reservationKey(addr), encodeReservation(r))
}

func (e *Engine) deleteReservation(addr Address) error {
	return e.ledger.DeleteState(reservationKey(addr))
}

// ReservationAddress exposes the deterministic address derivation for
// callers (CLI, tests) that need to locate a reservation without
// first loading it.
func ReservationAddress(owner Address, counterSeed uint32) Address {
	return reservationAddress(owner, counterSeed)
}
