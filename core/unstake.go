package core

// unstake.go — the Unstake Ticket (spec §3.5): a small record plus a
// token account holding withdrawn-but-unclaimable shades, created
// lazily on the first size reduction and closed on successful claim.

// UnstakeTicket is the info half of the unstake pair; the token half
// lives as a Ledger balance at unstakeVaultAddress(reservation).
type UnstakeTicket struct {
	TimeLastUnstaked  int64
	EpochLastUnstaked uint32
	Unstaker          Address
}

func unstakeInfoKey(reservation Address) []byte {
	return []byte(unstakeInfoAddress(reservation).String())
}

func encodeUnstakeTicket(t *UnstakeTicket) []byte {
	e := &encoder{}
	e.disc(discUnstakeInfo)
	e.i64(t.TimeLastUnstaked)
	e.u32(t.EpochLastUnstaked)
	e.addr(t.Unstaker)
	return e.buf
}

func decodeUnstakeTicket(raw []byte) (*UnstakeTicket, error) {
	d := &decoder{buf: raw}
	if _, err := d.disc(); err != nil {
		return nil, err
	}
	t := &UnstakeTicket{}
	var err error
	if t.TimeLastUnstaked, err = d.i64(); err != nil {
		return nil, err
	}
	if t.EpochLastUnstaked, err = d.u32(); err != nil {
		return nil, err
	}
	if t.Unstaker, err = d.addr(); err != nil {
		return nil, err
	}
	return t, nil
}

func (e *Engine) loadUnstakeTicket(reservation Address) (*UnstakeTicket, error) {
	raw, err := e.ledger.GetState(unstakeInfoKey(reservation))
	if err != nil {
		return nil, newProgramError(ErrEmptyStakeAccount, "no unstake ticket pending for this reservation")
	}
	return decodeUnstakeTicket(raw)
}

// saveUnstakeTicket creates or overwrites the ticket. A second
// DecreaseStorage call before a claim simply restamps time/epoch and
// keeps the accumulated vault balance, matching "create if absent"
// in §4.2 (the ticket is addressed per-reservation, so a second
// withdrawal before a claim tops up the same ticket rather than
// opening a new one).
func (e *Engine) saveUnstakeTicket(reservation Address, t *UnstakeTicket) error {
	return e.ledger.SetState(unstakeInfoKey(reservation), encodeUnstakeTicket(t))
}

func (e *Engine) deleteUnstakeTicket(reservation Address) error {
	return e.ledger.DeleteState(unstakeInfoKey(reservation))
}
