package core

// userinfo.go — the per-owner UserInfo record (spec §3.2). Lazily
// created on first provisioning; tracks the seed counters used to
// derive reservation addresses and the CSAM lifetime ban flag.

// UserInfo is the per-owner accounting record.
type UserInfo struct {
	AccountCounter  uint32
	DelCounter      uint32
	AgreedToTOS     bool
	LifetimeBadCsam bool
}

func userInfoKey(owner Address) []byte {
	return []byte(DeriveAddress("user-info", owner).String())
}

func encodeUserInfo(u *UserInfo) []byte {
	e := &encoder{}
	e.disc(discUserInfo)
	e.u32(u.AccountCounter)
	e.u32(u.DelCounter)
	e.boolean(u.AgreedToTOS)
	e.boolean(u.LifetimeBadCsam)
	return e.buf
}

func decodeUserInfo(raw []byte) (*UserInfo, error) {
	d := &decoder{buf: raw}
	if _, err := d.disc(); err != nil {
		return nil, err
	}
	u := &UserInfo{}
	var err error
	if u.AccountCounter, err = d.u32(); err != nil {
		return nil, err
	}
	if u.DelCounter, err = d.u32(); err != nil {
		return nil, err
	}
	if u.AgreedToTOS, err = d.boolean(); err != nil {
		return nil, err
	}
	if u.LifetimeBadCsam, err = d.boolean(); err != nil {
		return nil, err
	}
	return u, nil
}

// userInfo loads the owner's UserInfo, lazily creating a zero-valued
// one if it does not yet exist. The zero value's AgreedToTOS is false;
// callers that require ToS agreement must check it explicitly.
func (e *Engine) userInfo(owner Address) (*UserInfo, error) {
	raw, err := e.ledger.GetState(userInfoKey(owner))
	if err != nil {
		return &UserInfo{}, nil
	}
	return decodeUserInfo(raw)
}

func (e *Engine) saveUserInfo(owner Address, u *UserInfo) error {
	return e.ledger.SetState(userInfoKey(owner), encodeUserInfo(u))
}

// UserInfoView returns a read-only snapshot of owner's UserInfo, for
// the CLI's `user info` command.
func (e *Engine) UserInfoView(owner Address) (UserInfo, error) {
	u, err := e.userInfo(owner)
	if err != nil {
		return UserInfo{}, err
	}
	return *u, nil
}

// AgreeToTOS records that owner has agreed to the terms of service. The
// flag is stored only; InitializeAccount does not check it.
func (e *Engine) AgreeToTOS(ctx *CallContext, owner Address) error {
	if err := ctx.requireSigner(owner); err != nil {
		return err
	}
	u, err := e.userInfo(owner)
	if err != nil {
		return err
	}
	u.AgreedToTOS = true
	return e.saveUserInfo(owner, u)
}
