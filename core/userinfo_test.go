package core

import "testing"

func TestUserInfoViewLazyCreatesZeroValue(t *testing.T) {
	e := newTestEngine(t)
	owner := Address{0x10}
	u, err := e.UserInfoView(owner)
	if err != nil {
		t.Fatalf("UserInfoView: %v", err)
	}
	if u.AgreedToTOS || u.AccountCounter != 0 || u.DelCounter != 0 || u.LifetimeBadCsam {
		t.Fatalf("expected zero-valued UserInfo, got %+v", u)
	}
}

func TestAgreeToTOSRequiresOwnerSignature(t *testing.T) {
	e := newTestEngine(t)
	owner := Address{0x10}
	intruder := Address{0x11}
	if err := e.AgreeToTOS(ctxFor(intruder, 0, 0), owner); err == nil {
		t.Fatalf("expected error for non-owner signer")
	}
	if err := e.AgreeToTOS(ctxFor(owner, 0, 0), owner); err != nil {
		t.Fatalf("AgreeToTOS: %v", err)
	}
	u, err := e.UserInfoView(owner)
	if err != nil {
		t.Fatalf("UserInfoView: %v", err)
	}
	if !u.AgreedToTOS {
		t.Fatalf("expected AgreedToTOS true after AgreeToTOS")
	}
}

func TestUserInfoEncodeDecodeRoundTrip(t *testing.T) {
	u := &UserInfo{AccountCounter: 7, DelCounter: 3, AgreedToTOS: true, LifetimeBadCsam: true}
	raw := encodeUserInfo(u)
	got, err := decodeUserInfo(raw)
	if err != nil {
		t.Fatalf("decodeUserInfo: %v", err)
	}
	if *got != *u {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, u)
	}
}
