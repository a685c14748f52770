package core

// address.go — address derivation and textual encoding.
//
// Every PDA in the original program (§9 of the spec) is a deterministic
// function of a seed tuple (tag, owner, counter). DeriveAddress reproduces
// that determinism with Keccak256 over the concatenated seeds, truncated
// to 20 bytes — the same technique the teacher platform uses for its own
// escrow/module addresses (ModuleAddress), generalised to take owner and
// counter seeds as well as a bare tag.

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mr-tron/base58"
)

// AddressZero is the sentinel zero address, used as an "unset" secondary
// owner and as a defensive default.
var AddressZero = Address{}

// DeriveAddress derives a deterministic Address from a tag and an
// arbitrary number of additional seed components (addresses and/or
// uint32 counters). It is the reimplementation's substitute for Solana's
// findProgramAddress over the same seed tuple.
func DeriveAddress(tag string, seeds ...interface{}) Address {
	buf := []byte(tag)
	for _, s := range seeds {
		switch v := s.(type) {
		case Address:
			buf = append(buf, v[:]...)
		case uint32:
			var b [4]byte
			binary.LittleEndian.PutUint32(b[:], v)
			buf = append(buf, b[:]...)
		case string:
			buf = append(buf, []byte(v)...)
		case []byte:
			buf = append(buf, v...)
		default:
			panic(fmt.Sprintf("core: unsupported seed type %T", s))
		}
	}
	digest := crypto.Keccak256(buf)
	var a Address
	copy(a[:], digest[:20])
	return a
}

// String renders the address as base58, the encoding Solana public keys
// use, so logs and CLI output read the way an operator would expect.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// ParseAddress decodes a base58-encoded address string.
func ParseAddress(s string) (Address, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return Address{}, fmt.Errorf("parse address %q: %w", s, err)
	}
	if len(b) != 20 {
		return Address{}, fmt.Errorf("parse address %q: want 20 bytes, got %d", s, len(b))
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

// IsZero reports whether a is the zero address.
func (a Address) IsZero() bool { return a == AddressZero }

// Hex renders the hash as a lowercase hex string.
func (h Hash) Hex() string {
	const hextable = "0123456789abcdef"
	out := make([]byte, len(h)*2)
	for i, b := range h {
		out[i*2] = hextable[b>>4]
		out[i*2+1] = hextable[b&0x0f]
	}
	return string(out)
}
