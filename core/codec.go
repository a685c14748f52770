package core

// codec.go — the fixed binary record layout of §6.2: an 8-byte
// discriminator, little-endian fixed-width fields, 32-bit
// length-prefixed UTF-8 strings capped at MaxIdentifierSize bytes,
// 1-byte booleans and 32-byte (here: 20-byte) public keys. Every
// program-owned account type round-trips through this layout so the
// on-disk/WAL representation matches what the original wire format
// would have produced.

import (
	"encoding/binary"
	"fmt"
)

// discriminators identify the record type a byte slice decodes as,
// mirroring Anchor's 8-byte account discriminator convention.
var (
	discConfig      = [8]byte{'c', 'f', 'g', '0', 0, 0, 0, 0}
	discUserInfo    = [8]byte{'u', 's', 'r', '0', 0, 0, 0, 0}
	discReservationV1 = [8]byte{'r', 's', 'v', '1', 0, 0, 0, 0}
	discReservationV2 = [8]byte{'r', 's', 'v', '2', 0, 0, 0, 0}
	discUnstakeInfo   = [8]byte{'u', 'n', 's', '0', 0, 0, 0, 0}
)

type encoder struct{ buf []byte }

func (e *encoder) disc(d [8]byte)      { e.buf = append(e.buf, d[:]...) }
func (e *encoder) u8(v uint8)          { e.buf = append(e.buf, v) }
func (e *encoder) u16(v uint16)        { var b [2]byte; binary.LittleEndian.PutUint16(b[:], v); e.buf = append(e.buf, b[:]...) }
func (e *encoder) u32(v uint32)        { var b [4]byte; binary.LittleEndian.PutUint32(b[:], v); e.buf = append(e.buf, b[:]...) }
func (e *encoder) u64(v uint64)        { var b [8]byte; binary.LittleEndian.PutUint64(b[:], v); e.buf = append(e.buf, b[:]...) }
func (e *encoder) i64(v int64)         { e.u64(uint64(v)) }
func (e *encoder) boolean(v bool)      { if v { e.u8(1) } else { e.u8(0) } }
func (e *encoder) addr(a Address)      { e.buf = append(e.buf, a[:]...) }
func (e *encoder) optU32(v *uint32) {
	if v == nil {
		e.boolean(false)
		return
	}
	e.boolean(true)
	e.u32(*v)
}
func (e *encoder) str(s string) {
	if len(s) > MaxIdentifierSize {
		s = s[:MaxIdentifierSize]
	}
	e.u32(uint32(len(s)))
	e.buf = append(e.buf, s...)
}

type decoder struct {
	buf []byte
	off int
}

func (d *decoder) need(n int) error {
	if d.off+n > len(d.buf) {
		return fmt.Errorf("core: short record, need %d bytes at offset %d (len %d)", n, d.off, len(d.buf))
	}
	return nil
}

func (d *decoder) disc() ([8]byte, error) {
	var out [8]byte
	if err := d.need(8); err != nil {
		return out, err
	}
	copy(out[:], d.buf[d.off:d.off+8])
	d.off += 8
	return out, nil
}

func (d *decoder) u8() (uint8, error) {
	if err := d.need(1); err != nil {
		return 0, err
	}
	v := d.buf[d.off]
	d.off++
	return v, nil
}

func (d *decoder) u16() (uint16, error) {
	if err := d.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(d.buf[d.off:])
	d.off += 2
	return v, nil
}

func (d *decoder) u32() (uint32, error) {
	if err := d.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(d.buf[d.off:])
	d.off += 4
	return v, nil
}

func (d *decoder) u64() (uint64, error) {
	if err := d.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(d.buf[d.off:])
	d.off += 8
	return v, nil
}

func (d *decoder) i64() (int64, error) {
	v, err := d.u64()
	return int64(v), err
}

func (d *decoder) boolean() (bool, error) {
	v, err := d.u8()
	return v != 0, err
}

func (d *decoder) optU32() (*uint32, error) {
	present, err := d.boolean()
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	v, err := d.u32()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (d *decoder) addr() (Address, error) {
	var a Address
	if err := d.need(20); err != nil {
		return a, err
	}
	copy(a[:], d.buf[d.off:d.off+20])
	d.off += 20
	return a, nil
}

func (d *decoder) str() (string, error) {
	n, err := d.u32()
	if err != nil {
		return "", err
	}
	if n > MaxIdentifierSize {
		return "", fmt.Errorf("core: identifier length %d exceeds max %d", n, MaxIdentifierSize)
	}
	if err := d.need(int(n)); err != nil {
		return "", err
	}
	s := string(d.buf[d.off : d.off+int(n)])
	d.off += int(n)
	return s, nil
}

func encodeConfig(c *Config) []byte {
	e := &encoder{}
	e.disc(discConfig)
	e.u64(c.ShadesPerGiB)
	e.u64(c.StorageAvailable)
	e.addr(c.Admin2)
	e.addr(c.Uploader)
	e.optU32(c.MutableFeeStartEpoch)
	e.u64(c.ShadesPerGiBPerEpoch)
	e.u16(c.CrankBps)
	e.u64(c.MaxAccountSize)
	e.u64(c.MinAccountSize)
	return e.buf
}

func decodeConfig(raw []byte) (*Config, error) {
	d := &decoder{buf: raw}
	if _, err := d.disc(); err != nil {
		return nil, err
	}
	c := &Config{}
	var err error
	if c.ShadesPerGiB, err = d.u64(); err != nil {
		return nil, err
	}
	if c.StorageAvailable, err = d.u64(); err != nil {
		return nil, err
	}
	if c.Admin2, err = d.addr(); err != nil {
		return nil, err
	}
	if c.Uploader, err = d.addr(); err != nil {
		return nil, err
	}
	if c.MutableFeeStartEpoch, err = d.optU32(); err != nil {
		return nil, err
	}
	if c.ShadesPerGiBPerEpoch, err = d.u64(); err != nil {
		return nil, err
	}
	if c.CrankBps, err = d.u16(); err != nil {
		return nil, err
	}
	if c.MaxAccountSize, err = d.u64(); err != nil {
		return nil, err
	}
	if c.MinAccountSize, err = d.u64(); err != nil {
		return nil, err
	}
	return c, nil
}
