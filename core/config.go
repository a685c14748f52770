package core

// config.go — the on-chain Config singleton (spec §3.1) and its three
// operations (spec §4.1). This is the program-owned account, distinct
// from pkg/config's node/CLI runtime settings.

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Compile-time constants, part of the wire interface (spec §6.4).
const (
	InitialStorageCost      uint64 = 1 << 30 // shades per GiB
	MaxIdentifierSize               = 64
	InitialStorageAvailable uint64  = 1 << 47 // 128 TiB
	BytesPerGiB             uint64  = 1 << 30
	MaxAccountSize          uint64  = 1 << 40
	MinAccountSize          uint64  = 1 << 10
	DeletionGracePeriod     uint32  = 1
	UnstakeTimePeriod       int64   = 0
	UnstakeEpochPeriod      uint32  = 1
	InitialCrankFeeBps      uint16  = 100
	maxCrankBps             uint16  = 10000
)

// admin1 is the compile-time first administrator, the analogue of the
// hard-coded admin pubkey baked into the original on-chain program.
var admin1 = DeriveAddress("storage-config-admin-1-genesis")

// Admin1 exposes the compile-time first admin address (primarily for
// tests).
func Admin1() Address { return admin1 }

// ConfigKey is the deterministic address of the Config singleton.
var ConfigKey = DeriveAddress("storage-config")

// Config is the program's single global parameter account (spec §3.1).
type Config struct {
	ShadesPerGiB         uint64
	StorageAvailable     uint64 // modelled as uint64; the spec's u128 headroom is never approached at realistic scales
	Admin2               Address
	Uploader             Address
	MutableFeeStartEpoch *uint32
	ShadesPerGiBPerEpoch uint64
	CrankBps             uint16
	MaxAccountSize       uint64
	MinAccountSize       uint64
}

func configKey() []byte { return []byte(ConfigKey.String()) }

func (e *Engine) loadConfig() (*Config, error) {
	raw, err := e.ledger.GetState(configKey())
	if err != nil {
		return nil, newProgramError(ErrNotFound, "config not initialized")
	}
	cfg, err := decodeConfig(raw)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (e *Engine) saveConfig(cfg *Config) error {
	return e.ledger.SetState(configKey(), encodeConfig(cfg))
}

// ConfigView returns a read-only snapshot of the Config singleton, for
// the CLI's `config show` command.
func (e *Engine) ConfigView() (Config, error) {
	cfg, err := e.loadConfig()
	if err != nil {
		return Config{}, err
	}
	return *cfg, nil
}

// InitializeConfig creates the Config singleton. Fails with ErrConfigExists
// if already initialized. Must be signed by admin1 (the compile-time
// admin).
func (e *Engine) InitializeConfig(ctx *CallContext, uploader Address) (*Config, error) {
	if err := ctx.requireSigner(admin1); err != nil {
		return nil, err
	}
	if ok, _ := e.ledger.HasState(configKey()); ok {
		return nil, newProgramError(ErrConfigExists, "config already initialized")
	}
	cfg := &Config{
		ShadesPerGiB:         InitialStorageCost,
		StorageAvailable:     InitialStorageAvailable,
		Admin2:               AddressZero,
		Uploader:             uploader,
		MutableFeeStartEpoch: nil,
		ShadesPerGiBPerEpoch: 0,
		CrankBps:             InitialCrankFeeBps,
		MaxAccountSize:       MaxAccountSize,
		MinAccountSize:       MinAccountSize,
	}
	if err := e.saveConfig(cfg); err != nil {
		return nil, err
	}
	e.log.WithFields(logrus.Fields{"uploader": uploader.String()}).Info("config: initialized")
	return cfg, nil
}

// ConfigPatch carries the optional fields UpdateConfig may change.
type ConfigPatch struct {
	ShadesPerGiB     *uint64
	StorageAvailable *uint64
	Admin2           *Address
	MaxAccountSize   *uint64
	MinAccountSize   *uint64
}

// UpdateConfig patches any subset of {price, quota, admin_2, size bounds}.
// Changing Admin2 requires the signer be admin1 specifically; any other
// field may be changed by either admin.
func (e *Engine) UpdateConfig(ctx *CallContext, signer Address, patch ConfigPatch) (*Config, error) {
	if !ctx.Signers.HasSigned(signer) {
		return nil, newProgramError(ErrMissingSigner, "config update requires signer")
	}
	cfg, err := e.loadConfig()
	if err != nil {
		return nil, err
	}
	if signer != admin1 && signer != cfg.Admin2 {
		return nil, newProgramError(ErrBadAddress, "signer is not an admin")
	}
	if patch.Admin2 != nil {
		if signer != admin1 {
			return nil, newProgramError(ErrOnlyAdmin1CanChangeAdmins, "only admin1 may change admin2")
		}
		cfg.Admin2 = *patch.Admin2
	}
	if patch.ShadesPerGiB != nil {
		cfg.ShadesPerGiB = *patch.ShadesPerGiB
	}
	if patch.StorageAvailable != nil {
		cfg.StorageAvailable = *patch.StorageAvailable
	}
	if patch.MaxAccountSize != nil {
		cfg.MaxAccountSize = *patch.MaxAccountSize
	}
	if patch.MinAccountSize != nil {
		cfg.MinAccountSize = *patch.MinAccountSize
	}
	if err := e.saveConfig(cfg); err != nil {
		return nil, err
	}
	e.log.Info("config: updated")
	return cfg, nil
}

// MutableFees toggles the ongoing-fee subsystem (spec §4.1). Supplying
// both rate and bps turns fees on as of the current epoch; supplying
// neither turns them off; any other combination is rejected.
func (e *Engine) MutableFees(ctx *CallContext, signer Address, rate *uint64, crankBps *uint16) (*Config, error) {
	if !ctx.Signers.HasSigned(signer) {
		return nil, newProgramError(ErrMissingSigner, "mutable fees toggle requires signer")
	}
	cfg, err := e.loadConfig()
	if err != nil {
		return nil, err
	}
	if signer != admin1 && signer != cfg.Admin2 {
		return nil, newProgramError(ErrBadAddress, "signer is not an admin")
	}

	switch {
	case rate != nil && crankBps != nil:
		if *rate == 0 {
			return nil, newProgramError(ErrNeedSomeFees, "rate must be nonzero to enable mutable fees")
		}
		if *crankBps == 0 {
			return nil, newProgramError(ErrNeedSomeCrankBps, "crank bps must be nonzero to enable mutable fees")
		}
		if *crankBps > maxCrankBps {
			return nil, newProgramError(ErrNeedSomeCrankBps, fmt.Sprintf("crank bps %d exceeds 10000", *crankBps))
		}
		epoch := ctx.Epoch
		cfg.MutableFeeStartEpoch = &epoch
		cfg.ShadesPerGiBPerEpoch = *rate
		cfg.CrankBps = *crankBps
	case rate == nil && crankBps == nil:
		cfg.MutableFeeStartEpoch = nil
		cfg.ShadesPerGiBPerEpoch = 0
		cfg.CrankBps = 0
	default:
		return nil, newProgramError(ErrNeedSomeFees, "rate and crank bps must be supplied together or not at all")
	}
	if err := e.saveConfig(cfg); err != nil {
		return nil, err
	}
	e.log.WithFields(logrus.Fields{"active": cfg.MutableFeeStartEpoch != nil}).Info("config: mutable fees toggled")
	return cfg, nil
}
