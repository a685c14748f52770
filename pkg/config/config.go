package config

// Package config provides a reusable loader for the shadowstake CLI's
// runtime settings and environment variables. It is versioned so that
// applications can depend on a stable API contract.
//
// Version: v0.1.0

import (
	"fmt"

	"github.com/spf13/viper"

	"shadowstake/pkg/utils"
)

// Version is the semantic version of this configuration package.
const Version = "v0.1.0"

// Config is the unified runtime configuration for a shadowstake CLI
// invocation. It is the shape Load expects of the default.yaml (and
// optional per-environment) file it looks for in cmd/shadowstake/config
// or ./config; no such file ships with the repository. It is distinct
// from the on-chain Config
// singleton account (core.Config), which lives inside the ledger
// itself rather than on the operator's filesystem.
type Config struct {
	Ledger struct {
		Dir              string `mapstructure:"dir" json:"dir"`
		SnapshotInterval int    `mapstructure:"snapshot_interval" json:"snapshot_interval"`
		PruneInterval    int    `mapstructure:"prune_interval" json:"prune_interval"`
	} `mapstructure:"ledger" json:"ledger"`

	Epoch struct {
		Source      string `mapstructure:"source" json:"source"` // "manual" or "wallclock"
		EpochLength int    `mapstructure:"epoch_length_seconds" json:"epoch_length_seconds"`
	} `mapstructure:"epoch" json:"epoch"`

	Identities struct {
		UploaderKeyFile  string `mapstructure:"uploader_key_file" json:"uploader_key_file"`
		EmissionsAddress string `mapstructure:"emissions_address" json:"emissions_address"`
	} `mapstructure:"identities" json:"identities"`

	Logging struct {
		Level string `mapstructure:"level" json:"level"`
		File  string `mapstructure:"file" json:"file"`
	} `mapstructure:"logging" json:"logging"`
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig Config

// Load reads configuration files and merges any environment specific
// overrides. The resulting configuration is stored in AppConfig and returned.
//
// The function uses the provided environment name to merge additional config
// files. If env is empty, only the default configuration is loaded.
func Load(env string) (*Config, error) {
	viper.SetConfigName("default")
	viper.AddConfigPath("cmd/shadowstake/config")
	viper.AddConfigPath("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return nil, utils.Wrap(err, "load config")
	}

	if env != "" {
		viper.SetConfigName(env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, utils.Wrap(err, fmt.Sprintf("merge %s config", env))
		}
	}

	viper.AutomaticEnv() // picks up from .env

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the SHDW_ENV environment variable.
func LoadFromEnv() (*Config, error) {
	return Load(utils.EnvOrDefault("SHDW_ENV", ""))
}
