// Package config contains the tollmesh engine configuration definitions and
// the file loader for the CLI.
package config

import (
	"fmt"
	"time"

	"github.com/holiman/uint256"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/tollmesh/go-tollmesh/engine/gov"
)

const defaultConfigFileName = "./tollgate.toml"

// Config defines the top level configuration for the tollgate engine.
type Config struct {
	BaseConfig `mapstructure:"main"`
	Tax        gov.TaxConfig `mapstructure:"tax"`
	Limits     LimitsConfig  `mapstructure:"limits"`
}

// BaseConfig defines the default configuration options for the engine host.
type BaseConfig struct {
	ConfigFile string `mapstructure:"config"`

	LogLevel string `mapstructure:"log-level"`

	NetworkHRP string `mapstructure:"network-hrp"`

	CollectMetrics bool `mapstructure:"metrics"`
	MetricsPort    int  `mapstructure:"metrics-port"`
}

// LimitsConfig is the file shape of the abuse-limit table. Amounts are
// decimal strings so limits above 2^64 survive the trip through TOML.
type LimitsConfig struct {
	MaxTxAmount      string        `mapstructure:"max-tx-amount"`
	MaxWalletBalance string        `mapstructure:"max-wallet-balance"`
	Cooldown         time.Duration `mapstructure:"cooldown"`
	RateLimit        bool          `mapstructure:"rate-limit"`
	ReplayProtect    bool          `mapstructure:"replay-protect"`
	BotProtect       bool          `mapstructure:"bot-protect"`
}

// ToLimits converts the file shape into the runtime record.
func (c *LimitsConfig) ToLimits() (gov.LimitsConfig, error) {
	maxTx, err := uint256.FromDecimal(c.MaxTxAmount)
	if err != nil {
		return gov.LimitsConfig{}, fmt.Errorf("parse max-tx-amount: %w", err)
	}
	maxWallet, err := uint256.FromDecimal(c.MaxWalletBalance)
	if err != nil {
		return gov.LimitsConfig{}, fmt.Errorf("parse max-wallet-balance: %w", err)
	}
	return gov.LimitsConfig{
		MaxTxAmount:          maxTx,
		MaxWalletBalance:     maxWallet,
		Cooldown:             c.Cooldown,
		RateLimitEnabled:     c.RateLimit,
		ReplayProtectEnabled: c.ReplayProtect,
		BotProtectEnabled:    c.BotProtect,
	}, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	limits := gov.DefaultLimitsConfig()
	return Config{
		BaseConfig: BaseConfig{
			LogLevel:    "info",
			NetworkHRP:  "tm",
			MetricsPort: 1010,
		},
		Tax: gov.DefaultTaxConfig(),
		Limits: LimitsConfig{
			MaxTxAmount:      limits.MaxTxAmount.Dec(),
			MaxWalletBalance: limits.MaxWalletBalance.Dec(),
			Cooldown:         limits.Cooldown,
			RateLimit:        limits.RateLimitEnabled,
			ReplayProtect:    limits.ReplayProtectEnabled,
			BotProtect:       limits.BotProtectEnabled,
		},
	}
}

// LoadConfig loads the config file into cfg, leaving defaults in place for
// keys the file does not set.
func LoadConfig(fileLocation string, vip *viper.Viper, cfg *Config) error {
	if fileLocation == "" {
		fileLocation = defaultConfigFileName
	}

	vip.SetConfigFile(fileLocation)
	if err := vip.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %w", err)
	}

	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := vip.Unmarshal(cfg, hook); err != nil {
		return fmt.Errorf("failed to parse config %w", err)
	}
	return nil
}
