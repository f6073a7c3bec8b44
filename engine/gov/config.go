// Package gov owns the engine configuration records and the authorization
// boundary through which they are mutated.
package gov

import (
	"time"

	"github.com/holiman/uint256"

	"github.com/tollmesh/go-tollmesh/engine/core"
)

const (
	// BpsDenominator is the basis-point base: 10000 == 100%.
	BpsDenominator = 10_000
	// MaxTaxRateBps caps every tax rate at 10%.
	MaxTaxRateBps = 1_000
	// MinCooldown is the lowest cooldown governance may configure.
	MinCooldown = 30 * time.Second
	// ReplayWindow is the sequence-number distance covered by same-block
	// replay protection.
	ReplayWindow = 2
)

// TaxConfig is the tax-rate table. It is replaced as a whole record, never
// field by field.
type TaxConfig struct {
	BuyBps      uint32 `mapstructure:"buy-bps"`
	SellBps     uint32 `mapstructure:"sell-bps"`
	TransferBps uint32 `mapstructure:"transfer-bps"`
	BurnBps     uint32 `mapstructure:"burn-bps"`
	RewardBps   uint32 `mapstructure:"reward-bps"`
}

// DefaultTaxConfig returns the tax table the engine starts with.
func DefaultTaxConfig() TaxConfig {
	return TaxConfig{
		BuyBps:      300,
		SellBps:     300,
		TransferBps: 100,
		BurnBps:     5_000,
		RewardBps:   5_000,
	}
}

// Validate rejects rate tables that violate the ceiling or the burn/reward
// split invariant.
func (c *TaxConfig) Validate() error {
	for _, rate := range []uint32{c.BuyBps, c.SellBps, c.TransferBps} {
		if rate > MaxTaxRateBps {
			return &core.ConfigError{Reason: "tax rate exceeds ceiling"}
		}
	}
	// sum in uint64: a uint32 sum can wrap back onto the denominator.
	if uint64(c.BurnBps)+uint64(c.RewardBps) != BpsDenominator {
		return &core.ConfigError{Reason: "burn and reward fractions must sum to 10000 bps"}
	}
	return nil
}

// LimitsConfig is the abuse-limit table. Amounts use uint256 to match
// balances. It is replaced as a whole record, never field by field.
type LimitsConfig struct {
	MaxTxAmount      *uint256.Int
	MaxWalletBalance *uint256.Int
	Cooldown         time.Duration

	RateLimitEnabled     bool
	ReplayProtectEnabled bool
	BotProtectEnabled    bool
}

// DefaultLimitsConfig returns the abuse limits the engine starts with.
func DefaultLimitsConfig() LimitsConfig {
	return LimitsConfig{
		MaxTxAmount:          uint256.NewInt(0).Lsh(uint256.NewInt(1), 64),
		MaxWalletBalance:     uint256.NewInt(0).Lsh(uint256.NewInt(1), 66),
		Cooldown:             MinCooldown,
		RateLimitEnabled:     true,
		ReplayProtectEnabled: true,
		BotProtectEnabled:    true,
	}
}

// Validate rejects limit tables with non-positive ceilings or a cooldown
// below the minimum.
func (c *LimitsConfig) Validate() error {
	if c.MaxTxAmount == nil || c.MaxTxAmount.IsZero() {
		return &core.ConfigError{Reason: "max transaction amount must be positive"}
	}
	if c.MaxWalletBalance == nil || c.MaxWalletBalance.IsZero() {
		return &core.ConfigError{Reason: "max wallet balance must be positive"}
	}
	if c.Cooldown < MinCooldown {
		return &core.ConfigError{Reason: "cooldown below minimum"}
	}
	return nil
}

// clone returns a deep copy so a staged replacement cannot alias the live record.
func (c *LimitsConfig) clone() LimitsConfig {
	out := *c
	out.MaxTxAmount = uint256.NewInt(0).Set(c.MaxTxAmount)
	out.MaxWalletBalance = uint256.NewInt(0).Set(c.MaxWalletBalance)
	return out
}
