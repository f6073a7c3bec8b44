package tax

import (
	"github.com/holiman/uint256"

	"github.com/tollmesh/go-tollmesh/engine/core"
	"github.com/tollmesh/go-tollmesh/engine/gov"
)

// RateFor returns the applicable rate in basis points. Either party being
// tax-excluded zeroes the rate.
func RateFor(cfg gov.TaxConfig, class core.Class, senderExcluded, recipientExcluded bool) uint32 {
	if senderExcluded || recipientExcluded {
		return 0
	}
	switch class {
	case core.Buy:
		return cfg.BuyBps
	case core.Sell:
		return cfg.SellBps
	default:
		return cfg.TransferBps
	}
}

// FeeFor computes floor(amount * bps / 10000). The multiplication is split
// around the denominator so the intermediate never exceeds 256 bits for any
// amount; rounding always favors the holder over the protocol. The result is
// clamped to the amount, unreachable while rates stay under the ceiling.
func FeeFor(amount *uint256.Int, bps uint32) *uint256.Int {
	fee := new(uint256.Int)
	if bps == 0 || amount.IsZero() {
		return fee
	}
	den := uint256.NewInt(gov.BpsDenominator)
	rate := uint256.NewInt(uint64(bps))
	quo := new(uint256.Int).Div(amount, den)
	rem := new(uint256.Int).Mod(amount, den)
	fee.Mul(quo, rate)
	rem.Mul(rem, rate)
	fee.Add(fee, rem.Div(rem, den))
	if fee.Gt(amount) {
		fee.Set(amount)
	}
	return fee
}

// Split divides a fee into burn and reward legs with zero remainder drift:
// burn = floor(fee * burnBps / 10000) and reward takes the rest, so
// burn + reward == fee exactly.
func Split(fee *uint256.Int, burnBps uint32) (burn, reward *uint256.Int) {
	burn = FeeFor(fee, burnBps)
	reward = new(uint256.Int).Sub(fee, burn)
	return burn, reward
}
