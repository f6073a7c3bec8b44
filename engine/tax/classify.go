// Package tax classifies transfers against the market-maker registry,
// computes the applicable fee, and stages the burn/reward split.
package tax

import (
	"github.com/tollmesh/go-tollmesh/engine/core"
)

// Registry answers market-maker membership queries. Implemented by gov.State.
type Registry interface {
	IsMarketMaker(core.Address) bool
}

// Classify labels a transfer. Sender membership is checked first, so an
// address that is simultaneously a pool and the recipient of its own buy is
// classified as a buy outbound, not a sell.
func Classify(registry Registry, sender, recipient core.Address) core.Class {
	if registry.IsMarketMaker(sender) {
		return core.Buy
	}
	if registry.IsMarketMaker(recipient) {
		return core.Sell
	}
	return core.Transfer
}
