// Package events publishes engine activity to interested subscribers:
// completed tax collections, configuration mutations, the one-time trading
// opening, and triggered replay protection.
package events

import (
	"time"

	"github.com/holiman/uint256"

	"github.com/tollmesh/go-tollmesh/common/types"
)

// EventType discriminates the Details payload of a UserEvent.
type EventType string

const (
	TypeTaxCollected  EventType = "TaxCollected"
	TypeConfigUpdated EventType = "ConfigUpdated"
	TypeTradingOpened EventType = "TradingOpened"
	TypeReplayBlocked EventType = "ReplayBlocked"
	TypeTransfer      EventType = "Transfer"
)

// UserEvent is the envelope delivered to subscribers.
type UserEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Details   any       `json:"details"`
}

// EventTaxCollected is the auditable record of one fee collection.
type EventTaxCollected struct {
	Sender    types.Address `json:"sender"`
	Recipient types.Address `json:"recipient"`
	Class     string        `json:"class"`
	Fee       *uint256.Int  `json:"fee"`
	Burned    *uint256.Int  `json:"burned"`
	Reward    *uint256.Int  `json:"reward"`
}

// EventConfigUpdated records one governance mutation. Record names the logical
// record that was replaced or the flag that was toggled.
type EventConfigUpdated struct {
	Record string        `json:"record"`
	Caller types.Address `json:"caller"`
}

// EventTradingOpened records the one-way trading activation.
type EventTradingOpened struct {
	Opener types.Address `json:"opener"`
}

// EventReplayBlocked records a triggered same-block replay protection.
type EventReplayBlocked struct {
	Address  types.Address `json:"address"`
	Sequence uint64        `json:"sequence"`
}

// EventTransfer records a completed transfer with its net amount.
type EventTransfer struct {
	Sender    types.Address `json:"sender"`
	Recipient types.Address `json:"recipient"`
	Amount    *uint256.Int  `json:"amount"`
	Net       *uint256.Int  `json:"net"`
}
