package engine

import (
	"errors"

	"github.com/tollmesh/go-tollmesh/engine/core"
	"github.com/tollmesh/go-tollmesh/metrics"
)

const subsystem = "engine"

var (
	transfersCount = metrics.NewCounter(
		"transfers_total",
		subsystem,
		"Completed transfers",
		nil,
	)
	rejectionsCount = metrics.NewCounter(
		"rejections_total",
		subsystem,
		"Rejected transfers by reason",
		[]string{"reason"},
	)
	burnedCount = metrics.NewCounter(
		"burned_total",
		subsystem,
		"Cumulative burned amount",
		nil,
	)
	rewardsCount = metrics.NewCounter(
		"rewards_total",
		subsystem,
		"Cumulative reward amount routed to the reward pool",
		nil,
	)
)

func reasonLabel(err error) string {
	switch {
	case errors.Is(err, core.ErrTradingNotOpen):
		return "trading_not_open"
	case errors.Is(err, core.ErrPaused):
		return "paused"
	case errors.Is(err, core.ErrBlacklisted):
		return "blacklisted"
	case errors.Is(err, core.ErrBotDetected):
		return "bot"
	case errors.Is(err, core.ErrInvalidRecipient):
		return "invalid_recipient"
	case errors.Is(err, core.ErrReplayBlocked):
		return "replay"
	case errors.Is(err, core.ErrLimitExceeded):
		return "limit"
	case errors.Is(err, core.ErrCooldownActive):
		return "cooldown"
	case errors.Is(err, core.ErrNoBalance):
		return "no_balance"
	case errors.Is(err, core.ErrZeroAmount):
		return "zero_amount"
	case errors.Is(err, core.ErrZeroAddress):
		return "zero_address"
	case errors.Is(err, core.ErrReentrancy):
		return "reentrancy"
	default:
		return "other"
	}
}
