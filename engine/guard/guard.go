// Package guard validates transfers against the layered abuse defenses:
// trading-open state, blacklist and bot flags, same-block replay protection,
// transaction and wallet caps, and the per-account cooldown.
package guard

import (
	"time"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/tollmesh/go-tollmesh/engine/core"
	"github.com/tollmesh/go-tollmesh/engine/gov"
)

// Params is the slice of engine state the checks read.
type Params struct {
	Owner       core.Address
	TradingOpen bool
	Limits      gov.LimitsConfig
}

// Replay carries the details of a triggered replay protection, delivered
// alongside ErrReplayBlocked.
type Replay struct {
	Address  core.Address
	Sequence uint64
}

// Guard runs the ordered short-circuiting checks of the abuse pipeline.
type Guard struct {
	logger *zap.Logger
}

// New returns a Guard.
func New(logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{logger: logger}
}

// Check validates a transfer and, on success, stamps the sender timers in the
// staged cache before any value movement. The fee is the already-computed tax
// so the wallet cap applies to the post-tax balance. A non-nil *Replay is
// returned only with ErrReplayBlocked.
func (g *Guard) Check(
	cache *core.StagedCache,
	params Params,
	sender, recipient core.Address,
	amount, fee *uint256.Int,
	now time.Time,
	seq uint64,
) (*Replay, error) {
	if !params.TradingOpen && sender != params.Owner {
		return nil, core.ErrTradingNotOpen
	}
	if recipient.IsEmpty() {
		return nil, core.ErrInvalidRecipient
	}
	from, err := cache.Get(sender)
	if err != nil {
		return nil, err
	}
	to, err := cache.Get(recipient)
	if err != nil {
		return nil, err
	}
	if to.Blacklisted {
		return nil, core.ErrBlacklisted
	}
	if from.Blacklisted {
		return nil, core.ErrBlacklisted
	}
	limits := params.Limits
	if limits.BotProtectEnabled && (from.Bot || to.Bot) {
		return nil, core.ErrBotDetected
	}
	if limits.ReplayProtectEnabled {
		if replay := replayHit(from, seq); replay != nil {
			return replay, core.ErrReplayBlocked
		}
		if replay := replayHit(to, seq); replay != nil {
			return replay, core.ErrReplayBlocked
		}
	}
	if !from.LimitExcluded && !to.LimitExcluded {
		if amount.Gt(limits.MaxTxAmount) {
			return nil, &core.LimitError{
				Amount: uint256.NewInt(0).Set(amount),
				Limit:  uint256.NewInt(0).Set(limits.MaxTxAmount),
			}
		}
		if limits.RateLimitEnabled && !from.LastTransferAt.IsZero() {
			if elapsed := now.Sub(from.LastTransferAt); elapsed < limits.Cooldown {
				return nil, &core.CooldownError{Remaining: limits.Cooldown - elapsed}
			}
		}
	}
	if !to.LimitExcluded {
		net := new(uint256.Int).Sub(amount, fee)
		post := new(uint256.Int).Add(&to.Balance, net)
		if post.Gt(limits.MaxWalletBalance) {
			return nil, &core.LimitError{
				Amount: post,
				Limit:  uint256.NewInt(0).Set(limits.MaxWalletBalance),
			}
		}
	}
	// Stamp timers before any value moves to close the reentrancy window.
	// The recipient sequence is stamped too, so pools are covered by the
	// replay window on both legs.
	from.LastTransferAt = now
	from.LastTransferSeq = seq
	to.LastTransferSeq = seq
	return nil, nil
}

// replayHit reports whether the account transacted within the replay window.
// Host sequence numbers are 1-based, so a zero LastTransferSeq always means
// the account never transacted; limit-excluded accounts are exempt.
func replayHit(account *core.Account, seq uint64) *Replay {
	if account.LimitExcluded || account.LastTransferSeq == 0 {
		return nil
	}
	if seq >= account.LastTransferSeq && seq-account.LastTransferSeq < gov.ReplayWindow {
		return &Replay{Address: account.Address, Sequence: seq}
	}
	return nil
}
