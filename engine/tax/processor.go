package tax

import (
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/tollmesh/go-tollmesh/engine/core"
	"github.com/tollmesh/go-tollmesh/engine/gov"
)

// Outcome is the auditable breakdown of one fee collection.
type Outcome struct {
	Class  core.Class
	Fee    uint256.Int
	Burned uint256.Int
	Reward uint256.Int
}

// Processor stages the burn/reward split of a collected fee. The split runs
// before the net amount is credited to the recipient: the recipient balance
// never observes the gross amount, which keeps supply conservation intact
// under concurrent balance reads.
type Processor struct {
	logger *zap.Logger
}

// NewProcessor returns a Processor.
func NewProcessor(logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{logger: logger}
}

// Process splits the fee and stages the reward credit. The burn leg is a
// destructive sink: no account is credited, the engine shrinks total supply
// by the burned amount on commit. When no reward pool is configured the
// reward leg is folded into the burn so the whole fee stays accounted.
func (p *Processor) Process(
	cache *core.StagedCache,
	cfg gov.TaxConfig,
	rewardPool core.Address,
	fee *uint256.Int,
	class core.Class,
) (Outcome, error) {
	outcome := Outcome{Class: class}
	outcome.Fee.Set(fee)
	if fee.IsZero() {
		return outcome, nil
	}
	burn, reward := Split(fee, cfg.BurnBps)
	if rewardPool.IsEmpty() {
		burn.Add(burn, reward)
		reward.Clear()
	} else if !reward.IsZero() {
		pool, err := cache.Get(rewardPool)
		if err != nil {
			return outcome, err
		}
		pool.Balance.Add(&pool.Balance, reward)
	}
	outcome.Burned.Set(burn)
	outcome.Reward.Set(reward)
	p.logger.Debug("fee processed",
		zap.String("class", class.String()),
		zap.String("fee", fee.Dec()),
		zap.String("burn", burn.Dec()),
		zap.String("reward", reward.Dec()),
	)
	return outcome, nil
}
