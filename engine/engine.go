// Package engine decides, for every attempted transfer, whether the transfer
// is allowed, how much of it is diverted as a protocol fee, and how that fee
// is split between a deflationary sink and a reward pool. The package
// composes the abuse guard, the transaction classifier, the tax calculator
// and processor, and the governance-gated configuration store. Every transfer
// either commits whole or has no effect.
package engine

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/holiman/uint256"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/tollmesh/go-tollmesh/common/types"
	"github.com/tollmesh/go-tollmesh/engine/core"
	"github.com/tollmesh/go-tollmesh/engine/gov"
	"github.com/tollmesh/go-tollmesh/engine/guard"
	"github.com/tollmesh/go-tollmesh/engine/tax"
	"github.com/tollmesh/go-tollmesh/events"
)

// Opt is for changing Engine during initialization.
type Opt func(*Engine)

// WithLogger sets logger for Engine.
func WithLogger(logger *zap.Logger) Opt {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock sets the clock used for cooldown timing.
func WithClock(clock clockwork.Clock) Opt {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithReporter sets the events reporter.
func WithReporter(reporter *events.Reporter) Opt {
	return func(e *Engine) {
		e.reporter = reporter
	}
}

// Engine handles transfers against the host account registry. The host
// substrate processes requests sequentially; the latch rejects any nested
// invocation of the transfer path before the current one completes.
type Engine struct {
	logger   *zap.Logger
	clock    clockwork.Clock
	reporter *events.Reporter

	gov       *gov.State
	guard     *guard.Guard
	processor *tax.Processor
	loader    core.AccountLoader
	updater   core.AccountUpdater

	latch atomic.Bool

	mu           sync.RWMutex
	totalSupply  uint256.Int
	totalBurned  uint256.Int
	totalRewards uint256.Int
}

// New returns an Engine bound to the host account registry. The owner
// identity is fixed at construction.
func New(owner types.Address, loader core.AccountLoader, updater core.AccountUpdater, opts ...Opt) (*Engine, error) {
	e := &Engine{
		logger:  zap.NewNop(),
		clock:   clockwork.NewRealClock(),
		loader:  loader,
		updater: updater,
	}
	for _, opt := range opts {
		opt(e)
	}
	state, err := gov.New(owner, loader, updater,
		gov.WithLogger(e.logger.Named("gov")),
		gov.WithReporter(e.reporter),
	)
	if err != nil {
		return nil, err
	}
	e.gov = state
	e.guard = guard.New(e.logger.Named("guard"))
	e.processor = tax.NewProcessor(e.logger.Named("tax"))
	return e, nil
}

// Gov exposes the governance-authorized mutation surface.
func (e *Engine) Gov() *gov.State {
	return e.gov
}

// ApplyGenesis seeds balances and the initial supply.
func (e *Engine) ApplyGenesis(genesis []types.Account) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range genesis {
		account := genesis[i]
		e.logger.Info("genesis account", zap.Object("account", &account))
		if err := e.updater.Update(account); err != nil {
			return err
		}
		e.totalSupply.Add(&e.totalSupply, &account.Balance)
	}
	return nil
}

// Transfer moves amount from sender to recipient at the given sequence
// number, collecting tax along the way. It either commits whole or leaves
// every balance, counter, and flag untouched.
func (e *Engine) Transfer(sender, recipient types.Address, amount *uint256.Int, seq uint64) error {
	if !e.latch.CompareAndSwap(false, true) {
		rejectionsCount.WithLabelValues(reasonLabel(core.ErrReentrancy)).Inc()
		return core.ErrReentrancy
	}
	defer e.latch.Store(false)
	if err := e.transfer(sender, recipient, amount, seq); err != nil {
		rejectionsCount.WithLabelValues(reasonLabel(err)).Inc()
		return err
	}
	transfersCount.WithLabelValues().Inc()
	return nil
}

func (e *Engine) transfer(sender, recipient types.Address, amount *uint256.Int, seq uint64) error {
	if e.gov.Paused() {
		return core.ErrPaused
	}
	if sender.IsEmpty() {
		return core.ErrZeroAddress
	}
	if amount == nil || amount.IsZero() {
		return core.ErrZeroAmount
	}

	cache := core.NewStagedCache(e.loader)
	from, err := cache.Get(sender)
	if err != nil {
		return err
	}
	to, err := cache.Get(recipient)
	if err != nil {
		return err
	}
	class := tax.Classify(e.gov, sender, recipient)
	cfg := e.gov.Tax()
	rate := tax.RateFor(cfg, class, from.TaxExcluded, to.TaxExcluded)
	fee := tax.FeeFor(amount, rate)

	params := guard.Params{
		Owner:       e.gov.Owner(),
		TradingOpen: e.gov.TradingOpen(),
		Limits:      e.gov.Limits(),
	}
	replay, err := e.guard.Check(cache, params, sender, recipient, amount, fee, e.clock.Now(), seq)
	if err != nil {
		if replay != nil && e.reporter != nil {
			e.reporter.Emit(events.TypeReplayBlocked, events.EventReplayBlocked{
				Address:  replay.Address,
				Sequence: replay.Sequence,
			})
		}
		e.logger.Debug("transfer rejected",
			zap.Stringer("sender", sender),
			zap.Stringer("recipient", recipient),
			zap.Error(err),
		)
		return err
	}
	if from.Balance.Lt(amount) {
		return core.ErrNoBalance
	}

	// Bookkeeping order: full debit, fee split, then the net credit. The
	// recipient never observes the gross amount.
	from.Balance.Sub(&from.Balance, amount)
	outcome, err := e.processor.Process(cache, cfg, e.gov.RewardPool(), fee, class)
	if err != nil {
		return err
	}
	net := new(uint256.Int).Sub(amount, fee)
	to.Balance.Add(&to.Balance, net)

	if err := cache.Apply(e.updater); err != nil {
		return err
	}
	e.commitTotals(&outcome)
	e.emitTransfer(sender, recipient, amount, net, &outcome)
	e.logger.Debug("transfer applied",
		zap.Stringer("sender", sender),
		zap.Stringer("recipient", recipient),
		zap.String("amount", amount.Dec()),
		zap.String("fee", outcome.Fee.Dec()),
		zap.String("class", class.String()),
	)
	return nil
}

func (e *Engine) commitTotals(outcome *tax.Outcome) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.totalSupply.Sub(&e.totalSupply, &outcome.Burned)
	e.totalBurned.Add(&e.totalBurned, &outcome.Burned)
	e.totalRewards.Add(&e.totalRewards, &outcome.Reward)
	burnedCount.WithLabelValues().Add(toFloat(&outcome.Burned))
	rewardsCount.WithLabelValues().Add(toFloat(&outcome.Reward))
}

func (e *Engine) emitTransfer(sender, recipient types.Address, amount, net *uint256.Int, outcome *tax.Outcome) {
	if e.reporter == nil {
		return
	}
	if !outcome.Fee.IsZero() {
		e.reporter.Emit(events.TypeTaxCollected, events.EventTaxCollected{
			Sender:    sender,
			Recipient: recipient,
			Class:     outcome.Class.String(),
			Fee:       uint256.NewInt(0).Set(&outcome.Fee),
			Burned:    uint256.NewInt(0).Set(&outcome.Burned),
			Reward:    uint256.NewInt(0).Set(&outcome.Reward),
		})
	}
	e.reporter.Emit(events.TypeTransfer, events.EventTransfer{
		Sender:    sender,
		Recipient: recipient,
		Amount:    uint256.NewInt(0).Set(amount),
		Net:       uint256.NewInt(0).Set(net),
	})
}

// Mint issues new supply to the recipient. Usable only by the designated
// staking collaborator.
func (e *Engine) Mint(caller, recipient types.Address, amount *uint256.Int) error {
	staking := e.gov.Staking()
	if staking.IsEmpty() || caller != staking {
		return core.ErrUnauthorized
	}
	if recipient.IsEmpty() {
		return core.ErrZeroAddress
	}
	if amount == nil || amount.IsZero() {
		return core.ErrZeroAmount
	}
	account, err := e.loader.Get(recipient)
	if err != nil {
		return err
	}
	account.Address = recipient
	account.Balance.Add(&account.Balance, amount)
	if err := e.updater.Update(account); err != nil {
		return err
	}
	e.mu.Lock()
	e.totalSupply.Add(&e.totalSupply, amount)
	e.mu.Unlock()
	e.logger.Info("minted",
		zap.Stringer("recipient", recipient),
		zap.String("amount", amount.Dec()),
	)
	return nil
}

// Burn destroys amount from the caller's own balance.
func (e *Engine) Burn(caller types.Address, amount *uint256.Int) error {
	if caller.IsEmpty() {
		return core.ErrZeroAddress
	}
	if amount == nil || amount.IsZero() {
		return core.ErrZeroAmount
	}
	account, err := e.loader.Get(caller)
	if err != nil {
		return err
	}
	if account.Balance.Lt(amount) {
		return core.ErrNoBalance
	}
	account.Address = caller
	account.Balance.Sub(&account.Balance, amount)
	if err := e.updater.Update(account); err != nil {
		return err
	}
	e.mu.Lock()
	e.totalSupply.Sub(&e.totalSupply, amount)
	e.totalBurned.Add(&e.totalBurned, amount)
	e.mu.Unlock()
	burnedCount.WithLabelValues().Add(toFloat(amount))
	return nil
}

// BalanceOf returns the current balance of the address.
func (e *Engine) BalanceOf(address types.Address) (*uint256.Int, error) {
	account, err := e.loader.Get(address)
	if err != nil {
		return nil, err
	}
	return uint256.NewInt(0).Set(&account.Balance), nil
}

// TotalSupply returns the circulating supply tracked by the engine.
func (e *Engine) TotalSupply() *uint256.Int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return uint256.NewInt(0).Set(&e.totalSupply)
}

// TotalBurned returns the cumulative burned amount.
func (e *Engine) TotalBurned() *uint256.Int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return uint256.NewInt(0).Set(&e.totalBurned)
}

// TotalRewards returns the cumulative reward amount distributed.
func (e *Engine) TotalRewards() *uint256.Int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return uint256.NewInt(0).Set(&e.totalRewards)
}

// RateFor returns the rate in basis points that would apply to a transfer
// between the pair.
func (e *Engine) RateFor(sender, recipient types.Address) (uint32, error) {
	from, err := e.loader.Get(sender)
	if err != nil {
		return 0, err
	}
	to, err := e.loader.Get(recipient)
	if err != nil {
		return 0, err
	}
	class := tax.Classify(e.gov, sender, recipient)
	return tax.RateFor(e.gov.Tax(), class, from.TaxExcluded, to.TaxExcluded), nil
}

// FeeFor returns the fee that would be collected for the transfer.
func (e *Engine) FeeFor(sender, recipient types.Address, amount *uint256.Int) (*uint256.Int, error) {
	rate, err := e.RateFor(sender, recipient)
	if err != nil {
		return nil, err
	}
	return tax.FeeFor(amount, rate), nil
}

// NetFor returns the amount the recipient would actually receive.
func (e *Engine) NetFor(sender, recipient types.Address, amount *uint256.Int) (*uint256.Int, error) {
	fee, err := e.FeeFor(sender, recipient, amount)
	if err != nil {
		return nil, err
	}
	return fee.Sub(amount, fee), nil
}

// CanTransfer dry-runs the validation pipeline. It returns false with the
// machine-readable reason of the first violated rule, and mutates nothing.
func (e *Engine) CanTransfer(sender, recipient types.Address, amount *uint256.Int, seq uint64) (bool, error) {
	if e.gov.Paused() {
		return false, core.ErrPaused
	}
	if sender.IsEmpty() {
		return false, core.ErrZeroAddress
	}
	if amount == nil || amount.IsZero() {
		return false, core.ErrZeroAmount
	}
	// The staged cache soaks up the timer stamps; it is never applied.
	cache := core.NewStagedCache(e.loader)
	from, err := cache.Get(sender)
	if err != nil {
		return false, err
	}
	to, err := cache.Get(recipient)
	if err != nil {
		return false, err
	}
	class := tax.Classify(e.gov, sender, recipient)
	rate := tax.RateFor(e.gov.Tax(), class, from.TaxExcluded, to.TaxExcluded)
	fee := tax.FeeFor(amount, rate)
	params := guard.Params{
		Owner:       e.gov.Owner(),
		TradingOpen: e.gov.TradingOpen(),
		Limits:      e.gov.Limits(),
	}
	if _, err := e.guard.Check(cache, params, sender, recipient, amount, fee, e.clock.Now(), seq); err != nil {
		return false, err
	}
	if from.Balance.Lt(amount) {
		return false, core.ErrNoBalance
	}
	return true, nil
}

// toFloat approximates a uint256 for counter purposes only.
func toFloat(value *uint256.Int) float64 {
	if value.IsUint64() {
		return float64(value.Uint64())
	}
	return math.MaxUint64
}
