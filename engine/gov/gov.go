package gov

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/tollmesh/go-tollmesh/common/types"
	"github.com/tollmesh/go-tollmesh/engine/core"
	"github.com/tollmesh/go-tollmesh/events"
)

// membership cache size. Lookups hit on every classified transfer, mutations
// are rare governance actions.
const cacheSize = 4096

// Opt is for changing State during initialization.
type Opt func(*State)

// WithLogger sets logger for State.
func WithLogger(logger *zap.Logger) Opt {
	return func(s *State) {
		s.logger = logger
	}
}

// WithReporter sets the events reporter used for configuration mutations.
func WithReporter(reporter *events.Reporter) Opt {
	return func(s *State) {
		s.reporter = reporter
	}
}

// State is the configuration store behind the governance gate. Every mutating
// method checks the caller before touching a record, and replaces records
// whole: a rejected mutation leaves the previous record fully intact.
//
// Two identities exist. The owner is fixed at construction and is used for
// the one-time trading activation, for assigning the governance identity, and
// for upgrade authorization while no governance identity is set. Once the
// governance identity is assigned it becomes the sole mutation authority;
// the transition is one-way.
type State struct {
	logger   *zap.Logger
	reporter *events.Reporter
	accounts core.AccountLoader
	updater  core.AccountUpdater

	mu          sync.RWMutex
	owner       core.Address
	governance  core.Address
	rewardPool  core.Address
	staking     core.Address
	tradingOpen bool
	paused      bool
	upgrade     core.Address

	tax    TaxConfig
	limits LimitsConfig

	pools   map[core.Address]struct{}
	routers map[core.Address]struct{}
	mmCache *lru.Cache[core.Address, bool]
}

// New creates the configuration store with safe defaults. The owner identity
// is fixed for the lifetime of the store.
func New(owner core.Address, accounts core.AccountLoader, updater core.AccountUpdater, opts ...Opt) (*State, error) {
	if owner.IsEmpty() {
		return nil, core.ErrZeroAddress
	}
	cache, err := lru.New[core.Address, bool](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create membership cache: %w", err)
	}
	s := &State{
		logger:   zap.NewNop(),
		accounts: accounts,
		updater:  updater,
		owner:    owner,
		tax:      DefaultTaxConfig(),
		limits:   DefaultLimitsConfig(),
		pools:    map[core.Address]struct{}{},
		routers:  map[core.Address]struct{}{},
		mmCache:  cache,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// authorize implements the gate: governance once set, otherwise the owner.
func (s *State) authorize(caller core.Address) error {
	if !s.governance.IsEmpty() {
		if caller != s.governance {
			return core.ErrUnauthorized
		}
		return nil
	}
	if caller != s.owner {
		return core.ErrUnauthorized
	}
	return nil
}

func (s *State) emitConfig(record string, caller core.Address) {
	if s.reporter != nil {
		s.reporter.Emit(events.TypeConfigUpdated, events.EventConfigUpdated{Record: record, Caller: caller})
	}
}

// SetGovernance assigns the governance identity. One-way: it can be set only
// once, only by the owner.
func (s *State) SetGovernance(caller, governance core.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if caller != s.owner {
		return core.ErrUnauthorized
	}
	if !s.governance.IsEmpty() {
		return &core.ConfigError{Reason: "governance identity already set"}
	}
	if governance.IsEmpty() {
		return core.ErrZeroAddress
	}
	s.governance = governance
	s.logger.Info("governance identity assigned", zap.Stringer("governance", governance))
	s.emitConfig("governance", caller)
	return nil
}

// SetTaxConfig replaces the tax-rate table after validation.
func (s *State) SetTaxConfig(caller core.Address, cfg TaxConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.authorize(caller); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.tax = cfg
	s.logger.Info("tax config updated",
		zap.Uint32("buy_bps", cfg.BuyBps),
		zap.Uint32("sell_bps", cfg.SellBps),
		zap.Uint32("transfer_bps", cfg.TransferBps),
		zap.Uint32("burn_bps", cfg.BurnBps),
		zap.Uint32("reward_bps", cfg.RewardBps),
	)
	s.emitConfig("tax", caller)
	return nil
}

// SetLimitsConfig replaces the abuse-limit table after validation.
func (s *State) SetLimitsConfig(caller core.Address, cfg LimitsConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.authorize(caller); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.limits = cfg.clone()
	s.logger.Info("limits config updated",
		zap.String("max_tx", cfg.MaxTxAmount.Dec()),
		zap.String("max_wallet", cfg.MaxWalletBalance.Dec()),
		zap.Duration("cooldown", cfg.Cooldown),
	)
	s.emitConfig("limits", caller)
	return nil
}

// SetPool toggles liquidity-pool membership for an address.
func (s *State) SetPool(caller, address core.Address, member bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setMarketMaker(caller, address, member, s.pools, "pool")
}

// SetRouter toggles routing-contract membership for an address.
func (s *State) SetRouter(caller, address core.Address, member bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setMarketMaker(caller, address, member, s.routers, "router")
}

func (s *State) setMarketMaker(caller, address core.Address, member bool, set map[core.Address]struct{}, record string) error {
	if err := s.authorize(caller); err != nil {
		return err
	}
	if address.IsEmpty() {
		return core.ErrZeroAddress
	}
	if member {
		set[address] = struct{}{}
	} else {
		delete(set, address)
	}
	s.mmCache.Purge()
	s.logger.Info("market-maker registry updated",
		zap.String("record", record),
		zap.Stringer("address", address),
		zap.Bool("member", member),
	)
	s.emitConfig(record, caller)
	return nil
}

// IsMarketMaker reports whether the address is a registered pool or router.
func (s *State) IsMarketMaker(address core.Address) bool {
	if member, hit := s.mmCache.Get(address); hit {
		return member
	}
	s.mu.RLock()
	_, pool := s.pools[address]
	_, router := s.routers[address]
	s.mu.RUnlock()
	member := pool || router
	s.mmCache.Add(address, member)
	return member
}

// SetBlacklist toggles the blacklist flag on an account. The owner and
// governance identities can never be blacklisted.
func (s *State) SetBlacklist(caller, target core.Address, blacklisted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.authorize(caller); err != nil {
		return err
	}
	if blacklisted && (target == s.owner || target == s.governance) {
		return &core.ConfigError{Reason: "cannot blacklist a privileged identity"}
	}
	return s.setAccountFlag(caller, target, "blacklist", func(account *core.Account) {
		account.Blacklisted = blacklisted
	})
}

// SetBot toggles the bot flag on an account.
func (s *State) SetBot(caller, target core.Address, bot bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.authorize(caller); err != nil {
		return err
	}
	return s.setAccountFlag(caller, target, "bot", func(account *core.Account) {
		account.Bot = bot
	})
}

// SetTaxExcluded toggles tax exclusion on an account.
func (s *State) SetTaxExcluded(caller, target core.Address, excluded bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.authorize(caller); err != nil {
		return err
	}
	return s.setAccountFlag(caller, target, "tax-exclusion", func(account *core.Account) {
		account.TaxExcluded = excluded
	})
}

// SetLimitExcluded toggles limit exclusion on an account.
func (s *State) SetLimitExcluded(caller, target core.Address, excluded bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.authorize(caller); err != nil {
		return err
	}
	return s.setAccountFlag(caller, target, "limit-exclusion", func(account *core.Account) {
		account.LimitExcluded = excluded
	})
}

func (s *State) setAccountFlag(caller, target core.Address, record string, mutate func(*core.Account)) error {
	if target.IsEmpty() {
		return core.ErrZeroAddress
	}
	account, err := s.accounts.Get(target)
	if err != nil {
		return fmt.Errorf("load account %s: %w", target, err)
	}
	account.Address = target
	mutate(&account)
	if err := s.updater.Update(account); err != nil {
		return fmt.Errorf("update account %s: %w", target, err)
	}
	s.emitConfig(record, caller)
	return nil
}

// SetRewardPool assigns the account accumulating the non-burned fee share.
func (s *State) SetRewardPool(caller, pool core.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.authorize(caller); err != nil {
		return err
	}
	s.rewardPool = pool
	s.logger.Info("reward pool updated", zap.Stringer("pool", pool))
	s.emitConfig("reward-pool", caller)
	return nil
}

// SetStaking assigns the staking collaborator allowed to mint yield.
func (s *State) SetStaking(caller, staking core.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.authorize(caller); err != nil {
		return err
	}
	s.staking = staking
	s.logger.Info("staking collaborator updated", zap.Stringer("staking", staking))
	s.emitConfig("staking", caller)
	return nil
}

// AuthorizeUpgrade records the next logic identity. Until a governance
// identity is assigned the owner may authorize; afterwards only governance.
// Upgrade mechanics are outside this engine.
func (s *State) AuthorizeUpgrade(caller, target core.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.authorize(caller); err != nil {
		return err
	}
	if target.IsEmpty() {
		return core.ErrZeroAddress
	}
	s.upgrade = target
	s.logger.Info("upgrade authorized", zap.Stringer("target", target))
	s.emitConfig("upgrade", caller)
	return nil
}

// Pause blocks all transfers until Unpause.
func (s *State) Pause(caller core.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.authorize(caller); err != nil {
		return err
	}
	s.paused = true
	s.logger.Warn("transfers paused")
	s.emitConfig("pause", caller)
	return nil
}

// Unpause re-enables transfers.
func (s *State) Unpause(caller core.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.authorize(caller); err != nil {
		return err
	}
	s.paused = false
	s.logger.Info("transfers unpaused")
	s.emitConfig("unpause", caller)
	return nil
}

// OpenTrading flips the one-way trading switch. Owner only, exactly once.
func (s *State) OpenTrading(caller core.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if caller != s.owner {
		return core.ErrUnauthorized
	}
	if s.tradingOpen {
		return &core.ConfigError{Reason: "trading already open"}
	}
	s.tradingOpen = true
	s.logger.Info("trading opened", zap.Stringer("opener", caller))
	if s.reporter != nil {
		s.reporter.Emit(events.TypeTradingOpened, events.EventTradingOpened{Opener: caller})
	}
	return nil
}

// Tax returns the current tax-rate table.
func (s *State) Tax() TaxConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tax
}

// Limits returns a copy of the current abuse-limit table.
func (s *State) Limits() LimitsConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.limits.clone()
}

// Owner returns the owner identity.
func (s *State) Owner() types.Address {
	return s.owner
}

// Governance returns the governance identity, empty until assigned.
func (s *State) Governance() types.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.governance
}

// RewardPool returns the configured reward pool, empty when unset.
func (s *State) RewardPool() types.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rewardPool
}

// Staking returns the staking collaborator identity, empty when unset.
func (s *State) Staking() types.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.staking
}

// AuthorizedUpgrade returns the last authorized logic identity.
func (s *State) AuthorizedUpgrade() types.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.upgrade
}

// TradingOpen reports whether the one-way trading switch has been flipped.
func (s *State) TradingOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tradingOpen
}

// Paused reports whether transfers are blocked.
func (s *State) Paused() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.paused
}
