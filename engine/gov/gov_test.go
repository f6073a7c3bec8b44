package gov

import (
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tollmesh/go-tollmesh/accounts"
	"github.com/tollmesh/go-tollmesh/common/types"
	"github.com/tollmesh/go-tollmesh/engine/core"
	"github.com/tollmesh/go-tollmesh/events"
)

var (
	owner      = types.GenerateAddress([]byte{1})
	governance = types.GenerateAddress([]byte{2})
	stranger   = types.GenerateAddress([]byte{3})
	target     = types.GenerateAddress([]byte{4})
)

func testState(tb testing.TB, opts ...Opt) (*State, *accounts.Store) {
	tb.Helper()
	store := accounts.NewStore()
	opts = append([]Opt{WithLogger(zaptest.NewLogger(tb))}, opts...)
	state, err := New(owner, store, store, opts...)
	require.NoError(tb, err)
	return state, store
}

func TestNew(t *testing.T) {
	t.Run("RejectsEmptyOwner", func(t *testing.T) {
		store := accounts.NewStore()
		_, err := New(types.EmptyAddress, store, store)
		require.ErrorIs(t, err, core.ErrZeroAddress)
	})
	t.Run("StartsWithDefaults", func(t *testing.T) {
		state, _ := testState(t)
		require.Equal(t, DefaultTaxConfig(), state.Tax())
		require.False(t, state.TradingOpen())
		require.False(t, state.Paused())
		require.True(t, state.Governance().IsEmpty())
	})
}

func TestAuthorization(t *testing.T) {
	t.Run("OwnerMutatesBeforeGovernance", func(t *testing.T) {
		state, _ := testState(t)
		require.NoError(t, state.SetTaxConfig(owner, DefaultTaxConfig()))
		require.ErrorIs(t, state.SetTaxConfig(stranger, DefaultTaxConfig()), core.ErrUnauthorized)
	})
	t.Run("GovernanceTakesOver", func(t *testing.T) {
		state, _ := testState(t)
		require.NoError(t, state.SetGovernance(owner, governance))
		require.ErrorIs(t, state.SetTaxConfig(owner, DefaultTaxConfig()), core.ErrUnauthorized)
		require.NoError(t, state.SetTaxConfig(governance, DefaultTaxConfig()))
	})
	t.Run("GovernanceIsOneWay", func(t *testing.T) {
		state, _ := testState(t)
		require.NoError(t, state.SetGovernance(owner, governance))
		require.ErrorIs(t, state.SetGovernance(owner, stranger), core.ErrInvalidConfig)
		require.Equal(t, governance, state.Governance())
	})
	t.Run("OnlyOwnerAssignsGovernance", func(t *testing.T) {
		state, _ := testState(t)
		require.ErrorIs(t, state.SetGovernance(stranger, governance), core.ErrUnauthorized)
	})
}

func TestSetTaxConfig(t *testing.T) {
	t.Run("RejectsBadSplit", func(t *testing.T) {
		state, _ := testState(t)
		prev := state.Tax()
		cfg := DefaultTaxConfig()
		cfg.BurnBps = 6000 // 6000 + 5000 != 10000
		require.ErrorIs(t, state.SetTaxConfig(owner, cfg), core.ErrInvalidConfig)
		require.Equal(t, prev, state.Tax())
	})
	t.Run("RejectsWrappingSplit", func(t *testing.T) {
		state, _ := testState(t)
		prev := state.Tax()
		cfg := DefaultTaxConfig()
		// 4294967295 + 10001 wraps to 10000 in uint32 arithmetic.
		cfg.BurnBps = 4294967295
		cfg.RewardBps = 10001
		require.ErrorIs(t, state.SetTaxConfig(owner, cfg), core.ErrInvalidConfig)
		require.Equal(t, prev, state.Tax())
	})
	t.Run("RejectsRateAboveCeiling", func(t *testing.T) {
		state, _ := testState(t)
		prev := state.Tax()
		cfg := DefaultTaxConfig()
		cfg.SellBps = MaxTaxRateBps + 1
		require.ErrorIs(t, state.SetTaxConfig(owner, cfg), core.ErrInvalidConfig)
		require.Equal(t, prev, state.Tax())
	})
	t.Run("ReadBackAfterWrite", func(t *testing.T) {
		state, _ := testState(t)
		cfg := TaxConfig{BuyBps: 200, SellBps: 500, TransferBps: 50, BurnBps: 7000, RewardBps: 3000}
		require.NoError(t, state.SetTaxConfig(owner, cfg))
		require.Equal(t, cfg, state.Tax())
	})
}

func TestSetLimitsConfig(t *testing.T) {
	t.Run("RejectsShortCooldown", func(t *testing.T) {
		state, _ := testState(t)
		cfg := DefaultLimitsConfig()
		cfg.Cooldown = MinCooldown - time.Second
		require.ErrorIs(t, state.SetLimitsConfig(owner, cfg), core.ErrInvalidConfig)
		require.Equal(t, MinCooldown, state.Limits().Cooldown)
	})
	t.Run("RejectsZeroCeilings", func(t *testing.T) {
		state, _ := testState(t)
		cfg := DefaultLimitsConfig()
		cfg.MaxTxAmount = uint256.NewInt(0)
		require.ErrorIs(t, state.SetLimitsConfig(owner, cfg), core.ErrInvalidConfig)

		cfg = DefaultLimitsConfig()
		cfg.MaxWalletBalance = uint256.NewInt(0)
		require.ErrorIs(t, state.SetLimitsConfig(owner, cfg), core.ErrInvalidConfig)
	})
	t.Run("CopiesOnWriteAndRead", func(t *testing.T) {
		state, _ := testState(t)
		cfg := DefaultLimitsConfig()
		cfg.MaxTxAmount = uint256.NewInt(777)
		require.NoError(t, state.SetLimitsConfig(owner, cfg))
		// mutating the input record must not leak into the store.
		cfg.MaxTxAmount.SetUint64(1)
		require.Equal(t, uint64(777), state.Limits().MaxTxAmount.Uint64())
	})
}

func TestMarketMakers(t *testing.T) {
	t.Run("PoolAndRouterMembership", func(t *testing.T) {
		state, _ := testState(t)
		require.False(t, state.IsMarketMaker(target))
		require.NoError(t, state.SetPool(owner, target, true))
		require.True(t, state.IsMarketMaker(target))

		router := types.GenerateAddress([]byte{5})
		require.NoError(t, state.SetRouter(owner, router, true))
		require.True(t, state.IsMarketMaker(router))
	})
	t.Run("CachePurgedOnMutation", func(t *testing.T) {
		state, _ := testState(t)
		require.False(t, state.IsMarketMaker(target)) // caches the miss
		require.NoError(t, state.SetPool(owner, target, true))
		require.True(t, state.IsMarketMaker(target))
		require.NoError(t, state.SetPool(owner, target, false))
		require.False(t, state.IsMarketMaker(target))
	})
	t.Run("RejectsZeroAddress", func(t *testing.T) {
		state, _ := testState(t)
		require.ErrorIs(t, state.SetPool(owner, types.EmptyAddress, true), core.ErrZeroAddress)
	})
}

func TestAccountFlags(t *testing.T) {
	t.Run("Blacklist", func(t *testing.T) {
		state, store := testState(t)
		require.NoError(t, state.SetBlacklist(owner, target, true))
		account, err := store.Get(target)
		require.NoError(t, err)
		require.True(t, account.Blacklisted)

		require.NoError(t, state.SetBlacklist(owner, target, false))
		account, err = store.Get(target)
		require.NoError(t, err)
		require.False(t, account.Blacklisted)
	})
	t.Run("PrivilegedIdentitiesNeverBlacklisted", func(t *testing.T) {
		state, _ := testState(t)
		require.ErrorIs(t, state.SetBlacklist(owner, owner, true), core.ErrInvalidConfig)
		require.NoError(t, state.SetGovernance(owner, governance))
		require.ErrorIs(t, state.SetBlacklist(governance, governance, true), core.ErrInvalidConfig)
	})
	t.Run("Exclusions", func(t *testing.T) {
		state, store := testState(t)
		require.NoError(t, state.SetTaxExcluded(owner, target, true))
		require.NoError(t, state.SetLimitExcluded(owner, target, true))
		require.NoError(t, state.SetBot(owner, target, true))
		account, err := store.Get(target)
		require.NoError(t, err)
		require.True(t, account.TaxExcluded)
		require.True(t, account.LimitExcluded)
		require.True(t, account.Bot)
	})
}

func TestOpenTrading(t *testing.T) {
	t.Run("OwnerOnlyOnce", func(t *testing.T) {
		state, _ := testState(t)
		require.ErrorIs(t, state.OpenTrading(stranger), core.ErrUnauthorized)
		require.NoError(t, state.OpenTrading(owner))
		require.True(t, state.TradingOpen())
		require.ErrorIs(t, state.OpenTrading(owner), core.ErrInvalidConfig)
	})
	t.Run("GovernanceCannotOpen", func(t *testing.T) {
		state, _ := testState(t)
		require.NoError(t, state.SetGovernance(owner, governance))
		require.ErrorIs(t, state.OpenTrading(governance), core.ErrUnauthorized)
	})
}

func TestPause(t *testing.T) {
	state, _ := testState(t)
	require.NoError(t, state.Pause(owner))
	require.True(t, state.Paused())
	require.NoError(t, state.Unpause(owner))
	require.False(t, state.Paused())
	require.ErrorIs(t, state.Pause(stranger), core.ErrUnauthorized)
}

func TestAuthorizeUpgrade(t *testing.T) {
	t.Run("OwnerUntilGovernanceSet", func(t *testing.T) {
		state, _ := testState(t)
		require.NoError(t, state.AuthorizeUpgrade(owner, target))
		require.Equal(t, target, state.AuthorizedUpgrade())

		require.NoError(t, state.SetGovernance(owner, governance))
		require.ErrorIs(t, state.AuthorizeUpgrade(owner, target), core.ErrUnauthorized)
		require.NoError(t, state.AuthorizeUpgrade(governance, target))
	})
	t.Run("RejectsZeroTarget", func(t *testing.T) {
		state, _ := testState(t)
		require.ErrorIs(t, state.AuthorizeUpgrade(owner, types.EmptyAddress), core.ErrZeroAddress)
	})
}

func TestConfigEvents(t *testing.T) {
	reporter := events.NewReporter(16)
	defer reporter.Close()
	sub, cancel := reporter.Subscribe()
	defer cancel()

	state, _ := testState(t, WithReporter(reporter))
	require.NoError(t, state.SetTaxConfig(owner, DefaultTaxConfig()))

	event := <-sub
	require.Equal(t, events.TypeConfigUpdated, event.Type)
	details, valid := event.Details.(events.EventConfigUpdated)
	require.True(t, valid)
	require.Equal(t, "tax", details.Record)
	require.Equal(t, owner, details.Caller)
}
