package tax

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/tollmesh/go-tollmesh/engine/core"
	"github.com/tollmesh/go-tollmesh/engine/gov"
)

func TestFeeFor(t *testing.T) {
	t.Run("FloorRounding", func(t *testing.T) {
		for _, tc := range []struct {
			amount uint64
			bps    uint32
			fee    uint64
		}{
			{1000, 200, 20},
			{500, 100, 5},
			{999, 100, 9},
			{1, 100, 0},
			{9999, 1, 0},
			{10000, 1, 1},
			{12345, 777, 959},
		} {
			fee := FeeFor(uint256.NewInt(tc.amount), tc.bps)
			require.Equal(t, tc.fee, fee.Uint64(), "amount=%d bps=%d", tc.amount, tc.bps)
		}
	})
	t.Run("ZeroRate", func(t *testing.T) {
		require.True(t, FeeFor(uint256.NewInt(1000), 0).IsZero())
	})
	t.Run("ZeroAmount", func(t *testing.T) {
		require.True(t, FeeFor(uint256.NewInt(0), 1000).IsZero())
	})
	t.Run("LargeAmounts", func(t *testing.T) {
		// amounts beyond 2^96 must not wrap.
		amount := new(uint256.Int).Lsh(uint256.NewInt(1), 96)
		fee := FeeFor(amount, 1000)
		expected := new(uint256.Int).Div(amount, uint256.NewInt(10))
		require.Equal(t, expected, fee)

		huge := new(uint256.Int).Lsh(uint256.NewInt(1), 255)
		fee = FeeFor(huge, gov.BpsDenominator)
		require.Equal(t, huge, fee)
	})
	t.Run("NeverExceedsAmount", func(t *testing.T) {
		for bps := uint32(0); bps <= gov.BpsDenominator; bps += 113 {
			for _, amount := range []uint64{0, 1, 3, 9999, 10000, 10001, 1 << 40} {
				fee := FeeFor(uint256.NewInt(amount), bps)
				require.False(t, fee.Gt(uint256.NewInt(amount)))
			}
		}
	})
}

func TestSplit(t *testing.T) {
	t.Run("NoRemainderDrift", func(t *testing.T) {
		// burn + reward == fee for every valid split of every fee.
		for burnBps := uint32(0); burnBps <= gov.BpsDenominator; burnBps += 249 {
			for _, fee := range []uint64{0, 1, 5, 7, 9999, 10007, 1<<63 + 13} {
				burn, reward := Split(uint256.NewInt(fee), burnBps)
				sum := new(uint256.Int).Add(burn, reward)
				require.Equal(t, fee, sum.Uint64(), "fee=%d burnBps=%d", fee, burnBps)
			}
		}
	})
	t.Run("RemainderGoesToReward", func(t *testing.T) {
		burn, reward := Split(uint256.NewInt(5), 5000)
		require.Equal(t, uint64(2), burn.Uint64())
		require.Equal(t, uint64(3), reward.Uint64())
	})
	t.Run("EvenSplit", func(t *testing.T) {
		burn, reward := Split(uint256.NewInt(20), 5000)
		require.Equal(t, uint64(10), burn.Uint64())
		require.Equal(t, uint64(10), reward.Uint64())
	})
	t.Run("AllBurn", func(t *testing.T) {
		burn, reward := Split(uint256.NewInt(33), gov.BpsDenominator)
		require.Equal(t, uint64(33), burn.Uint64())
		require.True(t, reward.IsZero())
	})
}

func TestRateFor(t *testing.T) {
	cfg := gov.TaxConfig{BuyBps: 300, SellBps: 400, TransferBps: 100, BurnBps: 5000, RewardBps: 5000}
	t.Run("PerClass", func(t *testing.T) {
		require.Equal(t, uint32(300), RateFor(cfg, core.Buy, false, false))
		require.Equal(t, uint32(400), RateFor(cfg, core.Sell, false, false))
		require.Equal(t, uint32(100), RateFor(cfg, core.Transfer, false, false))
	})
	t.Run("ExclusionZeroes", func(t *testing.T) {
		require.Equal(t, uint32(0), RateFor(cfg, core.Buy, true, false))
		require.Equal(t, uint32(0), RateFor(cfg, core.Sell, false, true))
		require.Equal(t, uint32(0), RateFor(cfg, core.Transfer, true, true))
	})
}
