package core_test

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tollmesh/go-tollmesh/common/types"
	"github.com/tollmesh/go-tollmesh/engine/core"
	"github.com/tollmesh/go-tollmesh/engine/core/mocks"
)

func TestStagedCache(t *testing.T) {
	t.Run("LoadsOnce", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		loader := mocks.NewMockAccountLoader(ctrl)
		address := types.Address{1}
		loader.EXPECT().Get(address).
			Return(types.Account{Address: address, Balance: *uint256.NewInt(100)}, nil).
			Times(1)

		cache := core.NewStagedCache(loader)
		first, err := cache.Get(address)
		require.NoError(t, err)
		second, err := cache.Get(address)
		require.NoError(t, err)
		require.Same(t, first, second)
	})
	t.Run("PropagatesLoaderError", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		loader := mocks.NewMockAccountLoader(ctrl)
		fail := errors.New("disk gone")
		loader.EXPECT().Get(gomock.Any()).Return(types.Account{}, fail)

		cache := core.NewStagedCache(loader)
		_, err := cache.Get(types.Address{1})
		require.ErrorIs(t, err, fail)
	})
	t.Run("AppliesInAddressOrder", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		loader := mocks.NewMockAccountLoader(ctrl)
		updater := mocks.NewMockAccountUpdater(ctrl)
		loader.EXPECT().Get(gomock.Any()).DoAndReturn(func(address types.Address) (types.Account, error) {
			return types.Account{Address: address}, nil
		}).Times(3)

		cache := core.NewStagedCache(loader)
		// touch out of order, expect flush sorted.
		for _, b := range []byte{7, 2, 5} {
			_, err := cache.Get(types.Address{b})
			require.NoError(t, err)
		}
		var flushed []byte
		updater.EXPECT().Update(gomock.Any()).DoAndReturn(func(account types.Account) error {
			flushed = append(flushed, account.Address[0])
			return nil
		}).Times(3)
		require.NoError(t, cache.Apply(updater))
		require.Equal(t, []byte{2, 5, 7}, flushed)
	})
	t.Run("FlushesMutations", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		loader := mocks.NewMockAccountLoader(ctrl)
		updater := mocks.NewMockAccountUpdater(ctrl)
		address := types.Address{9}
		loader.EXPECT().Get(address).Return(types.Account{Address: address}, nil)

		cache := core.NewStagedCache(loader)
		account, err := cache.Get(address)
		require.NoError(t, err)
		account.Balance.SetUint64(42)

		updater.EXPECT().Update(gomock.Any()).DoAndReturn(func(flushed types.Account) error {
			require.Equal(t, uint64(42), flushed.Balance.Uint64())
			return nil
		})
		require.NoError(t, cache.Apply(updater))
	})
	t.Run("PropagatesUpdaterError", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		loader := mocks.NewMockAccountLoader(ctrl)
		updater := mocks.NewMockAccountUpdater(ctrl)
		loader.EXPECT().Get(gomock.Any()).Return(types.Account{}, nil)
		fail := errors.New("write refused")
		updater.EXPECT().Update(gomock.Any()).Return(fail)

		cache := core.NewStagedCache(loader)
		_, err := cache.Get(types.Address{1})
		require.NoError(t, err)
		require.ErrorIs(t, cache.Apply(updater), fail)
	})
}
