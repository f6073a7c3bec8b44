// Package accounts provides an in-memory account store. The production
// registry is owned by the host ledger; this store stands in for it in tests
// and in the CLI.
package accounts

import (
	"sync"

	"github.com/tollmesh/go-tollmesh/common/types"
)

// Store is a map-backed account registry. Missing accounts read as zero-value
// records, matching the lazily-created-never-deleted account model.
type Store struct {
	mu       sync.RWMutex
	accounts map[types.Address]types.Account
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{accounts: map[types.Address]types.Account{}}
}

// Get implements core.AccountLoader.
func (s *Store) Get(address types.Address) (types.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, exist := s.accounts[address]
	if !exist {
		return types.Account{Address: address}, nil
	}
	return account, nil
}

// Update implements core.AccountUpdater.
func (s *Store) Update(account types.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.Address] = account
	return nil
}

// All returns a snapshot of every stored account.
func (s *Store) All() []types.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		out = append(out, account)
	}
	return out
}
