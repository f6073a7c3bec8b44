package core

import (
	"bytes"
	"fmt"
	"sort"
)

// StagedCache buffers account mutations for one atomic operation. Accounts are
// loaded through the host loader at most once, mutated in memory, and flushed
// together by Apply. An operation that fails simply drops the cache, leaving
// the host ledger untouched.
type StagedCache struct {
	loader AccountLoader
	staged map[Address]*Account
}

// NewStagedCache returns a cache reading through the given loader.
func NewStagedCache(loader AccountLoader) *StagedCache {
	return &StagedCache{
		loader: loader,
		staged: map[Address]*Account{},
	}
}

// Get returns the staged account for the address, loading it on first use.
// The returned pointer stays valid until Apply; mutations through it are
// flushed by Apply.
func (s *StagedCache) Get(address Address) (*Account, error) {
	if account, exist := s.staged[address]; exist {
		return account, nil
	}
	loaded, err := s.loader.Get(address)
	if err != nil {
		return nil, fmt.Errorf("load account %s: %w", address, err)
	}
	loaded.Address = address
	s.staged[address] = &loaded
	return &loaded, nil
}

// Apply flushes every staged account through the updater in address order.
func (s *StagedCache) Apply(updater AccountUpdater) error {
	touched := make([]Address, 0, len(s.staged))
	for address := range s.staged {
		touched = append(touched, address)
	}
	sort.Slice(touched, func(i, j int) bool {
		return bytes.Compare(touched[i].Bytes(), touched[j].Bytes()) < 0
	})
	for _, address := range touched {
		if err := updater.Update(*s.staged[address]); err != nil {
			return fmt.Errorf("update account %s: %w", address, err)
		}
	}
	return nil
}
