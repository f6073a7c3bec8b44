package core

import (
	"github.com/tollmesh/go-tollmesh/common/types"
)

type (
	// Address is an alias to types.Address.
	Address = types.Address
	// Account is an alias to types.Account.
	Account = types.Account
)

//go:generate mockgen -typed -package=mocks -destination=./mocks/core.go -source=./types.go

// AccountLoader is an interface for loading accounts from the host ledger.
// A missing account is not an error: loaders return a zero-value account
// carrying the requested address.
type AccountLoader interface {
	Get(Address) (Account, error)
}

// AccountUpdater is an interface for writing accounts back to the host ledger.
type AccountUpdater interface {
	Update(Account) error
}

// Class labels a transfer according to the market-maker registry.
type Class uint8

const (
	// Transfer is a plain wallet-to-wallet move.
	Transfer Class = iota
	// Buy is a transfer originating from a registered pool or router.
	Buy
	// Sell is a transfer into a registered pool or router.
	Sell
)

func (c Class) String() string {
	switch c {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "transfer"
	}
}
