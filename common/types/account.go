package types

import (
	"time"

	"github.com/holiman/uint256"
	"go.uber.org/zap/zapcore"
)

// Account holds the engine-visible state of a single address: its balance, the
// policy flags toggled through governance, and the timers maintained by the
// abuse checks. Accounts are created lazily on first reference and never
// deleted; a zero-balance account keeps its flags and timers.
type Account struct {
	Address Address
	Balance uint256.Int

	// Flags mutated only through the governance gate.
	TaxExcluded   bool
	LimitExcluded bool
	Blacklisted   bool
	Bot           bool

	// Timers stamped by the engine before any value movement. Sequence
	// numbers supplied by the host are 1-based; zero marks an account that
	// never transacted.
	LastTransferAt  time.Time
	LastTransferSeq uint64
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (a *Account) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("address", a.Address.String())
	encoder.AddString("balance", a.Balance.Dec())
	if a.Blacklisted {
		encoder.AddBool("blacklisted", true)
	}
	if a.Bot {
		encoder.AddBool("bot", true)
	}
	if a.TaxExcluded {
		encoder.AddBool("tax_excluded", true)
	}
	if a.LimitExcluded {
		encoder.AddBool("limit_excluded", true)
	}
	return nil
}
