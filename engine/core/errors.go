package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/holiman/uint256"
)

var (
	// ErrTradingNotOpen is returned while the one-way trading switch is still off.
	ErrTradingNotOpen = errors.New("core: trading is not open")
	// ErrPaused is returned while transfers are paused by governance.
	ErrPaused = errors.New("core: transfers are paused")
	// ErrBlacklisted is returned when either party of a transfer is blacklisted.
	ErrBlacklisted = errors.New("core: address is blacklisted")
	// ErrBotDetected is returned when bot protection is on and a party is flagged.
	ErrBotDetected = errors.New("core: address is flagged as bot")
	// ErrInvalidRecipient is returned for transfers to the null identifier.
	ErrInvalidRecipient = errors.New("core: invalid recipient")
	// ErrZeroAddress is returned when an operation references the null identifier.
	ErrZeroAddress = errors.New("core: zero address")
	// ErrZeroAmount is returned for zero-amount transfers.
	ErrZeroAmount = errors.New("core: zero amount")
	// ErrUnauthorized is returned when a caller fails the governance gate.
	ErrUnauthorized = errors.New("core: unauthorized")
	// ErrLimitExceeded is the sentinel matched by LimitError.
	ErrLimitExceeded = errors.New("core: limit exceeded")
	// ErrCooldownActive is the sentinel matched by CooldownError.
	ErrCooldownActive = errors.New("core: cooldown active")
	// ErrReplayBlocked is returned by the same-block replay protection.
	ErrReplayBlocked = errors.New("core: same-block replay blocked")
	// ErrInvalidConfig is the sentinel matched by ConfigError.
	ErrInvalidConfig = errors.New("core: invalid configuration")
	// ErrNoBalance is returned when the sender cannot cover the transfer.
	ErrNoBalance = errors.New("core: no balance")
	// ErrReentrancy is returned for a nested invocation of the transfer path.
	ErrReentrancy = errors.New("core: reentrant call")
)

// LimitError reports which limit a transfer violated and by how much.
type LimitError struct {
	Amount *uint256.Int
	Limit  *uint256.Int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%v: amount %s > limit %s", ErrLimitExceeded, e.Amount.Dec(), e.Limit.Dec())
}

func (e *LimitError) Unwrap() error { return ErrLimitExceeded }

// CooldownError reports how long the sender still has to wait.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%v: %s remaining", ErrCooldownActive, e.Remaining)
}

func (e *CooldownError) Unwrap() error { return ErrCooldownActive }

// ConfigError reports why a configuration record was rejected. The previous
// record stays in effect whenever it is returned.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvalidConfig, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }
