package wallet

import (
	"context"
	"time"
)

// Tx is the scoped handle given to an atomic unit. Every call made on it
// commits or rolls back together with the rest of the unit.
type Tx interface {
	// Balance reads the wallet balance, holding the row until the unit ends
	// so a concurrent unit cannot interleave between check and mutation.
	Balance(ctx context.Context, userID string) (int64, error)
	// Adjust adds delta (which may be negative) to the wallet balance.
	Adjust(ctx context.Context, userID string, delta int64) error
	// Append writes one immutable ledger entry.
	Append(ctx context.Context, entry LedgerEntry) error
}

// Store is the durable backend for wallets and their ledger.
type Store interface {
	CreateWallet(ctx context.Context, userID string) (Wallet, error)
	Wallet(ctx context.Context, userID string) (Wallet, error)
	// Update runs fn inside a single atomic unit. Any error from fn rolls
	// the whole unit back and is returned unchanged.
	Update(ctx context.Context, fn func(tx Tx) error) error
	// Entries returns the user's ledger entries, most recent first,
	// truncated to limit.
	Entries(ctx context.Context, userID string, limit int) ([]LedgerEntry, error)
}

// HoldStore is the ephemeral backend for time-bounded booking holds. Its
// writes are individually atomic but never joined with the durable store.
type HoldStore interface {
	// Locked returns the advisory sum of the user's live holds. Absence of
	// any hold is zero, not an error.
	Locked(ctx context.Context, userID string) (int64, error)
	Hold(ctx context.Context, userID, bookingID string, amount int64, ttl time.Duration) error
	// Release removes the hold for bookingID and returns it. ErrHoldNotFound
	// when no live hold exists.
	Release(ctx context.Context, bookingID string) (HoldRecord, error)
}
