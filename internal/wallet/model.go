package wallet

import "time"

// EntryType classifies a ledger entry. The direction of a balance change is
// carried by the type, not by the sign of the amount.
type EntryType string

const (
	EntryCredit         EntryType = "CREDIT"
	EntryDebit          EntryType = "DEBIT"
	EntryRefund         EntryType = "REFUND"
	EntryBookingHold    EntryType = "BOOKING_HOLD"
	EntryBookingRelease EntryType = "BOOKING_RELEASE"
)

// Wallet is the durable token balance for a single user. The balance never
// goes negative: debits are rejected before they would cross zero.
type Wallet struct {
	UserID    string
	Balance   int64
	CreatedAt time.Time
}

// LedgerEntry records one balance-affecting event. Entries are immutable
// once written and are never updated or deleted.
type LedgerEntry struct {
	ID          string
	UserID      string
	Amount      int64
	Type        EntryType
	Description string
	ReferenceID string
	CreatedAt   time.Time
}

// Balance is a point-in-time snapshot of spendable and held funds. The two
// underlying reads are not joined transactionally, so Locked is advisory.
type Balance struct {
	UserID  string
	Balance int64
	Locked  int64
	AsOf    time.Time
}

// HoldRecord is the ephemeral reservation written for a booking. It expires
// on its own after the configured TTL; holds are soft reservations, never
// the source of truth for spendable balance.
type HoldRecord struct {
	BookingID string    `json:"booking_id"`
	UserID    string    `json:"user_id"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}
