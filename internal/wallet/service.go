package wallet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nerdycapuchino/playgrid-sports/internal/notification"
)

const (
	// DefaultHoldTTL bounds how long a booking hold reserves funds before
	// the ephemeral store evicts it on its own.
	DefaultHoldTTL = 15 * time.Minute

	// DefaultHistoryLimit caps transaction history when the caller does not.
	DefaultHistoryLimit = 50
)

// Service owns every wallet mutation. Each balance change is executed as one
// atomic unit together with exactly one ledger entry; holds live only in
// the ephemeral store and never touch the balance. The service keeps no
// state between calls.
type Service struct {
	store    Store
	holds    HoldStore
	notifier notification.Notifier
	logger   *slog.Logger
	holdTTL  time.Duration
}

// NewService builds a wallet service on the provided store handles.
func NewService(store Store, holds HoldStore, notifier notification.Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    store,
		holds:    holds,
		notifier: notifier,
		logger:   logger,
		holdTTL:  DefaultHoldTTL,
	}
}

// WithHoldTTL overrides the hold expiry. Non-positive values keep the default.
func (s *Service) WithHoldTTL(ttl time.Duration) *Service {
	if ttl > 0 {
		s.holdTTL = ttl
	}
	return s
}

// MutationInput captures the shared contract of credit, debit and refund.
type MutationInput struct {
	UserID      string
	Amount      int64
	Description string
	ReferenceID string
}

// Create provisions a zero-balance wallet for the user.
func (s *Service) Create(ctx context.Context, userID string) (Wallet, error) {
	w, err := s.store.CreateWallet(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrWalletExists) {
			return Wallet{}, err
		}
		return Wallet{}, s.internal("create wallet", err)
	}
	return w, nil
}

// GetBalance reports the durable balance next to the advisory locked amount.
// The two reads race with concurrent mutations; callers must treat Locked as
// a hint, not a reservation.
func (s *Service) GetBalance(ctx context.Context, userID string) (Balance, error) {
	w, err := s.store.Wallet(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrWalletNotFound) {
			return Balance{}, err
		}
		return Balance{}, s.internal("read wallet", err)
	}

	locked, err := s.holds.Locked(ctx, userID)
	if err != nil {
		return Balance{}, s.internal("read locked amount", err)
	}

	return Balance{UserID: userID, Balance: w.Balance, Locked: locked, AsOf: time.Now().UTC()}, nil
}

// Credit unconditionally adds tokens to the wallet.
func (s *Service) Credit(ctx context.Context, input MutationInput) error {
	return s.add(ctx, input, EntryCredit, notification.KindTokensCredited)
}

// Refund compensates a previous debit. It behaves like a credit but records
// its own ledger type.
func (s *Service) Refund(ctx context.Context, input MutationInput) error {
	return s.add(ctx, input, EntryRefund, notification.KindTokensRefunded)
}

func (s *Service) add(ctx context.Context, input MutationInput, typ EntryType, kind string) error {
	if input.Amount <= 0 {
		return ErrInvalidAmount
	}

	err := s.store.Update(ctx, func(tx Tx) error {
		if err := tx.Adjust(ctx, input.UserID, input.Amount); err != nil {
			return err
		}
		return tx.Append(ctx, s.newEntry(input, typ))
	})
	switch {
	case err == nil:
		s.notify(ctx, kind, input)
		return nil
	case errors.Is(err, ErrWalletNotFound):
		return err
	default:
		return s.internal(string(typ), err)
	}
}

// Debit removes tokens from the wallet. The balance check and the decrement
// run inside the same atomic unit, so two concurrent debits cannot both pass
// the check when only one fits.
func (s *Service) Debit(ctx context.Context, input MutationInput) error {
	if input.Amount <= 0 {
		return ErrInvalidAmount
	}

	err := s.store.Update(ctx, func(tx Tx) error {
		balance, err := tx.Balance(ctx, input.UserID)
		if err != nil {
			return err
		}
		if balance < input.Amount {
			return ErrInsufficientBalance
		}
		if err := tx.Adjust(ctx, input.UserID, -input.Amount); err != nil {
			return err
		}
		return tx.Append(ctx, s.newEntry(input, EntryDebit))
	})
	switch {
	case err == nil:
		s.notify(ctx, notification.KindTokensDebited, input)
		return nil
	case errors.Is(err, ErrWalletNotFound), errors.Is(err, ErrInsufficientBalance):
		return err
	default:
		return s.internal("debit", err)
	}
}

// HoldTokens reserves funds for an in-flight booking. The hold is advisory:
// it is not validated against the current balance and never survives the
// TTL. Callers who see ErrInternal cannot tell how far the write got and
// should reconcile with GetBalance.
func (s *Service) HoldTokens(ctx context.Context, userID, bookingID string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if err := s.holds.Hold(ctx, userID, bookingID, amount, s.holdTTL); err != nil {
		return s.internal("hold tokens", err)
	}
	return nil
}

// ReleaseHold removes the booking's hold before its TTL and records a
// BOOKING_RELEASE ledger entry. No balance changes: the hold never debited
// the wallet.
func (s *Service) ReleaseHold(ctx context.Context, bookingID string) error {
	record, err := s.holds.Release(ctx, bookingID)
	if err != nil {
		if errors.Is(err, ErrHoldNotFound) {
			return err
		}
		return s.internal("release hold", err)
	}

	entry := LedgerEntry{
		ID:          uuid.NewString(),
		UserID:      record.UserID,
		Amount:      record.Amount,
		Type:        EntryBookingRelease,
		Description: "booking hold released",
		ReferenceID: bookingID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.Update(ctx, func(tx Tx) error { return tx.Append(ctx, entry) }); err != nil {
		return s.internal("record hold release", err)
	}
	return nil
}

// History returns the user's ledger entries, most recent first. The result
// is a snapshot: re-invocation may differ as new entries are appended.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]LedgerEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	entries, err := s.store.Entries(ctx, userID, limit)
	if err != nil {
		return nil, s.internal("read history", err)
	}
	return entries, nil
}

func (s *Service) newEntry(input MutationInput, typ EntryType) LedgerEntry {
	return LedgerEntry{
		ID:          uuid.NewString(),
		UserID:      input.UserID,
		Amount:      input.Amount,
		Type:        typ,
		Description: input.Description,
		ReferenceID: input.ReferenceID,
		CreatedAt:   time.Now().UTC(),
	}
}

// internal logs the underlying cause and hands callers the opaque sentinel:
// from their side the outcome of the failed unit is unknown.
func (s *Service) internal(op string, err error) error {
	s.logger.Error("wallet store failure", "op", op, "error", err)
	return fmt.Errorf("%s: %w", op, ErrInternal)
}

func (s *Service) notify(ctx context.Context, kind string, input MutationInput) {
	if s.notifier == nil {
		return
	}
	_ = s.notifier.Send(ctx, notification.Message{
		Kind:   kind,
		UserID: input.UserID,
		Amount: input.Amount,
		Body:   input.Description,
	})
}
