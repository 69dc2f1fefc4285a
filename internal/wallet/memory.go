package wallet

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu      sync.Mutex
	wallets map[string]Wallet
	entries map[string][]LedgerEntry
}

// NewMemoryStore creates a concurrency-safe in-memory store useful for unit
// tests and local development without a database.
func NewMemoryStore() Store {
	return &memoryStore{
		wallets: make(map[string]Wallet),
		entries: make(map[string][]LedgerEntry),
	}
}

func (s *memoryStore) CreateWallet(_ context.Context, userID string) (Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.wallets[userID]; exists {
		return Wallet{}, ErrWalletExists
	}
	w := Wallet{UserID: userID, Balance: 0, CreatedAt: time.Now().UTC()}
	s.wallets[userID] = w
	return w, nil
}

func (s *memoryStore) Wallet(_ context.Context, userID string) (Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[userID]
	if !ok {
		return Wallet{}, ErrWalletNotFound
	}
	return w, nil
}

// Update holds the store lock for the whole unit and stages mutations in the
// transaction handle; nothing is applied unless fn returns nil.
func (s *memoryStore) Update(_ context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{store: s, deltas: make(map[string]int64)}
	if err := fn(tx); err != nil {
		return err
	}

	for userID, delta := range tx.deltas {
		w := s.wallets[userID]
		w.Balance += delta
		s.wallets[userID] = w
	}
	for _, e := range tx.appended {
		s.entries[e.UserID] = append(s.entries[e.UserID], e)
	}
	return nil
}

func (s *memoryStore) Entries(_ context.Context, userID string, limit int) ([]LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.entries[userID]
	if limit > len(all) {
		limit = len(all)
	}
	// entries are appended in creation order; newest first means walking back
	out := make([]LedgerEntry, 0, limit)
	for i := len(all) - 1; i >= len(all)-limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

type memTx struct {
	store    *memoryStore
	deltas   map[string]int64
	appended []LedgerEntry
}

func (t *memTx) Balance(_ context.Context, userID string) (int64, error) {
	w, ok := t.store.wallets[userID]
	if !ok {
		return 0, ErrWalletNotFound
	}
	return w.Balance + t.deltas[userID], nil
}

func (t *memTx) Adjust(_ context.Context, userID string, delta int64) error {
	if _, ok := t.store.wallets[userID]; !ok {
		return ErrWalletNotFound
	}
	t.deltas[userID] += delta
	return nil
}

func (t *memTx) Append(_ context.Context, entry LedgerEntry) error {
	t.appended = append(t.appended, entry)
	return nil
}

type memoryHold struct {
	record    HoldRecord
	expiresAt time.Time
}

type memoryHoldStore struct {
	mu    sync.Mutex
	holds map[string]memoryHold
}

// NewMemoryHoldStore creates an in-memory hold store for tests and local
// development without Redis.
func NewMemoryHoldStore() HoldStore {
	return &memoryHoldStore{holds: make(map[string]memoryHold)}
}

func (s *memoryHoldStore) Hold(_ context.Context, userID, bookingID string, amount int64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	s.holds[bookingID] = memoryHold{
		record:    HoldRecord{BookingID: bookingID, UserID: userID, Amount: amount, CreatedAt: now},
		expiresAt: now.Add(ttl),
	}
	return nil
}

func (s *memoryHoldStore) Locked(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	var total int64
	for bookingID, h := range s.holds {
		if !h.expiresAt.After(now) {
			delete(s.holds, bookingID)
			continue
		}
		if h.record.UserID == userID {
			total += h.record.Amount
		}
	}
	return total, nil
}

func (s *memoryHoldStore) Release(_ context.Context, bookingID string) (HoldRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.holds[bookingID]
	if !ok || !h.expiresAt.After(time.Now().UTC()) {
		delete(s.holds, bookingID)
		return HoldRecord{}, ErrHoldNotFound
	}
	delete(s.holds, bookingID)
	return h.record, nil
}
