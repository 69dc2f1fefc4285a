package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists wallets and ledger entries in PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a store backed by a pgx connection pool.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// CreateWallet inserts a zero-balance wallet row for the user.
func (s *PostgresStore) CreateWallet(ctx context.Context, userID string) (Wallet, error) {
	now := time.Now().UTC()
	tag, err := s.db.Exec(ctx, `INSERT INTO wallets (user_id, balance, created_at)
        VALUES ($1, 0, $2) ON CONFLICT (user_id) DO NOTHING`, userID, now)
	if err != nil {
		return Wallet{}, err
	}
	if tag.RowsAffected() == 0 {
		return Wallet{}, ErrWalletExists
	}
	return Wallet{UserID: userID, Balance: 0, CreatedAt: now}, nil
}

// Wallet fetches the wallet row by user identifier.
func (s *PostgresStore) Wallet(ctx context.Context, userID string) (Wallet, error) {
	row := s.db.QueryRow(ctx, `SELECT user_id, balance, created_at FROM wallets WHERE user_id = $1`, userID)
	var w Wallet
	var createdAt time.Time
	if err := row.Scan(&w.UserID, &w.Balance, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Wallet{}, ErrWalletNotFound
		}
		return Wallet{}, err
	}
	w.CreatedAt = createdAt.UTC()
	return w, nil
}

// Update opens a transaction and hands fn a handle scoped to it. The
// transaction commits only when fn returns nil; every other exit path rolls
// back, so a failure between a balance mutation and its ledger append leaves
// neither applied.
func (s *PostgresStore) Update(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if err := fn(&pgTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Entries returns the user's ledger, newest first, capped at limit.
func (s *PostgresStore) Entries(ctx context.Context, userID string, limit int) ([]LedgerEntry, error) {
	rows, err := s.db.Query(ctx, `SELECT id, user_id, amount, type, description, COALESCE(reference_id, ''), created_at
        FROM wallet_ledger WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LedgerEntry
	for rows.Next() {
		var e LedgerEntry
		var id uuid.UUID
		var typ string
		var createdAt time.Time
		if err := rows.Scan(&id, &e.UserID, &e.Amount, &typ, &e.Description, &e.ReferenceID, &createdAt); err != nil {
			return nil, err
		}
		e.ID = id.String()
		e.Type = EntryType(typ)
		e.CreatedAt = createdAt.UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type pgTx struct {
	tx pgx.Tx
}

// Balance locks the wallet row for the remainder of the unit so two
// concurrent debits serialize on the check-then-decrement.
func (t *pgTx) Balance(ctx context.Context, userID string) (int64, error) {
	var balance int64
	err := t.tx.QueryRow(ctx, `SELECT balance FROM wallets WHERE user_id = $1 FOR UPDATE`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrWalletNotFound
		}
		return 0, err
	}
	return balance, nil
}

func (t *pgTx) Adjust(ctx context.Context, userID string, delta int64) error {
	tag, err := t.tx.Exec(ctx, `UPDATE wallets SET balance = balance + $2 WHERE user_id = $1`, userID, delta)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWalletNotFound
	}
	return nil
}

func (t *pgTx) Append(ctx context.Context, entry LedgerEntry) error {
	entryID, err := uuid.Parse(entry.ID)
	if err != nil {
		return err
	}
	_, err = t.tx.Exec(ctx, `INSERT INTO wallet_ledger (id, user_id, amount, type, description, reference_id, created_at)
        VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)`,
		entryID, entry.UserID, entry.Amount, string(entry.Type), entry.Description, entry.ReferenceID, entry.CreatedAt.UTC())
	return err
}
