package wallet

import "errors"

var (
	// ErrInvalidAmount rejects non-positive amounts before any store access.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrWalletNotFound indicates no wallet record exists for the user.
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrWalletExists indicates the user already has a wallet.
	ErrWalletExists = errors.New("wallet already exists")

	// ErrInsufficientBalance is the normal rejected outcome of a debit that
	// would take the balance below zero. It is not a system fault.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrHoldNotFound indicates the booking has no live hold, either because
	// it was already released or because its TTL elapsed.
	ErrHoldNotFound = errors.New("hold not found")

	// ErrInternal replaces any unexpected store failure. Callers must treat
	// it as "operation outcome unknown" and reconcile with a subsequent read;
	// the underlying cause is logged but never exposed.
	ErrInternal = errors.New("wallet store failure")
)
