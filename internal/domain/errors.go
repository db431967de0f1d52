package domain

import "errors"

var (
	// ErrStorageUnavailable means the local progress write failed. Gameplay
	// continues in memory only; every later save keeps reporting it.
	ErrStorageUnavailable = errors.New("progress storage unavailable")

	// ErrPurchaseCancelled is a user cancellation, surfaced silently
	ErrPurchaseCancelled = errors.New("purchase cancelled")
)
