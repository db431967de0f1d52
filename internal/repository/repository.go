package repository

import (
	"promti/internal/domain"
)

// ProgressRepository defines durable storage for player progress.
// Load never fails on malformed stored data: it returns a fresh default
// record instead.
type ProgressRepository interface {
	Load(playerID int64) (*domain.ProgressRecord, error)
	Save(playerID int64, record *domain.ProgressRecord) error
}
