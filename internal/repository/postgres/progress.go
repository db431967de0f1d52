package postgres

import (
	"database/sql"
	"encoding/json"

	"go.uber.org/zap"

	"promti/internal/domain"
)

// ProgressRepo implements repository.ProgressRepository on PostgreSQL.
// Each player owns one row with the whole progress record as JSON.
type ProgressRepo struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProgressRepo creates a new progress repository
func NewProgressRepo(db *sql.DB, logger *zap.Logger) *ProgressRepo {
	return &ProgressRepo{db: db, logger: logger}
}

// Load returns the player's progress record. A missing row or a row that
// fails to parse yields a fresh default record, never an error: corrupt
// stored data must not crash the session.
func (r *ProgressRepo) Load(playerID int64) (*domain.ProgressRecord, error) {
	query := `
		SELECT data
		FROM progress
		WHERE player_id = $1
	`
	var raw []byte
	err := r.db.QueryRow(query, playerID).Scan(&raw)
	if err == sql.ErrNoRows {
		return domain.NewProgressRecord(), nil
	}
	if err != nil {
		return nil, err
	}

	var rec domain.ProgressRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		r.logger.Warn("Corrupt progress record, starting fresh",
			zap.Int64("player_id", playerID),
			zap.Error(err),
		)
		return domain.NewProgressRecord(), nil
	}

	normalize(&rec)
	return &rec, nil
}

// Save upserts the player's progress record
func (r *ProgressRepo) Save(playerID int64, record *domain.ProgressRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO progress (player_id, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (player_id)
		DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`
	_, err = r.db.Exec(query, playerID, raw)
	return err
}

// normalize repairs a loaded record: zero level id becomes the first level,
// negative counters are clamped and the removal history is deduplicated.
func normalize(rec *domain.ProgressRecord) {
	if rec.CurrentLevelID < 1 {
		rec.CurrentLevelID = 1
	}
	if rec.TotalCompleted < 0 {
		rec.TotalCompleted = 0
	}
	if rec.PurchasedPacks < 0 {
		rec.PurchasedPacks = 0
	}
	if rec.RemovedForbidden == nil {
		rec.RemovedForbidden = domain.RemovalHistory{}
	}
	rec.RemovedForbidden.Dedupe()
}
