package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"promti/internal/domain"
	"promti/internal/repository"
)

// pushTimeout bounds the fire-and-forget cloud mirror of a save
const pushTimeout = 10 * time.Second

// ProgressService owns durable player progress: local storage through the
// repository plus a best-effort cloud mirror.
type ProgressService struct {
	repo   repository.ProgressRepository
	cloud  CloudSyncCollaborator
	logger *zap.Logger
}

// NewProgressService creates a new progress service
func NewProgressService(repo repository.ProgressRepository, cloud CloudSyncCollaborator, logger *zap.Logger) *ProgressService {
	return &ProgressService{repo: repo, cloud: cloud, logger: logger}
}

// Load returns the player's merged progress. The local record is loaded
// first; if a cloud record exists it is merged on top (remote scalars win,
// removal histories are unioned). A failing local store yields a fresh
// in-memory record and domain.ErrStorageUnavailable so the caller can keep
// playing memory-only.
func (s *ProgressService) Load(ctx context.Context, playerID int64) (*domain.ProgressRecord, error) {
	rec, err := s.repo.Load(playerID)
	if err != nil {
		s.logger.Error("Local progress load failed, continuing in memory",
			zap.Int64("player_id", playerID),
			zap.Error(err),
		)
		return domain.NewProgressRecord(), fmt.Errorf("load progress: %w", domain.ErrStorageUnavailable)
	}

	remote, err := s.cloud.Pull(ctx, playerID)
	if err != nil {
		// Cloud data might be empty or unreachable on first run
		s.logger.Warn("Cloud progress pull failed",
			zap.Int64("player_id", playerID),
			zap.Error(err),
		)
		return rec, nil
	}
	rec.Merge(remote)
	return rec, nil
}

// Save writes the record locally and mirrors it to the cloud without
// blocking the caller. The local write is the one that matters: its failure
// is reported as domain.ErrStorageUnavailable, while a failed mirror is only
// logged.
func (s *ProgressService) Save(playerID int64, record *domain.ProgressRecord) error {
	if err := s.repo.Save(playerID, record); err != nil {
		s.logger.Error("Local progress save failed",
			zap.Int64("player_id", playerID),
			zap.Error(err),
		)
		return fmt.Errorf("save progress: %w", domain.ErrStorageUnavailable)
	}

	snapshot := *record
	snapshot.RemovedForbidden = record.RemovedForbidden.Clone()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
		defer cancel()
		if err := s.cloud.Push(ctx, playerID, &snapshot); err != nil {
			s.logger.Warn("Cloud progress push failed",
				zap.Int64("player_id", playerID),
				zap.Error(err),
			)
		}
	}()
	return nil
}
