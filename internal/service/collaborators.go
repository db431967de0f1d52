package service

import (
	"context"

	"promti/internal/domain"
)

// ContentSource provides the static level definitions, loaded once at startup
type ContentSource interface {
	Phrase(id int) (domain.Phrase, bool)
	ForbiddenFor(phraseID int) []domain.ForbiddenWord
	PhraseCount() int
}

// TextGenerationClient is the remote agent the player tries to induce into
// saying the secret phrase. Text in, text out; the transport is the
// implementation's concern.
type TextGenerationClient interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

// RewardedAdCollaborator shows a rewarded ad and reports whether the reward
// was granted. Used for restriction removal and retries.
type RewardedAdCollaborator interface {
	ShowRewarded(ctx context.Context) (granted bool, err error)
}

// InterstitialAdCollaborator shows a fullscreen ad between levels.
// Failures must never block progress.
type InterstitialAdCollaborator interface {
	ShowInterstitial(ctx context.Context) error
}

// PaymentCollaborator performs an in-app purchase. A user cancellation is
// reported as domain.ErrPurchaseCancelled.
type PaymentCollaborator interface {
	Purchase(ctx context.Context, productID string) error
}

// CloudSyncCollaborator mirrors progress to remote storage, best effort.
// Pull returns nil when no remote record exists.
type CloudSyncCollaborator interface {
	Pull(ctx context.Context, playerID int64) (*domain.ProgressRecord, error)
	Push(ctx context.Context, playerID int64, record *domain.ProgressRecord) error
}
