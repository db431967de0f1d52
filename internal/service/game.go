package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"promti/internal/domain"
	"promti/internal/textmatch"
)

// ErrInvalidState is returned when an operation arrives in a state that does
// not accept it. Callers treat it as a no-op: the state machine is unchanged.
var ErrInvalidState = errors.New("operation not valid in current state")

// ErrUnknownForbiddenWord is returned when a removal targets a word id that
// is not in the level's active restriction set.
var ErrUnknownForbiddenWord = errors.New("forbidden word is not active on this level")

// GameConfig holds entitlement tuning for the level gate
type GameConfig struct {
	FreeLevels    int
	LevelsPerPack int
	PackProductID string
}

// SubmitResult is the outcome of an accepted or rejected prompt submission.
// A rejected submission carries only Validation; an accepted one carries the
// agent's reply and the phrase-detection verdict.
type SubmitResult struct {
	Validation  domain.ValidationResult
	Reply       string
	PhraseFound bool
	Spans       []textmatch.Span
}

// GameController drives one player's level lifecycle: locked → active →
// answered → advanced. It owns the only mutable session state; all methods
// serialize on an internal mutex, so at most one handler mutates a player's
// session at a time.
type GameController struct {
	playerID     int64
	content      ContentSource
	progress     *ProgressService
	textGen      TextGenerationClient
	rewarded     RewardedAdCollaborator
	interstitial InterstitialAdCollaborator
	payments     PaymentCollaborator
	cfg          GameConfig
	logger       *zap.Logger

	mu        sync.Mutex
	state     domain.LevelState
	session   domain.LevelSession
	record    *domain.ProgressRecord
	forbidden *ForbiddenWordSet

	// gen is bumped on every session rebuild. Continuations that resume
	// after an unlocked wait compare it to detect a concurrent reload and
	// discard their stale result.
	gen uint64
}

// NewGameController creates a controller over an already-loaded progress
// record. Call RequestLevel with the record's current level to start.
func NewGameController(
	playerID int64,
	content ContentSource,
	progress *ProgressService,
	textGen TextGenerationClient,
	rewarded RewardedAdCollaborator,
	interstitial InterstitialAdCollaborator,
	payments PaymentCollaborator,
	record *domain.ProgressRecord,
	cfg GameConfig,
	logger *zap.Logger,
) *GameController {
	return &GameController{
		playerID:     playerID,
		content:      content,
		progress:     progress,
		textGen:      textGen,
		rewarded:     rewarded,
		interstitial: interstitial,
		payments:     payments,
		cfg:          cfg,
		logger:       logger,
		record:       record,
		forbidden:    NewForbiddenWordSet(content, record.RemovedForbidden),
	}
}

// State returns the current lifecycle state
func (c *GameController) State() domain.LevelState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Session returns a copy of the current level session
func (c *GameController) Session() domain.LevelSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.session
	s.ActiveForbidden = append([]domain.ForbiddenWord(nil), c.session.ActiveForbidden...)
	return s
}

// Record returns a snapshot of the player's progress record
func (c *GameController) Record() domain.ProgressRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	r := *c.record
	r.RemovedForbidden = c.record.RemovedForbidden.Clone()
	return r
}

// RequestLevel loads a level: Complete when the id has no phrase, Locked
// when entitlement is insufficient, otherwise Active with a fresh session.
// Requesting the level already active is a safe no-op that keeps
// promptSubmitted intact. While a reply is in flight the session must not
// be rebuilt under it, so the request is a no-op too.
func (c *GameController) RequestLevel(id int) domain.LevelState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == domain.StateAwaitingReply {
		return c.state
	}
	return c.requestLevel(id)
}

// requestLevel is RequestLevel without the lock, for internal transitions
func (c *GameController) requestLevel(id int) domain.LevelState {
	if c.state == domain.StateActive && c.session.LevelID == id {
		return c.state
	}

	c.gen++

	phrase, ok := c.content.Phrase(id)
	if !ok {
		c.state = domain.StateComplete
		return c.state
	}

	if !c.entitled(id) {
		// Session suspended pending a purchase; remember the level so a
		// successful purchase can re-request it.
		c.session = domain.LevelSession{LevelID: id}
		c.state = domain.StateLocked
		return c.state
	}

	c.state = domain.StateLoading
	c.session = domain.LevelSession{
		LevelID:         id,
		Phrase:          phrase,
		ActiveForbidden: c.forbidden.Active(id),
	}
	c.record.CurrentLevelID = id
	c.state = domain.StateActive
	return c.state
}

// entitled checks the free allotment plus purchased packs against a level id
func (c *GameController) entitled(id int) bool {
	return id <= c.cfg.FreeLevels+c.record.PurchasedPacks*c.cfg.LevelsPerPack
}

// SubmitPrompt validates the text and, if accepted, sends it to the remote
// agent. Invalid submissions keep the state Active and report the reason.
// A remote failure rolls the submission back so the player may resubmit.
// Outside Active (including while a reply is pending) it is a no-op
// returning ErrInvalidState.
func (c *GameController) SubmitPrompt(ctx context.Context, text string) (*SubmitResult, error) {
	c.mu.Lock()
	if c.state != domain.StateActive {
		c.mu.Unlock()
		return nil, ErrInvalidState
	}

	vr := ValidatePrompt(text, c.session.ActiveForbidden, c.session.PromptSubmitted)
	if !vr.Valid {
		c.mu.Unlock()
		return &SubmitResult{Validation: vr}, nil
	}

	c.session.PromptSubmitted = true
	c.state = domain.StateAwaitingReply
	phrase := c.session.Phrase.Text
	gen := c.gen
	c.mu.Unlock()

	// Sole suspension point. The lock is released so the pending state is
	// observable and later submissions fail fast as no-ops.
	reply, err := c.textGen.Ask(ctx, strings.TrimSpace(text))

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != domain.StateAwaitingReply || c.gen != gen {
		// The session was rebuilt while the reply was in flight; the
		// reply belongs to a level visit that no longer exists.
		return nil, ErrInvalidState
	}
	if err != nil {
		// Recovery path, not a failure state: the player resubmits
		c.session.PromptSubmitted = false
		c.state = domain.StateActive
		return nil, err
	}

	found := PhraseFound(reply, phrase)
	if found {
		c.state = domain.StateAnsweredSuccess
	} else {
		c.state = domain.StateAnsweredRetry
	}
	return &SubmitResult{
		Validation:  domain.ValidationResult{Valid: true},
		Reply:       reply,
		PhraseFound: found,
		Spans:       MatchSpans(reply, phrase),
	}, nil
}

// Retry asks for a rewarded ad and, when the reward is granted, re-arms the
// level for another submission without reloading it. A declined reward
// leaves the state unchanged. Ad errors degrade to granted: the player is
// never blocked by a broken ad collaborator.
func (c *GameController) Retry(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if c.state != domain.StateAnsweredRetry {
		c.mu.Unlock()
		return false, ErrInvalidState
	}
	gen := c.gen
	c.mu.Unlock()

	granted := c.showRewarded(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != domain.StateAnsweredRetry || c.gen != gen {
		return false, ErrInvalidState
	}
	if !granted {
		return false, nil
	}
	c.session.PromptSubmitted = false
	c.state = domain.StateActive
	return true, nil
}

// Advance completes the current level after a success: interstitial ad
// (failures degrade to shown), progress bump, persist, then the next level.
func (c *GameController) Advance(ctx context.Context) (domain.LevelState, error) {
	c.mu.Lock()
	if c.state != domain.StateAnsweredSuccess {
		c.mu.Unlock()
		return c.state, ErrInvalidState
	}
	gen := c.gen
	c.mu.Unlock()

	if err := c.interstitial.ShowInterstitial(ctx); err != nil {
		c.logger.Warn("Interstitial ad failed, continuing", zap.Error(err))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != domain.StateAnsweredSuccess || c.gen != gen {
		return c.state, ErrInvalidState
	}

	c.record.TotalCompleted++
	c.persist()
	return c.requestLevel(c.session.LevelID + 1), nil
}

// RequestRemoval unlocks one active forbidden word for the current level
// after a granted rewarded ad and persists the removal. Declined rewards
// leave the restriction set unchanged. Only valid while Active with a
// non-empty restriction set.
func (c *GameController) RequestRemoval(ctx context.Context, wordID int) (bool, error) {
	c.mu.Lock()
	if c.state != domain.StateActive {
		c.mu.Unlock()
		return false, ErrInvalidState
	}
	if !c.isActiveForbidden(wordID) {
		c.mu.Unlock()
		return false, ErrUnknownForbiddenWord
	}
	c.session.Selecting = true
	c.session.SelectedForbiddenID = wordID
	gen := c.gen
	c.mu.Unlock()

	granted := c.showRewarded(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		// Session rebuilt during the ad; the selection no longer applies
		return false, ErrInvalidState
	}
	c.session.Selecting = false
	c.session.SelectedForbiddenID = 0
	if !granted {
		return false, nil
	}

	c.forbidden.Remove(c.session.LevelID, wordID)
	c.session.ActiveForbidden = c.forbidden.Active(c.session.LevelID)
	c.persist()
	return true, nil
}

// Purchase buys a phrase pack while Locked and re-requests the suspended
// level. Cancellation and failure both leave the state Locked; only
// cancellation stays silent.
func (c *GameController) Purchase(ctx context.Context) (domain.LevelState, error) {
	c.mu.Lock()
	if c.state != domain.StateLocked {
		c.mu.Unlock()
		return c.state, ErrInvalidState
	}
	levelID := c.session.LevelID
	gen := c.gen
	c.mu.Unlock()

	err := c.payments.Purchase(ctx, c.cfg.PackProductID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != domain.StateLocked || c.gen != gen {
		// Another purchase (or a reload) already resolved this lock;
		// crediting again would double-count the pack.
		return c.state, ErrInvalidState
	}
	if err != nil {
		if !errors.Is(err, domain.ErrPurchaseCancelled) {
			c.logger.Error("Purchase failed",
				zap.Int64("player_id", c.playerID),
				zap.Error(err),
			)
		}
		return c.state, err
	}

	c.record.PurchasedPacks++
	c.persist()
	return c.requestLevel(levelID), nil
}

// showRewarded wraps the rewarded-ad collaborator with the graceful
// fallback: an ad error counts as granted.
func (c *GameController) showRewarded(ctx context.Context) bool {
	granted, err := c.rewarded.ShowRewarded(ctx)
	if err != nil {
		c.logger.Warn("Rewarded ad failed, granting reward", zap.Error(err))
		return true
	}
	return granted
}

// persist saves progress; a dead local store is logged and play continues
// memory-only.
func (c *GameController) persist() {
	if err := c.progress.Save(c.playerID, c.record); err != nil {
		c.logger.Error("Progress not persisted",
			zap.Int64("player_id", c.playerID),
			zap.Error(err),
		)
	}
}

func (c *GameController) isActiveForbidden(wordID int) bool {
	for _, fw := range c.session.ActiveForbidden {
		if fw.ID == wordID {
			return true
		}
	}
	return false
}
