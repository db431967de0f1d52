package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"promti/internal/domain"
	"promti/internal/testutil"
)

type gameFixture struct {
	repo         *testutil.MockProgressRepository
	cloud        *testutil.MockCloudSync
	textGen      *testutil.MockTextGenerationClient
	rewarded     *testutil.MockRewardedAds
	interstitial *testutil.MockInterstitialAds
	payments     *testutil.MockPayments
	ctrl         *GameController
}

var testCfg = GameConfig{
	FreeLevels:    10,
	LevelsPerPack: 10,
	PackProductID: "phrases_pack_10",
}

func newGame(content ContentSource, record *domain.ProgressRecord) *gameFixture {
	f := &gameFixture{
		repo:         new(testutil.MockProgressRepository),
		cloud:        new(testutil.MockCloudSync),
		textGen:      new(testutil.MockTextGenerationClient),
		rewarded:     new(testutil.MockRewardedAds),
		interstitial: new(testutil.MockInterstitialAds),
		payments:     new(testutil.MockPayments),
	}
	f.repo.On("Save", mock.Anything, mock.Anything).Return(nil).Maybe()
	f.cloud.On("Push", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	progress := NewProgressService(f.repo, f.cloud, testutil.NewTestLogger())
	f.ctrl = NewGameController(
		42, content, progress,
		f.textGen, f.rewarded, f.interstitial, f.payments,
		record, testCfg, testutil.NewTestLogger(),
	)
	return f
}

// twelveLevels builds enough phrases to cross the free allotment
func twelveLevels() *testutil.FakeContent {
	c := &testutil.FakeContent{Forbidden: map[int][]domain.ForbiddenWord{}}
	for i := 1; i <= 12; i++ {
		c.Phrases = append(c.Phrases, domain.Phrase{ID: i, Text: fmt.Sprintf("секретная фраза %d", i)})
		c.Forbidden[i] = []domain.ForbiddenWord{{ID: i, PhraseID: i, Root: "секрет"}}
	}
	return c
}

func TestGameController_RequestLevel(t *testing.T) {
	t.Run("existing level becomes active with forbidden set", func(t *testing.T) {
		f := newGame(testutil.NewTestContent("бел", "ворон"), domain.NewProgressRecord())

		state := f.ctrl.RequestLevel(1)

		assert.Equal(t, domain.StateActive, state)
		session := f.ctrl.Session()
		assert.Equal(t, 1, session.LevelID)
		assert.Equal(t, "белая ворона", session.Phrase.Text)
		assert.Len(t, session.ActiveForbidden, 2)
		assert.False(t, session.PromptSubmitted)
	})

	t.Run("removal history excluded from new session", func(t *testing.T) {
		rec := domain.NewProgressRecord()
		rec.RemovedForbidden = domain.RemovalHistory{1: {1}}
		f := newGame(testutil.NewTestContent("бел", "ворон"), rec)

		f.ctrl.RequestLevel(1)

		session := f.ctrl.Session()
		require.Len(t, session.ActiveForbidden, 1)
		assert.Equal(t, "ворон", session.ActiveForbidden[0].Root)
	})

	t.Run("missing phrase means the game is complete", func(t *testing.T) {
		f := newGame(testutil.NewTestContent("бел"), domain.NewProgressRecord())

		assert.Equal(t, domain.StateComplete, f.ctrl.RequestLevel(3))
	})

	t.Run("level beyond entitlement is locked", func(t *testing.T) {
		f := newGame(twelveLevels(), domain.NewProgressRecord())

		assert.Equal(t, domain.StateActive, f.ctrl.RequestLevel(10))
		assert.Equal(t, domain.StateLocked, f.ctrl.RequestLevel(11))
	})

	t.Run("purchased pack extends entitlement", func(t *testing.T) {
		rec := domain.NewProgressRecord()
		rec.PurchasedPacks = 1
		f := newGame(twelveLevels(), rec)

		assert.Equal(t, domain.StateActive, f.ctrl.RequestLevel(11))
	})

	t.Run("same level while active is a no-op keeping promptSubmitted", func(t *testing.T) {
		f := newGame(testutil.NewTestContent("бел"), domain.NewProgressRecord())
		f.ctrl.RequestLevel(1)

		f.ctrl.mu.Lock()
		f.ctrl.session.PromptSubmitted = true
		f.ctrl.mu.Unlock()

		state := f.ctrl.RequestLevel(1)

		assert.Equal(t, domain.StateActive, state)
		assert.True(t, f.ctrl.Session().PromptSubmitted)
	})

	t.Run("different level rebuilds the session", func(t *testing.T) {
		f := newGame(testutil.NewTestContent("бел"), domain.NewProgressRecord())
		f.ctrl.RequestLevel(1)

		f.ctrl.mu.Lock()
		f.ctrl.session.PromptSubmitted = true
		f.ctrl.mu.Unlock()

		f.ctrl.RequestLevel(2)

		session := f.ctrl.Session()
		assert.Equal(t, 2, session.LevelID)
		assert.False(t, session.PromptSubmitted)
	})
}

func TestGameController_SubmitPrompt(t *testing.T) {
	ctx := context.Background()

	t.Run("too short prompt stays active", func(t *testing.T) {
		f := newGame(testutil.NewTestContent("бел"), domain.NewProgressRecord())
		f.ctrl.RequestLevel(1)

		result, err := f.ctrl.SubmitPrompt(ctx, "аб")

		require.NoError(t, err)
		assert.False(t, result.Validation.Valid)
		assert.Equal(t, domain.ReasonTooShort, result.Validation.Reason)
		assert.Equal(t, domain.StateActive, f.ctrl.State())
		assert.False(t, f.ctrl.Session().PromptSubmitted)
		f.textGen.AssertNotCalled(t, "Ask", mock.Anything, mock.Anything)
	})

	t.Run("forbidden root reported with offending root", func(t *testing.T) {
		f := newGame(testutil.NewTestContent("бел", "ворон"), domain.NewProgressRecord())
		f.ctrl.RequestLevel(1)

		result, err := f.ctrl.SubmitPrompt(ctx, "эта птица белее снега")

		require.NoError(t, err)
		assert.Equal(t, domain.ReasonForbiddenRoot, result.Validation.Reason)
		assert.Equal(t, "бел", result.Validation.Root)
		assert.Equal(t, domain.StateActive, f.ctrl.State())
	})

	t.Run("successful reply with phrase", func(t *testing.T) {
		f := newGame(testutil.NewTestContent("бел", "ворон"), domain.NewProgressRecord())
		f.ctrl.RequestLevel(1)
		f.textGen.On("Ask", mock.Anything, "опиши редкого человека в коллективе").
			Return("Похоже, это белая ворона!", nil)

		result, err := f.ctrl.SubmitPrompt(ctx, "  опиши редкого человека в коллективе  ")

		require.NoError(t, err)
		assert.True(t, result.PhraseFound)
		assert.NotEmpty(t, result.Spans)
		assert.Equal(t, domain.StateAnsweredSuccess, f.ctrl.State())
		assert.True(t, f.ctrl.Session().PromptSubmitted)
		f.textGen.AssertExpectations(t)
	})

	t.Run("reply without phrase goes to retry", func(t *testing.T) {
		f := newGame(testutil.NewTestContent("бел"), domain.NewProgressRecord())
		f.ctrl.RequestLevel(1)
		f.textGen.On("Ask", mock.Anything, mock.Anything).Return("Не могу угадать", nil)

		result, err := f.ctrl.SubmitPrompt(ctx, "опиши редкого человека")

		require.NoError(t, err)
		assert.False(t, result.PhraseFound)
		assert.Empty(t, result.Spans)
		assert.Equal(t, domain.StateAnsweredRetry, f.ctrl.State())
	})

	t.Run("remote error rolls the submission back", func(t *testing.T) {
		f := newGame(testutil.NewTestContent("бел"), domain.NewProgressRecord())
		f.ctrl.RequestLevel(1)
		f.textGen.On("Ask", mock.Anything, mock.Anything).
			Return("", fmt.Errorf("connection reset")).Once()

		_, err := f.ctrl.SubmitPrompt(ctx, "опиши редкого человека")

		assert.Error(t, err)
		assert.Equal(t, domain.StateActive, f.ctrl.State())
		assert.False(t, f.ctrl.Session().PromptSubmitted)

		// Recovery path: the player may resubmit immediately
		f.textGen.On("Ask", mock.Anything, mock.Anything).
			Return("это белая ворона", nil).Once()
		result, err := f.ctrl.SubmitPrompt(ctx, "опиши редкого человека")
		require.NoError(t, err)
		assert.True(t, result.PhraseFound)
	})

	t.Run("second submission on the same visit is rejected", func(t *testing.T) {
		f := newGame(testutil.NewTestContent("бел"), domain.NewProgressRecord())
		f.ctrl.RequestLevel(1)

		f.ctrl.mu.Lock()
		f.ctrl.session.PromptSubmitted = true
		f.ctrl.mu.Unlock()

		result, err := f.ctrl.SubmitPrompt(ctx, "опиши редкого человека")

		require.NoError(t, err)
		assert.Equal(t, domain.ReasonAlreadySubmitted, result.Validation.Reason)
	})

	t.Run("submit outside active state is a no-op", func(t *testing.T) {
		f := newGame(testutil.NewTestContent("бел"), domain.NewProgressRecord())
		f.ctrl.RequestLevel(1)
		f.textGen.On("Ask", mock.Anything, mock.Anything).Return("мимо", nil)
		_, err := f.ctrl.SubmitPrompt(ctx, "опиши редкого человека")
		require.NoError(t, err)
		require.Equal(t, domain.StateAnsweredRetry, f.ctrl.State())

		_, err = f.ctrl.SubmitPrompt(ctx, "опиши ещё раз")

		assert.ErrorIs(t, err, ErrInvalidState)
		assert.Equal(t, domain.StateAnsweredRetry, f.ctrl.State())
	})
}

func TestGameController_Retry(t *testing.T) {
	ctx := context.Background()

	toRetry := func(t *testing.T, f *gameFixture) {
		f.ctrl.RequestLevel(1)
		f.textGen.On("Ask", mock.Anything, mock.Anything).Return("мимо", nil).Once()
		_, err := f.ctrl.SubmitPrompt(ctx, "опиши редкого человека")
		require.NoError(t, err)
	}

	t.Run("granted reward re-arms the level", func(t *testing.T) {
		f := newGame(testutil.NewTestContent("бел"), domain.NewProgressRecord())
		toRetry(t, f)
		f.rewarded.On("ShowRewarded", mock.Anything).Return(true, nil)

		granted, err := f.ctrl.Retry(ctx)

		require.NoError(t, err)
		assert.True(t, granted)
		assert.Equal(t, domain.StateActive, f.ctrl.State())
		session := f.ctrl.Session()
		assert.False(t, session.PromptSubmitted)
		// Level is not reloaded: same id, same forbidden set
		assert.Equal(t, 1, session.LevelID)
		assert.Len(t, session.ActiveForbidden, 1)
	})

	t.Run("declined reward keeps the retry state", func(t *testing.T) {
		f := newGame(testutil.NewTestContent("бел"), domain.NewProgressRecord())
		toRetry(t, f)
		f.rewarded.On("ShowRewarded", mock.Anything).Return(false, nil)

		granted, err := f.ctrl.Retry(ctx)

		require.NoError(t, err)
		assert.False(t, granted)
		assert.Equal(t, domain.StateAnsweredRetry, f.ctrl.State())
	})

	t.Run("ad error degrades to granted", func(t *testing.T) {
		f := newGame(testutil.NewTestContent("бел"), domain.NewProgressRecord())
		toRetry(t, f)
		f.rewarded.On("ShowRewarded", mock.Anything).Return(false, fmt.Errorf("ad network down"))

		granted, err := f.ctrl.Retry(ctx)

		require.NoError(t, err)
		assert.True(t, granted)
		assert.Equal(t, domain.StateActive, f.ctrl.State())
	})

	t.Run("retry outside answered-retry is a no-op", func(t *testing.T) {
		f := newGame(testutil.NewTestContent("бел"), domain.NewProgressRecord())
		f.ctrl.RequestLevel(1)

		_, err := f.ctrl.Retry(ctx)

		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestGameController_Advance(t *testing.T) {
	ctx := context.Background()

	toSuccess := func(t *testing.T, f *gameFixture, level int) {
		f.ctrl.RequestLevel(level)
		f.textGen.On("Ask", mock.Anything, mock.Anything).
			Return(fmt.Sprintf("это секретная фраза %d", level), nil).Once()
		_, err := f.ctrl.SubmitPrompt(ctx, "объясни непонятное явление")
		require.NoError(t, err)
	}

	t.Run("advance moves to the next level and persists", func(t *testing.T) {
		f := newGame(twelveLevels(), domain.NewProgressRecord())
		toSuccess(t, f, 1)
		f.interstitial.On("ShowInterstitial", mock.Anything).Return(nil)

		state, err := f.ctrl.Advance(ctx)

		require.NoError(t, err)
		assert.Equal(t, domain.StateActive, state)
		rec := f.ctrl.Record()
		assert.Equal(t, 1, rec.TotalCompleted)
		assert.Equal(t, 2, rec.CurrentLevelID)
		f.repo.AssertCalled(t, "Save", int64(42), mock.Anything)
	})

	t.Run("interstitial failure never blocks progress", func(t *testing.T) {
		f := newGame(twelveLevels(), domain.NewProgressRecord())
		toSuccess(t, f, 1)
		f.interstitial.On("ShowInterstitial", mock.Anything).Return(fmt.Errorf("no fill"))

		state, err := f.ctrl.Advance(ctx)

		require.NoError(t, err)
		assert.Equal(t, domain.StateActive, state)
		assert.Equal(t, 1, f.ctrl.Record().TotalCompleted)
	})

	t.Run("advance past the last level completes the game", func(t *testing.T) {
		content := testutil.NewTestContent("бел")
		rec := domain.NewProgressRecord()
		rec.CurrentLevelID = 2
		f := newGame(content, rec)
		f.ctrl.RequestLevel(2)
		f.textGen.On("Ask", mock.Anything, mock.Anything).Return("это сломя голову", nil).Once()
		_, err := f.ctrl.SubmitPrompt(ctx, "как бегут без оглядки")
		require.NoError(t, err)
		f.interstitial.On("ShowInterstitial", mock.Anything).Return(nil)

		state, err := f.ctrl.Advance(ctx)

		require.NoError(t, err)
		assert.Equal(t, domain.StateComplete, state)
		// Completed count still bumped; current level untouched by Complete
		assert.Equal(t, 1, f.ctrl.Record().TotalCompleted)
		assert.Equal(t, 2, f.ctrl.Record().CurrentLevelID)
	})

	t.Run("advance into a locked level suspends on the gate", func(t *testing.T) {
		rec := domain.NewProgressRecord()
		rec.CurrentLevelID = 10
		f := newGame(twelveLevels(), rec)
		toSuccess(t, f, 10)
		f.interstitial.On("ShowInterstitial", mock.Anything).Return(nil)

		state, err := f.ctrl.Advance(ctx)

		require.NoError(t, err)
		assert.Equal(t, domain.StateLocked, state)
	})

	t.Run("advance outside answered-success is a no-op", func(t *testing.T) {
		f := newGame(twelveLevels(), domain.NewProgressRecord())
		f.ctrl.RequestLevel(1)

		_, err := f.ctrl.Advance(ctx)

		assert.ErrorIs(t, err, ErrInvalidState)
		assert.Equal(t, 0, f.ctrl.Record().TotalCompleted)
	})
}

func TestGameController_RequestRemoval(t *testing.T) {
	ctx := context.Background()

	t.Run("granted reward removes the word and persists", func(t *testing.T) {
		f := newGame(testutil.NewTestContent("бел", "ворон"), domain.NewProgressRecord())
		f.ctrl.RequestLevel(1)
		f.rewarded.On("ShowRewarded", mock.Anything).Return(true, nil)

		granted, err := f.ctrl.RequestRemoval(ctx, 1)

		require.NoError(t, err)
		assert.True(t, granted)
		session := f.ctrl.Session()
		require.Len(t, session.ActiveForbidden, 1)
		assert.Equal(t, "ворон", session.ActiveForbidden[0].Root)
		assert.True(t, f.ctrl.Record().RemovedForbidden.Contains(1, 1))
		f.repo.AssertCalled(t, "Save", int64(42), mock.Anything)
	})

	t.Run("declined reward changes nothing", func(t *testing.T) {
		f := newGame(testutil.NewTestContent("бел", "ворон"), domain.NewProgressRecord())
		f.ctrl.RequestLevel(1)
		f.rewarded.On("ShowRewarded", mock.Anything).Return(false, nil)

		granted, err := f.ctrl.RequestRemoval(ctx, 1)

		require.NoError(t, err)
		assert.False(t, granted)
		assert.Len(t, f.ctrl.Session().ActiveForbidden, 2)
		f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("word not in the active set is rejected", func(t *testing.T) {
		f := newGame(testutil.NewTestContent("бел"), domain.NewProgressRecord())
		f.ctrl.RequestLevel(1)

		_, err := f.ctrl.RequestRemoval(ctx, 99)

		assert.ErrorIs(t, err, ErrUnknownForbiddenWord)
	})

	t.Run("removal outside active state is a no-op", func(t *testing.T) {
		f := newGame(twelveLevels(), domain.NewProgressRecord())
		f.ctrl.RequestLevel(11)
		require.Equal(t, domain.StateLocked, f.ctrl.State())

		_, err := f.ctrl.RequestRemoval(ctx, 1)

		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("removing the last word leaves an empty set", func(t *testing.T) {
		f := newGame(testutil.NewTestContent("бел"), domain.NewProgressRecord())
		f.ctrl.RequestLevel(1)
		f.rewarded.On("ShowRewarded", mock.Anything).Return(true, nil)

		granted, err := f.ctrl.RequestRemoval(ctx, 1)

		require.NoError(t, err)
		assert.True(t, granted)
		assert.Empty(t, f.ctrl.Session().ActiveForbidden)
	})
}

func TestGameController_Purchase(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed purchase unlocks the level", func(t *testing.T) {
		f := newGame(twelveLevels(), domain.NewProgressRecord())
		f.ctrl.RequestLevel(11)
		require.Equal(t, domain.StateLocked, f.ctrl.State())
		f.payments.On("Purchase", mock.Anything, "phrases_pack_10").Return(nil)

		state, err := f.ctrl.Purchase(ctx)

		require.NoError(t, err)
		assert.Equal(t, domain.StateActive, state)
		assert.Equal(t, 1, f.ctrl.Record().PurchasedPacks)
		assert.Equal(t, 11, f.ctrl.Session().LevelID)
		f.repo.AssertCalled(t, "Save", int64(42), mock.Anything)
	})

	t.Run("cancellation stays locked and silent", func(t *testing.T) {
		f := newGame(twelveLevels(), domain.NewProgressRecord())
		f.ctrl.RequestLevel(11)
		f.payments.On("Purchase", mock.Anything, mock.Anything).Return(domain.ErrPurchaseCancelled)

		state, err := f.ctrl.Purchase(ctx)

		assert.ErrorIs(t, err, domain.ErrPurchaseCancelled)
		assert.Equal(t, domain.StateLocked, state)
		assert.Equal(t, 0, f.ctrl.Record().PurchasedPacks)
	})

	t.Run("payment failure stays locked and is surfaced", func(t *testing.T) {
		f := newGame(twelveLevels(), domain.NewProgressRecord())
		f.ctrl.RequestLevel(11)
		f.payments.On("Purchase", mock.Anything, mock.Anything).Return(fmt.Errorf("store unreachable"))

		state, err := f.ctrl.Purchase(ctx)

		assert.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrPurchaseCancelled)
		assert.Equal(t, domain.StateLocked, state)
	})

	t.Run("purchase outside locked is a no-op", func(t *testing.T) {
		f := newGame(twelveLevels(), domain.NewProgressRecord())
		f.ctrl.RequestLevel(1)

		_, err := f.ctrl.Purchase(ctx)

		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestGameController_InFlightIsolation(t *testing.T) {
	ctx := context.Background()

	t.Run("level request during a pending reply is a no-op", func(t *testing.T) {
		f := newGame(testutil.NewTestContent("бел"), domain.NewProgressRecord())
		f.ctrl.RequestLevel(1)

		release := make(chan struct{})
		f.textGen.On("Ask", mock.Anything, mock.Anything).
			Run(func(mock.Arguments) { <-release }).
			Return("не могу угадать", nil)

		done := make(chan struct{})
		go func() {
			defer close(done)
			f.ctrl.SubmitPrompt(ctx, "опиши редкого человека")
		}()

		require.Eventually(t, func() bool {
			return f.ctrl.State() == domain.StateAwaitingReply
		}, time.Second, time.Millisecond)

		assert.Equal(t, domain.StateAwaitingReply, f.ctrl.RequestLevel(2))
		session := f.ctrl.Session()
		assert.Equal(t, 1, session.LevelID)
		assert.True(t, session.PromptSubmitted)

		// The pending submission is the only one this level visit accepts
		_, err := f.ctrl.SubmitPrompt(ctx, "вторая попытка в полёте")
		assert.ErrorIs(t, err, ErrInvalidState)

		close(release)
		<-done
		assert.Equal(t, domain.StateAnsweredRetry, f.ctrl.State())
		f.textGen.AssertNumberOfCalls(t, "Ask", 1)
	})

	t.Run("stale reply after a session rebuild is discarded", func(t *testing.T) {
		f := newGame(testutil.NewTestContent("бел"), domain.NewProgressRecord())
		f.ctrl.RequestLevel(1)

		release := make(chan struct{})
		f.textGen.On("Ask", mock.Anything, mock.Anything).
			Run(func(mock.Arguments) { <-release }).
			Return("это белая ворона", nil)

		errCh := make(chan error, 1)
		go func() {
			_, err := f.ctrl.SubmitPrompt(ctx, "опиши редкого человека")
			errCh <- err
		}()

		require.Eventually(t, func() bool {
			return f.ctrl.State() == domain.StateAwaitingReply
		}, time.Second, time.Millisecond)

		f.ctrl.mu.Lock()
		f.ctrl.requestLevel(2)
		f.ctrl.mu.Unlock()

		close(release)

		assert.ErrorIs(t, <-errCh, ErrInvalidState)
		assert.Equal(t, domain.StateActive, f.ctrl.State())
		session := f.ctrl.Session()
		assert.Equal(t, 2, session.LevelID)
		assert.False(t, session.PromptSubmitted)
	})

	t.Run("removal after a session rebuild is discarded", func(t *testing.T) {
		f := newGame(testutil.NewTestContent("бел", "ворон"), domain.NewProgressRecord())
		f.ctrl.RequestLevel(1)

		entered := make(chan struct{})
		release := make(chan struct{})
		f.rewarded.On("ShowRewarded", mock.Anything).
			Run(func(mock.Arguments) { close(entered); <-release }).
			Return(true, nil)

		errCh := make(chan error, 1)
		go func() {
			_, err := f.ctrl.RequestRemoval(ctx, 1)
			errCh <- err
		}()

		<-entered
		f.ctrl.mu.Lock()
		f.ctrl.requestLevel(2)
		f.ctrl.mu.Unlock()
		close(release)

		assert.ErrorIs(t, <-errCh, ErrInvalidState)
		assert.Empty(t, f.ctrl.Record().RemovedForbidden)
		f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("concurrent purchases credit exactly one pack", func(t *testing.T) {
		f := newGame(twelveLevels(), domain.NewProgressRecord())
		f.ctrl.RequestLevel(11)
		require.Equal(t, domain.StateLocked, f.ctrl.State())

		entered := make(chan struct{}, 2)
		release := make(chan struct{})
		f.payments.On("Purchase", mock.Anything, "phrases_pack_10").
			Run(func(mock.Arguments) { entered <- struct{}{}; <-release }).
			Return(nil)

		errCh := make(chan error, 2)
		for i := 0; i < 2; i++ {
			go func() {
				_, err := f.ctrl.Purchase(ctx)
				errCh <- err
			}()
		}

		<-entered
		<-entered
		close(release)

		var confirmed, stale int
		for i := 0; i < 2; i++ {
			switch err := <-errCh; {
			case err == nil:
				confirmed++
			case errors.Is(err, ErrInvalidState):
				stale++
			default:
				t.Fatalf("unexpected purchase error: %v", err)
			}
		}

		assert.Equal(t, 1, confirmed)
		assert.Equal(t, 1, stale)
		assert.Equal(t, 1, f.ctrl.Record().PurchasedPacks)
		assert.Equal(t, domain.StateActive, f.ctrl.State())
		assert.Equal(t, 11, f.ctrl.Session().LevelID)
	})
}
