package handler

import (
	"context"
	"errors"
	"sync"

	"promti/internal/domain"
	"promti/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Handler manages all bot interactions
type Handler struct {
	bot          *tele.Bot
	content      service.ContentSource
	progress     *service.ProgressService
	textGen      service.TextGenerationClient
	rewarded     service.RewardedAdCollaborator
	interstitial service.InterstitialAdCollaborator
	payments     service.PaymentCollaborator
	cfg          service.GameConfig
	logger       *zap.Logger

	// One game controller per player, created lazily on first contact
	controllers map[int64]*service.GameController
	ctrlMux     sync.RWMutex
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	gameContent service.ContentSource,
	progress *service.ProgressService,
	textGen service.TextGenerationClient,
	rewarded service.RewardedAdCollaborator,
	interstitial service.InterstitialAdCollaborator,
	payments service.PaymentCollaborator,
	cfg service.GameConfig,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:          bot,
		content:      gameContent,
		progress:     progress,
		textGen:      textGen,
		rewarded:     rewarded,
		interstitial: interstitial,
		payments:     payments,
		cfg:          cfg,
		logger:       logger,
		controllers:  make(map[int64]*service.GameController),
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/level", h.handleLevel)

	// Text messages (prompt submissions)
	h.bot.Handle(tele.OnText, h.handleText)

	// Callback queries (inline buttons)
	h.bot.Handle(&btnRetry, h.handleRetry)
	h.bot.Handle(&btnNext, h.handleNext)
	h.bot.Handle(&btnRemove, h.handleRemoveMenu)
	h.bot.Handle(&btnCancel, h.handleCancel)
	h.bot.Handle(&btnBuy, h.handleBuy)

	// Generic callback handler for dynamic data
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// controllerFor returns the player's game controller, creating one from the
// stored progress record on first contact. A dead progress store degrades to
// a fresh in-memory record so the player can still play.
func (h *Handler) controllerFor(ctx context.Context, playerID int64) *service.GameController {
	h.ctrlMux.RLock()
	ctrl, exists := h.controllers[playerID]
	h.ctrlMux.RUnlock()
	if exists {
		return ctrl
	}

	record, err := h.progress.Load(ctx, playerID)
	if err != nil {
		if errors.Is(err, domain.ErrStorageUnavailable) {
			h.logger.Warn("Progress store unavailable, playing memory-only",
				zap.Int64("player_id", playerID),
			)
		} else {
			h.logger.Error("Failed to load progress", zap.Error(err))
		}
	}

	h.ctrlMux.Lock()
	defer h.ctrlMux.Unlock()
	// Another handler may have raced us here
	if ctrl, exists = h.controllers[playerID]; exists {
		return ctrl
	}
	ctrl = service.NewGameController(
		playerID,
		h.content,
		h.progress,
		h.textGen,
		h.rewarded,
		h.interstitial,
		h.payments,
		record,
		h.cfg,
		h.logger,
	)
	h.controllers[playerID] = ctrl
	return ctrl
}

// Inline keyboard buttons
var (
	btnRetry = tele.Btn{
		Unique: "retry",
		Text:   "🔄 Попробовать ещё раз",
	}
	btnNext = tele.Btn{
		Unique: "next",
		Text:   "➡️ Дальше",
	}
	btnRemove = tele.Btn{
		Unique: "remove",
		Text:   "🎬 Снять ограничение",
	}
	btnCancel = tele.Btn{
		Unique: "cancel",
		Text:   "❌ Отменить",
	}
	btnBuy = tele.Btn{
		Unique: "buy",
		Text:   "💳 Купить пакет фраз",
	}
)
