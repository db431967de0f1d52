package handler

import (
	"context"
	"fmt"

	"promti/internal/domain"
	"promti/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	playerID := c.Sender().ID

	h.logger.Info("Player started bot",
		zap.Int64("player_id", playerID),
		zap.String("username", c.Sender().Username),
	)

	ctrl := h.controllerFor(context.Background(), playerID)
	ctrl.RequestLevel(ctrl.Record().CurrentLevelID)

	greeting := "🎮 Добро пожаловать в «Промти»!\n\n" +
		"Объясните нейросети загаданную фразу так, чтобы она назвала её сама. " +
		"Использовать однокоренные слова из списка запрещённых комбинаций нельзя.\n"
	if err := c.Send(greeting); err != nil {
		return err
	}

	return h.sendLevel(c, ctrl)
}

// handleLevel handles /level command: re-shows the current level card
func (h *Handler) handleLevel(c tele.Context) error {
	ctrl := h.controllerFor(context.Background(), c.Sender().ID)
	if ctrl.State() == domain.LevelState("") {
		ctrl.RequestLevel(ctrl.Record().CurrentLevelID)
	}
	return h.sendLevel(c, ctrl)
}

// sendLevel renders the controller's current state as a new message
func (h *Handler) sendLevel(c tele.Context, ctrl *service.GameController) error {
	text, markup := h.renderLevel(ctrl)
	return c.Send(text, markup, tele.ModeHTML)
}

// renderLevel builds the level card and keyboard for the current state
func (h *Handler) renderLevel(ctrl *service.GameController) (string, *tele.ReplyMarkup) {
	session := ctrl.Session()

	switch ctrl.State() {
	case domain.StateLocked:
		text := fmt.Sprintf(
			"🔒 Уровень %d входит в платный пакет фраз.\n\nКупите пакет, чтобы продолжить игру.",
			session.LevelID,
		)
		markup := &tele.ReplyMarkup{}
		markup.Inline(
			markup.Row(btnBuy),
			markup.Row(btnCancel),
		)
		return text, markup

	case domain.StateComplete:
		return msgGameComplete, &tele.ReplyMarkup{}

	default:
		text := levelText(session, h.content.PhraseCount()) +
			"\n\nОтправьте свой промт сообщением."
		markup := &tele.ReplyMarkup{}
		if len(session.ActiveForbidden) > 0 {
			markup.Inline(markup.Row(btnRemove))
		}
		return text, markup
	}
}
