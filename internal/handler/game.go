package handler

import (
	"context"
	"errors"
	"strings"

	"promti/internal/domain"
	"promti/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleText handles prompt submissions
func (h *Handler) handleText(c tele.Context) error {
	playerID := c.Sender().ID
	text := c.Text()

	// Ignore commands (starting with /)
	if strings.HasPrefix(strings.TrimSpace(text), "/") {
		return nil
	}

	ctrl := h.controllerFor(context.Background(), playerID)
	if ctrl.State() == domain.LevelState("") {
		ctrl.RequestLevel(ctrl.Record().CurrentLevelID)
	}

	switch ctrl.State() {
	case domain.StateLocked, domain.StateComplete:
		return h.sendLevel(c, ctrl)
	case domain.StateAwaitingReply:
		return c.Send("🤖 Нейросеть ещё думает над прошлым промтом…")
	case domain.StateAnsweredSuccess, domain.StateAnsweredRetry:
		return c.Send("Уровень уже сыгран — используйте кнопки под ответом.")
	}

	// Reject invalid prompts before showing the thinking indicator. The
	// controller re-validates on submit; this check only orders the UI.
	session := ctrl.Session()
	if vr := service.ValidatePrompt(text, session.ActiveForbidden, session.PromptSubmitted); !vr.Valid {
		return c.Send("⚠️ " + validationMessage(vr))
	}

	if err := c.Send("🤖 Нейросеть думает…"); err != nil {
		return err
	}

	result, err := ctrl.SubmitPrompt(context.Background(), text)
	if err != nil {
		if errors.Is(err, service.ErrInvalidState) {
			// Raced with another submission from the same player
			return c.Send("🤖 Нейросеть ещё думает над прошлым промтом…")
		}
		h.logger.Warn("Prompt request failed",
			zap.Int64("player_id", playerID),
			zap.Error(err),
		)
		return c.Send(msgRequestFailed)
	}

	if !result.Validation.Valid {
		return c.Send("⚠️ " + validationMessage(result.Validation))
	}

	reply := highlightReply(result.Reply, result.Spans)

	markup := &tele.ReplyMarkup{}
	var verdict string
	if result.PhraseFound {
		verdict = msgPhraseFound
		markup.Inline(markup.Row(btnNext))
	} else {
		verdict = msgPhraseNotFound
		markup.Inline(markup.Row(btnRetry))
	}

	return c.Send("🤖 "+reply+"\n\n"+verdict, markup, tele.ModeHTML)
}
