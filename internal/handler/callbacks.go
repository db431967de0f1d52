package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"promti/internal/domain"
	"promti/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleEditError handles errors from c.Edit() - if message is not modified,
// just acknowledge callback. Otherwise, acknowledge callback and return error
// so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context, playerID int64) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()
	// If message is not modified, it was already edited by another callback
	if strings.Contains(errStr, "message is not modified") {
		h.logger.Debug("Message already modified by another callback, acknowledging",
			zap.Int64("player_id", playerID),
			zap.String("callback_id", c.Callback().ID),
		)
		c.Respond()
		return nil
	}

	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("player_id", playerID),
		zap.String("callback_id", c.Callback().ID),
	)
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// handleCallback handles ALL callback queries
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	data := cleanCallbackData(callback.Data)
	h.logger.Info("handleCallback: Processing callback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
		zap.Int64("player_id", c.Sender().ID),
	)

	switch callback.Unique {
	case "retry":
		return h.handleRetry(c)
	case "next":
		return h.handleNext(c)
	case "remove":
		return h.handleRemoveMenu(c)
	case "cancel":
		return h.handleCancel(c)
	case "buy":
		return h.handleBuy(c)
	}

	// Dynamic buttons carry their payload in Data
	if strings.HasPrefix(data, "fw_") {
		return h.handleRemoval(c, data)
	}

	h.logger.Warn("Unhandled callback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
	)
	return c.Respond()
}

// handleRetry re-arms the level after a missed guess, behind a rewarded ad
func (h *Handler) handleRetry(c tele.Context) error {
	playerID := c.Sender().ID
	ctrl := h.controllerFor(context.Background(), playerID)

	granted, err := ctrl.Retry(context.Background())
	if err != nil {
		if errors.Is(err, service.ErrInvalidState) {
			return c.Respond(&tele.CallbackResponse{Text: "Уровень уже в другом состоянии"})
		}
		h.logger.Error("Retry failed", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: msgGenericError})
	}
	if !granted {
		return c.Respond(&tele.CallbackResponse{
			Text:      "Реклама не просмотрена, попытка не открыта",
			ShowAlert: true,
		})
	}

	if err := c.Respond(); err != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(err))
	}
	return h.sendLevel(c, ctrl)
}

// handleNext advances to the next level after a success
func (h *Handler) handleNext(c tele.Context) error {
	playerID := c.Sender().ID
	ctrl := h.controllerFor(context.Background(), playerID)

	if _, err := ctrl.Advance(context.Background()); err != nil {
		if errors.Is(err, service.ErrInvalidState) {
			return c.Respond(&tele.CallbackResponse{Text: "Уровень уже в другом состоянии"})
		}
		h.logger.Error("Advance failed", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: msgGenericError})
	}

	if err := c.Respond(); err != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(err))
	}
	return h.sendLevel(c, ctrl)
}

// handleRemoveMenu shows the restriction list as selectable buttons
func (h *Handler) handleRemoveMenu(c tele.Context) error {
	playerID := c.Sender().ID
	ctrl := h.controllerFor(context.Background(), playerID)

	if ctrl.State() != domain.StateActive {
		return c.Respond(&tele.CallbackResponse{Text: "Сейчас нельзя снимать ограничения"})
	}

	session := ctrl.Session()
	if len(session.ActiveForbidden) == 0 {
		return c.Respond(&tele.CallbackResponse{
			Text:      msgNoForbidden,
			ShowAlert: true,
		})
	}

	text := "🎬 Выберите комбинацию, которую хотите снять.\nСнятие открывается за просмотр рекламы."
	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}
	for _, fw := range session.ActiveForbidden {
		btn := markup.Data(fw.Root, fmt.Sprintf("fw_%d", fw.ID))
		rows = append(rows, markup.Row(btn))
	}
	rows = append(rows, markup.Row(btnCancel))
	markup.Inline(rows...)

	if err := c.Edit(text, markup); err != nil {
		if handleErr := h.handleEditError(err, c, playerID); handleErr == nil {
			return nil
		}
		return c.Send(text, markup)
	}
	return c.Respond()
}

// handleRemoval removes one forbidden word after a granted rewarded ad
func (h *Handler) handleRemoval(c tele.Context, data string) error {
	playerID := c.Sender().ID

	idStr := strings.TrimPrefix(strings.TrimSpace(data), "fw_")
	wordID, err := strconv.Atoi(idStr)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Неверная кнопка"})
	}

	ctrl := h.controllerFor(context.Background(), playerID)
	granted, err := ctrl.RequestRemoval(context.Background(), wordID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownForbiddenWord):
			return c.Respond(&tele.CallbackResponse{Text: "Эта комбинация уже снята"})
		case errors.Is(err, service.ErrInvalidState):
			return c.Respond(&tele.CallbackResponse{Text: "Сейчас нельзя снимать ограничения"})
		default:
			h.logger.Error("Removal failed", zap.Error(err))
			return c.Respond(&tele.CallbackResponse{Text: msgGenericError})
		}
	}
	if !granted {
		return c.Respond(&tele.CallbackResponse{
			Text:      "Реклама не просмотрена, ограничение осталось",
			ShowAlert: true,
		})
	}

	text, markup := h.renderLevel(ctrl)
	if err := c.Edit(text, markup, tele.ModeHTML); err != nil {
		if handleErr := h.handleEditError(err, c, playerID); handleErr == nil {
			return nil
		}
		return c.Send(text, markup, tele.ModeHTML)
	}
	return c.Respond()
}

// handleBuy purchases a phrase pack while the level is locked
func (h *Handler) handleBuy(c tele.Context) error {
	playerID := c.Sender().ID
	ctrl := h.controllerFor(context.Background(), playerID)

	if _, err := ctrl.Purchase(context.Background()); err != nil {
		switch {
		case errors.Is(err, domain.ErrPurchaseCancelled):
			return c.Respond(&tele.CallbackResponse{Text: "Покупка отменена"})
		case errors.Is(err, service.ErrInvalidState):
			return c.Respond(&tele.CallbackResponse{Text: "Уровень уже открыт"})
		default:
			return c.Respond(&tele.CallbackResponse{
				Text:      msgPurchaseFailed,
				ShowAlert: true,
			})
		}
	}

	if err := c.Respond(&tele.CallbackResponse{Text: "✅ Пакет фраз куплен"}); err != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(err))
	}
	return h.sendLevel(c, ctrl)
}

// handleCancel returns to the current level card
func (h *Handler) handleCancel(c tele.Context) error {
	playerID := c.Sender().ID
	ctrl := h.controllerFor(context.Background(), playerID)

	text, markup := h.renderLevel(ctrl)
	if err := c.Edit(text, markup, tele.ModeHTML); err != nil {
		if handleErr := h.handleEditError(err, c, playerID); handleErr == nil {
			return nil
		}
		return c.Send(text, markup, tele.ModeHTML)
	}
	return c.Respond()
}
