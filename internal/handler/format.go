package handler

import (
	"fmt"
	"html"
	"strings"
	"unicode"

	"promti/internal/domain"
	"promti/internal/textmatch"
)

const (
	msgTooShort         = "Промт должен содержать более 3 символов"
	msgAlreadySubmitted = "Промт уже был отправлен на этом уровне"
	msgNoForbidden      = "Нет запрещённых комбинаций"
	msgRequestFailed    = "Ошибка запроса.\nПроверьте соединение и попробуйте снова."
	msgPhraseFound      = "✅ Фраза угадана!"
	msgPhraseNotFound   = "Фраза не угадана. Попробуйте ещё раз после просмотра рекламы."
	msgGameComplete     = "🎉 Поздравляем!\n\nВы прошли все доступные фразы!\nСледите за обновлениями — новые слова скоро появятся."
	msgGenericError     = "Произошла ошибка. Попробуйте позже."
	msgPurchaseFailed   = "Ошибка покупки. Попробуйте позже."
)

// validationMessage maps a rejection reason to its player-facing text
func validationMessage(vr domain.ValidationResult) string {
	switch vr.Reason {
	case domain.ReasonTooShort:
		return msgTooShort
	case domain.ReasonAlreadySubmitted:
		return msgAlreadySubmitted
	case domain.ReasonForbiddenRoot:
		return fmt.Sprintf("Запрещена комбинация: «%s»", vr.Root)
	default:
		return ""
	}
}

// levelIndicator formats the level position line
func levelIndicator(levelID, total int) string {
	return fmt.Sprintf("Уровень %d из %d", levelID, total)
}

// levelText builds the full level card: position, task and the active
// restriction list.
func levelText(session domain.LevelSession, total int) string {
	var b strings.Builder
	b.WriteString("📜 " + levelIndicator(session.LevelID, total) + "\n\n")
	b.WriteString("Объясните нейросети загаданную фразу:\n")
	b.WriteString(fmt.Sprintf("<b>%s</b>\n\n", html.EscapeString(session.Phrase.Text)))
	b.WriteString("🚫 Запрещённые комбинации:\n")
	b.WriteString(forbiddenList(session.ActiveForbidden))
	return b.String()
}

// forbiddenList renders the active restriction roots, one per line
func forbiddenList(words []domain.ForbiddenWord) string {
	if len(words) == 0 {
		return "<i>" + msgNoForbidden + "</i>"
	}
	var b strings.Builder
	for _, fw := range words {
		b.WriteString("• " + html.EscapeString(fw.Root) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// highlightReply escapes the agent's reply for Telegram HTML mode and wraps
// every detected phrase occurrence in bold. Spans are byte offsets into the
// raw reply and arrive ordered and non-overlapping.
func highlightReply(reply string, spans []textmatch.Span) string {
	if len(spans) == 0 {
		return html.EscapeString(reply)
	}

	var b strings.Builder
	pos := 0
	for _, sp := range spans {
		if sp.Start < pos || sp.End > len(reply) || sp.Start == sp.End {
			continue
		}
		b.WriteString(html.EscapeString(reply[pos:sp.Start]))
		b.WriteString("<b>")
		b.WriteString(html.EscapeString(reply[sp.Start:sp.End]))
		b.WriteString("</b>")
		pos = sp.End
	}
	b.WriteString(html.EscapeString(reply[pos:]))
	return b.String()
}

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}
