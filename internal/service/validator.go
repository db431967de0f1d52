package service

import (
	"strings"
	"unicode/utf8"

	"promti/internal/domain"
	"promti/internal/textmatch"
)

// minPromptRunes is the exclusive lower bound on trimmed prompt length
const minPromptRunes = 3

// ValidatePrompt checks a candidate submission against level rules.
// Rule precedence is a contract: length first, then the one-submission
// limit, then forbidden roots in definition order. A too-short prompt never
// reports a forbidden-root violation even if one is present. Pure: marking
// the prompt as submitted is the controller's job on acceptance.
func ValidatePrompt(text string, active []domain.ForbiddenWord, alreadySubmitted bool) domain.ValidationResult {
	if utf8.RuneCountInString(strings.TrimSpace(text)) <= minPromptRunes {
		return domain.ValidationResult{Reason: domain.ReasonTooShort}
	}
	if alreadySubmitted {
		return domain.ValidationResult{Reason: domain.ReasonAlreadySubmitted}
	}
	for _, fw := range active {
		if textmatch.Contains(text, fw.Root) {
			return domain.ValidationResult{
				Reason: domain.ReasonForbiddenRoot,
				Root:   fw.Root,
			}
		}
	}
	return domain.ValidationResult{Valid: true}
}
