package service

import (
	"promti/internal/textmatch"
)

// PhraseFound reports whether the agent's reply contains the secret phrase
func PhraseFound(response, phrase string) bool {
	return textmatch.Contains(response, phrase)
}

// MatchSpans returns the byte ranges of the secret phrase inside the reply
// for highlighting. Shares textmatch with PhraseFound, so the two can never
// disagree on presence.
func MatchSpans(response, phrase string) []textmatch.Span {
	return textmatch.Locate(response, phrase)
}
