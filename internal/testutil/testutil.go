package testutil

import (
	"go.uber.org/zap"

	"promti/internal/domain"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// FakeContent is an in-memory ContentSource for tests
type FakeContent struct {
	Phrases   []domain.Phrase
	Forbidden map[int][]domain.ForbiddenWord
}

func (f *FakeContent) Phrase(id int) (domain.Phrase, bool) {
	for _, p := range f.Phrases {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Phrase{}, false
}

func (f *FakeContent) ForbiddenFor(phraseID int) []domain.ForbiddenWord {
	return f.Forbidden[phraseID]
}

func (f *FakeContent) PhraseCount() int {
	return len(f.Phrases)
}

// NewTestContent builds a two-level content set with one forbidden root per
// extra argument on level 1.
func NewTestContent(roots ...string) *FakeContent {
	fws := make([]domain.ForbiddenWord, 0, len(roots))
	for i, root := range roots {
		fws = append(fws, domain.ForbiddenWord{ID: i + 1, PhraseID: 1, Root: root})
	}
	return &FakeContent{
		Phrases: []domain.Phrase{
			{ID: 1, Text: "белая ворона"},
			{ID: 2, Text: "сломя голову"},
		},
		Forbidden: map[int][]domain.ForbiddenWord{1: fws},
	}
}
