package service

import (
	"promti/internal/domain"
)

// ForbiddenWordSet derives the active restriction set for each level:
// the static forbidden words in definition order minus the player's removal
// history. The active list is always recomputed, never stored.
type ForbiddenWordSet struct {
	content ContentSource
	history domain.RemovalHistory
}

// NewForbiddenWordSet builds a set over the given removal history.
// The history is shared with the owning progress record, so removals
// recorded here are picked up by the next save.
func NewForbiddenWordSet(content ContentSource, history domain.RemovalHistory) *ForbiddenWordSet {
	return &ForbiddenWordSet{content: content, history: history}
}

// Active returns the ordered forbidden words still in force for a level
func (s *ForbiddenWordSet) Active(levelID int) []domain.ForbiddenWord {
	static := s.content.ForbiddenFor(levelID)
	active := make([]domain.ForbiddenWord, 0, len(static))
	for _, fw := range static {
		if !s.history.Contains(levelID, fw.ID) {
			active = append(active, fw)
		}
	}
	return active
}

// Remove unlocks a forbidden word for a level. Removing an already-removed
// id is a no-op; returns whether the history changed.
func (s *ForbiddenWordSet) Remove(levelID, wordID int) bool {
	return s.history.Add(levelID, wordID)
}

// IsEmpty reports whether no restrictions remain for the level; gates
// whether the removal action is offered at all.
func (s *ForbiddenWordSet) IsEmpty(levelID int) bool {
	return len(s.Active(levelID)) == 0
}
