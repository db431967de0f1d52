// Package content loads the static game data: the phrase list and the
// forbidden words attached to each phrase. Data is embedded at build time
// and loaded once at startup.
package content

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"promti/internal/domain"
	"promti/internal/textmatch"
)

//go:embed game_data.json
var gameData []byte

// Content is the immutable static definition of all levels
type Content struct {
	Phrases        []domain.Phrase        `json:"phrases"`
	ForbiddenWords []domain.ForbiddenWord `json:"forbidden_words"`

	byPhrase map[int]domain.Phrase
	byLevel  map[int][]domain.ForbiddenWord
}

// Load parses and validates the embedded game data
func Load() (*Content, error) {
	return parse(gameData)
}

func parse(raw []byte) (*Content, error) {
	var c Content
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse game data: %w", err)
	}

	if len(c.Phrases) == 0 {
		return nil, fmt.Errorf("game data has no phrases")
	}

	c.byPhrase = make(map[int]domain.Phrase, len(c.Phrases))
	for i, p := range c.Phrases {
		// Phrase ids must be the dense sequence 1..N
		if p.ID != i+1 {
			return nil, fmt.Errorf("phrase ids must be dense from 1, got %d at position %d", p.ID, i)
		}
		// Whitespace-only text would normalize to "" and match any reply
		if textmatch.Normalize(p.Text) == "" {
			return nil, fmt.Errorf("phrase %d has empty text", p.ID)
		}
		c.byPhrase[p.ID] = p
	}

	seen := make(map[int]bool, len(c.ForbiddenWords))
	c.byLevel = make(map[int][]domain.ForbiddenWord)
	for _, fw := range c.ForbiddenWords {
		if seen[fw.ID] {
			return nil, fmt.Errorf("duplicate forbidden word id %d", fw.ID)
		}
		seen[fw.ID] = true
		if _, ok := c.byPhrase[fw.PhraseID]; !ok {
			return nil, fmt.Errorf("forbidden word %d references unknown phrase %d", fw.ID, fw.PhraseID)
		}
		if textmatch.Normalize(fw.Root) == "" {
			return nil, fmt.Errorf("forbidden word %d has empty root", fw.ID)
		}
		c.byLevel[fw.PhraseID] = append(c.byLevel[fw.PhraseID], fw)
	}

	return &c, nil
}

// Phrase returns the phrase for a level id, if it exists
func (c *Content) Phrase(id int) (domain.Phrase, bool) {
	p, ok := c.byPhrase[id]
	return p, ok
}

// ForbiddenFor returns the static forbidden words for a level in
// definition order
func (c *Content) ForbiddenFor(phraseID int) []domain.ForbiddenWord {
	return c.byLevel[phraseID]
}

// PhraseCount returns the total number of levels
func (c *Content) PhraseCount() int {
	return len(c.Phrases)
}
