package domain

// Phrase is one secret phrase the player must get the agent to say.
// Ids form a dense sequence starting from 1.
type Phrase struct {
	ID   int    `json:"id"`
	Text string `json:"phrase"`
}

// ForbiddenWord is a root the player must avoid while explaining a phrase
type ForbiddenWord struct {
	ID       int    `json:"id"`
	PhraseID int    `json:"phrase_id"`
	Root     string `json:"root"`
}
