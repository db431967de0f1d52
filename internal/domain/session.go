package domain

// LevelState is the lifecycle state of a player's current level
type LevelState string

const (
	StateLocked          LevelState = "locked"
	StateLoading         LevelState = "loading"
	StateActive          LevelState = "active"
	StateAwaitingReply   LevelState = "awaiting_reply"
	StateAnsweredSuccess LevelState = "answered_success"
	StateAnsweredRetry   LevelState = "answered_retry"
	StateComplete        LevelState = "complete"
)

// LevelSession holds all mutable state for one level visit.
// It is rebuilt on every level load and owned by the game controller.
type LevelSession struct {
	LevelID         int
	Phrase          Phrase
	ActiveForbidden []ForbiddenWord
	PromptSubmitted bool

	// Interactive removal sub-state
	Selecting           bool
	SelectedForbiddenID int
}

// ValidationReason classifies why a prompt submission was rejected
type ValidationReason string

const (
	ReasonNone             ValidationReason = ""
	ReasonTooShort         ValidationReason = "too_short"
	ReasonAlreadySubmitted ValidationReason = "already_submitted"
	ReasonForbiddenRoot    ValidationReason = "forbidden_root"
)

// ValidationResult is the outcome of validating a candidate prompt.
// Root carries the offending forbidden root for display when the reason
// is ReasonForbiddenRoot.
type ValidationResult struct {
	Valid  bool
	Reason ValidationReason
	Root   string
}
