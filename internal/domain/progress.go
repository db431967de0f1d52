package domain

// RemovalHistory maps phrase id to the forbidden-word ids already unlocked
// (removed) for that phrase. Removals are never un-done.
// Integer keys marshal as JSON object keys ("1": [2, 3]).
type RemovalHistory map[int][]int

// Add records a removal. Returns false if the id was already removed.
func (h RemovalHistory) Add(phraseID, wordID int) bool {
	if h.Contains(phraseID, wordID) {
		return false
	}
	h[phraseID] = append(h[phraseID], wordID)
	return true
}

// Contains reports whether wordID is removed for phraseID
func (h RemovalHistory) Contains(phraseID, wordID int) bool {
	for _, id := range h[phraseID] {
		if id == wordID {
			return true
		}
	}
	return false
}

// Union merges removals from other into h, skipping duplicates
func (h RemovalHistory) Union(other RemovalHistory) {
	for phraseID, ids := range other {
		for _, id := range ids {
			h.Add(phraseID, id)
		}
	}
}

// Dedupe drops repeated ids within each phrase, keeping first-seen order.
// Stored data is deduplicated on load; order is not significant.
func (h RemovalHistory) Dedupe() {
	for phraseID, ids := range h {
		seen := make(map[int]bool, len(ids))
		out := ids[:0]
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
		h[phraseID] = out
	}
}

// Clone returns a deep copy of the history
func (h RemovalHistory) Clone() RemovalHistory {
	c := make(RemovalHistory, len(h))
	for phraseID, ids := range h {
		c[phraseID] = append([]int(nil), ids...)
	}
	return c
}

// ProgressRecord is the single durable record per player and the sole unit
// of persistence and cloud-sync merge.
type ProgressRecord struct {
	CurrentLevelID   int            `json:"currentLevelId"`
	TotalCompleted   int            `json:"totalCompleted"`
	PurchasedPacks   int            `json:"purchasedPacks"`
	RemovedForbidden RemovalHistory `json:"removedForbidden"`
}

// NewProgressRecord returns the fresh default record: first level, nothing
// completed, nothing purchased, empty history.
func NewProgressRecord() *ProgressRecord {
	return &ProgressRecord{
		CurrentLevelID:   1,
		RemovedForbidden: RemovalHistory{},
	}
}

// Merge applies a remote record on top of the local one. Remote scalar fields
// win when present (non-zero, matching how a cloud restore treats missing
// fields); removal histories are unioned so a local-only removal is never lost.
func (r *ProgressRecord) Merge(remote *ProgressRecord) {
	if remote == nil {
		return
	}
	if remote.CurrentLevelID > 0 {
		r.CurrentLevelID = remote.CurrentLevelID
	}
	if remote.TotalCompleted > 0 {
		r.TotalCompleted = remote.TotalCompleted
	}
	if remote.PurchasedPacks > 0 {
		r.PurchasedPacks = remote.PurchasedPacks
	}
	if r.RemovedForbidden == nil {
		r.RemovedForbidden = RemovalHistory{}
	}
	r.RemovedForbidden.Union(remote.RemovedForbidden)
}
