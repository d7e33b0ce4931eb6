package race

// FinishTracker records finishers in crossing order. Rank is the 1-based
// position in the list; an entrant is recorded at most once.
type FinishTracker struct {
	size     int
	finished []*Entrant
	seen     map[*Entrant]bool
}

func NewFinishTracker(size int) *FinishTracker {
	return &FinishTracker{
		size:     size,
		finished: make([]*Entrant, 0, size),
		seen:     make(map[*Entrant]bool, size),
	}
}

// Record appends e unless it is already listed or the list is full.
// It returns the rank assigned, or 0 if nothing was recorded.
func (t *FinishTracker) Record(e *Entrant) int {
	if t.seen[e] || len(t.finished) >= t.size {
		return 0
	}
	t.seen[e] = true
	t.finished = append(t.finished, e)
	return len(t.finished)
}

func (t *FinishTracker) Len() int  { return len(t.finished) }
func (t *FinishTracker) Size() int { return t.size }

func (t *FinishTracker) IsRaceComplete() bool {
	return len(t.finished) == t.size
}

// Ranking returns a copy of the finish order so far.
func (t *FinishTracker) Ranking() []*Entrant {
	out := make([]*Entrant, len(t.finished))
	copy(out, t.finished)
	return out
}
