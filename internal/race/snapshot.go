package race

// EntrantView is a render-only copy of an entrant.
type EntrantView struct {
	Name       string
	ShortLabel string
	Lane       int
	X, Y       float64
	Velocity   float64
	Moving     bool
	Waiting    bool
	FinishRank int
}

// Snapshot is an immutable view of the session for a presentation layer.
type Snapshot struct {
	Phase    Phase
	Tick     int
	Draft    string
	Notice   string // why the last event failed, if it did
	Presets  []string
	Entrants []EntrantView // lane order
	Finished []EntrantView // finish order
	Track    Track
	Lanes    int
	Quitting bool
}

// Snapshot copies the current state. It shares nothing with the session.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:    s.phase,
		Tick:     s.ticks,
		Draft:    s.draft,
		Notice:   s.notice,
		Track:    s.track,
		Quitting: s.quitting,
	}
	snap.Presets = make([]string, len(s.presets))
	for i, p := range s.presets {
		snap.Presets[i] = p.Label
	}
	if s.roster != nil {
		snap.Lanes = s.roster.Len()
		snap.Entrants = make([]EntrantView, 0, s.roster.Len())
		for _, e := range s.roster.Entrants {
			snap.Entrants = append(snap.Entrants, viewOf(e))
		}
	}
	if s.tracker != nil {
		for _, e := range s.tracker.Ranking() {
			snap.Finished = append(snap.Finished, viewOf(e))
		}
	}
	return snap
}

func viewOf(e *Entrant) EntrantView {
	return EntrantView{
		Name:       e.Name,
		ShortLabel: e.ShortLabel,
		Lane:       e.Lane,
		X:          e.X,
		Y:          e.Y,
		Velocity:   e.Velocity,
		Moving:     e.Moving,
		Waiting:    e.Moving && e.Waiting(),
		FinishRank: e.FinishRank,
	}
}
