package race

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aorandomizer/randomizer/internal/core/event"
	"go.uber.org/zap"
)

// Clipboard receives the finish text when a race ends.
type Clipboard interface {
	WriteAll(text string) error
}

// Options configure a Session. Builder is required; everything else may be zero.
type Options struct {
	Track     Track
	Builder   *Builder
	Presets   []Preset
	Draft     string   // initial roster text
	Bias      BiasFunc // optional rank-aware acceleration bias
	Clipboard Clipboard
	Bus       *event.Bus
	Log       *zap.Logger
}

// Session is the race state machine. It is driven from a single goroutine:
// Dispatch for input, Tick once per simulation step.
type Session struct {
	phase    Phase
	track    Track
	builder  *Builder
	presets  []Preset
	bias     BiasFunc
	clip     Clipboard
	bus      *event.Bus
	log      *zap.Logger
	quitting bool

	draft     string
	committed []string
	notice    string

	roster  *Roster
	tracker *FinishTracker
	ticks   int
}

// NewSession validates the track and motion ranges and returns a session
// awaiting input.
func NewSession(opts Options) (*Session, error) {
	if err := opts.Track.Validate(); err != nil {
		return nil, err
	}
	if opts.Builder == nil {
		return nil, fmt.Errorf("%w: no roster builder", ErrInvalidConfiguration)
	}
	if err := opts.Builder.motion.Validate(); err != nil {
		return nil, err
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		phase:   PhaseAwaitingInput,
		track:   opts.Track,
		builder: opts.Builder,
		presets: opts.Presets,
		bias:    opts.Bias,
		clip:    opts.Clipboard,
		bus:     opts.Bus,
		log:     log,
		draft:   opts.Draft,
	}, nil
}

type transitionKey struct {
	phase Phase
	kind  EventKind
}

type transitionFunc func(s *Session, ev Event) (Phase, error)

// transitions lists every accepted (phase, event) pair. Quit is handled
// separately because it is valid everywhere.
var transitions = map[transitionKey]transitionFunc{
	{PhaseAwaitingInput, EventEditRoster}:             (*Session).onEditRoster,
	{PhaseAwaitingInput, EventCommitRoster}:           (*Session).onCommitRoster,
	{PhaseAwaitingInput, EventOpenPresetSelector}:     (*Session).onOpenPresets,
	{PhaseSelectingPreset, EventChoosePreset}:         (*Session).onChoosePreset,
	{PhaseSelectingPreset, EventCancelPresetSelector}: (*Session).onCancelPresets,
	{PhaseReadyToStart, EventStartRace}:               (*Session).onStartRace,
	{PhaseFinished, EventResetRace}:                   (*Session).onResetRace,
}

// Dispatch applies an input event. A rejected event returns an error and
// leaves the session exactly as it was.
func (s *Session) Dispatch(ev Event) error {
	if ev == nil {
		return fmt.Errorf("%w: nil event", ErrEventRejected)
	}
	if ev.Kind() == EventQuit {
		s.quitting = true
		s.log.Info("quit requested", zap.Stringer("phase", s.phase))
		return nil
	}

	fn, ok := transitions[transitionKey{s.phase, ev.Kind()}]
	if !ok {
		s.log.Debug("event not allowed in phase",
			zap.Stringer("event", ev.Kind()),
			zap.Stringer("phase", s.phase),
		)
		return fmt.Errorf("%w: %s in %s", ErrEventRejected, ev.Kind(), s.phase)
	}

	next, err := fn(s, ev)
	if err != nil {
		s.notice = err.Error()
		s.log.Debug("event failed",
			zap.Stringer("event", ev.Kind()),
			zap.Stringer("phase", s.phase),
			zap.Error(err),
		)
		return err
	}
	s.notice = ""
	s.setPhase(next)
	return nil
}

func (s *Session) onEditRoster(ev Event) (Phase, error) {
	s.draft = ev.(EditRoster).Text
	return PhaseAwaitingInput, nil
}

func (s *Session) onCommitRoster(ev Event) (Phase, error) {
	text := ev.(CommitRoster).Text
	names := SplitLines(text)
	roster, err := s.builder.Build(names)
	if err != nil {
		return s.phase, err
	}
	s.draft = text
	s.committed = FilterNames(names)
	s.install(roster)
	return PhaseReadyToStart, nil
}

func (s *Session) onOpenPresets(Event) (Phase, error) {
	return PhaseSelectingPreset, nil
}

func (s *Session) onChoosePreset(ev Event) (Phase, error) {
	idx := ev.(ChoosePreset).Index
	if idx < 0 || idx >= len(s.presets) {
		return s.phase, fmt.Errorf("%w: index %d of %d", ErrUnknownPreset, idx, len(s.presets))
	}
	s.draft = strings.Join(s.presets[idx].Names, "\n")
	return PhaseAwaitingInput, nil
}

func (s *Session) onCancelPresets(Event) (Phase, error) {
	return PhaseAwaitingInput, nil
}

func (s *Session) onStartRace(Event) (Phase, error) {
	for _, e := range s.roster.Entrants {
		e.Moving = true
	}
	return PhaseRunning, nil
}

func (s *Session) onResetRace(Event) (Phase, error) {
	roster, err := s.builder.Build(s.committed)
	if err != nil {
		return s.phase, err
	}
	s.install(roster)
	return PhaseReadyToStart, nil
}

func (s *Session) install(r *Roster) {
	s.roster = r
	s.tracker = NewFinishTracker(r.Len())
	s.ticks = 0
}

func (s *Session) setPhase(next Phase) {
	if next == s.phase {
		return
	}
	prev := s.phase
	s.phase = next
	s.log.Debug("phase changed", zap.Stringer("from", prev), zap.Stringer("to", next))
	if s.bus != nil {
		event.Emit(s.bus, PhaseChanged{From: prev, To: next})
	}
}

// Tick advances the race by one step. It does nothing outside Running.
func (s *Session) Tick() {
	if s.phase != PhaseRunning {
		return
	}
	s.ticks++

	order := s.raceOrder()
	finishX := s.track.FinishLineX()
	for i, e := range order {
		e.Accelerate(i+1, len(order), s.bias)
		e.Advance()
		if e.CheckFinished(finishX, s.tracker.Len()) {
			s.tracker.Record(e)
			if s.bus != nil {
				event.Emit(s.bus, EntrantFinished{Name: e.Name, Rank: e.FinishRank, Tick: s.ticks})
			}
		}
	}

	if s.tracker.IsRaceComplete() {
		s.finish()
	}
}

// raceOrder sorts entrants leader first; equal positions go by lane.
func (s *Session) raceOrder() []*Entrant {
	order := make([]*Entrant, len(s.roster.Entrants))
	copy(order, s.roster.Entrants)
	sort.Slice(order, func(i, j int) bool {
		if order[i].X != order[j].X {
			return order[i].X > order[j].X
		}
		return order[i].Lane < order[j].Lane
	})
	return order
}

func (s *Session) finish() {
	s.setPhase(PhaseFinished)
	text := s.FinishText()
	s.log.Info("race finished",
		zap.Int("entrants", s.tracker.Len()),
		zap.Int("ticks", s.ticks),
	)

	if s.clip != nil {
		if err := s.clip.WriteAll(text); err != nil {
			if !errors.Is(err, ErrClipboardUnavailable) {
				err = fmt.Errorf("%w: %v", ErrClipboardUnavailable, err)
			}
			s.log.Debug("finish text not copied", zap.Error(err))
		}
	}

	if s.bus != nil {
		ranking := s.tracker.Ranking()
		names := make([]string, len(ranking))
		for i, e := range ranking {
			names[i] = e.Name
		}
		event.Emit(s.bus, RaceFinished{Ranking: names, Ticks: s.ticks, Text: text})
	}
}

// FinishText formats the finish order as "{rank}. {name}" lines.
func (s *Session) FinishText() string {
	if s.tracker == nil {
		return ""
	}
	var b strings.Builder
	for i, e := range s.tracker.Ranking() {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s", i+1, e.Name)
	}
	return b.String()
}

func (s *Session) Phase() Phase      { return s.phase }
func (s *Session) Quitting() bool    { return s.quitting }
func (s *Session) Draft() string     { return s.draft }
func (s *Session) Ticks() int        { return s.ticks }
func (s *Session) Presets() []Preset { return s.presets }

// Roster returns the current roster, nil before the first commit.
func (s *Session) Roster() *Roster { return s.roster }

// Committed returns the filtered names of the last successful commit.
func (s *Session) Committed() []string {
	out := make([]string, len(s.committed))
	copy(out, s.committed)
	return out
}

func (s *Session) IsRaceComplete() bool {
	return s.tracker != nil && s.tracker.IsRaceComplete()
}

// Ranking returns the finish order recorded so far.
func (s *Session) Ranking() []*Entrant {
	if s.tracker == nil {
		return nil
	}
	return s.tracker.Ranking()
}
