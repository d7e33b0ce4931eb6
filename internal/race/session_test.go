package race

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/aorandomizer/randomizer/internal/core/event"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const maxTestTicks = 5000

type fakeClipboard struct {
	text  string
	calls int
	err   error
}

func (c *fakeClipboard) WriteAll(text string) error {
	c.calls++
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

func testPresets() []Preset {
	return []Preset{
		{Label: "Platform Team", Names: []string{"Jane Doe", "Ravi Patel", "Cher"}},
		{Label: "Leads", Names: []string{"Morgan Lee"}},
	}
}

func newTestSession(t *testing.T, opts Options) *Session {
	t.Helper()
	if opts.Track == (Track{}) {
		opts.Track = testTrack()
	}
	if opts.Builder == nil {
		opts.Builder = testBuilder(11)
	}
	s, err := NewSession(opts)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

func mustDispatch(t *testing.T, s *Session, ev Event) {
	t.Helper()
	if err := s.Dispatch(ev); err != nil {
		t.Fatalf("dispatch %s in %s: %v", ev.Kind(), s.Phase(), err)
	}
}

func runToFinish(t *testing.T, s *Session) {
	t.Helper()
	for i := 0; i < maxTestTicks && s.Phase() == PhaseRunning; i++ {
		s.Tick()
	}
	if s.Phase() != PhaseFinished {
		t.Fatalf("race did not finish within %d ticks", maxTestTicks)
	}
}

func TestNewSessionRejectsBadTrack(t *testing.T) {
	track := testTrack()
	track.Width = 100
	track.FinishOffset = 200
	_, err := NewSession(Options{Track: track, Builder: testBuilder(1)})
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("error = %v, want ErrInvalidConfiguration", err)
	}

	_, err = NewSession(Options{Track: testTrack()})
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("missing builder error = %v, want ErrInvalidConfiguration", err)
	}
}

func TestNewSessionRejectsStalledMotion(t *testing.T) {
	stalled := MotionRanges{LeaderDelayTicks: 100}
	builder := NewBuilder(testTrack(), stalled, rand.New(rand.NewSource(1)), nil)
	_, err := NewSession(Options{Track: testTrack(), Builder: builder})
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("zero velocity ranges: error = %v, want ErrInvalidConfiguration", err)
	}
}

func TestCommitBlankRosterStaysInInput(t *testing.T) {
	s := newTestSession(t, Options{})
	err := s.Dispatch(CommitRoster{Text: "   \n\n"})
	if !errors.Is(err, ErrEmptyRoster) {
		t.Fatalf("error = %v, want ErrEmptyRoster", err)
	}
	if s.Phase() != PhaseAwaitingInput {
		t.Fatalf("phase = %s, want AwaitingInput", s.Phase())
	}
	if s.Roster() != nil {
		t.Fatalf("roster installed after rejected commit")
	}
	if s.Snapshot().Notice == "" {
		t.Fatalf("rejected commit should leave a notice")
	}

	mustDispatch(t, s, EditRoster{Text: "Alice"})
	if s.Snapshot().Notice != "" {
		t.Fatalf("notice should clear after an accepted event")
	}
}

func TestCommitRosterSkipsBlankLines(t *testing.T) {
	s := newTestSession(t, Options{})
	mustDispatch(t, s, CommitRoster{Text: "Alice\nBob\n\nCarol"})
	if s.Phase() != PhaseReadyToStart {
		t.Fatalf("phase = %s, want ReadyToStart", s.Phase())
	}
	if s.Roster().Len() != 3 {
		t.Fatalf("roster size = %d, want 3", s.Roster().Len())
	}
	if got := s.Committed(); strings.Join(got, ",") != "Alice,Bob,Carol" {
		t.Fatalf("committed = %v", got)
	}
}

func TestEventsRejectedOutsideTheirPhase(t *testing.T) {
	s := newTestSession(t, Options{})
	for _, ev := range []Event{StartRace{}, ResetRace{}, ChoosePreset{Index: 0}, CancelPresetSelector{}} {
		if err := s.Dispatch(ev); !errors.Is(err, ErrEventRejected) {
			t.Fatalf("%s in AwaitingInput: error = %v, want ErrEventRejected", ev.Kind(), err)
		}
	}
	if err := s.Dispatch(nil); !errors.Is(err, ErrEventRejected) {
		t.Fatalf("nil event: error = %v", err)
	}
	if s.Phase() != PhaseAwaitingInput {
		t.Fatalf("phase changed to %s", s.Phase())
	}

	mustDispatch(t, s, CommitRoster{Text: "Alice"})
	if err := s.Dispatch(CommitRoster{Text: "Bob"}); !errors.Is(err, ErrEventRejected) {
		t.Fatalf("commit in ReadyToStart: error = %v", err)
	}
	mustDispatch(t, s, StartRace{})
	if err := s.Dispatch(StartRace{}); !errors.Is(err, ErrEventRejected) {
		t.Fatalf("start while running: error = %v", err)
	}
}

func TestPresetSelection(t *testing.T) {
	s := newTestSession(t, Options{Presets: testPresets(), Draft: "Alice"})

	mustDispatch(t, s, OpenPresetSelector{})
	if s.Phase() != PhaseSelectingPreset {
		t.Fatalf("phase = %s, want SelectingPreset", s.Phase())
	}
	mustDispatch(t, s, CancelPresetSelector{})
	if s.Phase() != PhaseAwaitingInput || s.Draft() != "Alice" {
		t.Fatalf("cancel: phase=%s draft=%q", s.Phase(), s.Draft())
	}

	mustDispatch(t, s, OpenPresetSelector{})
	if err := s.Dispatch(ChoosePreset{Index: 5}); !errors.Is(err, ErrUnknownPreset) {
		t.Fatalf("out of range: error = %v, want ErrUnknownPreset", err)
	}
	if s.Phase() != PhaseSelectingPreset {
		t.Fatalf("phase after bad pick = %s", s.Phase())
	}

	mustDispatch(t, s, ChoosePreset{Index: 0})
	if s.Phase() != PhaseAwaitingInput {
		t.Fatalf("phase = %s, want AwaitingInput", s.Phase())
	}
	if s.Draft() != "Jane Doe\nRavi Patel\nCher" {
		t.Fatalf("draft = %q", s.Draft())
	}

	snap := s.Snapshot()
	if len(snap.Presets) != 2 || snap.Presets[1] != "Leads" {
		t.Fatalf("snapshot presets = %v", snap.Presets)
	}
}

func TestFullRace(t *testing.T) {
	clip := &fakeClipboard{}
	s := newTestSession(t, Options{Clipboard: clip})
	mustDispatch(t, s, CommitRoster{Text: "Alice\nBob\nCarol"})

	s.Tick()
	if s.Ticks() != 0 {
		t.Fatalf("tick before start advanced the race")
	}
	mustDispatch(t, s, StartRace{})

	lastFinished := 0
	for i := 0; i < maxTestTicks && s.Phase() == PhaseRunning; i++ {
		s.Tick()
		n := len(s.Ranking())
		if n < lastFinished {
			t.Fatalf("finish list shrank from %d to %d", lastFinished, n)
		}
		lastFinished = n
	}
	if s.Phase() != PhaseFinished || !s.IsRaceComplete() {
		t.Fatalf("race did not finish: phase=%s", s.Phase())
	}

	ranking := s.Ranking()
	if len(ranking) != 3 {
		t.Fatalf("ranking size = %d, want 3", len(ranking))
	}
	seen := make(map[string]bool)
	for i, e := range ranking {
		if e.FinishRank != i+1 {
			t.Fatalf("%s rank = %d, want %d", e.Name, e.FinishRank, i+1)
		}
		if e.Moving {
			t.Fatalf("%s still moving after finishing", e.Name)
		}
		seen[e.Name] = true
	}
	if len(seen) != 3 {
		t.Fatalf("duplicate finisher in %v", ranking)
	}

	want := "1. " + ranking[0].Name + "\n2. " + ranking[1].Name + "\n3. " + ranking[2].Name
	if s.FinishText() != want {
		t.Fatalf("finish text = %q, want %q", s.FinishText(), want)
	}
	if clip.calls != 1 || clip.text != want {
		t.Fatalf("clipboard got %d calls, text %q", clip.calls, clip.text)
	}

	ticks := s.Ticks()
	positions := make([]float64, 3)
	for i, e := range s.Roster().Entrants {
		positions[i] = e.X
	}
	s.Tick()
	if s.Ticks() != ticks {
		t.Fatalf("finished race kept ticking")
	}
	for i, e := range s.Roster().Entrants {
		if e.X != positions[i] {
			t.Fatalf("%s moved after the race finished", e.Name)
		}
	}
}

func TestFailingClipboardDoesNotStopRace(t *testing.T) {
	clip := &fakeClipboard{err: errors.New("no display")}
	s := newTestSession(t, Options{Clipboard: clip})
	mustDispatch(t, s, CommitRoster{Text: "Alice\nBob"})
	mustDispatch(t, s, StartRace{})
	runToFinish(t, s)
	if clip.calls != 1 {
		t.Fatalf("clipboard calls = %d, want 1", clip.calls)
	}
}

func TestMissingClipboardLogsOnce(t *testing.T) {
	tests := map[string]struct {
		err  error
		want string
	}{
		"no helper":     {ErrClipboardUnavailable, "clipboard unavailable"},
		"helper failed": {errors.New("exit status 1"), "clipboard unavailable: exit status 1"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			s := newTestSession(t, Options{Clipboard: &fakeClipboard{err: tt.err}, Log: zap.New(core)})
			mustDispatch(t, s, CommitRoster{Text: "Alice\nBob"})
			mustDispatch(t, s, StartRace{})
			runToFinish(t, s)

			entries := logs.FilterMessage("finish text not copied").All()
			if len(entries) != 1 {
				t.Fatalf("clipboard failure logged %d times", len(entries))
			}
			got, _ := entries[0].ContextMap()["error"].(string)
			if got != tt.want {
				t.Fatalf("logged error = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResetRebuildsCommittedNames(t *testing.T) {
	s := newTestSession(t, Options{})
	mustDispatch(t, s, CommitRoster{Text: "Alice\nBob"})
	mustDispatch(t, s, StartRace{})
	runToFinish(t, s)

	mustDispatch(t, s, ResetRace{})
	if s.Phase() != PhaseReadyToStart {
		t.Fatalf("phase = %s, want ReadyToStart", s.Phase())
	}
	if s.Ticks() != 0 || len(s.Ranking()) != 0 {
		t.Fatalf("reset kept state: ticks=%d ranking=%d", s.Ticks(), len(s.Ranking()))
	}
	names := make(map[string]bool)
	start := testTrack().StartX()
	for _, e := range s.Roster().Entrants {
		names[e.Name] = true
		if e.X != start || e.Moving || e.Finished() {
			t.Fatalf("%s not reset: x=%f moving=%v rank=%d", e.Name, e.X, e.Moving, e.FinishRank)
		}
	}
	if len(names) != 2 || !names["Alice"] || !names["Bob"] {
		t.Fatalf("reset roster = %v", names)
	}
}

func TestEqualPositionsFinishInLaneOrder(t *testing.T) {
	s := newTestSession(t, Options{})
	mustDispatch(t, s, CommitRoster{Text: "A\nB\nC"})
	mustDispatch(t, s, StartRace{})

	entrants := s.Roster().Entrants
	entrants[0].X = 2000
	entrants[1].X = 3000
	entrants[2].X = 3000
	s.Tick()

	if s.Phase() != PhaseFinished {
		t.Fatalf("phase = %s, want Finished in the same tick", s.Phase())
	}
	ranking := s.Ranking()
	wantLanes := []int{1, 2, 0}
	for i, e := range ranking {
		if e.Lane != wantLanes[i] {
			t.Fatalf("rank %d is lane %d, want lane %d", i+1, e.Lane, wantLanes[i])
		}
	}
}

func TestQuitIsAcceptedEverywhere(t *testing.T) {
	s := newTestSession(t, Options{})
	mustDispatch(t, s, CommitRoster{Text: "Alice"})
	mustDispatch(t, s, StartRace{})
	mustDispatch(t, s, Quit{})
	if !s.Quitting() || !s.Snapshot().Quitting {
		t.Fatalf("quit not recorded")
	}
	if s.Phase() != PhaseRunning {
		t.Fatalf("quit changed phase to %s", s.Phase())
	}
}

func TestSessionNotifications(t *testing.T) {
	bus := event.NewBus()
	var phases []string
	var finished []string
	var result RaceFinished
	event.Subscribe(bus, func(ev PhaseChanged) { phases = append(phases, ev.From.String()+">"+ev.To.String()) })
	event.Subscribe(bus, func(ev EntrantFinished) { finished = append(finished, ev.Name) })
	event.Subscribe(bus, func(ev RaceFinished) { result = ev })

	s := newTestSession(t, Options{Bus: bus})
	mustDispatch(t, s, CommitRoster{Text: "Alice\nBob"})
	mustDispatch(t, s, StartRace{})
	runToFinish(t, s)

	bus.SwapBuffers()
	bus.DispatchAll()

	wantPhases := []string{
		PhaseAwaitingInput.String() + ">" + PhaseReadyToStart.String(),
		PhaseReadyToStart.String() + ">" + PhaseRunning.String(),
		PhaseRunning.String() + ">" + PhaseFinished.String(),
	}
	if strings.Join(phases, "|") != strings.Join(wantPhases, "|") {
		t.Fatalf("phases = %v, want %v", phases, wantPhases)
	}
	if len(finished) != 2 {
		t.Fatalf("finished notifications = %v", finished)
	}
	if strings.Join(result.Ranking, ",") != strings.Join(finished, ",") {
		t.Fatalf("race result %v disagrees with %v", result.Ranking, finished)
	}
	if result.Text != s.FinishText() || result.Ticks != s.Ticks() {
		t.Fatalf("race result = %+v", result)
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	s := newTestSession(t, Options{})
	mustDispatch(t, s, CommitRoster{Text: "Alice\nBob"})
	snap := s.Snapshot()
	if snap.Lanes != 2 || len(snap.Entrants) != 2 {
		t.Fatalf("snapshot lanes = %d entrants = %d", snap.Lanes, len(snap.Entrants))
	}
	snap.Entrants[0].X = 999
	if s.Roster().Entrants[0].X == 999 {
		t.Fatalf("snapshot shares entrant state")
	}
}
