package console

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aorandomizer/randomizer/internal/race"
	"github.com/gdamore/tcell/v2"
)

// Session is the part of race.Session the adapter drives.
type Session interface {
	Dispatch(ev race.Event) error
	Phase() race.Phase
	Draft() string
}

// Adapter turns terminal key events into race events.
//
// While the session awaits input, typed runes collect in an edit line. Enter
// appends the line to the draft roster, or commits the draft when the line is
// empty. Lines starting with '/' are commands. Space starts a ready race,
// Enter resets a finished one, Esc quits (or backs out of the preset list).
type Adapter struct {
	sess Session
	line []rune
}

func NewAdapter(sess Session) *Adapter {
	return &Adapter{sess: sess}
}

// Line returns the text typed since the last Enter.
func (a *Adapter) Line() string { return string(a.line) }

// Quit asks the session to stop.
func (a *Adapter) Quit() error { return a.sess.Dispatch(race.Quit{}) }

// HandleEvent interprets one terminal event. Events other than keys are ignored.
func (a *Adapter) HandleEvent(ev tcell.Event) error {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return nil
	}
	return a.HandleKey(key)
}

// HandleKey interprets one key press.
func (a *Adapter) HandleKey(ev *tcell.EventKey) error {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return a.Quit()
	case tcell.KeyEscape:
		if a.sess.Phase() == race.PhaseSelectingPreset {
			a.line = a.line[:0]
			return a.sess.Dispatch(race.CancelPresetSelector{})
		}
		return a.Quit()
	case tcell.KeyTab:
		if a.sess.Phase() == race.PhaseAwaitingInput && len(a.line) == 0 {
			return a.sess.Dispatch(race.OpenPresetSelector{})
		}
		return nil
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(a.line) > 0 {
			a.line = a.line[:len(a.line)-1]
		}
		return nil
	case tcell.KeyEnter:
		line := string(a.line)
		a.line = a.line[:0]
		return a.HandleLine(line)
	case tcell.KeyRune:
		return a.handleRune(ev.Rune())
	}
	return nil
}

func (a *Adapter) handleRune(r rune) error {
	switch a.sess.Phase() {
	case race.PhaseAwaitingInput, race.PhaseSelectingPreset:
		a.line = append(a.line, r)
	case race.PhaseReadyToStart:
		if r == ' ' {
			return a.sess.Dispatch(race.StartRace{})
		}
	case race.PhaseFinished:
		if r == 'r' || r == 'R' {
			return a.sess.Dispatch(race.ResetRace{})
		}
	}
	return nil
}

// HandleLine interprets one submitted line.
func (a *Adapter) HandleLine(line string) error {
	trimmed := strings.TrimSpace(line)

	if !strings.HasPrefix(trimmed, "/") {
		return a.handleText(line, trimmed)
	}

	fields := strings.Fields(trimmed)
	switch fields[0] {
	case "/go", "/commit":
		return a.sess.Dispatch(race.CommitRoster{Text: a.sess.Draft()})
	case "/clear":
		return a.sess.Dispatch(race.EditRoster{Text: ""})
	case "/presets":
		return a.sess.Dispatch(race.OpenPresetSelector{})
	case "/pick":
		if len(fields) < 2 {
			return fmt.Errorf("usage: /pick <number>")
		}
		return a.pick(fields[1])
	case "/cancel":
		return a.sess.Dispatch(race.CancelPresetSelector{})
	case "/start":
		return a.sess.Dispatch(race.StartRace{})
	case "/reset":
		return a.sess.Dispatch(race.ResetRace{})
	case "/quit", "/exit":
		return a.sess.Dispatch(race.Quit{})
	default:
		return fmt.Errorf("unknown command %s", fields[0])
	}
}

func (a *Adapter) handleText(line, trimmed string) error {
	switch a.sess.Phase() {
	case race.PhaseAwaitingInput:
		if trimmed == "" {
			return a.sess.Dispatch(race.CommitRoster{Text: a.sess.Draft()})
		}
		draft := a.sess.Draft()
		if draft != "" && !strings.HasSuffix(draft, "\n") {
			draft += "\n"
		}
		return a.sess.Dispatch(race.EditRoster{Text: draft + line})
	case race.PhaseSelectingPreset:
		if trimmed == "" {
			return a.sess.Dispatch(race.CancelPresetSelector{})
		}
		return a.pick(trimmed)
	case race.PhaseReadyToStart:
		return a.sess.Dispatch(race.StartRace{})
	case race.PhaseFinished:
		return a.sess.Dispatch(race.ResetRace{})
	}
	return nil
}

// pick selects a preset by its 1-based number as shown on screen.
func (a *Adapter) pick(arg string) error {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("preset number %q: %w", arg, err)
	}
	return a.sess.Dispatch(race.ChoosePreset{Index: n - 1})
}
