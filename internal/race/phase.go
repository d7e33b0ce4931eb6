package race

import "fmt"

// Phase is the screen the race session is on.
type Phase int

const (
	PhaseAwaitingInput Phase = iota
	PhaseSelectingPreset
	PhaseReadyToStart
	PhaseRunning
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingInput:
		return "AwaitingInput"
	case PhaseSelectingPreset:
		return "SelectingPreset"
	case PhaseReadyToStart:
		return "ReadyToStart"
	case PhaseRunning:
		return "Running"
	case PhaseFinished:
		return "Finished"
	default:
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
}

// EventKind identifies an input event independently of its payload.
type EventKind int

const (
	EventEditRoster EventKind = iota
	EventCommitRoster
	EventOpenPresetSelector
	EventChoosePreset
	EventCancelPresetSelector
	EventStartRace
	EventResetRace
	EventQuit
)

func (k EventKind) String() string {
	switch k {
	case EventEditRoster:
		return "EditRoster"
	case EventCommitRoster:
		return "CommitRoster"
	case EventOpenPresetSelector:
		return "OpenPresetSelector"
	case EventChoosePreset:
		return "ChoosePreset"
	case EventCancelPresetSelector:
		return "CancelPresetSelector"
	case EventStartRace:
		return "StartRace"
	case EventResetRace:
		return "ResetRace"
	case EventQuit:
		return "Quit"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Event is an input fed to Session.Dispatch.
type Event interface {
	Kind() EventKind
}

// EditRoster replaces the draft roster text.
type EditRoster struct{ Text string }

// CommitRoster builds a roster from text, one name per line.
type CommitRoster struct{ Text string }

type OpenPresetSelector struct{}

// ChoosePreset picks a preset by its position in the selector.
type ChoosePreset struct{ Index int }

type CancelPresetSelector struct{}
type StartRace struct{}
type ResetRace struct{}
type Quit struct{}

func (EditRoster) Kind() EventKind           { return EventEditRoster }
func (CommitRoster) Kind() EventKind         { return EventCommitRoster }
func (OpenPresetSelector) Kind() EventKind   { return EventOpenPresetSelector }
func (ChoosePreset) Kind() EventKind         { return EventChoosePreset }
func (CancelPresetSelector) Kind() EventKind { return EventCancelPresetSelector }
func (StartRace) Kind() EventKind            { return EventStartRace }
func (ResetRace) Kind() EventKind            { return EventResetRace }
func (Quit) Kind() EventKind                 { return EventQuit }

// Preset is a named, pre-authored list of entrant names.
type Preset struct {
	Label string
	Names []string
}

// Notifications published on the event bus.

type PhaseChanged struct {
	From, To Phase
}

type EntrantFinished struct {
	Name string
	Rank int
	Tick int
}

type RaceFinished struct {
	Ranking []string // names in finish order
	Ticks   int
	Text    string // "{rank}. {name}" per line
}
