package console

import (
	"fmt"
	"strings"

	"github.com/aorandomizer/randomizer/internal/race"
	"github.com/gdamore/tcell/v2"
	"golang.org/x/text/width"
)

const (
	maxNameColumns = 16
	minColumns     = 40
)

var (
	styleDefault = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	styleHeader  = styleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleHelp    = styleDefault.Foreground(tcell.ColorGray)
	styleNotice  = styleDefault.Foreground(tcell.ColorYellow)
	styleInput   = styleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleTrack   = styleDefault.Foreground(tcell.ColorDarkGray)
	styleRank    = styleDefault.Foreground(tcell.ColorLime).Bold(true)
	styleWaiting = styleDefault.Foreground(tcell.ColorSilver)

	laneStyles = []tcell.Style{
		styleDefault.Foreground(tcell.ColorLime),
		styleDefault.Foreground(tcell.ColorAqua),
		styleDefault.Foreground(tcell.ColorYellow),
		styleDefault.Foreground(tcell.ColorFuchsia),
		styleDefault.Foreground(tcell.ColorOrange),
		styleDefault.Foreground(tcell.ColorSkyblue),
	}
)

// LineSource exposes the line being typed, shown as the prompt.
type LineSource interface {
	Line() string
}

// Renderer draws snapshots onto a tcell screen. Each frame redraws the whole
// screen; tcell only sends the cells that changed.
type Renderer struct {
	screen tcell.Screen
	input  LineSource
}

// NewRenderer draws on screen. input may be nil.
func NewRenderer(screen tcell.Screen, input LineSource) *Renderer {
	screen.SetStyle(styleDefault)
	return &Renderer{screen: screen, input: input}
}

// Render draws one frame for the snapshot.
func (r *Renderer) Render(s race.Snapshot) error {
	r.screen.Clear()
	r.screen.HideCursor()
	cols, rows := r.screen.Size()
	if cols < minColumns || rows < 4 {
		drawText(r.screen, 0, 0, "screen too small", styleNotice)
		r.screen.Show()
		return nil
	}

	header := fmt.Sprintf("AO Randomizer · %s", s.Phase)
	if s.Phase == race.PhaseRunning || s.Phase == race.PhaseFinished {
		header += fmt.Sprintf(" (tick %d)", s.Tick)
	}
	x := drawText(r.screen, 0, 0, header+" ", styleHeader)
	for ; x < cols; x++ {
		r.screen.SetContent(x, 0, tcell.RuneHLine, nil, styleTrack)
	}

	y := 2
	switch s.Phase {
	case race.PhaseAwaitingInput:
		y = r.drawDraft(s, y, rows)
		r.drawPrompt(y+1)
		drawText(r.screen, 0, rows-1, "Enter adds a name · empty Enter races · Tab presets · /clear · Esc quits", styleHelp)
	case race.PhaseSelectingPreset:
		if len(s.Presets) == 0 {
			drawText(r.screen, 2, y, "(no presets available)", styleHelp)
			y++
		}
		for i, label := range s.Presets {
			if y >= rows-3 {
				break
			}
			drawText(r.screen, 2, y, fmt.Sprintf("%d. %s", i+1, label), styleDefault)
			y++
		}
		r.drawPrompt(y + 1)
		drawText(r.screen, 0, rows-1, "Type a number and Enter · Esc goes back", styleHelp)
	case race.PhaseReadyToStart:
		r.drawLanes(s, y, cols, rows)
		drawText(r.screen, 0, rows-1, "Space starts the race · Esc quits", styleHelp)
	case race.PhaseRunning:
		r.drawLanes(s, y, cols, rows)
	case race.PhaseFinished:
		y = r.drawLanes(s, y, cols, rows)
		for i, e := range s.Finished {
			if y+1 >= rows-2 {
				break
			}
			drawText(r.screen, 2, y+1, fmt.Sprintf("%d. %s", i+1, e.Name), styleRank)
			y++
		}
		drawText(r.screen, 0, rows-1, "Enter or r races again · Esc quits", styleHelp)
	}
	if s.Notice != "" {
		drawText(r.screen, 0, rows-2, "! "+s.Notice, styleNotice)
	}
	r.screen.Show()
	return nil
}

func (r *Renderer) drawDraft(s race.Snapshot, y, rows int) int {
	for _, line := range race.SplitLines(s.Draft) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if y >= rows-4 {
			drawText(r.screen, 2, y, "…", styleHelp)
			return y + 1
		}
		drawText(r.screen, 2, y, line, styleDefault)
		y++
	}
	return y
}

func (r *Renderer) drawPrompt(y int) {
	line := ""
	if r.input != nil {
		line = r.input.Line()
	}
	x := drawText(r.screen, 0, y, "> ", styleHelp)
	x = drawText(r.screen, x, y, line, styleInput)
	r.screen.ShowCursor(x, y)
}

// drawLanes draws one row per lane: name, track, marker, rank. It returns the
// first row below the track.
func (r *Renderer) drawLanes(s race.Snapshot, y, cols, rows int) int {
	nameCols := 0
	for _, e := range s.Entrants {
		nameCols = max(nameCols, displayWidth(e.Name))
	}
	nameCols = min(nameCols, maxNameColumns)
	trackCols := max(10, cols-nameCols-8)

	start := s.Track.StartX()
	length := s.Track.Length()
	for i, e := range s.Entrants {
		if y >= rows-2 {
			break
		}
		style := laneStyles[i%len(laneStyles)]
		drawText(r.screen, 0, y, padRight(e.Name, nameCols), style)

		left := nameCols + 1
		r.screen.SetContent(left, y, '|', nil, styleTrack)
		for c := 0; c < trackCols; c++ {
			r.screen.SetContent(left+1+c, y, ' ', nil, styleDefault)
		}
		r.screen.SetContent(left+1+trackCols, y, '|', nil, styleTrack)

		pos := 0
		if length > 0 {
			pos = int((e.X - start) / length * float64(trackCols))
		}
		pos = max(0, min(pos, trackCols-1))
		marker, markerStyle := 'o', style
		if e.Waiting {
			marker, markerStyle = '.', styleWaiting
		}
		r.screen.SetContent(left+1+pos, y, marker, nil, markerStyle)

		if e.FinishRank > 0 {
			drawText(r.screen, left+trackCols+3, y, fmt.Sprintf("%d", e.FinishRank), styleRank)
		}
		y++
	}
	return y
}

// drawText puts text at (x, y) and returns the column after it.
func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) int {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x += runeWidth(r)
	}
	return x
}

// displayWidth counts terminal columns; East Asian wide runes take two.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		n += runeWidth(r)
	}
	return n
}

func runeWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}

// padRight truncates or pads s to exactly cols terminal columns.
func padRight(s string, cols int) string {
	var b strings.Builder
	used := 0
	for _, r := range s {
		w := runeWidth(r)
		if used+w > cols {
			break
		}
		b.WriteRune(r)
		used += w
	}
	b.WriteString(strings.Repeat(" ", cols-used))
	return b.String()
}
