package race

import "fmt"

// Track is the race geometry in screen units. Lanes run top to bottom;
// entrants start at FinishOffset/2 and finish at Width-FinishOffset.
type Track struct {
	Width         float64
	Height        float64
	Margin        float64 // vertical padding above the first and below the last lane
	FinishOffset  float64 // distance of start and finish lines from the screen edges
	EntrantRadius float64
	MaxLanes      int
}

func (t Track) StartX() float64      { return t.FinishOffset / 2 }
func (t Track) FinishLineX() float64 { return t.Width - t.FinishOffset }

// Length is the distance an entrant covers before it counts as finished.
func (t Track) Length() float64 {
	return t.FinishLineX() + t.EntrantRadius - t.StartX()
}

// LaneHeight returns the height of one lane when n lanes share the track.
func (t Track) LaneHeight(n int) float64 {
	if n <= 0 {
		return 0
	}
	return (t.Height - 2*t.Margin) / float64(n)
}

// LaneY returns the centre line of lane i out of n.
func (t Track) LaneY(i, n int) float64 {
	h := t.LaneHeight(n)
	return t.Margin + float64(i)*h + h/2
}

// Validate rejects geometry that cannot host a race.
func (t Track) Validate() error {
	if t.Length() <= 0 {
		return fmt.Errorf("%w: track length %.2f is not positive", ErrInvalidConfiguration, t.Length())
	}
	if t.MaxLanes <= 0 {
		return fmt.Errorf("%w: lane count %d is not positive", ErrInvalidConfiguration, t.MaxLanes)
	}
	if t.LaneHeight(t.MaxLanes) <= 0 {
		return fmt.Errorf("%w: height %.2f leaves no room for lanes", ErrInvalidConfiguration, t.Height)
	}
	if t.EntrantRadius < 0 {
		return fmt.Errorf("%w: negative entrant radius", ErrInvalidConfiguration)
	}
	return nil
}
