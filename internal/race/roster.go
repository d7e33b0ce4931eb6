package race

import (
	"fmt"
	"math/rand"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// MotionRanges bound the per-entrant draws made when a roster is built.
type MotionRanges struct {
	AccelerationMin, AccelerationMax   float64
	LowVariationMin, LowVariationMax   float64
	HighVariationMin, HighVariationMax float64
	VelocityMin, VelocityMax           float64
	VelocityFloor                      float64
	LeaderDelayTicks                   int
}

func DefaultMotionRanges() MotionRanges {
	return MotionRanges{
		AccelerationMin:  0,
		AccelerationMax:  0.3,
		LowVariationMin:  0,
		LowVariationMax:  2,
		HighVariationMin: 7,
		HighVariationMax: 9,
		VelocityMin:      1,
		VelocityMax:      3,
		VelocityFloor:    1,
		LeaderDelayTicks: 100,
	}
}

// Validate reports ranges that could leave an entrant stalled on the track.
// Velocity never drops below the floor, so a positive floor at or below the
// minimum starting velocity guarantees every race finishes.
func (m MotionRanges) Validate() error {
	pairs := []struct {
		name     string
		min, max float64
	}{
		{"acceleration", m.AccelerationMin, m.AccelerationMax},
		{"low variation", m.LowVariationMin, m.LowVariationMax},
		{"high variation", m.HighVariationMin, m.HighVariationMax},
		{"velocity", m.VelocityMin, m.VelocityMax},
	}
	for _, p := range pairs {
		if p.min > p.max {
			return fmt.Errorf("%w: %s range [%g, %g] is inverted", ErrInvalidConfiguration, p.name, p.min, p.max)
		}
	}
	switch {
	case m.VelocityFloor <= 0:
		return fmt.Errorf("%w: velocity floor %g is not positive", ErrInvalidConfiguration, m.VelocityFloor)
	case m.VelocityMin < m.VelocityFloor:
		return fmt.Errorf("%w: minimum velocity %g is below the floor %g", ErrInvalidConfiguration, m.VelocityMin, m.VelocityFloor)
	case m.AccelerationMin < 0:
		return fmt.Errorf("%w: negative acceleration %g", ErrInvalidConfiguration, m.AccelerationMin)
	case m.LeaderDelayTicks < 0:
		return fmt.Errorf("%w: negative leader delay %d", ErrInvalidConfiguration, m.LeaderDelayTicks)
	}
	return nil
}

// Roster holds the entrants of one race in lane order.
type Roster struct {
	Entrants []*Entrant
}

func (r *Roster) Len() int { return len(r.Entrants) }

// Builder turns name lists into shuffled rosters. It owns the generator that
// seeds every entrant, so a fixed seed reproduces a whole race.
type Builder struct {
	track   Track
	motion  MotionRanges
	rng     *rand.Rand
	leaders map[string]bool
}

// NewBuilder creates a builder. Names listed in leaders get the delayed-start profile.
func NewBuilder(track Track, motion MotionRanges, rng *rand.Rand, leaders []string) *Builder {
	b := &Builder{
		track:   track,
		motion:  motion,
		rng:     rng,
		leaders: make(map[string]bool, len(leaders)),
	}
	for _, name := range FilterNames(leaders) {
		b.leaders[name] = true
	}
	return b
}

// Build filters names, shuffles them and assigns lanes top to bottom.
func (b *Builder) Build(names []string) (*Roster, error) {
	valid := FilterNames(names)
	if len(valid) == 0 {
		return nil, ErrEmptyRoster
	}
	if b.track.MaxLanes > 0 && len(valid) > b.track.MaxLanes {
		return nil, fmt.Errorf("%w: %d names, %d lanes", ErrTooManyEntrants, len(valid), b.track.MaxLanes)
	}

	b.rng.Shuffle(len(valid), func(i, j int) {
		valid[i], valid[j] = valid[j], valid[i]
	})

	n := len(valid)
	roster := &Roster{Entrants: make([]*Entrant, 0, n)}
	for lane, name := range valid {
		profile := StandardProfile()
		if b.leaders[name] {
			profile = DelayedProfile(b.motion.LeaderDelayTicks)
		}
		params := MotionParams{
			Acceleration:  b.uniform(b.motion.AccelerationMin, b.motion.AccelerationMax),
			LowVariation:  b.uniform(b.motion.LowVariationMin, b.motion.LowVariationMax),
			HighVariation: b.uniform(b.motion.HighVariationMin, b.motion.HighVariationMax),
			VelocityFloor: b.motion.VelocityFloor,
		}
		velocity := b.uniform(b.motion.VelocityMin, b.motion.VelocityMax)
		e := NewEntrant(name, lane,
			b.track.StartX(), b.track.LaneY(lane, n),
			velocity, params, profile,
			rand.New(rand.NewSource(b.rng.Int63())),
		)
		e.Radius = b.track.EntrantRadius
		roster.Entrants = append(roster.Entrants, e)
	}
	return roster, nil
}

func (b *Builder) uniform(lo, hi float64) float64 {
	return lo + b.rng.Float64()*(hi-lo)
}

// FilterNames trims and NFC-normalises names, dropping blanks and repeats.
// The first occurrence of a name keeps its place.
func FilterNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, raw := range names {
		name := norm.NFC.String(strings.TrimSpace(raw))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// SplitLines splits roster text into lines, accepting \n and \r\n endings.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
