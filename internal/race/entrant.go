package race

// Uniform yields values in [0, 1). *math/rand.Rand satisfies it.
type Uniform interface {
	Float64() float64
}

// VariationScale is the upper bound of the per-tick draw compared against
// an entrant's variation thresholds.
const VariationScale = 10.0

// MotionParams are drawn once per entrant and never change during a race.
type MotionParams struct {
	Acceleration  float64
	LowVariation  float64 // draws below this slow the entrant down
	HighVariation float64 // draws above this speed it up
	VelocityFloor float64
}

// ProfileKind tags how an entrant starts moving.
type ProfileKind int

const (
	ProfileStandard ProfileKind = iota
	ProfileDelayed              // stands still for DelayTicks after the start signal
)

type MotionProfile struct {
	Kind       ProfileKind
	DelayTicks int
}

func StandardProfile() MotionProfile { return MotionProfile{Kind: ProfileStandard} }

func DelayedProfile(ticks int) MotionProfile {
	return MotionProfile{Kind: ProfileDelayed, DelayTicks: ticks}
}

// BiasFunc shifts the variation thresholds for an entrant at the given rank
// (1 = leading) out of field entrants. Positive values favour acceleration.
type BiasFunc func(rank, field int) float64

// LinearBias gives the leader no bias and the last entrant the full strength.
// A negative strength penalises trailing entrants instead.
func LinearBias(strength float64) BiasFunc {
	if strength == 0 {
		return nil
	}
	return func(rank, field int) float64 {
		if field <= 1 {
			return 0
		}
		return strength * float64(rank-1) / float64(field-1)
	}
}

// Entrant is one participant. Position X advances toward the finish line;
// Y is fixed by the lane.
type Entrant struct {
	Name       string
	ShortLabel string
	Lane       int
	X, Y       float64
	Velocity   float64
	Radius     float64
	Moving     bool
	FinishRank int // 0 until the entrant crosses the finish line

	Params  MotionParams
	Profile MotionProfile

	waited int
	rng    Uniform
}

// NewEntrant places an entrant at rest. rng drives its per-tick variation.
func NewEntrant(name string, lane int, x, y, velocity float64, params MotionParams, profile MotionProfile, rng Uniform) *Entrant {
	return &Entrant{
		Name:       name,
		ShortLabel: ShortLabel(name),
		Lane:       lane,
		X:          x,
		Y:          y,
		Velocity:   velocity,
		Params:     params,
		Profile:    profile,
		rng:        rng,
	}
}

// Finished reports whether a finish rank has been recorded.
func (e *Entrant) Finished() bool { return e.FinishRank > 0 }

// Waiting reports whether a delayed entrant is still held at the start.
func (e *Entrant) Waiting() bool {
	return e.Profile.Kind == ProfileDelayed && e.waited < e.Profile.DelayTicks
}

// Accelerate applies one random velocity variation.
func (e *Entrant) Accelerate(rank, field int, bias BiasFunc) {
	if !e.Moving {
		return
	}
	if e.Waiting() {
		return
	}

	low, high := e.Params.LowVariation, e.Params.HighVariation
	if bias != nil {
		b := bias(rank, field)
		low -= b
		high -= b
	}

	r := e.rng.Float64() * VariationScale
	if r > high {
		e.Velocity += e.Params.Acceleration
	} else if r < low {
		e.Velocity -= e.Params.Acceleration
		if e.Velocity < e.Params.VelocityFloor {
			e.Velocity = e.Params.VelocityFloor
		}
	}
}

// Advance moves the entrant by its velocity. A delayed entrant spends the
// tick waiting instead while its delay is pending.
func (e *Entrant) Advance() {
	if !e.Moving {
		return
	}
	if e.Waiting() {
		e.waited++
		return
	}
	e.X += e.Velocity
}

// CheckFinished stops the entrant and records rank finishers+1 the first time
// it passes finishLineX by more than its radius. Later calls return false.
func (e *Entrant) CheckFinished(finishLineX float64, finishers int) bool {
	if !e.Moving || e.X <= finishLineX+e.Radius {
		return false
	}
	e.Moving = false
	e.FinishRank = finishers + 1
	return true
}
