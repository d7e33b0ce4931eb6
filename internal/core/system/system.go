package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: drain queued input into the session
	PhasePreUpdate               // 1: deliver last tick's notifications
	PhaseUpdate                  // 2: race simulation
	PhaseOutput                  // 3: render snapshots

	phaseCount
)

// System is one step of the tick pipeline.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
