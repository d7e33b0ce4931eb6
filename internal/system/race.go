package system

import (
	"time"

	coresys "github.com/aorandomizer/randomizer/internal/core/system"
	"github.com/aorandomizer/randomizer/internal/race"
)

// RaceSystem advances the race session once per tick. Phase 2 (Update).
type RaceSystem struct {
	sess *race.Session
}

func NewRaceSystem(sess *race.Session) *RaceSystem {
	return &RaceSystem{sess: sess}
}

func (s *RaceSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *RaceSystem) Update(_ time.Duration) {
	s.sess.Tick()
}
