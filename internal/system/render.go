package system

import (
	"time"

	coresys "github.com/aorandomizer/randomizer/internal/core/system"
	"github.com/aorandomizer/randomizer/internal/race"
	"go.uber.org/zap"
)

// Frame draws one snapshot.
type Frame interface {
	Render(s race.Snapshot) error
}

// RenderSystem draws a frame whenever the session's visible state changes and
// otherwise every `every` updates, which keeps the race and the prompt moving.
// Phase 3 (Output).
type RenderSystem struct {
	sess  *race.Session
	out   Frame
	every int
	log   *zap.Logger

	drawn   bool
	updates int
	phase   race.Phase
	draft   string
	notice  string
}

func NewRenderSystem(sess *race.Session, out Frame, every int, log *zap.Logger) *RenderSystem {
	if every <= 0 {
		every = 1
	}
	return &RenderSystem{sess: sess, out: out, every: every, log: log}
}

func (s *RenderSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *RenderSystem) Update(_ time.Duration) {
	s.updates++
	snap := s.sess.Snapshot()
	if !s.due(snap) {
		return
	}
	s.drawn = true
	s.updates = 0
	s.phase, s.draft, s.notice = snap.Phase, snap.Draft, snap.Notice
	if err := s.out.Render(snap); err != nil {
		s.log.Warn("render failed", zap.Error(err))
	}
}

func (s *RenderSystem) due(snap race.Snapshot) bool {
	switch {
	case !s.drawn:
		return true
	case snap.Phase != s.phase, snap.Draft != s.draft, snap.Notice != s.notice:
		return true
	}
	return s.updates >= s.every
}
