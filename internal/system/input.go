package system

import (
	"errors"
	"time"

	"github.com/aorandomizer/randomizer/internal/console"
	coresys "github.com/aorandomizer/randomizer/internal/core/system"
	"github.com/aorandomizer/randomizer/internal/race"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

// InputSystem drains terminal events queued by the poll goroutine and feeds
// them through the console adapter. Phase 0 (Input). A closed queue means
// the terminal went away and is treated as a quit request.
type InputSystem struct {
	events     <-chan tcell.Event
	adapter    *console.Adapter
	maxPerTick int
	log        *zap.Logger
	closed     bool
}

func NewInputSystem(events <-chan tcell.Event, adapter *console.Adapter, maxPerTick int, log *zap.Logger) *InputSystem {
	if maxPerTick <= 0 {
		maxPerTick = 16
	}
	return &InputSystem{
		events:     events,
		adapter:    adapter,
		maxPerTick: maxPerTick,
		log:        log,
	}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	if s.closed {
		return
	}
	for i := 0; i < s.maxPerTick; i++ {
		select {
		case ev, ok := <-s.events:
			if !ok {
				s.closed = true
				s.log.Info("input closed")
				if err := s.adapter.Quit(); err != nil {
					s.logRejected(err)
				}
				return
			}
			if err := s.adapter.HandleEvent(ev); err != nil {
				s.logRejected(err)
			}
		default:
			return
		}
	}
}

func (s *InputSystem) logRejected(err error) {
	switch {
	case errors.Is(err, race.ErrEmptyRoster), errors.Is(err, race.ErrTooManyEntrants):
		s.log.Info("roster not accepted", zap.Error(err))
	default:
		s.log.Debug("input ignored", zap.Error(err))
	}
}
