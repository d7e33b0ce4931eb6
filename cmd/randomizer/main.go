package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aorandomizer/randomizer/internal/config"
	"github.com/aorandomizer/randomizer/internal/console"
	"github.com/aorandomizer/randomizer/internal/core/event"
	coresys "github.com/aorandomizer/randomizer/internal/core/system"
	"github.com/aorandomizer/randomizer/internal/data"
	"github.com/aorandomizer/randomizer/internal/race"
	"github.com/aorandomizer/randomizer/internal/scripting"
	"github.com/aorandomizer/randomizer/internal/system"
	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner() {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              AO Randomizer                \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := max(3, 46-len(title)-1)
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, value any) {
	v := fmt.Sprint(value)
	dotsLen := max(3, 42-len(label)-len(v))
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), v)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

// ── Main loop ─────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/randomizer.toml"
	if p := os.Getenv("RANDOMIZER_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner()
	printSection("Setup")

	// 3. Track geometry is checked before any race logic runs
	track := trackFromConfig(cfg.Track)
	if err := track.Validate(); err != nil {
		return fmt.Errorf("track: %w", err)
	}
	printStat("Lanes", track.MaxLanes)
	printStat("Track length", fmt.Sprintf("%.0f", track.Length()))

	seed := cfg.Race.Seed
	if cfg.Race.SeedPhrase != "" {
		seed = race.SeedFromPhrase(cfg.Race.SeedPhrase)
		printStat("Seed phrase", cfg.Race.SeedPhrase)
	}
	motion := motionFromConfig(cfg.Motion)
	if err := motion.Validate(); err != nil {
		return fmt.Errorf("motion: %w", err)
	}
	builder := race.NewBuilder(track, motion, race.NewRand(seed), cfg.Race.Leaders)

	// 4. Presets are optional: a broken file leaves the selector empty
	var presets []race.Preset
	if table, err := data.LoadPresetTable(cfg.Presets.Path); err != nil {
		log.Warn("presets unavailable", zap.String("path", cfg.Presets.Path), zap.Error(err))
		printStat("Presets", 0)
	} else {
		presets = table.Presets()
		printStat("Presets", table.Count())
	}

	// 5. Lua motion scripts
	luaEngine, err := scripting.NewEngine(cfg.Scripting.Dir, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer luaEngine.Close()
	if luaEngine.HasRankBias() {
		printOK("Rank bias script loaded")
	}

	// 6. Session and notifications
	bus := event.NewBus()
	event.Subscribe(bus, func(ev race.PhaseChanged) {
		log.Debug("phase", zap.Stringer("from", ev.From), zap.Stringer("to", ev.To))
	})
	event.Subscribe(bus, func(ev race.EntrantFinished) {
		log.Debug("finished", zap.String("name", ev.Name), zap.Int("rank", ev.Rank), zap.Int("tick", ev.Tick))
	})
	// The screen owns the terminal; the last result is printed once it closes.
	var result string
	event.Subscribe(bus, func(ev race.RaceFinished) { result = ev.Text })
	defer func() {
		if result != "" {
			fmt.Println(result)
		}
	}()

	sess, err := race.NewSession(race.Options{
		Track:     track,
		Builder:   builder,
		Presets:   presets,
		Draft:     strings.Join(append(append([]string{}, cfg.Race.Team...), cfg.Race.Leaders...), "\n"),
		Bias:      luaEngine.RankBias(cfg.Motion.RankBias),
		Clipboard: systemClipboard{},
		Bus:       bus,
		Log:       log,
	})
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	fmt.Println()

	// 7. Terminal
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	defer screen.Fini()

	events := make(chan tcell.Event, 64)
	wake := make(chan struct{}, 1)
	go pollEvents(screen, events, wake)

	// 8. Systems
	adapter := console.NewAdapter(sess)
	runner := coresys.NewRunner()
	runner.Register(system.NewInputSystem(events, adapter, 16, log))
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(system.NewRaceSystem(sess))
	runner.Register(system.NewRenderSystem(sess, console.NewRenderer(screen, adapter), cfg.Display.RenderEvery, log))

	// 9. Game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Race.TickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Race.TickRate)
		case <-wake:
			// Keys between ticks go straight to the session; the next tick draws them.
			runner.TickPhase(coresys.PhaseInput, 0)
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()), zap.Uint64("ticks", runner.Ticks()))
			return nil
		}
		if sess.Quitting() {
			log.Info("bye", zap.Uint64("ticks", runner.Ticks()))
			return nil
		}
	}
}

// pollEvents forwards terminal events to the game loop until the screen is
// finalized, then closes out.
func pollEvents(screen tcell.Screen, out chan<- tcell.Event, wake chan<- struct{}) {
	defer close(out)
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		out <- ev
		select {
		case wake <- struct{}{}:
		default:
		}
	}
}

func trackFromConfig(c config.TrackConfig) race.Track {
	return race.Track{
		Width:         c.Width,
		Height:        c.Height,
		Margin:        c.Margin,
		FinishOffset:  c.FinishOffset,
		EntrantRadius: c.EntrantRadius,
		MaxLanes:      c.MaxLanes,
	}
}

func motionFromConfig(c config.MotionConfig) race.MotionRanges {
	return race.MotionRanges{
		AccelerationMin:  c.AccelerationMin,
		AccelerationMax:  c.AccelerationMax,
		LowVariationMin:  c.LowVariationMin,
		LowVariationMax:  c.LowVariationMax,
		HighVariationMin: c.HighVariationMin,
		HighVariationMax: c.HighVariationMax,
		VelocityMin:      c.VelocityMin,
		VelocityMax:      c.VelocityMax,
		VelocityFloor:    c.VelocityFloor,
		LeaderDelayTicks: c.LeaderDelayTicks,
	}
}

var errNoClipboard = errors.New("no clipboard utility")

// systemClipboard writes to the OS clipboard when a helper is installed.
type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return errNoClipboard
	}
	return clipboard.WriteAll(text)
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	if cfg.File != "" {
		zapCfg.OutputPaths = []string{cfg.File}
		zapCfg.ErrorOutputPaths = []string{cfg.File}
	}

	return zapCfg.Build()
}
