package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aorandomizer/randomizer/internal/race"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM holding the motion tuning scripts.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
// Missing directories are skipped, leaving every hook undefined.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	for _, sub := range []string{"core", "motion"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}
	return e, nil
}

func (e *Engine) Close() {
	e.vm.Close()
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// RankContext is passed to calc_rank_bias.
type RankContext struct {
	Rank     int // 1 = leading
	Field    int
	Strength float64 // motion.rank_bias from config
}

// HasRankBias reports whether a calc_rank_bias function is loaded.
func (e *Engine) HasRankBias() bool {
	return e.vm.GetGlobal("calc_rank_bias") != lua.LNil
}

// CalcRankBias calls the Lua calc_rank_bias function. Script errors yield 0.
func (e *Engine) CalcRankBias(ctx RankContext) float64 {
	fn := e.vm.GetGlobal("calc_rank_bias")
	if fn == lua.LNil {
		return 0
	}

	t := e.vm.NewTable()
	t.RawSetString("rank", lua.LNumber(ctx.Rank))
	t.RawSetString("field", lua.LNumber(ctx.Field))
	t.RawSetString("strength", lua.LNumber(ctx.Strength))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua calc_rank_bias error", zap.Error(err))
		return 0
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	n, ok := result.(lua.LNumber)
	if !ok {
		e.log.Error("lua calc_rank_bias returned non-number", zap.String("type", result.Type().String()))
		return 0
	}
	return float64(n)
}

// RankBias returns the bias used by the race session: the script when one is
// loaded, otherwise a linear bias of the given strength (nil when zero).
func (e *Engine) RankBias(strength float64) race.BiasFunc {
	if !e.HasRankBias() {
		return race.LinearBias(strength)
	}
	return func(rank, field int) float64 {
		return e.CalcRankBias(RankContext{Rank: rank, Field: field, Strength: strength})
	}
}
