package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Track     TrackConfig     `toml:"track"`
	Motion    MotionConfig    `toml:"motion"`
	Race      RaceConfig      `toml:"race"`
	Presets   PresetsConfig   `toml:"presets"`
	Scripting ScriptingConfig `toml:"scripting"`
	Display   DisplayConfig   `toml:"display"`
	Logging   LoggingConfig   `toml:"logging"`
}

// TrackConfig describes the track in screen units. FinishOffset <= 0 means width/15.
type TrackConfig struct {
	Width         float64 `toml:"width"`
	Height        float64 `toml:"height"`
	Margin        float64 `toml:"margin"`
	FinishOffset  float64 `toml:"finish_offset"`
	EntrantRadius float64 `toml:"entrant_radius"`
	MaxLanes      int     `toml:"max_lanes"`
}

type MotionConfig struct {
	AccelerationMin  float64 `toml:"acceleration_min"`
	AccelerationMax  float64 `toml:"acceleration_max"`
	LowVariationMin  float64 `toml:"low_variation_min"`
	LowVariationMax  float64 `toml:"low_variation_max"`
	HighVariationMin float64 `toml:"high_variation_min"`
	HighVariationMax float64 `toml:"high_variation_max"`
	VelocityMin      float64 `toml:"velocity_min"`
	VelocityMax      float64 `toml:"velocity_max"`
	VelocityFloor    float64 `toml:"velocity_floor"`
	RankBias         float64 `toml:"rank_bias"`          // 0 disables; >0 helps trailing entrants
	LeaderDelayTicks int     `toml:"leader_delay_ticks"` // delayed-start profile length
}

type RaceConfig struct {
	TickRate   time.Duration `toml:"tick_rate"`
	Seed       int64         `toml:"seed"`        // 0 = time based unless seed_phrase is set
	SeedPhrase string        `toml:"seed_phrase"` // hashed into a reproducible seed
	Team       []string      `toml:"team"`
	Leaders    []string      `toml:"leaders"`
}

type PresetsConfig struct {
	Path string `toml:"path"`
}

type ScriptingConfig struct {
	Dir string `toml:"dir"`
}

type DisplayConfig struct {
	RenderEvery int `toml:"render_every"` // ticks between frames while running
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
	File   string `toml:"file"`   // empty logs to stderr
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes TOML over the defaults. name is only used in error messages.
func Parse(data []byte, name string) (*Config, error) {
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", name, err)
	}
	if cfg.Track.FinishOffset <= 0 {
		cfg.Track.FinishOffset = cfg.Track.Width / 15
	}
	return cfg, nil
}

func Defaults() *Config {
	return &Config{
		Track: TrackConfig{
			Width:         1500,
			Height:        750,
			Margin:        50,
			FinishOffset:  100,
			EntrantRadius: 16,
			MaxLanes:      31,
		},
		Motion: MotionConfig{
			AccelerationMin:  0,
			AccelerationMax:  0.3,
			LowVariationMin:  0,
			LowVariationMax:  2,
			HighVariationMin: 7,
			HighVariationMax: 9,
			VelocityMin:      1,
			VelocityMax:      3,
			VelocityFloor:    1,
			RankBias:         0,
			LeaderDelayTicks: 100,
		},
		Race: RaceConfig{
			TickRate: time.Second / 60,
		},
		Presets: PresetsConfig{
			Path: "data/presets.yaml",
		},
		Scripting: ScriptingConfig{
			Dir: "scripts",
		},
		Display: DisplayConfig{
			RenderEvery: 6,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File:   "randomizer.log",
		},
	}
}
