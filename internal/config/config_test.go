package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
	"time"
)

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[track]
width = 900
max_lanes = 12

[motion]
rank_bias = 1.5

[race]
tick_rate = "20ms"
seed_phrase = "friday"
team = ["Alice", "Bob"]
leaders = ["Morgan"]

[logging]
level = "debug"
`), "inline")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Track.Width != 900 || cfg.Track.MaxLanes != 12 {
		t.Fatalf("track = %+v", cfg.Track)
	}
	if cfg.Track.Height != 750 {
		t.Fatalf("height default lost: %f", cfg.Track.Height)
	}
	if cfg.Track.FinishOffset != 100 {
		t.Fatalf("finish offset = %f, want default 100", cfg.Track.FinishOffset)
	}
	if cfg.Motion.RankBias != 1.5 || cfg.Motion.VelocityFloor != 1 {
		t.Fatalf("motion = %+v", cfg.Motion)
	}
	if cfg.Race.TickRate != 20*time.Millisecond {
		t.Fatalf("tick rate = %s", cfg.Race.TickRate)
	}
	if len(cfg.Race.Team) != 2 || cfg.Race.Leaders[0] != "Morgan" || cfg.Race.SeedPhrase != "friday" {
		t.Fatalf("race = %+v", cfg.Race)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" || cfg.Logging.File != "randomizer.log" {
		t.Fatalf("logging = %+v", cfg.Logging)
	}
}

func TestParseDerivesFinishOffsetFromWidth(t *testing.T) {
	cfg, err := Parse([]byte("[track]\nwidth = 1200\nfinish_offset = 0\n"), "inline")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Track.FinishOffset != 80 {
		t.Fatalf("finish offset = %f, want 80", cfg.Track.FinishOffset)
	}
}

func TestParseRejectsBadTOML(t *testing.T) {
	if _, err := Parse([]byte("[track\nwidth = "), "broken.toml"); err == nil {
		t.Fatalf("expected error for malformed config")
	}
}

func TestLoadShippedConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "randomizer.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Track.MaxLanes != 31 || cfg.Race.TickRate != 16*time.Millisecond {
		t.Fatalf("shipped config = %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("error = %v, want not-exist", err)
	}
}
