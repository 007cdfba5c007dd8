package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/gemfall/internal/match3"
)

// isolate points HOME and the working directory at empty temp dirs so the
// layered search only sees what the test writes.
func isolate(t *testing.T) (home, wd string) {
	t.Helper()
	home = t.TempDir()
	wd = t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(wd)
	return home, wd
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestEmbeddedMatchesHardcoded(t *testing.T) {
	var cfg GemfallConfig
	require.NoError(t, yaml.Unmarshal(defaultGemfallYAML, &cfg))
	assert.Equal(t, DefaultGemfallConfig(), cfg)
}

func TestDefaultsAreValid(t *testing.T) {
	require.NoError(t, DefaultGemfallConfig().Validate())
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	isolate(t)
	cfg, err := LoadGemfall("")
	require.NoError(t, err)
	assert.Equal(t, DefaultGemfallConfig(), cfg)
}

func TestLoadSearchOrder(t *testing.T) {
	home, wd := isolate(t)

	writeFile(t, filepath.Join(wd, "configs", "gemfall.yaml"), "board:\n  width: 8\n")
	cfg, err := LoadGemfall("")
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Board.Width)
	assert.Equal(t, 7, cfg.Board.Height, "unset keys keep their defaults")

	writeFile(t, filepath.Join(home, ".gemfall", "configs", "gemfall.yaml"), "board:\n  width: 9\n")
	cfg, err = LoadGemfall("")
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Board.Width, "user dir wins over ./configs")

	custom := filepath.Join(wd, "custom.yaml")
	writeFile(t, custom, "board:\n  width: 5\n  height: 6\n")
	cfg, err = LoadGemfall(custom)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Board.Width)
	assert.Equal(t, 6, cfg.Board.Height)
}

func TestLoadSkipsBrokenLayer(t *testing.T) {
	home, wd := isolate(t)
	writeFile(t, filepath.Join(home, ".gemfall", "configs", "gemfall.yaml"), "board: [oops\n")
	writeFile(t, filepath.Join(wd, "configs", "gemfall.yaml"), "board:\n  width: 10\n")

	cfg, err := LoadGemfall("")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Board.Width)
}

func TestLoadCustomErrors(t *testing.T) {
	_, wd := isolate(t)

	_, err := LoadGemfall(filepath.Join(wd, "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(wd, "bad.yaml")
	writeFile(t, bad, "palette: {nope\n")
	_, err = LoadGemfall(bad)
	require.Error(t, err)

	invalid := filepath.Join(wd, "invalid.yaml")
	writeFile(t, invalid, "board:\n  width: 2\n")
	_, err = LoadGemfall(invalid)
	var verr *match3.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "board", verr.Field)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*GemfallConfig)
		field  string
	}{
		{"small board", func(c *GemfallConfig) { c.Board.Height = 2 }, "board"},
		{"empty palette", func(c *GemfallConfig) { c.Palette = nil }, "palette"},
		{"unknown color", func(c *GemfallConfig) { c.Palette[0].Color = "teal" }, "palette"},
		{"bomb as color", func(c *GemfallConfig) { c.Palette[0].Color = "bomb" }, "palette"},
		{"duplicate color", func(c *GemfallConfig) { c.Palette[1].Color = "blue" }, "palette"},
		{"negative delay", func(c *GemfallConfig) { c.Timing.Settle = -1 }, "timing"},
		{"bomb chance", func(c *GemfallConfig) { c.Rules.BombChance = 101 }, "rules.bomb_chance"},
		{"rerolls", func(c *GemfallConfig) { c.Rules.MaxInitialRerolls = -1 }, "rules.max_initial_rerolls"},
		{"level moves", func(c *GemfallConfig) { c.Levels[2].Moves = 0 }, "levels[2]"},
		{"stage target", func(c *GemfallConfig) { c.Endless.StageTarget = 0 }, "endless.stage_target"},
		{"preset", func(c *GemfallConfig) { c.Difficulty.Preset = "insane" }, "difficulty.preset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultGemfallConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			var verr *match3.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestEngineOptions(t *testing.T) {
	cfg := DefaultGemfallConfig()
	cfg.Palette = []PaletteEntry{{Color: "red", Score: 15}, {Color: "g", Score: 5}, {Color: "purple", Score: 1}}
	cfg.Bomb.Score = 40
	cfg.Rules.BombChance = 12.5
	cfg.Rules.CascadeFilter = true
	cfg.Timing.SwapDelay = 250

	opts := cfg.ToEngineOptions()
	require.NoError(t, opts.Validate())
	assert.Equal(t, 7, opts.Width)
	assert.Equal(t, []match3.TokenType{
		{Color: match3.Red, ScoreValue: 15},
		{Color: match3.Green, ScoreValue: 5},
		{Color: match3.Purple, ScoreValue: 1},
	}, opts.Palette.Regular)
	assert.Equal(t, match3.TokenType{Color: match3.Bomb, ScoreValue: 40}, opts.Palette.Bomb)
	assert.Equal(t, 250*time.Millisecond, opts.Timing.SwapCheck)
	assert.Equal(t, 50*time.Millisecond, opts.Timing.CascadeStep)
	assert.Equal(t, 12.5, opts.BombChance)
	assert.True(t, opts.CascadeFilter)
	assert.Equal(t, 100, opts.MaxRerolls)
}

func TestDefaultTimingMatchesEngine(t *testing.T) {
	assert.Equal(t, match3.DefaultTiming(), DefaultGemfallConfig().EngineTiming())
	assert.Equal(t, match3.DefaultPalette(), DefaultGemfallConfig().EnginePalette())
}

func TestApplyPreset(t *testing.T) {
	easy := DefaultGemfallConfig()
	ApplyGemfallPreset(&easy, DifficultyEasy)
	assert.Equal(t, 25, easy.Levels[0].Moves)

	hard := DefaultGemfallConfig()
	hard.Levels[1].Moves = 3
	ApplyGemfallPreset(&hard, DifficultyHard)
	assert.Equal(t, 16, hard.Levels[0].Moves)
	assert.Equal(t, 1, hard.Levels[1].Moves, "moves never drop below one")
	assert.Equal(t, DifficultyHard, hard.Difficulty.Preset)
}

func TestParsePreset(t *testing.T) {
	p, err := ParsePreset("")
	require.NoError(t, err)
	assert.Equal(t, DifficultyNormal, p)

	p, err = ParsePreset("fixed")
	require.NoError(t, err)
	assert.Equal(t, DifficultyFixed, p)

	_, err = ParsePreset("nightmare")
	assert.Error(t, err)
}

func TestDifficultyStageTarget(t *testing.T) {
	cfg := DefaultGemfallConfig().Difficulty
	cfg.Preset = DifficultyEasy
	dm := NewDifficultyManager(cfg)

	assert.Equal(t, 500, dm.StageTarget(500, 0, 0))
	assert.Equal(t, 750, dm.StageTarget(500, 5000, 0))
	assert.Equal(t, 1000, dm.StageTarget(500, 20000, 0), "progress clamps at max_at")

	cfg.Preset = DifficultyFixed
	fixed := NewDifficultyManager(cfg)
	assert.False(t, fixed.IsEnabled())
	assert.Equal(t, 500, fixed.StageTarget(500, 20000, 0))

	cfg.Preset = DifficultyNormal
	cfg.Progression.Type = "moves"
	cfg.Progression.MaxAt = 10
	byMoves := NewDifficultyManager(cfg)
	assert.InDelta(t, 0.3, byMoves.Level(99999, 0), 1e-9)
	assert.InDelta(t, 1.0, byMoves.Level(0, 10), 1e-9)
}
