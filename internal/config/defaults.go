package config

import (
	_ "embed"
)

//go:embed defaults/gemfall.yaml
var defaultGemfallYAML []byte

// DefaultGemfallConfig returns the built-in configuration. It mirrors the
// embedded defaults/gemfall.yaml.
func DefaultGemfallConfig() GemfallConfig {
	return GemfallConfig{
		Board: BoardConfig{Width: 7, Height: 7},
		Palette: []PaletteEntry{
			{Color: "blue", Score: 10},
			{Color: "green", Score: 10},
			{Color: "red", Score: 10},
			{Color: "yellow", Score: 10},
			{Color: "purple", Score: 10},
		},
		Bomb: BombConfig{Score: 20},
		Timing: TimingConfig{
			SwapDelay:     500,
			CascadeStep:   50,
			BombNeighbor:  300,
			BombSelf:      500,
			PreCascade:    200,
			Settle:        500,
			PostExplosion: 100,
		},
		Rules: RulesConfig{
			BombChance:        0,
			CascadeFilter:     false,
			MaxInitialRerolls: 100,
		},
		Levels: []LevelConfig{
			{Name: "First Drops", Target: 600, Moves: 20},
			{Name: "Chain Lines", Target: 1200, Moves: 20},
			{Name: "Short Fuse", Target: 1800, Moves: 18},
			{Name: "Deep Fall", Target: 2600, Moves: 18},
			{Name: "Gemstorm", Target: 3500, Moves: 16},
		},
		Endless: EndlessConfig{StageTarget: 500},
		Difficulty: DifficultyConfig{
			Preset: DifficultyNormal,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 10000,
			},
			Scaling: ScalingConfig{TargetMultiplier: 1.0},
		},
	}
}
