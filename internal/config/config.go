// Package config provides YAML-based game configuration loading and
// difficulty management.
package config

// GemfallConfig contains all configuration for the game.
type GemfallConfig struct {
	Board      BoardConfig      `yaml:"board"`
	Palette    []PaletteEntry   `yaml:"palette"`
	Bomb       BombConfig       `yaml:"bomb"`
	Timing     TimingConfig     `yaml:"timing"`
	Rules      RulesConfig      `yaml:"rules"`
	Levels     []LevelConfig    `yaml:"levels"`
	Endless    EndlessConfig    `yaml:"endless"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// BoardConfig defines the grid size.
type BoardConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// PaletteEntry is one regular token type.
type PaletteEntry struct {
	Color string `yaml:"color"`
	Score int    `yaml:"score"`
}

// BombConfig defines the bomb token.
type BombConfig struct {
	Score int `yaml:"score"`
}

// TimingConfig holds pipeline delays in milliseconds.
type TimingConfig struct {
	SwapDelay     int `yaml:"swap_delay"`
	CascadeStep   int `yaml:"cascade_step"`
	BombNeighbor  int `yaml:"bomb_neighbor"`
	BombSelf      int `yaml:"bomb_self"`
	PreCascade    int `yaml:"pre_cascade"`
	Settle        int `yaml:"settle"`
	PostExplosion int `yaml:"post_explosion"`
}

// RulesConfig toggles optional rules.
type RulesConfig struct {
	BombChance        float64 `yaml:"bomb_chance"` // percent of initial cells that are bombs
	CascadeFilter     bool    `yaml:"cascade_filter"`
	MaxInitialRerolls int     `yaml:"max_initial_rerolls"`
}

// LevelConfig is one campaign level: reach Target points within Moves swaps.
type LevelConfig struct {
	Name   string `yaml:"name"`
	Target int    `yaml:"target"`
	Moves  int    `yaml:"moves"`
}

// EndlessConfig tunes the endless mode.
type EndlessConfig struct {
	StageTarget int `yaml:"stage_target"` // points needed for the first stage
}

// DifficultyConfig defines the difficulty preset and endless progression.
type DifficultyConfig struct {
	Preset      DifficultyPreset  `yaml:"preset"`
	Progression ProgressionConfig `yaml:"progression"`
	Scaling     ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how endless difficulty grows.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "moves", or "none"
	MaxAt int    `yaml:"max_at"` // score or moves at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	TargetMultiplier float64 `yaml:"target_multiplier"` // stage target growth at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the starting endless difficulty for a preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
