// Package gemfall implements the match-3 game with campaign and endless modes.
package gemfall

import "github.com/vovakirdan/gemfall/internal/config"

// Level defines a campaign level: reach Target points within Moves swaps.
// Targets are cumulative, so the score carries from one level to the next.
type Level = config.LevelConfig

// level returns the current campaign level, clamped to the last one.
func (g *Game) level() Level {
	levels := g.cfg.Levels
	if len(levels) == 0 {
		levels = config.DefaultGemfallConfig().Levels
	}
	idx := g.levelIndex
	if idx >= len(levels) {
		idx = len(levels) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return levels[idx]
}

// LevelCount returns the number of campaign levels in the active config.
func LevelCount() int {
	return len(loadConfig("").Levels)
}

// LevelNames returns the names of all campaign levels.
func LevelNames() []string {
	levels := loadConfig("").Levels
	names := make([]string, len(levels))
	for i, lvl := range levels {
		names[i] = lvl.Name
	}
	return names
}
