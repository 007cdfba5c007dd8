package config

import (
	"fmt"
	"time"

	"github.com/vovakirdan/gemfall/internal/match3"
)

// Validate checks the values the engine cannot repair on its own.
func (c GemfallConfig) Validate() error {
	if c.Board.Width < match3.MinRun || c.Board.Height < match3.MinRun {
		return &match3.ValidationError{Field: "board", Message: fmt.Sprintf("size %dx%d is below 3x3", c.Board.Width, c.Board.Height)}
	}
	if len(c.Palette) == 0 {
		return &match3.ValidationError{Field: "palette", Message: "at least one color is required"}
	}
	seen := make(map[match3.ColorType]bool, len(c.Palette))
	for _, p := range c.Palette {
		col, ok := match3.ParseColor(p.Color)
		if !ok || col == match3.Bomb {
			return &match3.ValidationError{Field: "palette", Message: fmt.Sprintf("unknown color %q", p.Color)}
		}
		if seen[col] {
			return &match3.ValidationError{Field: "palette", Message: fmt.Sprintf("duplicate color %q", p.Color)}
		}
		seen[col] = true
		if p.Score < 0 {
			return &match3.ValidationError{Field: "palette", Message: fmt.Sprintf("negative score for %q", p.Color)}
		}
	}
	if c.Bomb.Score < 0 {
		return &match3.ValidationError{Field: "bomb.score", Message: "must not be negative"}
	}
	t := c.Timing
	for _, ms := range []int{t.SwapDelay, t.CascadeStep, t.BombNeighbor, t.BombSelf, t.PreCascade, t.Settle, t.PostExplosion} {
		if ms < 0 {
			return &match3.ValidationError{Field: "timing", Message: "delays must not be negative"}
		}
	}
	if c.Rules.BombChance < 0 || c.Rules.BombChance > 100 {
		return &match3.ValidationError{Field: "rules.bomb_chance", Message: "must be between 0 and 100"}
	}
	if c.Rules.MaxInitialRerolls < 0 {
		return &match3.ValidationError{Field: "rules.max_initial_rerolls", Message: "must not be negative"}
	}
	for i, l := range c.Levels {
		if l.Target <= 0 || l.Moves <= 0 {
			return &match3.ValidationError{Field: fmt.Sprintf("levels[%d]", i), Message: "target and moves must be positive"}
		}
	}
	if c.Endless.StageTarget <= 0 {
		return &match3.ValidationError{Field: "endless.stage_target", Message: "must be positive"}
	}
	if _, err := ParsePreset(string(c.Difficulty.Preset)); err != nil {
		return &match3.ValidationError{Field: "difficulty.preset", Message: err.Error()}
	}
	return nil
}

// EnginePalette converts the palette section. Invalid colors are skipped; call
// Validate first to reject them.
func (c GemfallConfig) EnginePalette() match3.Palette {
	p := match3.Palette{Bomb: match3.TokenType{Color: match3.Bomb, ScoreValue: c.Bomb.Score}}
	for _, e := range c.Palette {
		col, ok := match3.ParseColor(e.Color)
		if !ok || col == match3.Bomb {
			continue
		}
		p.Regular = append(p.Regular, match3.TokenType{Color: col, ScoreValue: e.Score})
	}
	return p
}

// EngineTiming converts the millisecond delays.
func (c GemfallConfig) EngineTiming() match3.Timing {
	ms := func(n int) time.Duration { return time.Duration(n) * time.Millisecond }
	return match3.Timing{
		SwapCheck:     ms(c.Timing.SwapDelay),
		CascadeStep:   ms(c.Timing.CascadeStep),
		BombNeighbor:  ms(c.Timing.BombNeighbor),
		BombSelf:      ms(c.Timing.BombSelf),
		PreCascade:    ms(c.Timing.PreCascade),
		Settle:        ms(c.Timing.Settle),
		PostExplosion: ms(c.Timing.PostExplosion),
	}
}

// ToEngineOptions returns engine options for this config. Rand, Clock, Logger
// and the collaborators are left for the caller.
func (c GemfallConfig) ToEngineOptions() match3.Options {
	return match3.Options{
		Width:         c.Board.Width,
		Height:        c.Board.Height,
		Palette:       c.EnginePalette(),
		Timing:        c.EngineTiming(),
		BombChance:    c.Rules.BombChance,
		MaxRerolls:    c.Rules.MaxInitialRerolls,
		CascadeFilter: c.Rules.CascadeFilter,
	}
}
