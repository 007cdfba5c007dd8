package gemfall

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying      GameStateType = "playing"
	StateResolving    GameStateType = "resolving"
	StateLevelCleared GameStateType = "level_cleared"
	StateGameOver     GameStateType = "game_over"
	StateWin          GameStateType = "win"
	StatePaused       GameStateType = "paused"
	StatePausedSmall  GameStateType = "paused_small_window"
)

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick      uint64
	Mode      string // "campaign" or "endless"
	Level     int    // Current level (1-indexed), stage number in endless
	Target    int    // Score needed to clear the level or stage
	MovesLeft int    // 0 in endless
	Moves     int
	Score     int
	Board     string // match3.Board.String(), top row first
	CursorX   int
	CursorY   int
	State     GameStateType
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.won:
		state = StateWin
	case g.gameOver:
		state = StateGameOver
	case g.levelCleared:
		state = StateLevelCleared
	case g.paused:
		state = StatePaused
	case g.pending:
		state = StateResolving
	}

	level := g.levelIndex + 1
	if g.mode == ModeEndless {
		level = g.stage
	}

	return Snapshot{
		Tick:      g.tick,
		Mode:      string(g.mode),
		Level:     level,
		Target:    g.target,
		MovesLeft: g.movesLeft,
		Moves:     g.moves,
		Score:     g.score,
		Board:     g.engine.Board().String(),
		CursorX:   g.cursor.X,
		CursorY:   g.cursor.Y,
		State:     state,
	}
}
