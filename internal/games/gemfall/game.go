package gemfall

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gemfall/internal/config"
	"github.com/vovakirdan/gemfall/internal/core"
	"github.com/vovakirdan/gemfall/internal/match3"
	"github.com/vovakirdan/gemfall/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeCampaign Mode = "campaign"
	ModeEndless  Mode = "endless"
)

// Game adapts a match3 engine to the arcade game loop. Turns run on a step
// clock that is advanced by one tick per Step, so cascades animate at the
// configured delays.
type Game struct {
	mode Mode
	cfg  config.GemfallConfig
	rng  *rand.Rand
	seed int64
	tick uint64

	// Per-run overrides of the package settings
	preset     config.DifficultyPreset
	startLevel int

	engine  *match3.Engine
	clock   *match3.StepClock
	tickDur time.Duration
	ctx     context.Context
	cancel  context.CancelFunc

	// Turn in flight
	pending bool
	turn    match3.TurnResult
	turnErr error

	cursor   match3.Coord
	selected bool
	anchor   match3.Coord // selected token
	hint     *match3.Swap
	hintTTL  int

	// Progress
	score         int
	moves         int
	movesLeft     int
	cascades      int
	bombsExploded int
	lastGain      int
	levelIndex    int
	target        int
	stage         int
	difficulty    *config.DifficultyManager

	message    string
	messageTTL int

	// Screen dimensions
	screenW  int
	screenH  int
	tickRate int

	// Game state flags
	gameOver        bool
	outOfMoves      bool
	levelCleared    bool
	won             bool
	paused          bool
	tooSmall        bool
	levelClearTicks int
}

// Package-level variables for config
var (
	configPath         string
	difficultyPreset   config.DifficultyPreset
	selectedStartLevel int
	logger             *log.Logger
)

// SetConfigPath sets a custom config file path.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset overrides the preset from the config file.
func SetDifficultyPreset(preset config.DifficultyPreset) {
	difficultyPreset = preset
}

// SetStartLevel sets the starting campaign level (1-based). 0 means start
// from the beginning.
func SetStartLevel(level int) {
	selectedStartLevel = level
}

// SetLogger sets the logger handed to every new engine.
func SetLogger(l *log.Logger) {
	logger = l
}

// New creates a new campaign game.
func New() *Game {
	return &Game{mode: ModeCampaign}
}

// NewEndless creates a new endless game.
func NewEndless() *Game {
	return &Game{mode: ModeEndless}
}

func init() {
	registry.Register("gemfall", func() registry.Game {
		return New()
	})
	registry.Register("gemfall_endless", func() registry.Game {
		return NewEndless()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeEndless {
		return "gemfall_endless"
	}
	return "gemfall"
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeEndless {
		return "Gemfall (Endless)"
	}
	return "Gemfall"
}

// Reset initializes/restarts the game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.stopTurn()

	g.cfg = loadConfig(g.preset)
	g.seed = cfg.Seed
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.tick = 0
	g.tickRate = cfg.TickRate
	if g.tickRate <= 0 {
		g.tickRate = 60
	}
	g.tickDur = time.Second / time.Duration(g.tickRate)
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH

	g.score = 0
	g.moves = 0
	g.cascades = 0
	g.bombsExploded = 0
	g.lastGain = 0
	g.stage = 1
	g.difficulty = config.NewDifficultyManager(g.cfg.Difficulty)
	g.gameOver = false
	g.outOfMoves = false
	g.levelCleared = false
	g.won = false
	g.paused = false
	g.levelClearTicks = 0
	g.selected = false
	g.hint = nil
	g.pending = false
	g.setMessage("")

	// Apply selected start level (campaign only)
	start := g.startLevel
	g.startLevel = 0
	if start == 0 && selectedStartLevel > 0 {
		start = selectedStartLevel
		selectedStartLevel = 0 // Reset after use
	}
	if g.mode == ModeCampaign && start > 0 && start <= len(g.cfg.Levels) {
		g.levelIndex = start - 1
	} else {
		g.levelIndex = 0
	}
	g.loadLevel()

	g.clock = match3.NewStepClock()
	g.ctx, g.cancel = context.WithCancel(context.Background())

	opts := g.cfg.ToEngineOptions()
	opts.Rand = g.rng
	opts.Clock = g.clock
	opts.Logger = logger
	engine, err := match3.NewEngine(opts)
	if err != nil {
		// Config was validated on load; only a broken default can get here.
		g.debug("engine rejected config, using defaults", "err", err)
		opts = match3.DefaultOptions()
		opts.Rand = g.rng
		opts.Clock = g.clock
		opts.Logger = logger
		engine, _ = match3.NewEngine(opts)
	}
	g.engine = engine
	g.cursor = match3.C(engine.Board().Width()/2, engine.Board().Height()/2)

	g.clock.Go(func() {
		if _, err := g.engine.Populate(g.ctx); err != nil {
			g.debug("populate failed", "err", err)
		}
	})
	g.clock.Flush()

	g.checkScreenSize()
	g.checkStuck()
}

// Configure sets the difficulty preset and campaign start level for this
// game only. It takes effect on the next Reset; the start level is used once.
func (g *Game) Configure(preset config.DifficultyPreset, startLevel int) {
	g.preset = preset
	g.startLevel = startLevel
}

// loadConfig reads the config and applies override, falling back to the
// package preset and then the file's own.
func loadConfig(override config.DifficultyPreset) config.GemfallConfig {
	cfg, err := config.LoadGemfall(configPath)
	if err != nil {
		if logger != nil {
			logger.Warn("config load failed, using defaults", "path", configPath, "err", err)
		}
		cfg = config.DefaultGemfallConfig()
	}
	preset := cfg.Difficulty.Preset
	switch {
	case override != "":
		preset = override
	case difficultyPreset != "":
		preset = difficultyPreset
	}
	config.ApplyGemfallPreset(&cfg, preset)
	return cfg
}

// loadLevel sets up the current level parameters.
func (g *Game) loadLevel() {
	if g.mode == ModeEndless {
		g.movesLeft = 0 // Unlimited
		g.target = g.score + g.difficulty.StageTarget(g.cfg.Endless.StageTarget, g.score, g.moves)
		return
	}

	level := g.level()
	g.target = level.Target
	g.movesLeft = level.Moves
}

// stopTurn cancels a turn left running by a restart and drains it.
func (g *Game) stopTurn() {
	if g.cancel != nil {
		g.cancel()
	}
	if g.clock != nil && g.clock.Busy() {
		g.clock.Flush()
	}
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	minW, minH := layoutSize(g.cfg.Board.Width, g.cfg.Board.Height)
	g.tooSmall = g.screenW < minW || g.screenH < minH
}

// Resize follows a terminal resize without restarting the run.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.checkScreenSize()
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) && !g.gameOver && !g.won {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	if g.messageTTL > 0 {
		g.messageTTL--
		if g.messageTTL == 0 {
			g.message = ""
		}
	}
	if g.hintTTL > 0 {
		g.hintTTL--
		if g.hintTTL == 0 {
			g.hint = nil
		}
	}

	// A running turn owns the board until the clock releases it.
	if g.pending {
		g.clock.Advance(g.tickDur)
		if !g.clock.Busy() {
			g.finishTurn()
		}
		return core.StepResult{State: g.State()}
	}

	if g.levelCleared {
		g.levelClearTicks++
		// Auto-advance after 2 seconds
		if g.levelClearTicks >= 2*g.tickRate {
			g.advanceLevel()
		}
		return core.StepResult{State: g.State()}
	}

	if g.gameOver || g.won {
		return core.StepResult{State: g.State()}
	}

	g.handleInput(in)
	return core.StepResult{State: g.State()}
}

// handleInput moves the cursor, selects tokens and starts swaps. With a
// token selected, a direction swaps it with its neighbour.
func (g *Game) handleInput(in core.InputFrame) {
	if in.Has(core.ActionHint) {
		g.showHint()
	}

	if dir, ok := inputDirection(in); ok {
		if g.selected {
			g.trySwap(g.anchor, g.anchor.Step(dir))
			return
		}
		g.moveCursor(dir)
	}

	if in.Has(core.ActionSelect) {
		g.selectAt(g.cursor)
	}

	if in.Has(core.ActionBack) && g.selected {
		g.selected = false
	}
}

func inputDirection(in core.InputFrame) (match3.Direction, bool) {
	switch {
	case in.Has(core.ActionUp):
		return match3.DirUp, true
	case in.Has(core.ActionDown):
		return match3.DirDown, true
	case in.Has(core.ActionLeft):
		return match3.DirLeft, true
	case in.Has(core.ActionRight):
		return match3.DirRight, true
	}
	return match3.DirUp, false
}

// moveCursor steps the cursor, stopping at the board edge.
func (g *Game) moveCursor(dir match3.Direction) {
	b := g.engine.Board()
	next := g.cursor.Step(dir)
	g.cursor = match3.C(core.Clamp(next.X, 0, b.Width()-1), core.Clamp(next.Y, 0, b.Height()-1))
}

// selectAt picks up the token at pos, drops the selection when pos is the
// selected cell, and swaps when pos neighbours it.
func (g *Game) selectAt(pos match3.Coord) {
	switch {
	case !g.selected:
		g.selected = true
		g.anchor = pos
	case g.anchor == pos:
		g.selected = false
	case g.anchor.Adjacent(pos):
		g.trySwap(g.anchor, pos)
	default:
		g.anchor = pos
	}
}

// trySwap starts a swap turn on the step clock.
func (g *Game) trySwap(a, b match3.Coord) {
	if !g.engine.Board().InBounds(b) {
		return
	}
	g.selected = false
	g.hint = nil
	g.hintTTL = 0
	g.cursor = b
	g.pending = true
	g.clock.Go(func() {
		g.turn, g.turnErr = g.engine.Swap(g.ctx, a, b)
	})
	if !g.clock.Busy() {
		g.finishTurn()
	}
}

// finishTurn applies a completed turn to the run.
func (g *Game) finishTurn() {
	g.pending = false
	res, err := g.turn, g.turnErr
	g.turn, g.turnErr = match3.TurnResult{}, nil

	if err != nil {
		g.debug("swap failed", "err", err)
		g.setMessage("Can't swap there")
		return
	}
	if res.Reverted {
		g.setMessage("No match")
		return
	}
	if !res.Accepted {
		return
	}

	g.moves++
	g.cascades += res.Cycles
	g.bombsExploded += res.BombsExploded
	g.lastGain = res.ScoreGained
	g.score = g.engine.Score()
	if g.mode == ModeCampaign {
		g.movesLeft--
	}
	if res.Cycles > 1 {
		g.setMessage(comboText(res))
	}

	g.checkProgress()
	if !g.levelCleared && !g.gameOver {
		g.checkStuck()
	}
}

func comboText(res match3.TurnResult) string {
	switch {
	case res.BombsExploded > 0:
		return fmt.Sprintf("Boom! +%d", res.ScoreGained)
	case res.Cycles >= 4:
		return fmt.Sprintf("Avalanche! +%d", res.ScoreGained)
	default:
		return fmt.Sprintf("Combo x%d +%d", res.Cycles, res.ScoreGained)
	}
}

// checkProgress clears levels or stages and ends campaign runs that are out
// of moves.
func (g *Game) checkProgress() {
	if g.mode == ModeEndless {
		for g.score >= g.target {
			g.stage++
			g.target += g.difficulty.StageTarget(g.cfg.Endless.StageTarget, g.score, g.moves)
			g.setMessage(fmt.Sprintf("Stage %d", g.stage))
		}
		return
	}

	if g.score >= g.target {
		g.levelCleared = true
		g.levelClearTicks = 0
		return
	}
	if g.movesLeft <= 0 {
		g.gameOver = true
		g.outOfMoves = true
	}
}

// checkStuck ends the run when no swap can produce a match.
func (g *Game) checkStuck() {
	if len(match3.ValidSwaps(g.engine.Board())) == 0 {
		g.gameOver = true
		g.setMessage("No moves left")
	}
}

// advanceLevel moves to the next level. Board and score carry over.
func (g *Game) advanceLevel() {
	g.levelCleared = false
	g.levelClearTicks = 0

	if g.levelIndex >= len(g.cfg.Levels)-1 {
		g.won = true
		return
	}

	g.levelIndex++
	g.loadLevel()
	g.setMessage(fmt.Sprintf("Level %d: %s", g.levelIndex+1, g.level().Name))
	g.checkStuck()
}

// showHint highlights a valid swap.
func (g *Game) showHint() {
	swaps := match3.ValidSwaps(g.engine.Board())
	if len(swaps) == 0 {
		return
	}
	h := swaps[g.rng.Intn(len(swaps))]
	g.hint = &h
	g.hintTTL = 3 * g.tickRate
}

func (g *Game) setMessage(msg string) {
	g.message = msg
	g.messageTTL = 0
	if msg != "" {
		g.messageTTL = 2 * g.tickRate
	}
}

func (g *Game) debug(msg string, keyvals ...interface{}) {
	if logger != nil {
		logger.Debug(msg, keyvals...)
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.gameOver || g.won,
		Paused:   g.paused || g.tooSmall || g.levelCleared,
	}
}

// RunStats summarizes the run for recording.
func (g *Game) RunStats() core.RunStats {
	return core.RunStats{
		Seed:          g.seed,
		Score:         g.score,
		Moves:         g.moves,
		Cascades:      g.cascades,
		BombsExploded: g.bombsExploded,
	}
}

// Engine exposes the underlying engine.
func (g *Game) Engine() *match3.Engine {
	return g.engine
}
