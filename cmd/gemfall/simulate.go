package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/gemfall/internal/config"
	"github.com/vovakirdan/gemfall/internal/core"
	"github.com/vovakirdan/gemfall/internal/match3"
	"github.com/vovakirdan/gemfall/internal/storage"
)

var (
	flagSimMoves  int
	flagSimMode   string
	flagSimRecord bool
	flagSimBoard  bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play random valid swaps without a terminal",
	Long: `Populate a board and play randomly chosen valid swaps with every delay
skipped, then print a summary. The same --seed always plays the same game.

Examples:
  gemfall simulate --seed 42
  gemfall simulate --moves 500 --board
  gemfall simulate --record --mode endless`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagSimMoves, "moves", 50, "Number of swaps to play")
	simulateCmd.Flags().StringVar(&flagSimMode, "mode", "endless", "Mode the run is recorded under")
	simulateCmd.Flags().BoolVar(&flagSimRecord, "record", false, "Save the run to the scores database")
	simulateCmd.Flags().BoolVar(&flagSimBoard, "board", false, "Print the final board")
}

// simResult is the outcome of a headless game.
type simResult struct {
	Stats  core.RunStats
	Stuck  bool
	Engine *match3.Engine
}

// simulate plays up to moves random valid swaps on a fresh board.
func simulate(ctx context.Context, cfg config.GemfallConfig, seed int64, moves int, logger *log.Logger) (simResult, error) {
	rng := rand.New(rand.NewSource(seed))

	opts := cfg.ToEngineOptions()
	opts.Rand = rng
	opts.Clock = match3.InstantClock{}
	opts.Logger = logger

	engine, err := match3.NewEngine(opts)
	if err != nil {
		return simResult{}, fmt.Errorf("engine: %w", err)
	}
	if _, err := engine.Populate(ctx); err != nil {
		return simResult{}, fmt.Errorf("populate: %w", err)
	}

	res := simResult{Stats: core.RunStats{Seed: seed}, Engine: engine}
	for i := 0; i < moves; i++ {
		swaps := match3.ValidSwaps(engine.Board())
		if len(swaps) == 0 {
			res.Stuck = true
			break
		}
		s := swaps[rng.Intn(len(swaps))]
		turn, err := engine.Swap(ctx, s.A, s.B)
		if err != nil {
			return res, fmt.Errorf("swap %v-%v: %w", s.A, s.B, err)
		}
		if !turn.Accepted {
			continue
		}
		res.Stats.Moves++
		res.Stats.Cascades += turn.Cycles
		res.Stats.BombsExploded += turn.BombsExploded
	}
	res.Stats.Score = engine.Score()
	return res, nil
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	if flagSimMoves < 0 {
		return errors.New("--moves must not be negative")
	}
	mode, err := resolveMode(flagSimMode)
	if err != nil {
		return err
	}

	cfg, err := config.LoadGemfall(flagConfig)
	if err != nil {
		return err
	}
	if preset != "" {
		config.ApplyGemfallPreset(&cfg, preset)
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	start := time.Now()
	res, err := simulate(cmd.Context(), cfg, seed, flagSimMoves, logger)
	if err != nil {
		return err
	}
	logger.Debug("simulation finished", "elapsed", time.Since(start))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Seed:   %d\n", res.Stats.Seed)
	fmt.Fprintf(out, "Moves:  %d\n", res.Stats.Moves)
	fmt.Fprintf(out, "Score:  %d\n", res.Stats.Score)
	fmt.Fprintf(out, "Chains: %d\n", res.Stats.Cascades)
	fmt.Fprintf(out, "Bombs:  %d\n", res.Stats.BombsExploded)
	if res.Stuck {
		fmt.Fprintln(out, "Board ran out of valid swaps.")
	}
	if flagSimBoard {
		fmt.Fprintln(out)
		fmt.Fprintln(out, res.Engine.Board().String())
	}

	if !flagSimRecord {
		return nil
	}
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.SaveRun(storage.NewRun(mode, res.Stats))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Run recorded: %s\n", id)
	return nil
}
