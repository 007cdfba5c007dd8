// gemfall is a match-3 puzzle game for the terminal.
//
// Usage:
//
//	gemfall list              - List available modes
//	gemfall play [mode]       - Play campaign or endless
//	gemfall menu              - Pick a mode interactively
//	gemfall serve             - Start SSH server for remote play
//	gemfall scores [mode]     - Show high scores and best runs
//	gemfall simulate          - Play random swaps headless
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible boards
//	--db <path>           - Set database path (default: ~/.gemfall/scores.db)
//	--config <path>       - Use a custom gemfall.yaml
//	--difficulty <preset> - easy, normal, hard or fixed
//	--log-level <level>   - debug, info, warn or error
//	--log-file <path>     - Write logs to a file instead of stderr
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/gemfall/internal/config"
	"github.com/vovakirdan/gemfall/internal/games/gemfall"
	"github.com/vovakirdan/gemfall/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
	flagLogFile    string

	logger  *log.Logger
	logFile *os.File
	preset  config.DifficultyPreset
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gemfall",
	Short: "Gemfall - match-3 in your terminal",
	Long: `Gemfall is a match-3 puzzle game for the terminal. Swap neighbouring
gems to line up three or more; lines of four set off bombs, and falling gems
can chain into cascades.

Available commands:
  list      - Show the game modes
  play      - Play a mode directly
  menu      - Interactive mode picker
  serve     - Start SSH server for remote play
  scores    - View high scores and best runs
  simulate  - Play random moves without a terminal

Examples:
  gemfall play
  gemfall play endless --difficulty hard
  gemfall menu
  gemfall serve --ssh :2222
  gemfall simulate --seed 42 --moves 100`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom gemfall config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file instead of stderr")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simulateCmd)
}

// setup validates the global flags and wires the logger and config into the
// game package before any command runs.
func setup(_ *cobra.Command, _ []string) error {
	if flagFPS <= 0 {
		return fmt.Errorf("--fps must be positive, got %d", flagFPS)
	}

	p, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return err
	}
	if flagDifficulty != "" {
		preset = p
		gemfall.SetDifficultyPreset(p)
	}

	out := io.Writer(os.Stderr)
	if flagLogFile != "" {
		f, openErr := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if openErr != nil {
			return fmt.Errorf("open log file: %w", openErr)
		}
		logFile = f
		out = f
	}
	logger, err = newLogger(out, flagLogLevel)
	if err != nil {
		return err
	}

	gemfall.SetConfigPath(flagConfig)
	gemfall.SetLogger(logger)
	return nil
}

// newLogger builds the CLI logger at the given level.
func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("--log-level: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
	}), nil
}

// menuPreset is the preset the menu starts on: the flag if given, otherwise
// the config file's.
func menuPreset() config.DifficultyPreset {
	if preset != "" {
		return preset
	}
	cfg, err := config.LoadGemfall(flagConfig)
	if err != nil {
		return config.DifficultyNormal
	}
	return cfg.Difficulty.Preset
}
