package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/gemfall/internal/core"
	"github.com/vovakirdan/gemfall/internal/platform/tui"
	"github.com/vovakirdan/gemfall/internal/registry"
	"github.com/vovakirdan/gemfall/internal/storage"
)

var flagLevel int

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a game mode",
	Long: `Start playing gemfall. The mode is campaign (default) or endless.

Controls:
  Arrows/WASD  - Move cursor (hjkl also works)
  Space/Enter  - Pick up a gem; pick a neighbour to swap
  Arrow        - With a gem picked up, swap it that way
  ?            - Show a hint
  B/Esc        - Drop the picked gem
  P            - Pause
  R            - Restart (after game over)
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - Five extra moves per campaign level
  normal - Moves as configured
  hard   - Four fewer moves per campaign level
  fixed  - Moves as configured, endless stages do not grow

Examples:
  gemfall play
  gemfall play endless
  gemfall play --level 3 --difficulty hard
  gemfall play --config ./my-gemfall.yaml --seed 42`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Campaign level to start from (1-based)")
}

// resolveMode maps a mode argument onto a registered game id.
func resolveMode(arg string) (string, error) {
	switch arg {
	case "", "campaign", "gemfall":
		return "gemfall", nil
	case "endless", "gemfall_endless":
		return "gemfall_endless", nil
	}
	if registry.Exists(arg) {
		return arg, nil
	}
	return "", fmt.Errorf("unknown mode %q", arg)
}

// terminalConfig returns a runtime config sized to the terminal.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

func runPlay(_ *cobra.Command, args []string) {
	mode := ""
	if len(args) > 0 {
		mode = args[0]
	}
	gameID, err := resolveMode(mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'gemfall list' to see available modes.")
		os.Exit(1)
	}

	game, err := tui.NewGame(tui.MenuResult{GameID: gameID, Preset: preset, StartLevel: flagLevel})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		// Continue without storage - game still works
		store = nil
	}

	final, runErr := tui.Run(game, store, terminalConfig())

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
	if id := final.LastRunID(); id != "" {
		fmt.Printf("Run recorded: %s\n", id)
	}
}
