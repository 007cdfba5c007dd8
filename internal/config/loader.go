package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadGemfall loads the game configuration. Files are decoded over the
// defaults, so a partial file only overrides the keys it sets.
// Search order: customPath -> ~/.gemfall/configs/gemfall.yaml -> ./configs/gemfall.yaml -> embedded default
func LoadGemfall(customPath string) (GemfallConfig, error) {
	cfg := DefaultGemfallConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("gemfall.yaml"); userCfgPath != "" {
		if c, ok := tryLoad(userCfgPath); ok {
			return c, nil
		}
	}

	// Try local configs directory
	if c, ok := tryLoad(filepath.Join("configs", "gemfall.yaml")); ok {
		return c, nil
	}

	// Use embedded default YAML
	embedded := DefaultGemfallConfig()
	if err := yaml.Unmarshal(defaultGemfallYAML, &embedded); err != nil {
		return DefaultGemfallConfig(), nil // Fallback to hardcoded if embed fails
	}
	return embedded, nil
}

// tryLoad decodes path over the defaults. Unreadable, malformed or invalid
// files are skipped so the search can continue.
func tryLoad(path string) (GemfallConfig, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return GemfallConfig{}, false
	}
	cfg := DefaultGemfallConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return GemfallConfig{}, false
	}
	if err := cfg.Validate(); err != nil {
		return GemfallConfig{}, false
	}
	return cfg, true
}

// UserDir returns ~/.gemfall, or "" when the home directory is unknown.
func UserDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gemfall")
}

func userConfigPath(filename string) string {
	dir := UserDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "configs", filename)
}

// ApplyGemfallPreset modifies the config based on a difficulty preset.
// Easy adds moves to every level, hard removes them.
func ApplyGemfallPreset(cfg *GemfallConfig, preset DifficultyPreset) {
	cfg.Difficulty.Preset = preset
	delta := 0
	switch preset {
	case DifficultyEasy:
		delta = 5
	case DifficultyHard:
		delta = -4
	}
	for i := range cfg.Levels {
		moves := cfg.Levels[i].Moves + delta
		if moves < 1 {
			moves = 1
		}
		cfg.Levels[i].Moves = moves
	}
}

// ParsePreset validates a preset name. The empty string maps to normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("unknown difficulty preset %q (want easy, normal, hard or fixed)", s)
	}
}
