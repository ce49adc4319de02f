// Command validate provides a small CLI that validates game preset files in a
// directory (../configs by default). For every preset it checks:
//   - The file parses and decodes (JSON, YAML or TOML)
//   - Required fields, cadence, steps, geometry and messages
//   - The file name matches the preset name used for session creation
//   - Playability: an obstacle directly ahead can be dodged in time
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/road-fighter-retro/game/config"
	"github.com/wricardo/road-fighter-retro/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// Errors make a preset invalid; Info and Warnings are reported either way.
type ValidationResult struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
	Info     []string
}

// validateConfig loads and validates a single preset file.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	cfg, err := config.LoadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	stem := strings.TrimSuffix(result.File, filepath.Ext(result.File))
	if !strings.EqualFold(stem, cfg.Name) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Preset name %q differs from file name; sessions select it as %q", cfg.Name, stem))
	}

	stats := engine.AnalyzeCadence(cfg)
	if !stats.Dodgeable {
		result.Valid = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("Not dodgeable: clearing an obstacle takes %d moves but it reaches the car in %d ticks",
				stats.SidestepMoves, stats.TicksToCarRow))
	} else {
		result.Info = append(result.Info,
			fmt.Sprintf("✓ Dodgeable: %d move(s) needed, %d tick(s) of warning", stats.SidestepMoves, stats.TicksToCarRow))
	}

	if stats.MaxConcurrentObstacles > 1 && stats.TicksToCarRow < stats.SidestepMoves*stats.MaxConcurrentObstacles {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Dense traffic: up to %d obstacles on screen with %d tick(s) of warning",
				stats.MaxConcurrentObstacles, stats.TicksToCarRow))
	}

	result.Info = append(result.Info,
		fmt.Sprintf("✓ Cadence: tick %dms, spawn every %dms, road depth %d",
			stats.TickPeriodMs, stats.SpawnIntervalMs, stats.RoadDepth))

	return result
}

// presetFiles lists every supported preset file in dir, sorted by name
func presetFiles(dir string) ([]string, error) {
	var files []string
	for _, ext := range config.SupportedExtensions {
		matches, err := filepath.Glob(filepath.Join(dir, "*"+ext))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

// run validates every preset in dir, writing a report to w. It reports
// whether all presets are valid.
func run(dir string, w io.Writer) (bool, error) {
	files, err := presetFiles(dir)
	if err != nil {
		return false, fmt.Errorf("error finding config files: %w", err)
	}
	if len(files) == 0 {
		return false, fmt.Errorf("no preset files found in %s", dir)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
		}
		for _, msg := range result.Errors {
			fmt.Fprintln(w, "  ❌ "+msg)
		}
		for _, msg := range result.Warnings {
			fmt.Fprintln(w, "  ⚠️  "+msg)
		}
		for _, msg := range result.Info {
			fmt.Fprintln(w, "  "+msg)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some configurations have errors")
	}
	return allValid, nil
}

// main validates ../configs, or the directory given as the first argument,
// and exits with non-zero status if any preset is invalid.
func main() {
	dir := "../configs"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	ok, err := run(dir, os.Stdout)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if !ok {
		os.Exit(1)
	}
}
