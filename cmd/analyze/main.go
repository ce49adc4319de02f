// Command analyze prints quick, human-readable cadence statistics for the
// game presets in a directory (configs by default): how long obstacles stay
// on screen, how many can be visible at once, and how much warning the
// driver gets before an obstacle reaches the car row.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/wricardo/road-fighter-retro/game/config"
	"github.com/wricardo/road-fighter-retro/game/engine"
)

func main() {
	dir := "configs"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	var files []string
	for _, ext := range config.SupportedExtensions {
		matches, _ := filepath.Glob(filepath.Join(dir, "*"+ext))
		files = append(files, matches...)
	}
	sort.Strings(files)

	if len(files) == 0 {
		fmt.Printf("No presets found in %s\n", dir)
		os.Exit(1)
	}

	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		if err := analyzeConfig(file, os.Stdout); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
}

func analyzeConfig(path string, w io.Writer) error {
	cfg, err := config.LoadFile(path)
	if err != nil {
		return err
	}

	stats := engine.AnalyzeCadence(cfg)

	fmt.Fprintf(w, "Name: %s\n", cfg.Name)
	fmt.Fprintf(w, "Tick Period: %dms\n", stats.TickPeriodMs)
	fmt.Fprintf(w, "Spawn Interval: every %d ticks (%dms)\n", cfg.SpawnEveryTicks, stats.SpawnIntervalMs)
	fmt.Fprintf(w, "Obstacle Lifetime: %d ticks (%dms)\n", stats.ObstacleLifetimeTicks, stats.ObstacleLifetimeTicks*stats.TickPeriodMs)
	fmt.Fprintf(w, "Max Obstacles On Screen: %d\n", stats.MaxConcurrentObstacles)
	fmt.Fprintf(w, "Road Depth: %d segments\n", stats.RoadDepth)
	fmt.Fprintf(w, "Warning Before Impact: %d ticks (%dms)\n", stats.TicksToCarRow, stats.TicksToCarRow*stats.TickPeriodMs)
	fmt.Fprintf(w, "Moves To Sidestep: %d (step %g)\n", stats.SidestepMoves, cfg.MoveStep)

	if stats.Dodgeable {
		fmt.Fprintf(w, "✅ An obstacle directly ahead can always be dodged\n")
	} else {
		fmt.Fprintf(w, "⚠️  CRITICAL: obstacles reach the car before it can steer clear\n")
	}

	if stats.MaxConcurrentObstacles > 1 {
		fmt.Fprintf(w, "⚠️  Up to %d obstacles share the screen; plan more than one move ahead\n", stats.MaxConcurrentObstacles)
	}
	return nil
}
