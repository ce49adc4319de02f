// Command autopilot plays Road Fighter Retro against a running game server.
// It creates (or resumes) a manual session and lets the planner steer, one
// decision per tick, for a number of attempts.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/road-fighter-retro/game/autopilot"
	"github.com/wricardo/road-fighter-retro/game/engine"
)

// options are the resolved command line settings
type options struct {
	URL      string
	Config   string
	Continue string
	Seed     *int64
	MaxTicks int
	Attempts int
	Delay    time.Duration
	Verbose  bool
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "autopilot",
		Usage: "Let the planner drive a manual Road Fighter Retro session",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "Game server URL", Sources: cli.EnvVars("ROAD_FIGHTER_URL")},
			&cli.StringFlag{Name: "config", Usage: "Preset to create the session with (server default if empty)"},
			&cli.StringFlag{Name: "continue", Usage: "Resume an existing manual session by ID, restarting it only if it is over"},
			&cli.Int64Flag{Name: "seed", Usage: "Seed for replayable spawns"},
			&cli.IntFlag{Name: "max-ticks", Value: 2000, Usage: "Ticks per attempt (0 = until crash)"},
			&cli.IntFlag{Name: "attempts", Value: 1, Usage: "Attempts, resetting the session between them"},
			&cli.DurationFlag{Name: "delay", Usage: "Pause after every tick, e.g. 50ms, to watch over WebSocket"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Log every decision"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts := options{
				URL:      cmd.String("url"),
				Config:   cmd.String("config"),
				Continue: cmd.String("continue"),
				MaxTicks: cmd.Int("max-ticks"),
				Attempts: cmd.Int("attempts"),
				Delay:    cmd.Duration("delay"),
				Verbose:  cmd.Bool("verbose"),
			}
			if cmd.IsSet("seed") {
				seed := cmd.Int64("seed")
				opts.Seed = &seed
			}

			results, err := drive(ctx, opts)
			if err != nil {
				return err
			}
			for _, r := range results {
				if !r.GameOver {
					return nil
				}
			}
			return fmt.Errorf("crashed in all %d attempts", len(results))
		},
	}
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

// drive attaches to a session and plays opts.Attempts runs, returning one
// result per attempt
func drive(ctx context.Context, opts options) ([]*autopilot.Result, error) {
	log.Printf("Connecting to game server at %s", opts.URL)
	client := NewClient(opts.URL)

	var config *engine.GameConfig
	// A resumed game keeps going from where it was; only a finished one restarts
	restart := false
	if opts.Continue != "" {
		session, err := client.Attach(ctx, opts.Continue)
		if err != nil {
			return nil, err
		}
		log.Printf("🔄 Resuming session: %s (%s)", session.ID, session.ConfigName)
		config = session.GameConfig
		restart = session.GameState != nil && session.GameState.GameOver
	} else {
		session, err := client.CreateSession(ctx, opts.Config, opts.Seed)
		if err != nil {
			return nil, err
		}
		log.Printf("✨ Session created: %s (%s)", session.ID, session.ConfigName)
		config = session.GameConfig
	}
	if config == nil {
		config = engine.DefaultConfig()
	}

	runner := &autopilot.Runner{
		Planner:  autopilot.NewPlanner(config),
		MaxTicks: opts.MaxTicks,
		OnTick: func(state *engine.GameState, d autopilot.Decision) {
			if opts.Verbose && !d.Hold() {
				log.Printf("tick=%d car=%g score=%d %s (%s)", state.Tick, state.CarPosition, state.Score, d.Action, d.Reason)
			}
			if opts.Delay > 0 {
				time.Sleep(opts.Delay)
			}
		},
	}

	attempts := opts.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var results []*autopilot.Result
	for i := 1; i <= attempts; i++ {
		// Every later attempt starts over
		if i > 1 || restart {
			if _, err := client.Reset(ctx); err != nil {
				return results, fmt.Errorf("reset: %w", err)
			}
		}

		log.Printf("=== 🎮 Attempt %d/%d ===", i, attempts)
		result, err := runner.Run(ctx, client)
		if err != nil {
			return results, err
		}
		results = append(results, result)

		status := "✅ survived"
		if result.GameOver {
			status = "💥 crashed"
		}
		log.Printf("Attempt %d: %s after %d ticks, moves=%d, score=%d", i, status, result.Ticks, result.Moves, result.Score)

		if ctx.Err() != nil {
			break
		}
	}

	log.Printf("Session: %s", client.SessionID())
	return results, nil
}
