package autopilot

import (
	"math"

	"github.com/wricardo/road-fighter-retro/game/engine"
)

// Decision is the planner's choice for the current tick
type Decision struct {
	// Action is empty when the car should hold its lane
	Action engine.Action `json:"action,omitempty"`

	// Survival is how many ticks the chosen line survives against the
	// obstacles already on screen, capped at the horizon
	Survival int    `json:"survival"`
	Reason   string `json:"reason"`
}

// Hold reports whether the decision is to stay in lane
func (d Decision) Hold() bool {
	return d.Action == ""
}

// Planner picks one steering action per tick by simulating the obstacles
// that are already visible. Future spawns are unknown and ignored.
type Planner struct {
	config  *engine.GameConfig
	sim     *engine.GameConfig
	horizon int
	repeats int
}

// NewPlanner creates a planner for the given preset
func NewPlanner(config *engine.GameConfig) *Planner {
	stats := engine.AnalyzeCadence(config)

	// Same preset with spawning pushed past any horizon
	sim := *config
	sim.SpawnEveryTicks = math.MaxInt32

	horizon := stats.ObstacleLifetimeTicks + 1
	if horizon < 1 {
		horizon = 1
	}

	return &Planner{
		config:  config,
		sim:     &sim,
		horizon: horizon,
		repeats: stats.SidestepMoves + 1,
	}
}

type candidate struct {
	action engine.Action
	reason string
}

// Decide returns the action to take before the next tick
func (p *Planner) Decide(state *engine.GameState) Decision {
	if state.GameOver {
		return Decision{Reason: "game over"}
	}

	hold, _ := p.evaluate(state, "")
	if hold >= p.horizon {
		return Decision{Survival: hold, Reason: "road clear"}
	}

	candidates := []candidate{
		{"", "hold lane"},
		{engine.ActionLeft, "steer left"},
		{engine.ActionRight, "steer right"},
	}

	best := Decision{Survival: -1}
	bestClearance := -1.0

	for _, c := range candidates {
		survival, end := p.evaluate(state, c.action)
		if survival < 0 {
			continue
		}
		clearance := p.clearance(end)

		// Prefer longer survival, then more room; earlier candidates win ties
		if survival > best.Survival || (survival == best.Survival && clearance > bestClearance+1e-9) {
			best = Decision{Action: c.action, Survival: survival, Reason: c.reason}
			bestClearance = clearance
		}
	}

	if best.Survival < p.horizon {
		best.Reason += " (no safe line)"
	}
	return best
}

// evaluate simulates steering with action for up to p.repeats ticks, one
// action per tick, then holding. It returns the ticks survived and the
// simulated state at the end of the steering phase, or -1 when the action
// cannot move the car at all.
func (p *Planner) evaluate(state *engine.GameState, action engine.Action) (int, *engine.GameState) {
	bestSurvival := -1
	var bestEnd *engine.GameState

	for steps := 1; steps <= p.repeats; steps++ {
		sim := state.Clone()
		var end *engine.GameState
		survived := 0
		moved := false

		for t := 0; t < p.horizon; t++ {
			if action != "" && t < steps {
				from := sim.CarPosition
				sim.Steer(action, p.config)
				if sim.CarPosition != from {
					moved = true
				}
			}
			collided := sim.Advance(p.sim, nil)
			if t == steps-1 {
				end = sim.Clone()
			}
			if collided {
				break
			}
			survived++
		}

		if action != "" && !moved {
			return -1, nil
		}
		if end == nil {
			end = sim
		}
		if survived > bestSurvival {
			bestSurvival = survived
			bestEnd = end
		}
		if action == "" {
			break
		}
	}

	return bestSurvival, bestEnd
}

// clearance is the horizontal gap between the car and the closest obstacle
// still above it, or the width of the road when none is
func (p *Planner) clearance(state *engine.GameState) float64 {
	car := engine.CarRect(state.CarPosition, p.config)
	best := engine.MaxPosition
	for _, o := range state.Obstacles {
		r := engine.ObstacleRect(o, p.config)
		if r.Top >= car.Bottom() {
			continue
		}
		gap := math.Max(r.Left-car.Right(), car.Left-r.Right())
		if gap < 0 {
			gap = 0
		}
		if gap < best {
			best = gap
		}
	}
	return best
}
