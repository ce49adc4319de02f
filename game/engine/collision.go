package engine

// Rect is an axis-aligned rectangle in play-field units. Top grows downwards.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the right edge
func (r Rect) Right() float64 { return r.Left + r.Width }

// Bottom returns the bottom edge
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Overlaps reports whether the projections of both rectangles overlap on
// both axes. Touching edges do not count as an overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.Left < o.Right() &&
		r.Right() > o.Left &&
		r.Top < o.Bottom() &&
		o.Top < r.Bottom()
}

// CarRect returns the car's bounding box at the given horizontal position
func CarRect(position float64, config *GameConfig) Rect {
	return Rect{
		Left:   position,
		Top:    config.CarTop,
		Width:  config.CarWidth,
		Height: config.CarHeight,
	}
}

// ObstacleRect returns an obstacle's bounding box
func ObstacleRect(o Obstacle, config *GameConfig) Rect {
	return Rect{
		Left:   o.Position,
		Top:    o.Top,
		Width:  config.ObstacleWidth,
		Height: config.ObstacleHeight,
	}
}

// FindCollision returns the index of the first obstacle overlapping the car,
// or -1 when the car is clear
func (gs *GameState) FindCollision(config *GameConfig) int {
	car := CarRect(gs.CarPosition, config)
	for i, o := range gs.Obstacles {
		if car.Overlaps(ObstacleRect(o, config)) {
			return i
		}
	}
	return -1
}

// HasCollision reports whether any obstacle overlaps the car
func (gs *GameState) HasCollision(config *GameConfig) bool {
	return gs.FindCollision(config) >= 0
}
