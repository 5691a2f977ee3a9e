package main

import (
	"github.com/wricardo/mcp-training/graphracers/game/engine"
)

const unreachable = 1 << 20

// crash penalties in distance units, roughly what a lost turn costs
var penalties = map[engine.CellType]int{
	engine.Target:            0,
	engine.TrackCrashTarget:  25,
	engine.CrashTarget:       40,
	engine.SevereCrashTarget: 80,
}

// Strategy picks moves by following distance fields computed once per track.
// Field i holds the 8-directional step distance from every surface cell to
// the cells of checkpoint i; field 0 leads to the start/finish line.
type Strategy struct {
	checkpoints int
	surface     [engine.Rows][engine.Cols]bool
	fields      [][engine.Rows][engine.Cols]int
}

// NewStrategy builds the distance fields of a track
func NewStrategy(config *engine.TrackConfig) (*Strategy, error) {
	track, err := engine.ValidateTrackConfig(config)
	if err != nil {
		return nil, err
	}

	s := &Strategy{checkpoints: track.Checkpoints()}
	line := map[engine.Position]bool{}
	track.All(func(c *engine.Cell) {
		s.surface[c.Y][c.X] = c.BaseType.IsSurface()
		if c.BaseType == engine.StartStop {
			line[engine.Position{X: c.X, Y: c.Y}] = true
		}
	})

	s.fields = make([][engine.Rows][engine.Cols]int, s.checkpoints+1)
	for idx := 0; idx <= s.checkpoints; idx++ {
		want := idx
		goals := track.Filter(func(c *engine.Cell) bool { return c.BaseType.CheckpointIndex() == want })
		// on the way to a checkpoint the line is reached but never crossed,
		// so a ring track is walked in one direction only
		var barrier map[engine.Position]bool
		if idx > 0 {
			barrier = line
		}
		s.fields[idx] = s.distances(goals, barrier)
	}
	return s, nil
}

// distances runs a multi-source BFS outwards from goals over the surface.
// Cells in barrier only spread to other barrier cells.
func (s *Strategy) distances(goals []*engine.Cell, barrier map[engine.Position]bool) [engine.Rows][engine.Cols]int {
	var dist [engine.Rows][engine.Cols]int
	for y := range dist {
		for x := range dist[y] {
			dist[y][x] = unreachable
		}
	}

	queue := make([]engine.Position, 0, len(goals))
	for _, c := range goals {
		dist[c.Y][c.X] = 0
		queue = append(queue, engine.Position{X: c.X, Y: c.Y})
	}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				n := engine.Position{X: p.X + dx, Y: p.Y + dy}
				if n.X < 0 || n.X >= engine.Cols || n.Y < 0 || n.Y >= engine.Rows {
					continue
				}
				if !s.surface[n.Y][n.X] || dist[n.Y][n.X] != unreachable {
					continue
				}
				if barrier[p] && !barrier[n] {
					continue
				}
				dist[n.Y][n.X] = dist[p.Y][p.X] + 1
				queue = append(queue, n)
			}
		}
	}
	return dist
}

// Goal returns the field index a player is heading for: the next checkpoint,
// or the finish line once all checkpoints of the lap are done
func (s *Strategy) Goal(p engine.PlayerStats) int {
	if p.Checkpoint < s.checkpoints {
		return p.Checkpoint + 1
	}
	return 0
}

// Distance is the step distance from pos to the given goal
func (s *Strategy) Distance(goal int, pos engine.Position) int {
	if goal < 0 || goal >= len(s.fields) || pos.X < 0 || pos.X >= engine.Cols || pos.Y < 0 || pos.Y >= engine.Rows {
		return unreachable
	}
	return s.fields[goal][pos.Y][pos.X]
}

// score rates one candidate cell, lower is better. Crashes cost their
// penalty, and arriving faster than the car can brake before the goal costs
// the excess braking distance.
func (s *Strategy) score(p engine.PlayerStats, target engine.Cell) int {
	to := engine.Position{X: target.X, Y: target.Y}
	goal := s.Goal(p)

	d := s.Distance(goal, to)
	if d == unreachable {
		// off-track landings are judged from where the car will be recovered
		if from := s.Distance(goal, p.Position); from != unreachable {
			d = from + 10
		}
	}

	v := to.Sub(p.Position)
	speed := max(abs(v.X), abs(v.Y))
	braking := speed * (speed - 1) / 2
	overshoot := 0
	if braking > d+4 {
		overshoot = (braking - d) * 2
	}

	return d + penalties[target.Type] + overshoot - speed
}

// Choose returns the best target for the active player. ok is false when
// there is nothing to choose from.
func (s *Strategy) Choose(state *engine.GameState) (engine.Position, bool) {
	if state == nil || state.ActivePlayer < 0 || state.ActivePlayer >= len(state.Players) || len(state.Targets) == 0 {
		return engine.Position{}, false
	}
	p := state.Players[state.ActivePlayer]

	best := -1
	bestScore := 0
	for i, t := range state.Targets {
		if sc := s.score(p, t); best < 0 || sc < bestScore {
			best, bestScore = i, sc
		}
	}
	return engine.Position{X: state.Targets[best].X, Y: state.Targets[best].Y}, true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
