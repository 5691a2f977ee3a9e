package engine

// Evaluation is the set of painted candidates for the active player
type Evaluation struct {
	Targets  []Position
	Crashes  []Position
	Severe   []Position
	Recovery map[Position]Position
}

// Choices reports how many ordinary targets and crash targets were painted.
// Severe crash markers are not counted.
func (e *Evaluation) Choices() int {
	return len(e.Targets) + len(e.Crashes)
}

// Candidates returns the 3x3 neighborhood around cur+velocity in row-major
// order, without cur, prev and anything off the grid.
func Candidates(t *Track, prev *Position, cur Position) []Position {
	aim := cur.Add(Velocity(prev, cur))
	out := make([]Position, 0, 9)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			p := Position{X: aim.X + dx, Y: aim.Y + dy}
			if !t.InBounds(p) || p == cur {
				continue
			}
			if prev != nil && p == *prev {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}

// Evaluate paints the candidates of a player standing on cur. Cells holding a
// car are left alone and never become targets.
func Evaluate(t *Track, prev *Position, cur Position) *Evaluation {
	ev := &Evaluation{Recovery: make(map[Position]Position)}

	for _, p := range Candidates(t, prev, cur) {
		cell, _ := t.At(p)
		if cell.Type.IsCar() {
			continue
		}

		path := Trajectory(t, cur, p)
		if onSurface(t, path) {
			cell.Type = Target
			ev.Targets = append(ev.Targets, p)
			continue
		}

		rec, ok := recoveryCell(t, path)
		switch {
		case !ok:
			cell.Type = SevereCrashTarget
			ev.Severe = append(ev.Severe, p)
		case cell.BaseType == TrackSurface:
			cell.Type = TrackCrashTarget
			ev.Crashes = append(ev.Crashes, p)
			ev.Recovery[p] = rec
		default:
			cell.Type = CrashTarget
			ev.Crashes = append(ev.Crashes, p)
			ev.Recovery[p] = rec
		}
	}

	return ev
}

// ClearTargets reverts every target marker to its base type. Cars stay.
func ClearTargets(t *Track) {
	t.All(func(c *Cell) {
		if c.Type.IsTarget() {
			c.Type = c.BaseType
		}
	})
}

// Targets lists the cells currently carrying a target marker
func Targets(t *Track) []Cell {
	var out []Cell
	for _, c := range t.Filter(func(c *Cell) bool { return c.Type.IsTarget() }) {
		out = append(out, *c)
	}
	return out
}

func onSurface(t *Track, path []Position) bool {
	for _, p := range path {
		c, ok := t.At(p)
		if !ok || !c.BaseType.IsSurface() {
			return false
		}
	}
	return true
}

// recoveryCell is where a crashing car is put back on course: the last free
// surface cell before the path first leaves the surface. The first path cell is
// the car's own and does not count.
func recoveryCell(t *Track, path []Position) (Position, bool) {
	var rec Position
	found := false
	for i, p := range path {
		if i == 0 {
			continue
		}
		c, ok := t.At(p)
		if !ok || !c.BaseType.IsSurface() {
			break
		}
		if !c.Type.IsCar() {
			rec, found = p, true
		}
	}
	return rec, found
}
