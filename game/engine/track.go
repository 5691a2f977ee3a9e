package engine

// Track is the racing grid. Cells are addressed [y][x] and owned by the track;
// everything else refers to them by Position.
type Track struct {
	cells       [][]Cell
	checkpoints int
	starts      [MaxPlayers]Position
}

// NewTrack validates the grid and returns a track that owns a copy of it.
// Coordinates are taken from the grid indices, not from the cells.
func NewTrack(grid [][]Cell, checkpoints int) (*Track, error) {
	if len(grid) != Rows {
		return nil, &InvalidTrackError{Kind: TrackRows, Count: len(grid)}
	}
	for y, row := range grid {
		if len(row) != Cols {
			return nil, &InvalidTrackError{Kind: TrackCols, Row: y, Count: len(row)}
		}
	}
	if checkpoints < MinCheckpoints || checkpoints > MaxCheckpoints {
		return nil, &InvalidTrackError{Kind: TrackCheckpoints, Count: checkpoints}
	}

	t := &Track{
		cells:       make([][]Cell, Rows),
		checkpoints: checkpoints,
	}
	var found [MaxPlayers]bool
	for y, row := range grid {
		t.cells[y] = make([]Cell, Cols)
		for x, c := range row {
			c.X, c.Y = x, y
			t.cells[y][x] = c

			car := c.Type.CarNumber()
			if car == 0 {
				continue
			}
			if found[car-1] {
				return nil, &InvalidTrackError{Kind: TrackDuplicatePlayer, Player: car}
			}
			found[car-1] = true
			t.starts[car-1] = Position{X: x, Y: y}
		}
	}
	for i, ok := range found {
		if !ok {
			return nil, &InvalidTrackError{Kind: TrackMissingPlayer, Player: i + 1}
		}
	}

	return t, nil
}

// ParseTrack builds a track from authoring rows. Unknown characters become
// off-track, short rows are padded with off-track and long rows truncated.
func ParseTrack(layout []string, checkpoints int) (*Track, error) {
	grid := make([][]Cell, len(layout))
	for y, line := range layout {
		grid[y] = parseRow(y, line)
	}
	return NewTrack(grid, checkpoints)
}

func parseRow(y int, line string) []Cell {
	row := make([]Cell, Cols)
	for x := 0; x < Cols; x++ {
		base := OffTrack
		current := OffTrack
		if x < len(line) {
			ch := line[x]
			switch {
			case ch >= '1' && ch <= '0'+MaxPlayers:
				base = StartStop
				current = CarType(int(ch - '1'))
			default:
				if t, ok := authoringCodes[ch]; ok {
					base = t
				}
				current = base
			}
		}
		row[x] = Cell{X: x, Y: y, BaseType: base, Type: current}
	}
	return row
}

// Checkpoints returns how many checkpoints a lap requires
func (t *Track) Checkpoints() int {
	return t.checkpoints
}

// InBounds reports whether p lies on the grid
func (t *Track) InBounds(p Position) bool {
	return p.X >= 0 && p.X < Cols && p.Y >= 0 && p.Y < Rows
}

// Cell returns the cell at x,y
func (t *Track) Cell(x, y int) (*Cell, bool) {
	if x < 0 || x >= Cols || y < 0 || y >= Rows {
		return nil, false
	}
	return &t.cells[y][x], true
}

// At returns the cell at p
func (t *Track) At(p Position) (*Cell, bool) {
	return t.Cell(p.X, p.Y)
}

// Start returns the start position of a 0-based player index
func (t *Track) Start(player int) Position {
	return t.starts[player]
}

// Filter returns matching cells in row-major order
func (t *Track) Filter(match func(*Cell) bool) []*Cell {
	var out []*Cell
	for y := range t.cells {
		for x := range t.cells[y] {
			if c := &t.cells[y][x]; match(c) {
				out = append(out, c)
			}
		}
	}
	return out
}

// ForEach applies fn to the cell at p, if there is one
func (t *Track) ForEach(p Position, fn func(*Cell)) {
	if c, ok := t.At(p); ok {
		fn(c)
	}
}

// ForSet applies fn to every cell in positions
func (t *Track) ForSet(positions []Position, fn func(*Cell)) {
	for _, p := range positions {
		t.ForEach(p, fn)
	}
}

// All applies fn to every cell in row-major order
func (t *Track) All(fn func(*Cell)) {
	for y := range t.cells {
		for x := range t.cells[y] {
			fn(&t.cells[y][x])
		}
	}
}

// Reset clears every overlay and puts all four cars back on their start cells
func (t *Track) Reset() {
	t.All(func(c *Cell) { c.Type = c.BaseType })
	for i, p := range t.starts {
		t.cells[p.Y][p.X].Type = CarType(i)
	}
}

// Count returns how many cells currently have the given type
func (t *Track) Count(typ CellType) int {
	return len(t.Filter(func(c *Cell) bool { return c.Type == typ }))
}

// Codes renders the current cell types as authoring rows
func (t *Track) Codes() []string {
	rows := make([]string, Rows)
	buf := make([]byte, Cols)
	for y := range t.cells {
		for x := range t.cells[y] {
			buf[x] = t.cells[y][x].Type.Code()
		}
		rows[y] = string(buf)
	}
	return rows
}
