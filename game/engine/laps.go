package engine

import "slices"

// LapResult is what a move did to a player's lap progress
type LapResult int

const (
	LapNone LapResult = iota
	LapCheckpoint
	LapMissedCheckpoint
	LapWrongWay
	LapStarted
	LapCompleted
	LapVoided
	LapWon
)

// DetectCheckpoint scans a path for the finish line (0) or a checkpoint (1..3).
// The cell the car stood on counts, so leaving the line is a finish crossing.
// Cells are scanned in row-major order and when several match, the last one
// wins whichever way the car was going. Returns -1 when none is crossed.
func DetectCheckpoint(t *Track, path []Position) int {
	cells := slices.Clone(path)
	slices.SortFunc(cells, func(a, b Position) int {
		if a.Y != b.Y {
			return a.Y - b.Y
		}
		return a.X - b.X
	})

	found := -1
	for _, p := range cells {
		c, ok := t.At(p)
		if !ok {
			continue
		}
		if idx := c.BaseType.CheckpointIndex(); idx >= 0 {
			found = idx
		}
	}
	return found
}

// lapProgress is the per-player state the tracker reads and updates
type lapProgress struct {
	Started    bool // left the line at least once
	Lap        int  // completed laps
	Checkpoint int
}

// advanceLap applies one detected crossing. fromCheckpoint and fromFinish
// describe the base type of the cell the move started on.
func advanceLap(p *lapProgress, found int, fromCheckpoint, fromFinish bool, checkpoints, laps int) LapResult {
	switch {
	case found < 0:
		return LapNone

	case found > 0:
		switch {
		case found == p.Checkpoint+1:
			p.Checkpoint = found
			return LapCheckpoint
		case found == p.Checkpoint:
			return LapNone
		case found < p.Checkpoint && !fromCheckpoint:
			return LapMissedCheckpoint
		case found > p.Checkpoint+1 && !fromCheckpoint:
			p.Checkpoint = found
			return LapWrongWay
		}
		return LapNone

	case fromFinish:
		if !p.Started {
			p.Started = true
			return LapStarted
		}
		return LapNone
	}

	if p.Checkpoint != checkpoints {
		p.Checkpoint = 0
		return LapVoided
	}
	p.Lap++
	p.Checkpoint = 0
	if p.Lap >= laps {
		return LapWon
	}
	return LapCompleted
}
