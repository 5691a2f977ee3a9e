package engine

import "math"

// pixel is a point in track pixel space
type pixel struct {
	X, Y int
}

func centerOf(c int) int {
	return c*BlockSize + BlockSize/2
}

// contains reports whether px lies inside the cell's region. Regions are open
// squares shifted half a pixel up and left, so integer pixels never fall on a
// boundary and each one belongs to exactly one cell.
func contains(c Position, px pixel) bool {
	left := float64(c.X*BlockSize) - 0.5
	top := float64(c.Y*BlockSize) - 0.5
	x, y := float64(px.X), float64(px.Y)
	return x > left && x < left+BlockSize && y > top && y < top+BlockSize
}

// Trajectory returns the cells crossed by the straight line between the centers
// of a and b, ordered from a to b. Both endpoints are included. Equal cells
// give an empty path.
func Trajectory(t *Track, a, b Position) []Position {
	if a == b {
		return nil
	}

	samples, reversed := sampleLine(a, b)

	minX, maxX := minMax(a.X, b.X)
	minY, maxY := minMax(a.Y, b.Y)

	seen := make(map[Position]bool)
	path := make([]Position, 0, abs(a.X-b.X)+abs(a.Y-b.Y)+1)
	for _, px := range samples {
	scan:
		for y := minY; y <= maxY; y++ {
			for x := minX; x <= maxX; x++ {
				c := Position{X: x, Y: y}
				if !contains(c, px) {
					continue
				}
				if !seen[c] && t.InBounds(c) {
					seen[c] = true
					path = append(path, c)
				}
				break scan
			}
		}
	}

	if reversed {
		for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
			path[i], path[j] = path[j], path[i]
		}
	}
	return path
}

// sampleLine steps one pixel at a time along the axis with the larger delta,
// from the lower endpoint's center up to (not including) the higher one's.
// reversed is true when a is the higher endpoint.
func sampleLine(a, b Position) (samples []pixel, reversed bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	lo, hi := a, b

	if abs(dx) >= abs(dy) {
		if a.X > b.X {
			lo, hi, reversed = b, a, true
		}
		slope := float64(hi.Y-lo.Y) / float64(hi.X-lo.X)
		x0, y0 := centerOf(lo.X), centerOf(lo.Y)
		for x := x0; x < centerOf(hi.X); x++ {
			y := int(math.Round(float64(y0) + slope*float64(x-x0)))
			samples = append(samples, pixel{X: x, Y: y})
		}
		return samples, reversed
	}

	if a.Y > b.Y {
		lo, hi, reversed = b, a, true
	}
	slope := float64(hi.X-lo.X) / float64(hi.Y-lo.Y)
	x0, y0 := centerOf(lo.X), centerOf(lo.Y)
	for y := y0; y < centerOf(hi.Y); y++ {
		x := int(math.Round(float64(x0) + slope*float64(y-y0)))
		samples = append(samples, pixel{X: x, Y: y})
	}
	return samples, reversed
}
