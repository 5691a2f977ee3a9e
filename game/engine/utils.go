package engine

import "math"

// Velocity returns cur - prev, or zero when there is no previous position
func Velocity(prev *Position, cur Position) Position {
	if prev == nil {
		return Position{}
	}
	return cur.Sub(*prev)
}

// Speed is the length of the last move rounded to one decimal
func Speed(prev *Position, cur Position) float64 {
	v := Velocity(prev, cur)
	if v.X == 0 && v.Y == 0 {
		return 0
	}
	return math.Round(math.Sqrt(float64(v.X*v.X+v.Y*v.Y))*10) / 10
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func minMax(a, b int) (int, int) {
	if a < b {
		return a, b
	}
	return b, a
}

func containsPosition(list []Position, p Position) bool {
	for _, q := range list {
		if q == p {
			return true
		}
	}
	return false
}
