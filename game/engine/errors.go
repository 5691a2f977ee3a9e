package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTrack    = errors.New("invalid track")
	ErrIllegalMove     = errors.New("illegal move")
	ErrMatchNotActive  = errors.New("match is not active")
	ErrInvalidSettings = errors.New("invalid settings")
	ErrInvalidState    = errors.New("invalid state transition")
)

// TrackErrorKind identifies which structural rule a track broke
type TrackErrorKind string

const (
	TrackRows            TrackErrorKind = "rows"
	TrackCols            TrackErrorKind = "cols"
	TrackCheckpoints     TrackErrorKind = "checkpoints"
	TrackMissingPlayer   TrackErrorKind = "missing_player"
	TrackDuplicatePlayer TrackErrorKind = "duplicate_player"
)

// InvalidTrackError is returned when a track fails structural validation.
// It matches ErrInvalidTrack with errors.Is.
type InvalidTrackError struct {
	Kind   TrackErrorKind
	Row    int
	Count  int
	Player int
}

func (e *InvalidTrackError) Error() string {
	switch e.Kind {
	case TrackRows:
		return fmt.Sprintf("invalid track (rows = %d)", e.Count)
	case TrackCols:
		return fmt.Sprintf("invalid track (row %d cols = %d)", e.Row, e.Count)
	case TrackCheckpoints:
		return fmt.Sprintf("invalid track (checkpoints = %d)", e.Count)
	case TrackDuplicatePlayer:
		return fmt.Sprintf("invalid track (found player %d twice)", e.Player)
	case TrackMissingPlayer:
		return fmt.Sprintf("invalid track (missing player %d)", e.Player)
	}
	return "invalid track"
}

func (e *InvalidTrackError) Unwrap() error {
	return ErrInvalidTrack
}

// IllegalMoveError is returned when a submitted cell is not a current target.
// The match is left untouched.
type IllegalMoveError struct {
	Position Position
	Type     CellType
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move to (%d, %d): cell is %s", e.Position.X, e.Position.Y, e.Type)
}

func (e *IllegalMoveError) Unwrap() error {
	return ErrIllegalMove
}
