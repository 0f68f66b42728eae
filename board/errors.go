package board

import "errors"

var (
	ErrOccupiedCell    = errors.New("square is already occupied")
	ErrInvalidPlayer   = errors.New("invalid player")
	ErrInvalidColor    = errors.New("invalid color")
	ErrOutOfBounds     = errors.New("square is out of bounds")
	ErrInvalidPosition = errors.New("invalid position")
)
