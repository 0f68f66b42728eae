package board

import (
	"fmt"

	"github.com/samber/lo"
)

// Position is a 3x3 board plus the side to move, packed into a single
// Key-sized integer (see Key for the layout). It is a value type: copying
// a Position copies the whole state.
type Position struct {
	raw Key
}

// NewPosition returns the empty board with Cross to move.
func NewPosition() Position {
	return Position{}
}

// FromKey decodes the squares of k. The turn bit is ignored and Cross is
// to move.
func FromKey(k Key) Position {
	return Position{raw: k & CellMask}
}

// FromRaw decodes a key produced by Raw, including the side to move.
func FromRaw(k Key) Position {
	return Position{raw: k & (CellMask | turnBit)}
}

// Key encodes the nine squares only. Two positions that differ only in
// the side to move share a key.
func (p Position) Key() Key {
	return p.raw & CellMask
}

// Raw encodes the squares and the side to move.
func (p Position) Raw() Key {
	return p.raw
}

// Color returns the content of square (col, row). Coordinates must be in
// 0..2.
func (p Position) Color(col, row int) Color {
	return p.raw.color(col, row)
}

func (p Position) ColorAt(c Cell) Color {
	return p.Color(c.Col, c.Row)
}

// SetColor puts a stone on an empty square. It refuses to overwrite an
// occupied square and leaves p unchanged on error.
func (p *Position) SetColor(col, row int, c Color) error {
	if !(Cell{Col: col, Row: row}).InBounds() {
		return fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, col, row)
	}
	if c != Cross && c != Nought {
		return fmt.Errorf("%w: %d", ErrInvalidColor, c)
	}
	if cur := p.Color(col, row); cur != Empty {
		return fmt.Errorf("%w: %v holds %v", ErrOccupiedCell,
			Cell{Col: col, Row: row}, cur)
	}
	p.raw |= Key(c) << shift(col, row)
	return nil
}

// Place returns a copy of p with c placed on cell. The receiver is never
// modified.
func (p Position) Place(cell Cell, c Color) (Position, error) {
	np := p
	if err := np.SetColor(cell.Col, cell.Row, c); err != nil {
		return p, err
	}
	return np, nil
}

// Play places the mover's stone on cell and passes the turn.
func (p Position) Play(cell Cell) (Position, error) {
	np, err := p.Place(cell, p.Turn().Color())
	if err != nil {
		return p, err
	}
	np.raw ^= turnBit
	return np, nil
}

// Turn returns the side to move.
func (p Position) Turn() Player {
	if p.raw&turnBit != 0 {
		return PlayerNought
	}
	return PlayerCross
}

// SetTurn sets the side to move.
func (p *Position) SetTurn(pl Player) error {
	if !pl.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidPlayer, pl)
	}
	if p.Turn() != pl {
		p.raw ^= turnBit
	}
	return nil
}

func (p Position) line(c0, r0, c1, r1, c2, r2 int) Color {
	a := p.Color(c0, r0)
	if a != Empty && a == p.Color(c1, r1) && a == p.Color(c2, r2) {
		return a
	}
	return Empty
}

// Evaluate reports whether somebody has three in a row, the board is full
// (Draw), or play goes on. Diagonals are checked first.
func (p Position) Evaluate() Verdict {
	if c := p.line(0, 0, 1, 1, 2, 2); c != Empty {
		return Verdict(c)
	}
	if c := p.line(0, 2, 1, 1, 2, 0); c != Empty {
		return Verdict(c)
	}
	for i := 0; i < Dim; i++ {
		if c := p.line(i, 0, i, 1, i, 2); c != Empty {
			return Verdict(c)
		}
		if c := p.line(0, i, 1, i, 2, i); c != Empty {
			return Verdict(c)
		}
	}
	if p.NumStones(Empty) == 0 {
		return Draw
	}
	return Ongoing
}

// Reflect returns p mirrored left to right. The side to move is kept.
func (p Position) Reflect() Position {
	return Position{raw: p.raw.Reflect()}
}

// Rotate90 returns p turned a quarter turn. The side to move is kept.
func (p Position) Rotate90() Position {
	return Position{raw: p.raw.Rotate90()}
}

// Symmetries returns the eight images of p, in the order documented on
// Key.Symmetries.
func (p Position) Symmetries() [8]Position {
	var out [8]Position
	for i, k := range p.raw.Symmetries() {
		out[i] = Position{raw: k}
	}
	return out
}

// NumStones counts squares holding c.
func (p Position) NumStones(c Color) int {
	return lo.CountBy(AllCells, func(cell Cell) bool {
		return p.ColorAt(cell) == c
	})
}

// EmptyCells returns the legal moves in scan order.
func (p Position) EmptyCells() []Cell {
	return lo.Filter(AllCells, func(cell Cell, _ int) bool {
		return p.ColorAt(cell) == Empty
	})
}

// Validate checks that the stone counts could come from alternating play.
func (p Position) Validate() error {
	x, o := p.NumStones(Cross), p.NumStones(Nought)
	if x-o > 1 || o-x > 1 {
		return fmt.Errorf("%w: %d crosses and %d noughts", ErrInvalidPosition, x, o)
	}
	return nil
}
