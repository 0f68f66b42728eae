package board

import (
	"fmt"
	"strings"
)

// Dim is the width and height of the board.
const Dim = 3

// A Color is the content of a single square: empty, a cross or a nought.
// It occupies two bits of a packed position.
type Color uint8

const (
	Empty Color = iota
	Cross
	Nought
)

func (c Color) String() string {
	switch c {
	case Empty:
		return "."
	case Cross:
		return "x"
	case Nought:
		return "o"
	}
	return "?"
}

func colorFromRune(r rune) (Color, error) {
	switch r {
	case '.', '-', '_':
		return Empty, nil
	case 'x', 'X':
		return Cross, nil
	case 'o', 'O', '0':
		return Nought, nil
	}
	return Empty, fmt.Errorf("%w: unknown square marker %q", ErrInvalidPosition, r)
}

// A Player is one of the two sides. The numeric value of a player is the
// same as the Color of the stones it places.
type Player uint8

const (
	PlayerCross  Player = 1
	PlayerNought Player = 2
)

func (p Player) Valid() bool {
	return p == PlayerCross || p == PlayerNought
}

// Opponent returns the other player.
func (p Player) Opponent() Player {
	return 3 - p
}

// Color returns the stone color this player places.
func (p Player) Color() Color {
	return Color(p)
}

func (p Player) String() string {
	switch p {
	case PlayerCross:
		return "x"
	case PlayerNought:
		return "o"
	}
	return fmt.Sprintf("player(%d)", uint8(p))
}

// ParsePlayer accepts "x" or "o" (any case), or "1" / "2".
func ParsePlayer(s string) (Player, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x", "1":
		return PlayerCross, nil
	case "o", "2":
		return PlayerNought, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidPlayer, s)
}

// A Cell is a coordinate on the board. Col 0 is the left column and Row 0
// is the top row. Cells are displayed as a column letter and a row number,
// so {0, 0} is A1 and {2, 1} is C2.
type Cell struct {
	Col int
	Row int
}

func (c Cell) InBounds() bool {
	return c.Col >= 0 && c.Col < Dim && c.Row >= 0 && c.Row < Dim
}

func (c Cell) String() string {
	if !c.InBounds() {
		return "--"
	}
	return fmt.Sprintf("%c%d", 'A'+c.Col, c.Row+1)
}

// ParseCell parses coordinates like "B2" or "c3".
func ParseCell(s string) (Cell, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 2 {
		return Cell{}, fmt.Errorf("%w: %q", ErrOutOfBounds, s)
	}
	c := Cell{Col: int(s[0] - 'A'), Row: int(s[1] - '1')}
	if !c.InBounds() {
		return Cell{}, fmt.Errorf("%w: %q", ErrOutOfBounds, s)
	}
	return c, nil
}

// AllCells lists every cell in row-major scan order. This is the order the
// solver tries moves in.
var AllCells = func() []Cell {
	cells := make([]Cell, 0, Dim*Dim)
	for row := 0; row < Dim; row++ {
		for col := 0; col < Dim; col++ {
			cells = append(cells, Cell{Col: col, Row: row})
		}
	}
	return cells
}()
