package board

import (
	"fmt"
	"strings"
)

// String renders p in the compact form accepted by ParsePosition, e.g.
// "xo./.x./..o o": rows from top to bottom separated by slashes, then the
// side to move.
func (p Position) String() string {
	var sb strings.Builder
	for row := 0; row < Dim; row++ {
		if row > 0 {
			sb.WriteByte('/')
		}
		for col := 0; col < Dim; col++ {
			sb.WriteString(p.Color(col, row).String())
		}
	}
	sb.WriteByte(' ')
	sb.WriteString(p.Turn().String())
	return sb.String()
}

// ParsePosition reads the compact form written by String. The side to
// move is optional; when missing it is inferred from the stone counts
// (Cross moves when both sides have the same number of stones).
func ParsePosition(s string) (Position, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 2 {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
	}
	rows := strings.Split(fields[0], "/")
	if len(rows) != Dim {
		return Position{}, fmt.Errorf("%w: need %d rows, got %d",
			ErrInvalidPosition, Dim, len(rows))
	}
	p := NewPosition()
	for row, line := range rows {
		runes := []rune(line)
		if len(runes) != Dim {
			return Position{}, fmt.Errorf("%w: row %d has %d squares",
				ErrInvalidPosition, row+1, len(runes))
		}
		for col, r := range runes {
			c, err := colorFromRune(r)
			if err != nil {
				return Position{}, err
			}
			if c == Empty {
				continue
			}
			if err := p.SetColor(col, row, c); err != nil {
				return Position{}, err
			}
		}
	}
	if err := p.Validate(); err != nil {
		return Position{}, err
	}
	turn := PlayerCross
	if p.NumStones(Cross) > p.NumStones(Nought) {
		turn = PlayerNought
	}
	if len(fields) == 2 {
		var err error
		turn, err = ParsePlayer(fields[1])
		if err != nil {
			return Position{}, err
		}
	}
	if err := p.SetTurn(turn); err != nil {
		return Position{}, err
	}
	return p, nil
}

// ToDisplayText draws the board with its coordinates.
func (p Position) ToDisplayText() string {
	var str string
	row := "   "
	for i := 0; i < Dim; i++ {
		row = row + fmt.Sprintf("%c", 'A'+i) + " "
	}
	str = str + row + "\n"
	str = str + "   " + strings.Repeat("-", Dim*2) + "\n"
	for i := 0; i < Dim; i++ {
		row := fmt.Sprintf("%2d|", i+1)
		for j := 0; j < Dim; j++ {
			row = row + p.Color(j, i).String() + " "
		}
		row = row + "|"
		str = str + row + "\n"
	}
	str = str + "   " + strings.Repeat("-", Dim*2) + "\n"
	str = str + fmt.Sprintf("%v to move; %v\n", p.Turn(), p.Evaluate())
	return "\n" + str
}
