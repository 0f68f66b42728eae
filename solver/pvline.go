package solver

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/domino14/tictac/board"
)

// PVLine is the principal variation: the line of best play found for a
// position. A line can stop short of the end of the game when the search
// took a value from the cache instead of searching the subtree.
type PVLine struct {
	Moves []board.Cell
	score int
}

// Clear the principal variation line.
func (pvLine *PVLine) Clear() {
	pvLine.Moves = nil
}

// Update the principal variation line with a new best move,
// and a new line of best play after the best move.
func (pvLine *PVLine) Update(move board.Cell, newPVLine PVLine, score int) {
	pvLine.Clear()
	pvLine.Moves = append(pvLine.Moves, move)
	pvLine.Moves = append(pvLine.Moves, newPVLine.Moves...)
	pvLine.score = score
}

func (pvLine PVLine) Score() int {
	return pvLine.score
}

func (pvLine PVLine) String() string {
	var s string
	s = fmt.Sprintf("PV; val %d\n", pvLine.score)
	for i := 0; i < len(pvLine.Moves); i++ {
		s += fmt.Sprintf("%d: %s\n", i+1, pvLine.Moves[i])
	}
	return s
}

// NLBString is String without line breaks, for log lines.
func (pvLine PVLine) NLBString() string {
	return fmt.Sprintf("PV; val %d; %s", pvLine.score,
		strings.Join(lo.Map(pvLine.Moves, func(c board.Cell, _ int) string {
			return c.String()
		}), " "))
}
