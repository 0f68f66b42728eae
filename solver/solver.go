package solver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/tictac/board"
	"github.com/domino14/tictac/cache"
)

// thanks Wikipedia:
/*
function negamax(node, depth, color) is
    if depth = 0 or node is a terminal node then
        return color × the heuristic value of node
    value := −∞
    for each child of node do
        value := max(value, −negamax(child, depth − 1, −color))
    return value
**/
// Tic-tac-toe is small enough to search to the end, so there is no depth
// limit and no heuristic; terminal positions score +1, 0 or -1 for the
// side that just moved.

// HugeNumber is below any real score.
const HugeNumber = 2

var (
	ErrTerminalPosition = errors.New("position is already decided")
	ErrNoLegalMoves     = errors.New("no legal moves")
)

// SearchResult is the answer for one position. Score is +1, 0 or -1 from
// the point of view of the side to move.
type SearchResult struct {
	Position  board.Position
	Move      board.Cell
	Score     int
	Variation PVLine
	Nodes     uint64
}

// MoveScore is the exact value of one legal move.
type MoveScore struct {
	Move  board.Cell
	Score int
}

type Solver struct {
	// verdicts memoizes Evaluate by square pattern.
	verdicts *cache.SymmetryCache
	// values memoizes solved positions by square pattern plus side to move.
	values *cache.SymmetryCache

	transpositionTableOptim bool
	// firstWinOptim: stop scanning moves once one of them wins, since
	// nothing can beat it.
	firstWinOptim bool

	threads int
	nodes   atomic.Uint64

	logStream io.Writer
}

// NewSolver returns a solver sharing the given caches. A nil cache is
// replaced with a fresh one.
func NewSolver(verdicts, values *cache.SymmetryCache) *Solver {
	if verdicts == nil {
		verdicts = cache.New()
	}
	if values == nil {
		values = cache.New()
	}
	return &Solver{
		verdicts:                verdicts,
		values:                  values,
		transpositionTableOptim: true,
		firstWinOptim:           true,
		threads:                 1,
	}
}

func (s *Solver) SetTranspositionTableOptim(tt bool) {
	s.transpositionTableOptim = tt
}

func (s *Solver) SetFirstWinOptim(w bool) {
	s.firstWinOptim = w
}

func (s *Solver) SetThreads(threads int) {
	if threads < 1 {
		threads = 1
	}
	s.threads = threads
}

// SetLogStream makes the solver dump the search tree to w. Only used by
// single-threaded searches.
func (s *Solver) SetLogStream(w io.Writer) {
	s.logStream = w
}

func (s *Solver) VerdictCache() *cache.SymmetryCache {
	return s.verdicts
}

func (s *Solver) ValueCache() *cache.SymmetryCache {
	return s.values
}

func (s *Solver) Nodes() uint64 {
	return s.nodes.Load()
}

func checkSearchable(pos board.Position) error {
	if err := pos.Validate(); err != nil {
		return err
	}
	if len(pos.EmptyCells()) == 0 {
		return fmt.Errorf("%w: %v", ErrNoLegalMoves, pos)
	}
	if v := pos.Evaluate(); v.IsTerminal() {
		return fmt.Errorf("%w: %v", ErrTerminalPosition, v)
	}
	return nil
}

// BestMove searches pos to the end and returns the best move for the side
// to move. Moves are tried in row-major order and a later move replaces
// the current best only if it scores strictly higher.
func (s *Solver) BestMove(ctx context.Context, pos board.Position) (SearchResult, error) {
	if err := checkSearchable(pos); err != nil {
		return SearchResult{}, err
	}
	startNodes := s.nodes.Load()
	pv := PVLine{}
	val, err := s.negamax(ctx, pos, 0, &pv)
	if err != nil {
		return SearchResult{}, err
	}
	return SearchResult{
		Position:  pos,
		Move:      pv.Moves[0],
		Score:     val,
		Variation: pv,
		Nodes:     s.nodes.Load() - startNodes,
	}, nil
}

// Solve is BestMove with timing and cache statistics logged.
func (s *Solver) Solve(ctx context.Context, pos board.Position) (SearchResult, error) {
	log.Debug().
		Str("position", pos.String()).
		Bool("tt", s.transpositionTableOptim).
		Bool("first-win", s.firstWinOptim).
		Msg("negamax-solve-config")
	tstart := time.Now()
	res, err := s.BestMove(ctx, pos)
	vs := s.values.Stats()
	ds := s.verdicts.Stats()
	log.Info().
		Uint64("nodes", res.Nodes).
		Int("values-entries", vs.Entries).
		Uint64("values-lookups", vs.Lookups).
		Uint64("values-hits", vs.Hits).
		Int("verdicts-entries", ds.Entries).
		Uint64("verdicts-lookups", ds.Lookups).
		Uint64("verdicts-hits", ds.Hits).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
		Str("pv", res.Variation.NLBString()).
		Msg("solve-returning")
	return res, err
}

// ScoreMoves returns the exact value of every legal move, best first.
// Moves with equal scores stay in scan order.
func (s *Solver) ScoreMoves(ctx context.Context, pos board.Position) ([]MoveScore, error) {
	if err := checkSearchable(pos); err != nil {
		return nil, err
	}
	var scores []MoveScore
	for _, cell := range pos.EmptyCells() {
		child, err := pos.Place(cell, pos.Turn().Color())
		if err != nil {
			return nil, err
		}
		pv := PVLine{}
		value, err := s.childValue(ctx, pos.Turn(), child, 0, &pv)
		if err != nil {
			return nil, err
		}
		scores = append(scores, MoveScore{Move: cell, Score: value})
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	return scores, nil
}

// childValue scores the position reached after mover played, from
// mover's point of view. child still has mover on turn.
func (s *Solver) childValue(ctx context.Context, mover board.Player,
	child board.Position, depth int, childPV *PVLine) (int, error) {

	s.nodes.Add(1)
	verdict := s.verdicts.LookupOrRecord(child.Key(), child.Evaluate)
	if verdict.IsTerminal() {
		return verdict.ScoreFor(mover), nil
	}
	if err := child.SetTurn(mover.Opponent()); err != nil {
		return 0, err
	}
	if s.transpositionTableOptim {
		if outcome, ok := s.values.Lookup(child.Raw()); ok {
			// The subtree was solved before. Its line is not kept.
			return outcome.ScoreFor(mover), nil
		}
	}
	value, err := s.negamax(ctx, child, depth+1, childPV)
	if err != nil {
		return 0, err
	}
	return -value, nil
}

func (s *Solver) negamax(ctx context.Context, pos board.Position, depth int, pv *PVLine) (int, error) {
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}
	mover := pos.Turn()
	childPV := PVLine{}
	bestValue := -HugeNumber
	found := false

	indent := strings.Repeat(" ", 2*depth)
	if s.logStream != nil {
		fmt.Fprintf(s.logStream, "  %vplays:\n", indent)
	}
	for _, cell := range board.AllCells {
		if pos.ColorAt(cell) != board.Empty {
			continue
		}
		found = true
		if s.logStream != nil {
			fmt.Fprintf(s.logStream, "  %v- play: %v\n", indent, cell)
		}
		child, err := pos.Place(cell, mover.Color())
		if err != nil {
			return 0, err
		}
		value, err := s.childValue(ctx, mover, child, depth, &childPV)
		if err != nil {
			return 0, err
		}
		if s.logStream != nil {
			fmt.Fprintf(s.logStream, "  %v  value: %v\n", indent, value)
		}
		// A cached value competes with the other moves like any other
		// score; it does not end the scan.
		if value > bestValue {
			bestValue = value
			pv.Update(cell, childPV, bestValue)
		}
		childPV.Clear()
		if s.firstWinOptim && bestValue == 1 {
			break
		}
	}
	if !found {
		return 0, fmt.Errorf("%w: %v", ErrNoLegalMoves, pos)
	}
	if s.transpositionTableOptim {
		s.values.Record(pos.Raw(), board.VerdictFromScore(mover, bestValue))
	}
	return bestValue, nil
}
