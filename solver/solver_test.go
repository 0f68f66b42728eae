package solver

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"lukechampine.com/frand"

	"github.com/domino14/tictac/board"
	"github.com/domino14/tictac/cache"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func parse(t *testing.T, s string) board.Position {
	p, err := board.ParsePosition(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return p
}

// reachablePositions enumerates every ongoing position reachable from the
// empty board.
func reachablePositions() []board.Position {
	seen := map[board.Key]bool{}
	var out []board.Position
	var walk func(p board.Position)
	walk = func(p board.Position) {
		if seen[p.Raw()] || p.Evaluate().IsTerminal() {
			return
		}
		seen[p.Raw()] = true
		out = append(out, p)
		for _, c := range p.EmptyCells() {
			np, err := p.Play(c)
			if err != nil {
				panic(err)
			}
			walk(np)
		}
	}
	walk(board.NewPosition())
	return out
}

func TestEmptyBoardIsDraw(t *testing.T) {
	is := is.New(t)
	s := NewSolver(nil, nil)
	res, err := s.Solve(context.Background(), board.NewPosition())
	is.NoErr(err)
	is.Equal(res.Score, 0)
	is.True(res.Nodes > 0)
	is.Equal(res.Variation.Moves[0], res.Move)
}

func TestEmptyBoardIsDrawWithoutCache(t *testing.T) {
	is := is.New(t)
	s := NewSolver(nil, nil)
	s.SetTranspositionTableOptim(false)
	res, err := s.BestMove(context.Background(), board.NewPosition())
	is.NoErr(err)
	is.Equal(res.Score, 0)
	is.Equal(s.ValueCache().Len(), 0)
	// Without the value cache the variation reaches the end of the game.
	p := board.NewPosition()
	for _, c := range res.Variation.Moves {
		p, err = p.Play(c)
		is.NoErr(err)
	}
	is.Equal(p.Evaluate(), board.Draw)
}

func TestImmediateWin(t *testing.T) {
	is := is.New(t)
	s := NewSolver(nil, nil)
	res, err := s.BestMove(context.Background(), parse(t, "xx./oo./... x"))
	is.NoErr(err)
	is.Equal(res.Score, 1)
	is.Equal(res.Move, board.Cell{Col: 2, Row: 0})

	after, err := res.Position.Play(res.Move)
	is.NoErr(err)
	is.Equal(after.Evaluate(), board.CrossWins)
}

func TestColumnCompletion(t *testing.T) {
	is := is.New(t)
	p := board.NewPosition()
	is.NoErr(p.SetColor(0, 0, board.Cross))
	is.NoErr(p.SetColor(0, 1, board.Cross))
	is.NoErr(p.SetColor(1, 0, board.Nought))
	is.NoErr(p.SetColor(2, 1, board.Nought))

	after, err := p.Place(board.Cell{Col: 0, Row: 2}, board.Cross)
	is.NoErr(err)
	is.Equal(after.Evaluate(), board.CrossWins)

	res, err := NewSolver(nil, nil).BestMove(context.Background(), p)
	is.NoErr(err)
	is.Equal(res.Score, 1)
}

func TestForcedBlock(t *testing.T) {
	is := is.New(t)
	// Cross threatens C1; Nought has exactly one move that does not lose.
	p := parse(t, "xx./.o./... o")
	res, err := NewSolver(nil, nil).BestMove(context.Background(), p)
	is.NoErr(err)
	is.Equal(res.Move, board.Cell{Col: 2, Row: 0})
	is.Equal(res.Score, 0)
}

func TestForcedWinAgainstEdgeReply(t *testing.T) {
	is := is.New(t)
	// Corner opening answered on an adjacent edge loses for Nought.
	res, err := NewSolver(nil, nil).BestMove(context.Background(), parse(t, "xo./.../... x"))
	is.NoErr(err)
	is.Equal(res.Score, 1)
}

func TestOnlyCenterHoldsAgainstCorner(t *testing.T) {
	is := is.New(t)
	scores, err := NewSolver(nil, nil).ScoreMoves(context.Background(), parse(t, "x../.../... o"))
	is.NoErr(err)
	is.Equal(len(scores), 8)
	is.Equal(scores[0], MoveScore{Move: board.Cell{Col: 1, Row: 1}, Score: 0})
	for _, ms := range scores[1:] {
		is.Equal(ms.Score, -1)
	}
}

func TestScoreMovesStableOrder(t *testing.T) {
	is := is.New(t)
	scores, err := NewSolver(nil, nil).ScoreMoves(context.Background(), board.NewPosition())
	is.NoErr(err)
	is.Equal(len(scores), 9)
	for i, ms := range scores {
		// every opening draws, so scan order is kept.
		is.Equal(ms.Score, 0)
		is.Equal(ms.Move, board.AllCells[i])
	}
}

func TestTerminalPosition(t *testing.T) {
	is := is.New(t)
	s := NewSolver(nil, nil)
	_, err := s.BestMove(context.Background(), parse(t, "xxx/oo./... o"))
	is.True(errors.Is(err, ErrTerminalPosition))

	_, err = s.BestMove(context.Background(), parse(t, "xox/xoo/oxx"))
	is.True(errors.Is(err, ErrNoLegalMoves))

	_, err = s.ScoreMoves(context.Background(), parse(t, "xox/xoo/oxx"))
	is.True(errors.Is(err, ErrNoLegalMoves))
}

func TestInvalidPosition(t *testing.T) {
	is := is.New(t)
	p := board.NewPosition()
	is.NoErr(p.SetColor(0, 0, board.Cross))
	is.NoErr(p.SetColor(1, 0, board.Cross))
	_, err := NewSolver(nil, nil).BestMove(context.Background(), p)
	is.True(errors.Is(err, board.ErrInvalidPosition))
}

func TestCanceledContext(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSolver(nil, nil).BestMove(ctx, board.NewPosition())
	is.True(errors.Is(err, context.Canceled))
}

func TestCacheMatchesPlainSearch(t *testing.T) {
	is := is.New(t)
	cached := NewSolver(nil, nil)
	plain := NewSolver(nil, nil)
	plain.SetTranspositionTableOptim(false)
	plain.SetFirstWinOptim(false)

	ctx := context.Background()
	for _, p := range reachablePositions() {
		a, err := cached.BestMove(ctx, p)
		is.NoErr(err)
		b, err := plain.BestMove(ctx, p)
		is.NoErr(err)
		is.Equal(a.Score, b.Score)

		// the chosen move must realize the score.
		after, err := p.Play(a.Move)
		is.NoErr(err)
		if v := after.Evaluate(); v.IsTerminal() {
			is.Equal(v.ScoreFor(p.Turn()), a.Score)
		} else {
			reply, err := plain.BestMove(ctx, after)
			is.NoErr(err)
			is.Equal(-reply.Score, a.Score)
		}
	}
}

func TestSymmetricPositionsScoreAlike(t *testing.T) {
	is := is.New(t)
	s := NewSolver(nil, nil)
	ctx := context.Background()
	p := parse(t, "x../.o./..x o")
	res, err := s.BestMove(ctx, p)
	is.NoErr(err)
	for _, sym := range p.Symmetries() {
		r, err := s.BestMove(ctx, sym)
		is.NoErr(err)
		is.Equal(r.Score, res.Score)
		outcome, ok := s.ValueCache().Lookup(sym.Raw())
		is.True(ok)
		is.Equal(outcome, board.VerdictFromScore(p.Turn(), res.Score))
	}
}

func TestSharedCacheIsReused(t *testing.T) {
	is := is.New(t)
	values := cache.New()
	first := NewSolver(nil, values)
	_, err := first.BestMove(context.Background(), board.NewPosition())
	is.NoErr(err)

	second := NewSolver(nil, values)
	res, err := second.BestMove(context.Background(), board.NewPosition())
	is.NoErr(err)
	is.Equal(res.Score, 0)
	// every child of the root is already solved.
	is.Equal(res.Nodes, uint64(9))
}

func TestOptimalPlayDraws(t *testing.T) {
	is := is.New(t)
	s := NewSolver(nil, nil)
	ctx := context.Background()
	p := board.NewPosition()
	for p.Evaluate() == board.Ongoing {
		res, err := s.BestMove(ctx, p)
		is.NoErr(err)
		is.Equal(res.Score, 0)
		p, err = p.Play(res.Move)
		is.NoErr(err)
	}
	is.Equal(p.Evaluate(), board.Draw)
}

func TestNeverLosesToRandomPlayer(t *testing.T) {
	is := is.New(t)
	s := NewSolver(nil, nil)
	ctx := context.Background()
	for game := 0; game < 100; game++ {
		solverSide := board.PlayerCross
		if game%2 == 1 {
			solverSide = board.PlayerNought
		}
		p := board.NewPosition()
		for p.Evaluate() == board.Ongoing {
			var move board.Cell
			if p.Turn() == solverSide {
				res, err := s.BestMove(ctx, p)
				is.NoErr(err)
				is.True(res.Score >= 0)
				move = res.Move
			} else {
				cells := p.EmptyCells()
				move = cells[frand.Intn(len(cells))]
			}
			var err error
			p, err = p.Play(move)
			is.NoErr(err)
		}
		is.True(p.Evaluate() != board.WinFor(solverSide.Opponent()))
	}
}

func TestLogStream(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	s := NewSolver(nil, nil)
	s.SetLogStream(&buf)
	_, err := s.BestMove(context.Background(), parse(t, "xx./oo./... x"))
	is.NoErr(err)
	out := buf.String()
	is.True(strings.HasPrefix(out, "  plays:\n  - play: C1\n    value: 1\n"))
}

func TestPVLineString(t *testing.T) {
	is := is.New(t)
	pv := PVLine{}
	child := PVLine{Moves: []board.Cell{{Col: 0, Row: 0}}}
	pv.Update(board.Cell{Col: 1, Row: 1}, child, 1)
	is.Equal(pv.Score(), 1)
	is.Equal(pv.String(), "PV; val 1\n1: B2\n2: A1\n")
	is.Equal(pv.NLBString(), "PV; val 1; B2 A1")
}
