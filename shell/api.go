package shell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/domino14/tictac/board"
	"github.com/domino14/tictac/solver"
)

var errGameOver = errors.New("the game is over; use `new` or `undo`")

func (sc *ShellController) setPosition(p board.Position) {
	sc.history = append(sc.history, sc.curPos)
	sc.curPos = p
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	sc.setPosition(board.NewPosition())
	return msg(sc.curPos.ToDisplayText()), nil
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need a position, e.g. set xo./.x./... o")
	}
	p, err := board.ParsePosition(strings.Join(cmd.args, " "))
	if err != nil {
		return nil, err
	}
	sc.setPosition(p)
	return msg(sc.curPos.ToDisplayText()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	return msg(sc.curPos.ToDisplayText() + "\n" + sc.curPos.String()), nil
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("need a square, e.g. play B2")
	}
	if sc.curPos.Evaluate().IsTerminal() {
		return nil, errGameOver
	}
	cell, err := board.ParseCell(cmd.args[0])
	if err != nil {
		return nil, err
	}
	p, err := sc.curPos.Play(cell)
	if err != nil {
		return nil, err
	}
	sc.setPosition(p)
	return msg(sc.curPos.ToDisplayText()), nil
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	if len(sc.history) == 0 {
		return nil, errors.New("nothing to undo")
	}
	sc.curPos = sc.history[len(sc.history)-1]
	sc.history = sc.history[:len(sc.history)-1]
	return msg(sc.curPos.ToDisplayText()), nil
}

func (sc *ShellController) turn(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return msg(sc.curPos.Turn().String() + " to move"), nil
	}
	pl, err := board.ParsePlayer(cmd.args[0])
	if err != nil {
		return nil, err
	}
	p := sc.curPos
	if err := p.SetTurn(pl); err != nil {
		return nil, err
	}
	sc.setPosition(p)
	return msg(sc.curPos.Turn().String() + " to move"), nil
}

func (sc *ShellController) eval(cmd *shellcmd) (*Response, error) {
	return msg(sc.curPos.Evaluate().String()), nil
}

func scoreText(score int) string {
	switch {
	case score > 0:
		return "win"
	case score < 0:
		return "loss"
	}
	return "draw"
}

func (sc *ShellController) best(ctx context.Context, cmd *shellcmd) (*Response, error) {
	res, err := sc.solver.Solve(ctx, sc.curPos)
	if err != nil {
		return nil, err
	}
	if cmd.options["yaml"] == "true" {
		out, err := solver.ToYAML(res)
		if err != nil {
			return nil, err
		}
		return msg(out), nil
	}
	return msg(fmt.Sprintf("Best move for %v: %v (%+d, %s)\n%s",
		sc.curPos.Turn(), res.Move, res.Score, scoreText(res.Score),
		res.Variation.String())), nil
}

func (sc *ShellController) moves(ctx context.Context, cmd *shellcmd) (*Response, error) {
	scores, err := sc.solver.ScoreMoves(ctx, sc.curPos)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	sb.WriteString("     Move  Score\n")
	for i, ms := range scores {
		fmt.Fprintf(&sb, "%3d: %-5s %+d (%s)\n", i+1, ms.Move, ms.Score, scoreText(ms.Score))
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) random(cmd *shellcmd) (*Response, error) {
	if sc.curPos.Evaluate().IsTerminal() {
		return nil, errGameOver
	}
	cells := sc.curPos.EmptyCells()
	cell := cells[frand.Intn(len(cells))]
	p, err := sc.curPos.Play(cell)
	if err != nil {
		return nil, err
	}
	sc.setPosition(p)
	return msg(fmt.Sprintf("played %v\n%s", cell, sc.curPos.ToDisplayText())), nil
}

func (sc *ShellController) analyze(ctx context.Context, cmd *shellcmd) (*Response, error) {
	positions := []board.Position{sc.curPos}
	if len(cmd.args) > 0 {
		positions = nil
		for _, a := range cmd.args {
			p, err := board.ParsePosition(a)
			if err != nil {
				return nil, fmt.Errorf("%q: %w", a, err)
			}
			positions = append(positions, p)
		}
	}
	results, err := sc.solver.Analyze(ctx, positions)
	if err != nil {
		return nil, err
	}
	if cmd.options["yaml"] == "true" {
		out, err := solver.ToYAML(results...)
		if err != nil {
			return nil, err
		}
		return msg(out), nil
	}
	lines := lo.Map(results, func(r solver.SearchResult, idx int) string {
		return fmt.Sprintf("%3d: %-14s %-3s %+d (%s)", idx+1, r.Position.String(),
			r.Move, r.Score, scoreText(r.Score))
	})
	return msg(strings.Join(lines, "\n")), nil
}

func (sc *ShellController) cacheInfo(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) > 0 {
		if cmd.args[0] != "clear" {
			return nil, fmt.Errorf("unknown cache subcommand %v", cmd.args[0])
		}
		sc.solver.VerdictCache().Reset()
		sc.solver.ValueCache().Reset()
		return msg("caches cleared"), nil
	}
	vs := sc.solver.ValueCache().Stats()
	ds := sc.solver.VerdictCache().Stats()
	return msg(fmt.Sprintf(
		"values:   entries %d, lookups %d, hits %d\nverdicts: entries %d, lookups %d, hits %d\nnodes searched: %d",
		vs.Entries, vs.Lookups, vs.Hits, ds.Entries, ds.Lookups, ds.Hits,
		sc.solver.Nodes())), nil
}
