package board

// A Verdict classifies a position: someone has won, it is a draw, or play
// goes on. The numeric values of the wins match the winner's Color.
type Verdict int8

const (
	Ongoing    Verdict = -1
	Draw       Verdict = 0
	CrossWins  Verdict = 1
	NoughtWins Verdict = 2
)

// WinFor returns the verdict for a win by p.
func WinFor(p Player) Verdict {
	return Verdict(p)
}

// Winner returns the winning player, or 0 if nobody has won.
func (v Verdict) Winner() Player {
	if v == CrossWins || v == NoughtWins {
		return Player(v)
	}
	return 0
}

func (v Verdict) IsTerminal() bool {
	return v != Ongoing
}

// ScoreFor returns +1, 0 or -1 for a terminal verdict seen from p's side.
// Ongoing scores 0.
func (v Verdict) ScoreFor(p Player) int {
	switch v.Winner() {
	case 0:
		return 0
	case p:
		return 1
	}
	return -1
}

func (v Verdict) String() string {
	switch v {
	case Ongoing:
		return "ongoing"
	case Draw:
		return "draw"
	case CrossWins:
		return "x wins"
	case NoughtWins:
		return "o wins"
	}
	return "invalid"
}

// VerdictFromScore converts a score from mover's point of view back into
// an absolute verdict.
func VerdictFromScore(mover Player, score int) Verdict {
	switch {
	case score > 0:
		return WinFor(mover)
	case score < 0:
		return WinFor(mover.Opponent())
	}
	return Draw
}
