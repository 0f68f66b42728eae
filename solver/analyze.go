package solver

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/domino14/tictac/board"
)

// Analyze finds the best move for several independent positions, using
// up to the configured number of threads. All searches share the solver's
// caches; results come back in the order of positions.
func (s *Solver) Analyze(ctx context.Context, positions []board.Position) ([]SearchResult, error) {
	for _, p := range positions {
		if err := checkSearchable(p); err != nil {
			return nil, err
		}
	}
	if s.threads > 1 {
		s.verdicts.SetMultiThreadedMode()
		s.values.SetMultiThreadedMode()
		if s.logStream != nil {
			log.Warn().Msg("search log is ignored for multi-threaded analysis")
			saved := s.logStream
			s.logStream = nil
			defer func() { s.logStream = saved }()
		}
	}
	log.Debug().Int("threads", s.threads).Int("positions", len(positions)).Msg("analyze")

	results := make([]SearchResult, len(positions))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.threads)
	for i, p := range positions {
		i, p := i, p
		g.Go(func() error {
			res, err := s.BestMove(gctx, p)
			if err != nil {
				return err
			}
			results[i] = res
			log.Debug().Int("idx", i).Str("position", p.String()).
				Str("move", res.Move.String()).Int("score", res.Score).
				Msg("analyzed-position")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

type yamlResult struct {
	Position  string   `yaml:"position"`
	Move      string   `yaml:"move"`
	Score     int      `yaml:"score"`
	Variation []string `yaml:"variation,flow"`
	Nodes     uint64   `yaml:"nodes"`
}

// ToYAML renders results for display in the shell.
func ToYAML(results ...SearchResult) (string, error) {
	out := make([]yamlResult, len(results))
	for i, r := range results {
		out[i] = yamlResult{
			Position: r.Position.String(),
			Move:     r.Move.String(),
			Score:    r.Score,
			Nodes:    r.Nodes,
		}
		for _, c := range r.Variation.Moves {
			out[i].Variation = append(out[i].Variation, c.String())
		}
	}
	bts, err := yaml.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(bts), nil
}
