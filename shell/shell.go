package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/tictac/board"
	"github.com/domino14/tictac/config"
	"github.com/domino14/tictac/solver"
)

var (
	errNoData            = errors.New("no data in line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
)

type ShellController struct {
	l      *readline.Instance
	config *config.Config
	out    io.Writer

	curPos  board.Position
	history []board.Position

	solver    *solver.Solver
	searchLog *os.File
}

type shellcmd struct {
	cmd     string
	args    []string
	options map[string]string
}

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

// NewShellController sets up a shell on a fresh board. The solver and its
// caches live as long as the shell.
func NewShellController(cfg *config.Config) *ShellController {
	s := solver.NewSolver(nil, nil)
	s.SetThreads(cfg.GetInt(config.ConfigThreads))
	s.SetFirstWinOptim(cfg.GetBool(config.ConfigFirstWinOptim))
	s.SetTranspositionTableOptim(cfg.GetBool(config.ConfigTranspositionTableOptim))

	sc := &ShellController{
		config: cfg,
		out:    os.Stdout,
		curPos: board.NewPosition(),
		solver: s,
	}
	if path := cfg.GetString(config.ConfigSearchLog); path != "" {
		f, err := os.Create(path)
		if err != nil {
			log.Err(err).Str("path", path).Msg("could not open search log")
		} else {
			sc.searchLog = f
			s.SetLogStream(f)
		}
	}
	return sc
}

func (sc *ShellController) initReadline() error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mtictac>\033[0m ",
		HistoryFile:     sc.config.GetString(config.ConfigHistoryFile),
		AutoComplete:    &ShellCompleter{},
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return err
	}
	sc.l = l
	sc.out = l.Stdout()
	return nil
}

func (sc *ShellController) showMessage(msg string) {
	io.WriteString(sc.out, msg)
	io.WriteString(sc.out, "\n")
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// extractFields splits a command line into the command, its positional
// arguments and its "-key value" options.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := map[string]string{}

	for idx := 1; idx < len(fields); idx++ {
		if strings.HasPrefix(fields[idx], "-") && len(fields[idx]) > 1 {
			if idx == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			options[fields[idx][1:]] = fields[idx+1]
			idx++
			continue
		}
		args = append(args, fields[idx])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

// Execute runs a single command line.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	resp, err := sc.standardModeSwitch(context.Background(), line, sig)
	if err != nil {
		sc.showError(err)
	} else if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	if err := sc.initReadline(); err != nil {
		log.Error().Err(err).Msg("could not start readline")
		sig <- syscall.SIGINT
		return
	}
	defer sc.l.Close()
	sc.showMessage(sc.curPos.ToDisplayText())

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" {
			sig <- syscall.SIGINT
			break
		}
		sc.Execute(sig, line)
	}
	log.Debug().Msgf("Exiting readline loop...")
}

func (sc *ShellController) Cleanup() {
	if sc.searchLog != nil {
		sc.searchLog.Close()
	}
	st := sc.solver.ValueCache().Stats()
	log.Debug().Int("entries", st.Entries).Uint64("hits", st.Hits).
		Uint64("nodes", sc.solver.Nodes()).Msg("shell-cleanup")
}

func (sc *ShellController) standardModeSwitch(ctx context.Context, line string, sig chan os.Signal) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "exit":
		sig <- syscall.SIGINT
		return nil, nil
	case "help":
		return usage(cmd.args)
	case "new":
		return sc.newGame(cmd)
	case "set":
		return sc.set(cmd)
	case "show":
		return sc.show(cmd)
	case "play":
		return sc.play(cmd)
	case "undo":
		return sc.undo(cmd)
	case "turn":
		return sc.turn(cmd)
	case "eval":
		return sc.eval(cmd)
	case "best":
		return sc.best(ctx, cmd)
	case "moves":
		return sc.moves(ctx, cmd)
	case "random":
		return sc.random(cmd)
	case "analyze":
		return sc.analyze(ctx, cmd)
	case "cache":
		return sc.cacheInfo(cmd)
	default:
		return nil, fmt.Errorf("command %v not found", cmd.cmd)
	}
}
