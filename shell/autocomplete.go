package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/samber/lo"

	"github.com/domino14/tictac/board"
)

// ShellCompleter implements readline.AutoCompleter.
type ShellCompleter struct{}

var commandNames = []string{
	"analyze", "best", "cache", "eval", "exit", "help", "moves", "new",
	"play", "random", "set", "show", "turn", "undo",
}

var squareNames = lo.Map(board.AllCells, func(c board.Cell, _ int) string {
	return c.String()
})

var argCompletions = map[string][]string{
	"play":  squareNames,
	"turn":  {"x", "o"},
	"cache": {"clear"},
	"help":  {"positions", "scores"},
}

// Do returns the suffixes that complete the word under the cursor.
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string
	switch {
	case len(fields) == 0 || (len(fields) == 1 && !endsWithSpace):
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	default:
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		completions = argCompletions[fields[0]]
	}

	var out [][]rune
	for _, comp := range completions {
		if strings.HasPrefix(strings.ToLower(comp), strings.ToLower(prefix)) {
			out = append(out, []rune(comp[len(prefix):]+" "))
		}
	}
	return out, len([]rune(prefix))
}
