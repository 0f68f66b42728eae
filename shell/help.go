package shell

import (
	"embed"
	"strings"
)

//go:embed helptext
var helptext embed.FS

func usage(args []string) (*Response, error) {
	topic := "usage"
	if len(args) > 0 {
		topic = args[0]
	}
	dat, err := helptext.ReadFile("helptext/" + topic + ".txt")
	if err != nil {
		return msg("There is no help text for the topic " + topic), nil
	}
	return msg(strings.TrimRight(string(dat), "\n")), nil
}
