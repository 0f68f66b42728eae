package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug                   = "debug"
	ConfigThreads                 = "threads"
	ConfigFirstWinOptim           = "first-win-optim"
	ConfigTranspositionTableOptim = "transposition-table-optim"
	ConfigSearchLog               = "search-log"
	ConfigCPUProfile              = "cpu-profile"
	ConfigMemProfile              = "mem-profile"
	ConfigHistoryFile             = "history-file"
)

type Config struct {
	*viper.Viper
}

// DefaultConfig returns a config with every default set and nothing read
// from flags or the environment.
func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigThreads, 1)
	c.SetDefault(ConfigFirstWinOptim, true)
	c.SetDefault(ConfigTranspositionTableOptim, true)
	c.SetDefault(ConfigSearchLog, "")
	c.SetDefault(ConfigCPUProfile, "")
	c.SetDefault(ConfigMemProfile, "")
	c.SetDefault(ConfigHistoryFile, "/tmp/tictac_readline.tmp")
}

// Load reads flags from args and TICTAC_-prefixed environment variables,
// e.g. TICTAC_DEBUG=true or TICTAC_SEARCH_LOG=/tmp/tree.yaml. Flags win
// over the environment. Flags must come first; everything from the first
// non-flag argument on is left for the caller in Args.
func (c *Config) Load(args []string) error {
	if c.Viper == nil {
		c.Viper = viper.New()
	}
	c.setDefaults()

	fs := pflag.NewFlagSet("tictac", pflag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.Bool(ConfigDebug, false, "turn on debug logging")
	fs.Int(ConfigThreads, 1, "number of threads for multi-position analysis")
	fs.Bool(ConfigFirstWinOptim, true, "stop searching a node once a winning move is found")
	fs.Bool(ConfigTranspositionTableOptim, true, "memoize solved positions and their symmetric images")
	fs.String(ConfigSearchLog, "", "file to dump the search tree to")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	fs.String(ConfigMemProfile, "", "write a memory profile to this file on exit")
	fs.String(ConfigHistoryFile, "/tmp/tictac_readline.tmp", "shell history file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.Set("args", fs.Args())

	c.SetEnvPrefix("tictac")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	if c.GetInt(ConfigThreads) < 1 {
		return fmt.Errorf("threads must be at least 1, got %d", c.GetInt(ConfigThreads))
	}
	return nil
}

// Args returns the non-flag arguments seen by Load.
func (c *Config) Args() []string {
	return c.GetStringSlice("args")
}

// SanitizedSettings renders the settings for a log line.
func (c *Config) SanitizedSettings() string {
	keys := []string{ConfigDebug, ConfigThreads, ConfigFirstWinOptim,
		ConfigTranspositionTableOptim, ConfigSearchLog, ConfigCPUProfile,
		ConfigMemProfile, ConfigHistoryFile}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, c.Get(k))
	}
	return strings.Join(parts, " ")
}
