package cmd

import (
	"github.com/billgraziano/toml"
	"github.com/dustin/go-humanize"
	flags "github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap/zapcore"

	"github.com/fzft/go-chainset/set"
)

// Config is the shell configuration. Values come from an optional TOML file
// and are overridden by command line flags.
type Config struct {
	ConfigFile  string `short:"c" long:"config" description:"TOML configuration file" toml:"-"`
	Capacity    int    `long:"capacity" description:"base bucket count of the set (default: 7)" toml:"capacity"`
	MaxMemory   string `long:"maxmemory" description:"memory budget of the set, e.g. 64MB (default: unlimited)" toml:"maxmemory"`
	LogLevel    string `long:"loglevel" description:"debug, info, warn or error (default: info)" toml:"loglevel"`
	History     string `long:"history" description:"history file (default: .chainset_history)" toml:"history"`
	MetricsAddr string `long:"metrics" description:"serve Prometheus metrics on this address" toml:"metrics"`
	Load        string `long:"load" description:"file with one key per line to insert at startup" toml:"load"`
	Version     bool   `short:"v" long:"version" description:"print the version and exit" toml:"-"`
}

// DefaultHistoryFile is used when no history file is configured.
const DefaultHistoryFile = ".chainset_history"

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Capacity: set.DefaultCapacity,
		LogLevel: "info",
		History:  DefaultHistoryFile,
	}
}

// ParseConfig reads args and, if --config names one, the TOML file on fs.
// Flags on the command line win over the file.
func ParseConfig(fs afero.Fs, args []string) (*Config, error) {
	first := DefaultConfig()
	if _, err := newParser(first).ParseArgs(args); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if first.ConfigFile != "" {
		b, err := afero.ReadFile(fs, first.ConfigFile)
		if err != nil {
			return nil, errors.Wrap(err, "config.read")
		}
		if _, err := toml.Decode(string(b), cfg); err != nil {
			return nil, errors.Wrap(err, "toml.decode")
		}
		if _, err := newParser(cfg).ParseArgs(args); err != nil {
			return nil, err
		}
	} else {
		cfg = first
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newParser(cfg *Config) *flags.Parser {
	p := flags.NewParser(cfg, flags.HelpFlag|flags.PassDoubleDash)
	p.Name = "chainset"
	return p
}

// IsHelp reports whether err is the help request from ParseConfig.
func IsHelp(err error) bool {
	var fe *flags.Error
	return errors.As(err, &fe) && fe.Type == flags.ErrHelp
}

// MaxMemoryBytes parses MaxMemory. An empty value means no budget.
func (c *Config) MaxMemoryBytes() (int64, error) {
	if c.MaxMemory == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(c.MaxMemory)
	if err != nil {
		return 0, errors.Wrap(err, "maxmemory")
	}
	return int64(n), nil
}

func (c *Config) validate() error {
	if c.Capacity < 1 {
		return errors.Errorf("capacity must be at least 1, got %d", c.Capacity)
	}
	if _, err := c.MaxMemoryBytes(); err != nil {
		return err
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return errors.Wrap(err, "loglevel")
	}
	return nil
}
