// Command lmdbtool converts, dumps, and inspects files in the leaf-only
// memory-mapped key-value page format implemented by the lmdb package.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/sntns/lmdbtool/internal/cliutil"
)

var version = lmdbtoolVersion()

// CLI defines the top-level command-line interface.
var CLI struct {
	LogLevel  string `name:"log-level" help:"Log level: debug, info, warn, error."`
	LogFormat string `name:"log-format" help:"Log format: text or json."`
	Config    string `name:"config" help:"Path to an optional YAML config file." type:"path"`

	Convert ConvertCmd `cmd:"" help:"Convert a database between word-size variants."`
	Dump    DumpCmd    `cmd:"" help:"Enumerate every key/value element in a database."`
	Info    InfoCmd    `cmd:"" help:"Print word size and metadata summary."`
	Verify  VerifyCmd  `cmd:"" help:"Check a database's internal consistency."`
	Version VersionCmd `cmd:"" help:"Print version information."`
}

// VersionCmd prints the tool's version string.
type VersionCmd struct{}

// Run implements the version subcommand.
func (c *VersionCmd) Run(ctx *kong.Context) error {
	fmt.Println(version)
	return nil
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("lmdbtool"),
		kong.Description("Reader/writer for a leaf-only memory-mapped key-value page format."),
		kong.UsageOnError(),
	)

	cfg, err := loadConfig(CLI.Config)
	if err != nil {
		kctx.FatalIfErrorf(fmt.Errorf("load config: %w", err))
	}
	logLevel := firstNonEmpty(CLI.LogLevel, cfg.LogLevel, "warn")
	logFormat := firstNonEmpty(CLI.LogFormat, cfg.LogFormat, "text")
	logger := cliutil.InitLogger(logLevel, logFormat)

	runCtx := &runContext{logger: logger, cfg: cfg}
	err = kctx.Run(runCtx)
	if err != nil {
		logger.Error("command failed", "error", err)
	}
	kctx.FatalIfErrorf(err)
}

// runContext is passed as kong's bind context so subcommand Run methods can
// reach the logger and loaded config without reaching for globals.
type runContext struct {
	logger *slog.Logger
	cfg    *cliutil.Config
}

func loadConfig(explicitPath string) (*cliutil.Config, error) {
	path := explicitPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, ".config", "lmdbtool", "config.yaml")
		}
	}
	var cfg *cliutil.Config
	var err error
	if path != "" {
		cfg, err = cliutil.Load(path)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = &cliutil.Config{}
	}
	cliutil.ApplyEnv(cfg)
	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func lmdbtoolVersion() string {
	return "lmdbtool 0.1.0"
}
