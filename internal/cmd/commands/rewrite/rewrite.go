package rewrite

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"

	"github.com/hashicorp-forge/uuid-redirector/internal/cmd/base"
	"github.com/hashicorp-forge/uuid-redirector/internal/config"
	"github.com/hashicorp-forge/uuid-redirector/internal/report"
	"github.com/hashicorp-forge/uuid-redirector/pkg/rewrite"
)

const configEnv = "UUID_REDIRECTOR_CONFIG"

type Command struct {
	*base.Command

	// Fs is the filesystem the world is read from. Nil means the OS
	// filesystem.
	Fs afero.Fs

	flagConfig   string
	flagFrom     string
	flagTo       string
	flagReport   string
	flagLogLevel string
	flagQuiet    bool
}

func (c *Command) Synopsis() string {
	return "Replace a player UUID across a world directory"
}

func (c *Command) Help() string {
	return `Usage: uuid-redirector rewrite [options] <world-dir>

  Replaces every occurrence of one player or entity UUID with another in
  the given world directory: inside text files, inside binary tag files
  and region files, and in file and directory names.

  The directory is rewritten in place. Back it up first.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("rewrite", flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "",
		"["+configEnv+"] Path to an HCL configuration file",
	)
	f.StringVar(
		&c.flagFrom, "from", "",
		"UUID to replace, with or without hyphens",
	)
	f.StringVar(
		&c.flagTo, "to", "",
		"Replacement UUID, with or without hyphens",
	)
	f.StringVar(
		&c.flagReport, "report", "",
		"Write a YAML report of the run to this path",
	)
	f.StringVar(
		&c.flagLogLevel, "log-level", "",
		"Log level (trace, debug, info, warn, error)",
	)
	f.BoolVar(
		&c.flagQuiet, "quiet", false,
		"Only print the summary",
	)

	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if f.NArg() > 1 {
		c.UI.Error("expected a single world directory")
		return 1
	}

	cfg, err := c.config(f.Arg(0))
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	if err := cfg.Validate(); err != nil {
		c.UI.Error(fmt.Sprintf("invalid configuration: %v", err))
		return 1
	}
	c.Log.SetLevel(hclog.LevelFromString(cfg.LogLevel))

	fsys := c.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	o := rewrite.NewOrchestrator(
		rewrite.WithFs(fsys),
		rewrite.WithLogger(c.Log),
		rewrite.WithSink(c.sink()),
		rewrite.WithClassifier(cfg.Classifier()),
	)
	result, runErr := o.Run(ctx, cfg.Root, cfg.Source, cfg.Target)
	if result == nil {
		c.UI.Error(fmt.Sprintf("error running rewrite: %v", runErr))
		return 1
	}

	c.UI.Output(fmt.Sprintf(
		"Scanned %d files: %d processed, %d changed, %d renamed, %d failed (%s)",
		result.Scanned, result.Modified, result.Changed, result.Renamed, result.Failed,
		result.Duration.Round(time.Millisecond),
	))

	exitCode := 0
	if cfg.Report != "" {
		if err := report.Write(fsys, cfg.Report, result); err != nil {
			c.UI.Error(err.Error())
			exitCode = 1
		} else {
			c.UI.Info(fmt.Sprintf("Report written to %s", cfg.Report))
		}
	}
	if runErr != nil {
		c.UI.Error(fmt.Sprintf("rewrite interrupted: %v", runErr))
		return 1
	}
	if err := result.Err(); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	return exitCode
}

// config loads the configuration file, if any, and lays the flags over it.
func (c *Command) config(root string) (*config.Config, error) {
	path := c.flagConfig
	if val, ok := os.LookupEnv(configEnv); ok && path == "" {
		path = val
	}

	cfg := config.New()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}

	if root != "" {
		cfg.Root = root
	}
	if c.flagFrom != "" {
		cfg.Source = c.flagFrom
	}
	if c.flagTo != "" {
		cfg.Target = c.flagTo
	}
	if c.flagReport != "" {
		cfg.Report = c.flagReport
	}
	if c.flagLogLevel != "" {
		cfg.LogLevel = c.flagLogLevel
	}
	return cfg, nil
}

func (c *Command) sink() rewrite.Sink {
	if c.flagQuiet {
		return rewrite.Sink{}
	}
	return rewrite.Sink{
		OnScan: func(path string) {
			c.UI.Output("scan     " + path)
		},
		OnModify: func(path string) {
			c.UI.Output("modify   " + path)
		},
		OnRename: func(from, to string) {
			c.UI.Output("rename   " + from + " -> " + to)
		},
	}
}
