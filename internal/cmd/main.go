package cmd

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/uuid-redirector/internal/version"
)

// Main runs the CLI with the given arguments and returns the exit code.
func Main(args []string) int {
	cliName := filepath.Base(args[0])

	log := hclog.New(&hclog.LoggerOptions{
		Name:   cliName,
		Level:  hclog.Info,
		Output: os.Stderr,
	})

	ui := &cli.BasicUi{
		Reader:      bufio.NewReader(os.Stdin),
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}

	exitCode, err := newCLI(cliName, args[1:], log, ui, os.Stderr).Run()
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	return exitCode
}

// newCLI prints help when no subcommand is given. -v and -version run the
// version command.
func newCLI(name string, args []string, log hclog.Logger, ui cli.Ui, help io.Writer) *cli.CLI {
	switch {
	case len(args) == 0:
		args = []string{"-help"}
	case len(args) == 1 && (args[0] == "-v" || args[0] == "-version"):
		args = []string{"version"}
	}

	return &cli.CLI{
		Name:       name,
		Args:       args,
		Version:    version.Version,
		Commands:   Commands(log, ui),
		HelpFunc:   cli.BasicHelpFunc(name),
		HelpWriter: help,
	}
}
