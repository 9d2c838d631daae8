package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/uuid-redirector/internal/cmd/base"
	"github.com/hashicorp-forge/uuid-redirector/internal/cmd/commands/convert"
	"github.com/hashicorp-forge/uuid-redirector/internal/cmd/commands/rewrite"
	"github.com/hashicorp-forge/uuid-redirector/internal/cmd/commands/version"
)

// Commands returns the subcommand table.
func Commands(log hclog.Logger, ui cli.Ui) map[string]cli.CommandFactory {
	b := base.NewCommand(log, ui)

	return map[string]cli.CommandFactory{
		"rewrite": func() (cli.Command, error) {
			return &rewrite.Command{Command: b}, nil
		},
		"convert": func() (cli.Command, error) {
			return &convert.Command{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: b}, nil
		},
	}
}
