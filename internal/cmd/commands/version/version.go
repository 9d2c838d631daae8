package version

import (
	"github.com/hashicorp-forge/uuid-redirector/internal/cmd/base"
	"github.com/hashicorp-forge/uuid-redirector/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the version"
}

func (c *Command) Help() string {
	return `Usage: uuid-redirector version

  Prints the version of this binary.`
}

func (c *Command) Run(args []string) int {
	c.UI.Output("uuid-redirector v" + version.Version)
	return 0
}
