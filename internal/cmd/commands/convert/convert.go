package convert

import (
	"flag"
	"fmt"

	"github.com/hashicorp-forge/uuid-redirector/internal/cmd/base"
	"github.com/hashicorp-forge/uuid-redirector/pkg/entityid"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Show the stored forms of a UUID"
}

func (c *Command) Help() string {
	return `Usage: uuid-redirector convert <uuid>

  Validates a UUID, given with or without hyphens, and prints the forms
  it takes in world data: the canonical and raw strings, the pair of
  signed longs stored as <prefix>UUIDMost and <prefix>UUIDLeast, and the
  four signed ints of an int array UUID.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	return base.NewFlagSet(flag.NewFlagSet("convert", flag.ContinueOnError))
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if f.NArg() != 1 {
		c.UI.Error("expected exactly one UUID")
		return 1
	}

	id, err := entityid.Parse(f.Arg(0))
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	most, least := id.Halves()
	w := id.Words()
	c.UI.Output(fmt.Sprintf("Canonical:  %s", id))
	c.UI.Output(fmt.Sprintf("Raw:        %s", id.Raw()))
	c.UI.Output(fmt.Sprintf("UUIDMost:   %dL", most))
	c.UI.Output(fmt.Sprintf("UUIDLeast:  %dL", least))
	c.UI.Output(fmt.Sprintf("Int array:  [I; %d, %d, %d, %d]", w[0], w[1], w[2], w[3]))
	return 0
}
