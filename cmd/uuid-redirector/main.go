package main

import (
	"os"

	"github.com/hashicorp-forge/uuid-redirector/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
