package main

import (
	"fmt"
	"os"
	"os/user"

	"github.com/de-tools/license-atlas/pkg/runtime/terminal"
)

func main() {
	usr, _ := user.Current()
	registryPath := fmt.Sprintf("%s/.licenseatlas", usr.HomeDir)

	cli := terminal.NewCLI(terminal.Options{
		RegistryPath: registryPath,
		Output:       os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
