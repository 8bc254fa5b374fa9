// Command blogctl is a terminal client for the Inkpost API.
package main

import (
	"fmt"
	"os"

	"github.com/inkpost/inkpost/cmd/blogctl/cli"
)

func main() {
	if err := cli.NewRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
