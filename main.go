package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"code.cloudfoundry.org/aib/cmd"
)

var version string

func main() {
	if err := cmd.Execute(version); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("%v", err))
		os.Exit(1)
	}
}
