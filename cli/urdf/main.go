// Package main is the urdf command itself.
package main

import (
	"fmt"
	"os"

	"github.com/bestman-robotics/robot-description/cli"
)

func main() {
	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
