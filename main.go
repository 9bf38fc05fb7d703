package main

import (
	"github.com/kayz/sift/cmd"
	_ "go.uber.org/automaxprocs"
)

// Build is set via ldflags at build time
var Build = "unknown"

func main() {
	cmd.SetBuild(Build)
	cmd.Execute()
}
