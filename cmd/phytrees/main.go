// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// PhyTrees is a tool to build and draw phylogenetic trees.
package main

import (
	"github.com/ebalboa/phytrees/cmd/phytrees/build"
	"github.com/ebalboa/phytrees/cmd/phytrees/plot"
	"github.com/js-arias/command"
)

var app = &command.Command{
	Usage: "phytrees <command> [<argument>...]",
	Short: "a tool to build and draw phylogenetic trees",
}

func init() {
	app.Add(build.Command)
	app.Add(plot.Command)
}

func main() {
	app.Main()
}
