// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package plot implements a command to draw
// a newick tree file in one or all visualization styles.
package plot

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/ebalboa/phytrees/grouping"
	"github.com/ebalboa/phytrees/treeplot"
	"github.com/js-arias/command"
)

var Command = &command.Command{
	Usage: `plot [--visualization-style <style>]
	[-g|--group <name:member,...>] [--relation <relation-file>]
	[--cladogram] [--color-by-distance=false]
	[--dpi <number>] [--verbose]
	[-o|--output <out-prefix>]
	<tree-file>`,
	Short: "draw a tree file as PNG and PDF images",
	Long: `
Command plot reads a phylogenetic tree from a newick file and draws it into a
PNG file and a PDF file with the same base name.

The argument of the command is the name of the tree file.

By default, a circular drawing is produced. Use the flag
--visualization-style to select the style, one of "circular", "rectangular",
"radial", "heatmap", or "all". With "all", the six style variants (circular,
rectangular phylogram and cladogram, radial phylogram and cladogram, and
heatmap) are drawn, each on its own pair of files, and the command fails if
any of them fails.

Terminals can be grouped for coloring and for the drawing legend. Use the
flag -g, or --group, with the format "name:member1,member2,..."; the flag can
be given multiple times. Use the flag --relation to read groups from a CSV
file with the columns "sequence" and "group", and an optional "color" column
with an hexadecimal "#RRGGBB" value. Groups without an explicit color take
colors from a fixed palette in declaration order. A terminal assigned to
multiple groups stays in the first declared one.

In the rectangular and radial styles branches are colored by a branch length
gradient; use --color-by-distance=false to color by group membership instead.
The circular and heatmap styles always color by group.

If the flag --cladogram is given, the rectangular and radial styles draw every
branch as a unit step, ignoring branch lengths.

By default, the tree file name without its extension is used as the prefix of
the output files. Use the flag -o, or --output, to set a different prefix.

Images are rendered at 800 DPI; use the flag --dpi to change the resolution.
The flag --verbose enables debug logging.
	`,
	SetFlags: setFlags,
	Run:      run,
}

// A GroupsFlag accumulates repeated -g flags.
type groupsFlag []string

func (g *groupsFlag) String() string { return strings.Join(*g, " ") }
func (g *groupsFlag) Set(v string) error {
	*g = append(*g, v)
	return nil
}

var styleFlag string
var groupFlags groupsFlag
var relationFile string
var cladogram bool
var colorByDistance bool
var dpiFlag int
var verbose bool
var outPrefix string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&styleFlag, "visualization-style", "circular", "")
	c.Flags().Var(&groupFlags, "group", "")
	c.Flags().Var(&groupFlags, "g", "")
	c.Flags().StringVar(&relationFile, "relation", "", "")
	c.Flags().BoolVar(&cladogram, "cladogram", false, "")
	c.Flags().BoolVar(&colorByDistance, "color-by-distance", true, "")
	c.Flags().IntVar(&dpiFlag, "dpi", treeplot.DefaultDPI, "")
	c.Flags().BoolVar(&verbose, "verbose", false, "")
	c.Flags().StringVar(&outPrefix, "output", "", "")
	c.Flags().StringVar(&outPrefix, "o", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting tree file")
	}
	treeFile := args[0]

	lg := NewLogger(c, verbose)
	groups, err := ReadGroups(groupFlags, relationFile)
	if err != nil {
		return err
	}

	o := treeplot.Options{
		Groups:     groups,
		GroupColor: !colorByDistance,
		Cladogram:  cladogram,
		DPI:        dpiFlag,
		Logger:     lg,
	}
	return Draw(styleFlag, treeFile, outPrefix, o)
}

// NewLogger returns a logger writing to the command standard error.
func NewLogger(c *command.Command, verbose bool) *log.Logger {
	lv := log.InfoLevel
	if verbose {
		lv = log.DebugLevel
	}
	return log.NewWithOptions(c.Stderr(), log.Options{
		ReportTimestamp: true,
		Level:           lv,
	})
}

// ReadGroups collects the terminal groups
// given with repeated -g flags
// and defined in a relation file.
func ReadGroups(specs []string, relationFile string) (*grouping.Groups, error) {
	var groups *grouping.Groups
	if relationFile != "" {
		g, err := grouping.ReadCSVFile(relationFile)
		if err != nil {
			return nil, err
		}
		groups = g
	}
	if len(specs) > 0 {
		if groups == nil {
			groups = grouping.New()
		}
		for _, spec := range specs {
			if err := groups.AddSpec(spec); err != nil {
				return nil, err
			}
		}
	}
	return groups, nil
}

// Draw renders a tree file in the named style,
// or in all styles if the style is "all".
// An empty output prefix defaults
// to the tree file name without its extension.
func Draw(style, treeFile, prefix string, o treeplot.Options) error {
	if prefix == "" {
		prefix = trimExt(treeFile)
	}

	if strings.ToLower(strings.TrimSpace(style)) == "all" {
		_, err := treeplot.RenderAll(treeFile, prefix, o)
		return err
	}

	st, err := treeplot.ParseStyle(style)
	if err != nil {
		return err
	}
	return treeplot.Render(st, treeFile, fmt.Sprintf("%s_%s", prefix, st), o)
}

func trimExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
