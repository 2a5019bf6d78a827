// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package build implements a command to build a phylogenetic tree
// from a fasta sequence file
// and draw the resulting tree.
package build

import (
	"context"
	"fmt"
	"os"

	"github.com/ebalboa/phytrees/cmd/phytrees/plot"
	"github.com/ebalboa/phytrees/pipeline"
	"github.com/ebalboa/phytrees/treeplot"
	"github.com/js-arias/command"
)

var Command = &command.Command{
	Usage: `build [--tree-file <tree-file>]
	[--alignment-file <alignment-file>]
	[--seq-type <type>] [-B|--bootstrap <number>]
	[--threads <number>] [--keep-all-files]
	[--visualization-style <style>]
	[-g|--group <name:member,...>] [--relation <relation-file>]
	[--cladogram] [--color-by-distance=false]
	[--dpi <number>] [--verbose]
	[-o|--output <out-prefix>]
	<fasta-file>`,
	Short: "build and draw a tree from a fasta file",
	Long: `
Command build reads a fasta file with at least three sequences, aligns the
sequences with MAFFT, infers a maximum likelihood tree with IQ-TREE, and
draws the resulting tree. Both programs must be installed and available on
the executable path.

The argument of the command is the name of the fasta file.

The alignment is written to the file given with the flag --alignment-file,
"aligned.fasta" by default, and the tree in newick format to the file given
with the flag --tree-file, "tree.nwk" by default.

The sequence type is detected from the sequence content. Use the flag
--seq-type with "dna", "rna", or "protein" to set it explicitly.

Use the flag -B, or --bootstrap, to set the number of ultrafast bootstrap
replicates of IQ-TREE; values under 1000 are raised to 1000. Use the flag
--threads to set the number of threads used by MAFFT and IQ-TREE.

By default, the alignment and the intermediate IQ-TREE files are removed
after a successful run; use the flag --keep-all-files to keep them.

The drawing flags are the same as in the plot command: see "phytrees help
plot" for their descriptions.
	`,
	SetFlags: setFlags,
	Run:      run,
}

type groupsFlag []string

func (g *groupsFlag) String() string { return fmt.Sprintf("%v", *g) }
func (g *groupsFlag) Set(v string) error {
	*g = append(*g, v)
	return nil
}

var treeFile string
var alignmentFile string
var seqType string
var bootstrap int
var threads int
var keepAll bool
var styleFlag string
var groupFlags groupsFlag
var relationFile string
var cladogram bool
var colorByDistance bool
var dpiFlag int
var verbose bool
var outPrefix string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&treeFile, "tree-file", "tree.nwk", "")
	c.Flags().StringVar(&alignmentFile, "alignment-file", "aligned.fasta", "")
	c.Flags().StringVar(&seqType, "seq-type", "", "")
	c.Flags().IntVar(&bootstrap, "bootstrap", pipeline.MinBootstrap, "")
	c.Flags().IntVar(&bootstrap, "B", pipeline.MinBootstrap, "")
	c.Flags().IntVar(&threads, "threads", 1, "")
	c.Flags().BoolVar(&keepAll, "keep-all-files", false, "")
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
		return c.UsageError("expecting fasta file")
	}
	input := args[0]

	lg := plot.NewLogger(c, verbose)
	groups, err := plot.ReadGroups(groupFlags, relationFile)
	if err != nil {
		return err
	}

	if err := pipeline.CheckDependencies(lg); err != nil {
		return err
	}

	recs, err := pipeline.ReadFastaFile(input)
	if err != nil {
		return err
	}
	lg.Info("sequences read", "file", input, "sequences", len(recs))
	if len(recs) < pipeline.MinSequences {
		return fmt.Errorf("at least %d sequences are required for phylogenetic analysis, file %q has %d", pipeline.MinSequences, input, len(recs))
	}

	st := pipeline.SeqType("")
	if seqType != "" {
		st, err = pipeline.ParseSeqType(seqType)
		if err != nil {
			return err
		}
		lg.Info("using user-specified sequence type", "type", st)
	} else {
		st = pipeline.DetectSequenceType(recs, lg)
	}

	ctx := context.Background()
	if err := pipeline.Align(ctx, input, alignmentFile, threads, lg); err != nil {
		return err
	}

	inferred, err := pipeline.InferTree(ctx, alignmentFile, st, bootstrap, threads, lg)
	if err != nil {
		return err
	}
	if inferred != treeFile {
		if err := os.Rename(inferred, treeFile); err != nil {
			return fmt.Errorf("while moving tree file to %q: %v", treeFile, err)
		}
	}
	lg.Info("tree file saved", "file", treeFile)

	o := treeplot.Options{
		Groups:     groups,
		GroupColor: !colorByDistance,
		Cladogram:  cladogram,
		DPI:        dpiFlag,
		Logger:     lg,
	}
	if err := plot.Draw(styleFlag, treeFile, outPrefix, o); err != nil {
		return err
	}

	if !keepAll {
		keep := map[string]bool{treeFile: true}
		pipeline.Cleanup(alignmentFile, keep, lg)
	}
	lg.Info("analysis completed successfully")
	return nil
}
