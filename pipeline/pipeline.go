// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package pipeline runs the external programs
// that build a phylogenetic tree from raw sequences:
// MAFFT for the multiple sequence alignment,
// and IQ-TREE for the maximum likelihood tree inference.
package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// A SeqType is the molecular type of a sequence collection.
type SeqType string

// Valid sequence types.
const (
	DNA     SeqType = "dna"
	RNA     SeqType = "rna"
	Protein SeqType = "protein"
)

// ParseSeqType returns the sequence type
// named by a command line argument.
func ParseSeqType(s string) (SeqType, error) {
	switch st := SeqType(strings.ToLower(strings.TrimSpace(s))); st {
	case DNA, RNA, Protein:
		return st, nil
	}
	return "", fmt.Errorf("unknown sequence type %q", s)
}

// ErrMissingTool is returned by CheckDependencies
// when an external program is not installed.
var ErrMissingTool = errors.New("required tool not found in PATH")

// Names of the external programs.
const (
	mafftTool  = "mafft"
	iqtreeTool = "iqtree3"
)

// CheckDependencies reports whether MAFFT and IQ-TREE
// are available on the executable path.
func CheckDependencies(lg *log.Logger) error {
	lg = logger(lg)
	for _, tool := range []string{mafftTool, iqtreeTool} {
		if _, err := exec.LookPath(tool); err != nil {
			lg.Error("missing external dependency", "tool", tool)
			return fmt.Errorf("%w: %q", ErrMissingTool, tool)
		}
	}
	lg.Info("all external dependencies (MAFFT, IQ-TREE) are available")
	return nil
}

// A Record is a named sequence read from a fasta file.
type Record struct {
	Name string
	Seq  string
}

// MinSequences is the smallest collection
// that admits a phylogenetic analysis.
const MinSequences = 3

// ReadFasta reads a collection of sequences in fasta format.
// The record name is the first space delimited token
// of the header line.
func ReadFasta(r io.Reader) ([]Record, error) {
	var recs []Record
	var seq strings.Builder

	closeRec := func() {
		if len(recs) == 0 {
			return
		}
		recs[len(recs)-1].Seq = seq.String()
		seq.Reset()
	}

	ln := 0
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			closeRec()
			name, _, _ := strings.Cut(strings.TrimSpace(line[1:]), " ")
			if name == "" {
				return nil, fmt.Errorf("fasta: line %d: header without a sequence name", ln)
			}
			recs = append(recs, Record{Name: name})
			continue
		}
		if len(recs) == 0 {
			return nil, fmt.Errorf("fasta: line %d: sequence data before any header", ln)
		}
		seq.WriteString(line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("fasta: %v", err)
	}
	closeRec()

	if len(recs) == 0 {
		return nil, errors.New("fasta: no sequences found")
	}
	return recs, nil
}

// ReadFastaFile reads a collection of sequences
// from a fasta file.
func ReadFastaFile(name string) ([]Record, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	recs, err := ReadFasta(f)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}
	return recs, nil
}

// Characters exclusive to amino acid sequences.
// U (selenocysteine) is not included,
// as it would shadow the uracil of every RNA sequence.
const proteinChars = "EFILPQXZJO*"

// Characters admitted in a nucleotide sequence,
// including gaps and ambiguity codes.
const nucleotideChars = "ACGTUN-.X"

// DetectSequenceType guesses the molecular type
// of a sequence collection:
// a residue exclusive to amino acids means protein;
// a pure nucleotide alphabet with U and without T means RNA;
// any other pure nucleotide alphabet means DNA.
// An unrecognized alphabet defaults to protein.
func DetectSequenceType(recs []Record, lg *log.Logger) SeqType {
	lg = logger(lg)

	chars := make(map[rune]bool)
	for _, r := range recs {
		for _, c := range strings.ToUpper(r.Seq) {
			chars[c] = true
		}
	}

	for _, c := range proteinChars {
		if chars[c] {
			lg.Info("detected protein sequences")
			return Protein
		}
	}

	nucleotide := true
	for c := range chars {
		if !strings.ContainsRune(nucleotideChars, c) {
			nucleotide = false
			break
		}
	}
	if nucleotide {
		if chars['U'] && !chars['T'] {
			lg.Info("detected RNA sequences")
			return RNA
		}
		lg.Info("detected DNA sequences")
		return DNA
	}

	lg.Info("could not reliably detect sequence type, defaulting to protein")
	return Protein
}

// Align runs MAFFT on a fasta file,
// writing the alignment to the output file.
func Align(ctx context.Context, input, output string, threads int, lg *log.Logger) error {
	lg = logger(lg)
	if threads < 1 {
		threads = 1
	}

	cmd := exec.CommandContext(ctx, mafftTool, "--thread", strconv.Itoa(threads), "--auto", input)
	lg.Info("starting MAFFT alignment", "cmd", strings.Join(cmd.Args, " "))

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		lg.Error("MAFFT failed", "error", err, "stderr", stderr.String())
		return fmt.Errorf("mafft: %v", err)
	}
	if stderr.Len() > 0 {
		lg.Debug("MAFFT stderr", "output", stderr.String())
	}

	if err := os.WriteFile(output, out.Bytes(), 0644); err != nil {
		return fmt.Errorf("mafft: while writing file %q: %v", output, err)
	}
	lg.Info("MAFFT alignment completed", "output", output)
	return nil
}

// MinBootstrap is the smallest number
// of ultrafast bootstrap replicates accepted by IQ-TREE.
const MinBootstrap = 1000

// InferTree runs IQ-TREE on an alignment file
// and returns the name of the resulting newick tree file.
// Bootstrap replicate counts below MinBootstrap are raised to it.
func InferTree(ctx context.Context, alignment string, st SeqType, bootstrap, threads int, lg *log.Logger) (string, error) {
	lg = logger(lg)
	if threads < 1 {
		threads = 1
	}
	if bootstrap < MinBootstrap {
		bootstrap = MinBootstrap
	}

	iqType := "DNA"
	if st == Protein {
		iqType = "AA"
	}
	prefix := TrimExt(alignment)

	cmd := exec.CommandContext(ctx, iqtreeTool,
		"-s", alignment,
		"-st", iqType,
		"-m", "MFP",
		"-B", strconv.Itoa(bootstrap),
		"-T", strconv.Itoa(threads),
		"-pre", prefix,
	)
	lg.Info("starting IQ-TREE construction", "cmd", strings.Join(cmd.Args, " "))

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		lg.Error("IQ-TREE failed", "error", err, "stderr", stderr.String())
		return "", fmt.Errorf("iqtree: %v", err)
	}
	if stderr.Len() > 0 {
		lg.Warn("IQ-TREE stderr", "output", stderr.String())
	}

	treeFile := prefix + ".treefile"
	if _, err := os.Stat(treeFile); err != nil {
		return "", fmt.Errorf("iqtree: finished but tree file %q was not found", treeFile)
	}
	lg.Info("IQ-TREE construction completed", "tree", treeFile)
	return treeFile, nil
}

// Intermediate files left behind by an IQ-TREE run.
var iqtreeExts = []string{
	".log", ".iqtree", ".bionj", ".mldist",
	".model.gz", ".ckp.gz", ".ufboot", ".contree",
}

// Cleanup removes the alignment file
// and the intermediate IQ-TREE artifacts of a run,
// except the files named in keep.
func Cleanup(alignment string, keep map[string]bool, lg *log.Logger) {
	lg = logger(lg)
	lg.Info("cleaning up intermediate files")

	files := []string{alignment}
	prefix := TrimExt(alignment)
	for _, ext := range iqtreeExts {
		files = append(files, prefix+ext)
	}

	for _, file := range files {
		if keep[file] {
			continue
		}
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := os.Remove(file); err != nil {
			lg.Warn("unable to remove file", "file", file, "error", err)
			continue
		}
		lg.Info("removed intermediate file", "file", file)
	}
}

// TrimExt returns a file name without its extension.
func TrimExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func logger(lg *log.Logger) *log.Logger {
	if lg == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return lg
}
