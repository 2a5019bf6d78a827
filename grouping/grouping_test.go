// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package grouping_test

import (
	"fmt"
	"image/color"
	"reflect"
	"strings"
	"testing"

	"github.com/ebalboa/phytrees/grouping"
)

func TestGroups(t *testing.T) {
	g := grouping.New()
	g.Add("G1", "A", "B")
	g.Add("G2", "C", "D")
	g.Add("G1", " E ")

	names := []string{"G1", "G2"}
	if got := g.Names(); !reflect.DeepEqual(got, names) {
		t.Errorf("names: got %v, want %v", got, names)
	}
	if g.Len() != 2 {
		t.Errorf("groups: got %d, want 2", g.Len())
	}

	members := []string{"A", "B", "E"}
	if got := g.Members("G1"); !reflect.DeepEqual(got, members) {
		t.Errorf("members of G1: got %v, want %v", got, members)
	}
	if got := g.Members("no-group"); got != nil {
		t.Errorf("members of undefined group: got %v", got)
	}

	lg := map[string]string{
		"A": "G1", "B": "G1", "E": "G1",
		"C": "G2", "D": "G2",
	}
	if got := g.LeafGroups(); !reflect.DeepEqual(got, lg) {
		t.Errorf("leaf groups: got %v, want %v", got, lg)
	}
}

func TestAddSpec(t *testing.T) {
	g := grouping.New()
	if err := g.AddSpec("G1:A, B"); err != nil {
		t.Fatalf("unable to parse group: %v", err)
	}
	if err := g.AddSpec("G1:C"); err != nil {
		t.Fatalf("unable to parse group: %v", err)
	}

	members := []string{"A", "B", "C"}
	if got := g.Members("G1"); !reflect.DeepEqual(got, members) {
		t.Errorf("members: got %v, want %v", got, members)
	}

	if err := g.AddSpec("no-separator"); err == nil {
		t.Errorf("expecting error on invalid group token")
	}
	if err := g.AddSpec(":A,B"); err == nil {
		t.Errorf("expecting error on empty group name")
	}
}

func TestLeafGroupsFirstWins(t *testing.T) {
	// a terminal listed in two groups
	// belongs to the first declared group
	g := grouping.New()
	g.Add("G1", "A", "B")
	g.Add("G2", "B", "C")

	lg := g.LeafGroups()
	if got := lg["B"]; got != "G1" {
		t.Errorf("group of B: got %q, want %q", got, "G1")
	}
}

func TestColors(t *testing.T) {
	g := grouping.New()
	g.Add("G1", "A")
	g.Add("G2", "B")
	g.SetColor("G2", color.RGBA{R: 255, A: 255})

	colors := g.Colors()
	if got := colors["G1"]; got != grouping.Tab10[0] {
		t.Errorf("color of G1: got %v, want %v", got, grouping.Tab10[0])
	}
	if got := colors["G2"]; got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("color of G2: got %v, want explicit red", got)
	}

	// determinism: a second call gives the same assignment
	if again := g.Colors(); !reflect.DeepEqual(again, colors) {
		t.Errorf("colors: got %v, want %v", again, colors)
	}
}

func TestColorsPaletteSwitch(t *testing.T) {
	g := grouping.New()
	for i := 0; i < 10; i++ {
		g.Add(fmt.Sprintf("G%d", i), fmt.Sprintf("sp%d", i))
	}

	colors := g.Colors()
	for i, name := range g.Names() {
		if got := colors[name]; got != grouping.Tab10[i] {
			t.Errorf("color of %s: got %v, want %v", name, got, grouping.Tab10[i])
		}
	}

	// an 11th group switches every group to the 20-color palette
	g.Add("G10", "sp10")
	colors = g.Colors()
	for i, name := range g.Names() {
		if got := colors[name]; got != grouping.Tab20[i] {
			t.Errorf("color of %s: got %v, want %v", name, got, grouping.Tab20[i])
		}
	}
}

func TestColorsPaletteWrap(t *testing.T) {
	g := grouping.New()
	for i := 0; i < 25; i++ {
		g.Add(fmt.Sprintf("G%d", i), fmt.Sprintf("sp%d", i))
	}

	colors := g.Colors()
	if got := colors["G20"]; got != grouping.Tab20[0] {
		t.Errorf("color of G20: got %v, want %v", got, grouping.Tab20[0])
	}
}

func TestParseColor(t *testing.T) {
	tests := map[string]struct {
		in    string
		want  color.RGBA
		valid bool
	}{
		"hash":     {in: "#1f77b4", want: color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 255}, valid: true},
		"bare":     {in: "d62728", want: color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 255}, valid: true},
		"upper":    {in: "#FF7F0E", want: color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 255}, valid: true},
		"short":    {in: "#fff"},
		"garbage":  {in: "not-a-color"},
		"bad-code": {in: "#zzzzzz"},
	}

	for name, test := range tests {
		c, err := grouping.ParseColor(test.in)
		if !test.valid {
			if err == nil {
				t.Errorf("%s: expecting error for %q", name, test.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
			continue
		}
		if c != test.want {
			t.Errorf("%s: got %v, want %v", name, c, test.want)
		}
	}
}

func TestReadCSV(t *testing.T) {
	blob := `sequence,group,color
ATP6_human,mammal,#1b9e77
ATP6_mouse,mammal,#1b9e77
ATP6_chicken,bird,#d95f02
ATP6_frog,amphibian,
`
	g, err := grouping.ReadCSV(strings.NewReader(blob))
	if err != nil {
		t.Fatalf("unable to read groups: %v", err)
	}

	names := []string{"mammal", "bird", "amphibian"}
	if got := g.Names(); !reflect.DeepEqual(got, names) {
		t.Errorf("names: got %v, want %v", got, names)
	}

	members := []string{"ATP6_human", "ATP6_mouse"}
	if got := g.Members("mammal"); !reflect.DeepEqual(got, members) {
		t.Errorf("members of mammal: got %v, want %v", got, members)
	}

	colors := g.Colors()
	if want := (color.RGBA{R: 0x1b, G: 0x9e, B: 0x77, A: 255}); colors["mammal"] != want {
		t.Errorf("color of mammal: got %v, want %v", colors["mammal"], want)
	}
	// no explicit color: amphibian takes its palette position
	if want := grouping.Tab10[2]; colors["amphibian"] != want {
		t.Errorf("color of amphibian: got %v, want %v", colors["amphibian"], want)
	}
}

func TestReadCSVErrors(t *testing.T) {
	if _, err := grouping.ReadCSV(strings.NewReader("sequence,kind\nA,x\n")); err == nil {
		t.Errorf("expecting error on missing group column")
	}
	if _, err := grouping.ReadCSV(strings.NewReader("sequence,group,color\nA,G1,purple\n")); err == nil {
		t.Errorf("expecting error on invalid color")
	}

	// malformed quoting is a read error
	if _, err := grouping.ReadCSV(strings.NewReader("sequence,group\n\"A,G1\n")); err == nil {
		t.Errorf("expecting error on unterminated quote")
	}
	if _, err := grouping.ReadCSV(strings.NewReader("sequence,group\nA\"x,G1\n")); err == nil {
		t.Errorf("expecting error on bare quote")
	}
	if _, err := grouping.ReadCSV(strings.NewReader("sequence,group\nA,G1,extra\n")); err == nil {
		t.Errorf("expecting error on wrong field count")
	}
}
