// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package grouping provides named groups of terminals
// used to color a phylogenetic tree drawing.
//
// Groups preserve their insertion order,
// and that order defines the color of each group:
// an explicit color is used when given,
// otherwise the group takes the color at its position
// in a fixed palette
// (a 10-color palette,
// or a 20-color palette when there are more than 10 groups).
// Color resolution is fully deterministic:
// two calls with the same groups and explicit colors
// always produce the same assignment.
package grouping

import (
	"fmt"
	"image/color"
	"strings"
)

// Groups is an ordered collection of named groups of terminals.
type Groups struct {
	names   []string
	members map[string][]string
	colors  map[string]color.RGBA
}

// New creates a new empty set of groups.
func New() *Groups {
	return &Groups{
		members: make(map[string][]string),
		colors:  make(map[string]color.RGBA),
	}
}

// Add adds terminals to a group,
// creating the group if it is not already defined.
// Member names are stripped of surrounding spaces;
// empty names are ignored.
func (g *Groups) Add(name string, members ...string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	if _, ok := g.members[name]; !ok {
		g.names = append(g.names, name)
		g.members[name] = nil
	}
	for _, m := range members {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		g.members[name] = append(g.members[name], m)
	}
}

// AddSpec adds a group given as a command line token
// of the form "name:member1,member2,...".
// If the group is already defined,
// the members are appended to it.
func (g *Groups) AddSpec(spec string) error {
	name, list, ok := strings.Cut(spec, ":")
	if !ok || strings.TrimSpace(name) == "" {
		return fmt.Errorf("invalid group %q: expecting \"name:member1,member2,...\"", spec)
	}
	g.Add(name, strings.Split(list, ",")...)
	return nil
}

// SetColor sets an explicit color for a group.
// The group is created if it is not already defined.
func (g *Groups) SetColor(name string, c color.RGBA) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	if _, ok := g.members[name]; !ok {
		g.names = append(g.names, name)
		g.members[name] = nil
	}
	g.colors[name] = c
}

// Len returns the number of defined groups.
func (g *Groups) Len() int { return len(g.names) }

// Names returns the group names,
// in insertion order.
func (g *Groups) Names() []string {
	names := make([]string, len(g.names))
	copy(names, g.names)
	return names
}

// Members returns the terminals of a group,
// in insertion order.
func (g *Groups) Members(name string) []string {
	m, ok := g.members[name]
	if !ok {
		return nil
	}
	members := make([]string, len(m))
	copy(members, m)
	return members
}

// LeafGroups returns a map from terminal names
// to the name of the group that contains them.
// If a terminal is listed in more than one group,
// the first declared group wins.
func (g *Groups) LeafGroups() map[string]string {
	lg := make(map[string]string)
	for _, name := range g.names {
		for _, m := range g.members[name] {
			if _, ok := lg[m]; ok {
				continue
			}
			lg[m] = name
		}
	}
	return lg
}

// Colors returns a map from group names
// to their resolved colors.
// An explicit color is used verbatim;
// any other group takes the color of its insertion position
// in the default palette
// (see Palette).
func (g *Groups) Colors() map[string]color.RGBA {
	p := Palette(len(g.names))
	colors := make(map[string]color.RGBA, len(g.names))
	for i, name := range g.names {
		if c, ok := g.colors[name]; ok {
			colors[name] = c
			continue
		}
		colors[name] = p[i%len(p)]
	}
	return colors
}

// ParseColor parses an hexadecimal color
// of the form "#RRGGBB"
// (the leading '#' is optional).
func ParseColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}

	var v [3]uint8
	for i := range v {
		d, err := hexByte(h[i*2], h[i*2+1])
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color %q", s)
		}
		v[i] = d
	}
	return color.RGBA{R: v[0], G: v[1], B: v[2], A: 255}, nil
}

func hexByte(hi, lo byte) (uint8, error) {
	h, err := hexDigit(hi)
	if err != nil {
		return 0, err
	}
	l, err := hexDigit(lo)
	if err != nil {
		return 0, err
	}
	return h<<4 | l, nil
}

func hexDigit(b byte) (uint8, error) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', nil
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, nil
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, nil
	}
	return 0, fmt.Errorf("invalid hexadecimal digit %q", b)
}
