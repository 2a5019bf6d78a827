// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package grouping

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadCSV reads a set of groups from a CSV file.
//
// The file must contain the following columns:
//
//   - sequence, the name of a terminal
//   - group, the name of the group of the terminal
//
// An optional "color" column sets an explicit color
// for the group of the row,
// as an hexadecimal "#RRGGBB" value.
//
// Here is an example file:
//
//	sequence,group,color
//	ATP6_human,mammal,#1b9e77
//	ATP6_mouse,mammal,#1b9e77
//	ATP6_chicken,bird,#d95f02
func ReadCSV(r io.Reader) (*Groups, error) {
	tab := csv.NewReader(r)
	tab.Comment = '#'
	tab.TrimLeadingSpace = true

	head, err := tab.Read()
	if err != nil {
		return nil, fmt.Errorf("while reading header: %v", err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(strings.TrimSpace(h))
		fields[h] = i
	}
	for _, h := range []string{"sequence", "group"} {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("expecting column %q", h)
		}
	}

	g := New()
	for {
		row, err := tab.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// on a quoting error the reader returns no record,
			// so the field positions are not queried
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, fmt.Errorf("on row %d: %v", pe.Line, pe.Err)
			}
			return nil, fmt.Errorf("while reading rows: %v", err)
		}
		ln, _ := tab.FieldPos(0)

		seq := strings.TrimSpace(row[fields["sequence"]])
		if seq == "" {
			continue
		}
		name := strings.TrimSpace(row[fields["group"]])
		if name == "" {
			continue
		}
		g.Add(name, seq)

		if f, ok := fields["color"]; ok {
			v := strings.TrimSpace(row[f])
			if v == "" {
				continue
			}
			c, err := ParseColor(v)
			if err != nil {
				return nil, fmt.Errorf("on row %d: %v", ln, err)
			}
			g.SetColor(name, c)
		}
	}
	return g, nil
}

// ReadCSVFile reads a set of groups from a CSV file
// with the given name.
func ReadCSVFile(name string) (*Groups, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}
	return g, nil
}
