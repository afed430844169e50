//
// Copyright (C) 2023-2025 the misasm authors
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package region

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/biogo/store/interval"
)

// Region is a 0-based half-open interval on a contig.
type Region struct {
	Contig string
	Start  int
	End    int
}

// IntInterval adapts a Region to the interval tree.
type IntInterval struct {
	Start, End int
	UID        uintptr
}

func (i IntInterval) Overlap(b interval.IntRange) bool {
	// Half-open interval indexing.
	return i.End > b.Start && i.Start < b.End
}

func (i IntInterval) ID() uintptr {
	return i.UID
}

func (i IntInterval) Range() interval.IntRange {
	return interval.IntRange{Start: i.Start, End: i.End}
}

func (i IntInterval) String() string {
	return fmt.Sprintf("[%d,%d)#%d", i.Start, i.End, i.UID)
}

// Excluder answers whether an interval overlaps any excluded region,
// with one tree per contig.
type Excluder struct {
	trees map[string]*interval.IntTree
}

// Open parses a BED file (contig, start, end in the first three columns)
// into regions. Lines starting with "#" or "track" are skipped.
func Open(path string) (regions []Region, err error) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "track") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			return regions, fmt.Errorf("BED line with %d column(s) in %s", len(fields), path)
		}
		start, err := strconv.Atoi(fields[1])
		if err != nil {
			return regions, err
		}
		end, err := strconv.Atoi(fields[2])
		if err != nil {
			return regions, err
		}
		regions = append(regions, Region{Contig: fields[0], Start: start, End: end})
	}
	if err = scanner.Err(); err != nil {
		return
	}
	return
}

// Build indexes regions into per-contig interval trees.
func Build(regions []Region) (*Excluder, error) {
	trees := make(map[string]*interval.IntTree)
	for i, reg := range regions {
		tree, ok := trees[reg.Contig]
		if !ok {
			tree = &interval.IntTree{}
			trees[reg.Contig] = tree
		}
		iv := IntInterval{Start: reg.Start, End: reg.End, UID: uintptr(i)}
		if err := tree.Insert(iv, false); err != nil {
			return nil, err
		}
	}
	for _, tree := range trees {
		tree.AdjustRanges()
	}
	return &Excluder{trees: trees}, nil
}

// Excluded reports whether [start,end) on contig overlaps any region.
// A nil Excluder excludes nothing.
func (e *Excluder) Excluded(contig string, start, end int) bool {
	if e == nil {
		return false
	}
	tree, ok := e.trees[contig]
	if !ok {
		return false
	}
	return len(tree.Get(IntInterval{Start: start, End: end})) > 0
}
