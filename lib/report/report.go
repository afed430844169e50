//
// Copyright (C) 2023-2025 the misasm authors
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package report

import (
	"math"
	"sort"

	"git.sr.ht/~asmkit/misasm/lib/contig"
	"git.sr.ht/~asmkit/misasm/lib/region"
)

// ClipRow is one qualifying clip site.
type ClipRow struct {
	Contig   string
	Length   int
	Pos      int
	RelPos   float64
	Cov      uint32
	Clipping uint32
	Ratio    float64
}

// ZeroRow is one zero-coverage window, 0-based half-open.
type ZeroRow struct {
	Contig string
	Length int
	Start  int
	End    int
}

func (z ZeroRow) Size() int {
	return z.End - z.Start
}

// ClipRows filters the accumulated clip sites into report rows. The ratio
// is clip count over coverage at the site; with no covering read the ratio
// is infinite and always passes the ratio threshold, since a clip site
// without a single spanning read is maximally suspicious. Sites within
// minDistToEnd of either contig end are dropped, as are sites inside an
// excluded region. Rows come out in header contig order, then position.
func ClipRows(pool *contig.Pool, minDistToEnd int, minClippingRatio float64, excl *region.Excluder) []ClipRow {
	var rows []ClipRow
	for _, d := range pool.Contigs() {
		positions := make([]int, 0, len(d.Clipping))
		for pos := range d.Clipping {
			positions = append(positions, pos)
		}
		sort.Ints(positions)
		for _, pos := range positions {
			clipping := d.Clipping[pos]
			cov := d.Coverage[pos]
			var ratio float64
			if cov == 0 {
				ratio = math.Inf(1)
			} else {
				ratio = float64(clipping) / float64(cov)
			}
			if ratio < minClippingRatio {
				continue
			}
			if pos <= minDistToEnd || d.Length-pos <= minDistToEnd {
				continue
			}
			if excl.Excluded(d.Name, pos, pos+1) {
				continue
			}
			rows = append(rows, ClipRow{
				Contig:   d.Name,
				Length:   d.Length,
				Pos:      pos,
				RelPos:   float64(pos) / float64(d.Length),
				Cov:      cov,
				Clipping: clipping,
				Ratio:    ratio,
			})
		}
	}
	return rows
}

// ZeroCovRows run-length-encodes the zero-coverage windows of every
// contig: a window opens on the first zero position, closes on the next
// nonzero position, and an open window at the end of the scan closes at
// the contig length.
func ZeroCovRows(pool *contig.Pool, excl *region.Excluder) []ZeroRow {
	var rows []ZeroRow
	for _, d := range pool.Contigs() {
		inWindow := false
		windowStart := 0
		emit := func(start, end int) {
			if !excl.Excluded(d.Name, start, end) {
				rows = append(rows, ZeroRow{Contig: d.Name, Length: d.Length, Start: start, End: end})
			}
		}
		for pos, cov := range d.Coverage {
			if cov == 0 && !inWindow {
				windowStart = pos
				inWindow = true
			} else if cov > 0 && inWindow {
				emit(windowStart, pos)
				inWindow = false
			}
		}
		if inWindow {
			emit(windowStart, d.Length)
		}
	}
	return rows
}
