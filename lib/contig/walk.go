//
// Copyright (C) 2023-2025 the misasm authors
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package contig

import (
	"fmt"

	"github.com/biogo/hts/sam"
)

// Walk applies one mapped read to the accumulator of its contig: coverage
// over match-like spans, clip counts at clip boundaries. Unmapped records
// are skipped without mutating any state.
func Walk(r *sam.Record, d *Data) error {
	if r.Flags&sam.Unmapped != 0 {
		return nil
	}
	cursor := r.Pos
	for i, co := range r.Cigar {
		length := co.Len()
		switch co.Type() {
		case sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch:
			if cursor < 0 || cursor+length > d.Length {
				return fmt.Errorf("alignment of %s spans [%d,%d) past contig %s of length %d", r.Name, cursor, cursor+length, d.Name, d.Length)
			}
			for pos := cursor; pos < cursor+length; pos++ {
				d.Coverage[pos]++
			}
			cursor += length
		case sam.CigarDeletion:
			// Reference consumed, no read base aligned.
			cursor += length
		case sam.CigarSoftClipped, sam.CigarHardClipped:
			if i == 0 {
				// Leading clip. A read starting at the contig start is
				// not informative of a break.
				if cursor != 0 && cursor < d.Length {
					d.AddClipping(cursor)
				}
			} else if cursor < d.Length {
				// Trailing clip sits on the last covered base. A clip
				// exactly at the contig end is not informative either.
				pos := cursor - 1
				if pos < 0 {
					pos = 0
				}
				d.AddClipping(pos)
			}
		}
	}
	return nil
}
