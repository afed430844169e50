//
// Copyright (C) 2023-2025 the misasm authors
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package contig

import (
	"github.com/biogo/hts/sam"
)

// Data accumulates the mapping evidence for one contig: a dense per-base
// coverage counter and a sparse map of clip-site positions to clip counts.
// Coverage is dense because nearly every position gets a counter; clip
// sites are sparse because clipping is rare relative to contig length.
type Data struct {
	Name     string
	Length   int
	Coverage []uint32
	Clipping map[int]uint32
}

func NewData(name string, length int) *Data {
	return &Data{
		Name:     name,
		Length:   length,
		Coverage: make([]uint32, length),
		Clipping: make(map[int]uint32),
	}
}

// AddClipping records one clip boundary at pos.
func (d *Data) AddClipping(pos int) {
	d.Clipping[pos]++
}

// Pool holds the contig registry from the alignment header and the
// per-contig accumulators, created lazily on the first mapped read.
type Pool struct {
	refs []*sam.Reference
	data map[int]*Data
}

func NewPool(refs []*sam.Reference) *Pool {
	return &Pool{refs: refs, data: make(map[int]*Data)}
}

// Get returns the accumulator for the reference ID, creating it with the
// declared contig length on first use.
func (p *Pool) Get(refID int) *Data {
	d, ok := p.data[refID]
	if !ok {
		ref := p.refs[refID]
		d = NewData(ref.Name(), ref.Len())
		p.data[refID] = d
	}
	return d
}

// Len returns the number of contigs with at least one mapped read.
func (p *Pool) Len() int {
	return len(p.data)
}

// Merge folds the accumulators of a worker shard into p. Shards are
// keyed by reference ID and disjoint, so entries move over as is.
func (p *Pool) Merge(o *Pool) {
	for refID, d := range o.data {
		p.data[refID] = d
	}
}

// Contigs returns the populated accumulators in header reference order.
func (p *Pool) Contigs() []*Data {
	contigs := make([]*Data, 0, len(p.data))
	for refID := range p.refs {
		if d, ok := p.data[refID]; ok {
			contigs = append(contigs, d)
		}
	}
	return contigs
}
