//
// Copyright (C) 2023-2025 the misasm authors
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package contig

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestPoolLazyCreation(t *testing.T) {
	c := qt.New(t)
	refs := testRefs(c, 1000, 500)
	pool := NewPool(refs)

	// No accumulator exists until a contig is touched.
	c.Assert(pool.Len(), qt.Equals, 0)

	d := pool.Get(1)
	c.Assert(d.Name, qt.Equals, refs[1].Name())
	c.Assert(d.Length, qt.Equals, 500)
	c.Assert(d.Coverage, qt.HasLen, 500)
	c.Assert(pool.Len(), qt.Equals, 1)

	// Second touch returns the same accumulator.
	d.Coverage[42] = 7
	c.Assert(pool.Get(1).Coverage[42], qt.Equals, uint32(7))
	c.Assert(pool.Len(), qt.Equals, 1)
}

func TestPoolContigsHeaderOrder(t *testing.T) {
	c := qt.New(t)
	refs := testRefs(c, 100, 200, 300)
	pool := NewPool(refs)
	pool.Get(2)
	pool.Get(0)

	contigs := pool.Contigs()
	c.Assert(contigs, qt.HasLen, 2)
	c.Assert(contigs[0].Name, qt.Equals, refs[0].Name())
	c.Assert(contigs[1].Name, qt.Equals, refs[2].Name())
}

func TestPoolMerge(t *testing.T) {
	c := qt.New(t)
	refs := testRefs(c, 100, 200)
	shard1 := NewPool(refs)
	shard2 := NewPool(refs)
	shard1.Get(0).AddClipping(10)
	shard2.Get(1).Coverage[0] = 3

	pool := NewPool(refs)
	pool.Merge(shard1)
	pool.Merge(shard2)
	c.Assert(pool.Len(), qt.Equals, 2)
	c.Assert(pool.Get(0).Clipping[10], qt.Equals, uint32(1))
	c.Assert(pool.Get(1).Coverage[0], qt.Equals, uint32(3))
}

func TestAddClipping(t *testing.T) {
	c := qt.New(t)
	d := NewData("contig", 100)
	d.AddClipping(5)
	d.AddClipping(5)
	d.AddClipping(9)
	c.Assert(d.Clipping, qt.DeepEquals, map[int]uint32{5: 2, 9: 1})
}
