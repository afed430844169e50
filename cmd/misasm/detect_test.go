//
// Copyright (C) 2023-2025 the misasm authors
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"git.sr.ht/~asmkit/misasm/lib/esam"
)

const testSAM = "@HD\tVN:1.6\n" +
	"@SQ\tSN:tig1\tLN:1000\n" +
	"read1\t0\ttig1\t101\t60\t800M\t*\t0\t0\t*\t*\n" +
	"read2\t0\ttig1\t401\t60\t10S100M10S\t*\t0\t0\t*\t*\n" +
	"read3\t4\t*\t0\t0\t*\t*\t0\t0\t*\t*\n"

func TestDetect(t *testing.T) {
	c := qt.New(t)
	dir := t.TempDir()
	pathSAM := filepath.Join(dir, "reads.sam")
	c.Assert(os.WriteFile(pathSAM, []byte(testSAM), 0666), qt.IsNil)
	prefix := filepath.Join(dir, "out")
	pathReport := filepath.Join(dir, "report.json")

	nAlign, err := Detect(esam.PathSAM{Path: pathSAM}, prefix, 100, 0.5, "", "", pathReport, 1, time.Now(), 0)
	c.Assert(err, qt.IsNil)
	c.Assert(nAlign, qt.Equals, uint64(3))

	clipping, err := os.ReadFile(prefix + "-clipping.txt")
	c.Assert(err, qt.IsNil)
	c.Assert(string(clipping), qt.Equals, "contig\tlength\tpos\trelative_pos\tcov\tclipping\tclipping_ratio\n"+
		"tig1\t1000\t400\t0.4\t2\t1\t0.5\n"+
		"tig1\t1000\t499\t0.499\t2\t1\t0.5\n")

	zeroCov, err := os.ReadFile(prefix + "-zero_cov.txt")
	c.Assert(err, qt.IsNil)
	c.Assert(string(zeroCov), qt.Equals, "contig\tlength\trange\trange_size\n"+
		"tig1\t1000\t0-100\t100\n"+
		"tig1\t1000\t900-1000\t100\n")

	rawReport, err := os.ReadFile(pathReport)
	c.Assert(err, qt.IsNil)
	var runReport map[string]uint64
	c.Assert(json.Unmarshal(rawReport, &runReport), qt.IsNil)
	c.Assert(runReport, qt.DeepEquals, map[string]uint64{
		"alignments":        3,
		"alignments_mapped": 2,
		"reads_unique":      2,
		"contigs_covered":   1,
	})
}

func TestDetectHighRatioThreshold(t *testing.T) {
	c := qt.New(t)
	dir := t.TempDir()
	pathSAM := filepath.Join(dir, "reads.sam")
	c.Assert(os.WriteFile(pathSAM, []byte(testSAM), 0666), qt.IsNil)
	prefix := filepath.Join(dir, "out")

	_, err := Detect(esam.PathSAM{Path: pathSAM}, prefix, 100, 1.0, "", "", "", 1, time.Now(), 0)
	c.Assert(err, qt.IsNil)

	clipping, err := os.ReadFile(prefix + "-clipping.txt")
	c.Assert(err, qt.IsNil)
	c.Assert(string(clipping), qt.Equals, "contig\tlength\tpos\trelative_pos\tcov\tclipping\tclipping_ratio\n")
}

func TestAddCommas(t *testing.T) {
	c := qt.New(t)
	c.Assert(AddCommas("123"), qt.Equals, "123")
	c.Assert(AddCommas("1234"), qt.Equals, "1,234")
	c.Assert(AddCommas("1234567"), qt.Equals, "1,234,567")
}
