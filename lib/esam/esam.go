//
// Copyright (C) 2023-2025 the misasm authors
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package esam

import (
	"os"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
)

// PathSAM stores Path to SAM (Binary=false) or BAM (Binary=true) file.
type PathSAM struct {
	Path   string
	Binary bool
}

// Open returns a record reader over the alignment file. For BAM input,
// nWorker sets the number of decompression workers.
func Open(p PathSAM, nWorker int) (f *os.File, rr sam.RecordReader, err error) {
	f, err = os.Open(p.Path)
	if err != nil {
		return f, rr, err
	}
	if p.Binary {
		rr, err = bam.NewReader(f, nWorker)
	} else {
		rr, err = sam.NewReader(f)
	}
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return f, rr, nil
}

// Header reads only the header of the alignment file.
func Header(p PathSAM) (*sam.Header, error) {
	f, rr, err := Open(p, 1)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	switch r := rr.(type) {
	case *bam.Reader:
		return r.Header(), nil
	case *sam.Reader:
		return r.Header(), nil
	}
	return nil, nil
}
