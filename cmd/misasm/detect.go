//
// Copyright (C) 2023-2025 the misasm authors
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"git.sr.ht/~asmkit/misasm/lib/contig"
	"git.sr.ht/~asmkit/misasm/lib/esam"
	"git.sr.ht/~asmkit/misasm/lib/region"
	"git.sr.ht/~asmkit/misasm/lib/report"

	"github.com/biogo/hts/sam"

	"golang.org/x/sync/errgroup"

	"gopkg.in/fatih/set.v0"
)

const batchLength = 64

// AddCommas adds commas after every 3 characters.
func AddCommas(s string) string {
	if len(s) <= 3 {
		return s
	} else {
		return AddCommas(s[0:len(s)-3]) + "," + s[len(s)-3:]
	}
}

func Max(x, y int) int {
	if x > y {
		return x
	}
	return y
}

// Detect streams the alignment file once, accumulating per-contig coverage
// and clip sites, then writes the clip-site and zero-coverage tables.
// Records are sharded to workers by reference ID so each accumulator has a
// single writer; shards merge once the stream is exhausted.
func Detect(pathSAM esam.PathSAM, outputPrefix string, minDistToEnd int, minClippingRatio float64, pathExclude string, compress string, pathReport string, nWorker int, timeStart time.Time, verboseLevel int) (nAlign uint64, err error) {
	// Workers
	nWorker1 := Max(1, nWorker/2)
	nWorker2 := Max(1, nWorker-nWorker1)

	// Contig registry from header metadata
	header, err := esam.Header(pathSAM)
	if err != nil {
		return nAlign, err
	}
	refs := header.Refs()

	// Exclude regions
	var excl *region.Excluder
	if pathExclude != "" {
		regions, err := region.Open(pathExclude)
		if err != nil {
			return nAlign, err
		}
		excl, err = region.Build(regions)
		if err != nil {
			return nAlign, err
		}
		if verboseLevel > 0 {
			timeNow := time.Now()
			fmt.Printf("%.1fmin - Excluding %d region(s)\n", timeNow.Sub(timeStart).Minutes(), len(regions))
		}
	}

	// Per-worker accumulator shards and channels
	shards := make([]*contig.Pool, nWorker2)
	chAln := make([]chan []*sam.Record, nWorker2)
	for i := 0; i < nWorker2; i++ {
		shards[i] = contig.NewPool(refs)
		chAln[i] = make(chan []*sam.Record, nWorker2*10)
	}

	// Unique mapped read names
	readNames := set.New(set.ThreadSafe)

	var nMapped uint64

	// Init context
	ctx := context.Background()
	// Start sync errgroup
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer func() {
			for i := 0; i < nWorker2; i++ {
				close(chAln[i])
			}
		}()
		timeLog := time.Now()
		if verboseLevel > 0 {
			timeNow := time.Now()
			fmt.Printf("%.1fmin - Opening %s\n", timeNow.Sub(timeStart).Minutes(), pathSAM.Path)
		}
		// Open SAM/BAM
		f, rr, err := esam.Open(pathSAM, nWorker1)
		if err != nil {
			return err
		}
		defer f.Close()

		// Loop over reads
		batches := make([][]*sam.Record, nWorker2)
		for {
			// Next read
			aread, err := rr.Read()
			if err == io.EOF {
				break
			} else if err != nil {
				return err
			}
			nAlign++
			// Ignore unmapped read
			if aread.Flags&sam.Unmapped != 0 {
				continue
			}
			nMapped++
			iw := aread.RefID() % nWorker2
			batches[iw] = append(batches[iw], aread)
			if len(batches[iw]) == batchLength {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case chAln[iw] <- batches[iw]:
				}
				batches[iw] = nil
			}

			if verboseLevel > 0 {
				timeNow := time.Now()
				if timeNow.Sub(timeLog).Minutes() > 1. {
					fmt.Printf("%.1fmin - %s align. - %.2f Ma/hr\n", timeNow.Sub(timeStart).Minutes(), AddCommas(strconv.FormatUint(nAlign, 10)), (float64(nAlign)/timeNow.Sub(timeStart).Hours())/1000000.)
					timeLog = timeNow
				}
			}
		}
		// Send last batches
		for iw := 0; iw < nWorker2; iw++ {
			if len(batches[iw]) > 0 {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case chAln[iw] <- batches[iw]:
				}
			}
		}
		return nil
	})

	// Spawn worker goroutine(s)
	for i := 0; i < nWorker2; i++ {
		i := i
		g.Go(func() error {
			for batch := range chAln[i] {
				for _, aread := range batch {
					d := shards[i].Get(aread.RefID())
					if err := contig.Walk(aread, d); err != nil {
						return err
					}
					readNames.Add(aread.Name)
				}
			}
			return nil
		})
	}

	err = g.Wait()
	if err != nil {
		return nAlign, err
	}

	// Merge worker shards
	pool := contig.NewPool(refs)
	for i := 0; i < nWorker2; i++ {
		pool.Merge(shards[i])
	}

	// Output: Clipping
	clipRows := report.ClipRows(pool, minDistToEnd, minClippingRatio, excl)
	pathClipping := outputPrefix + "-clipping.txt" + report.Suffix(compress)
	if verboseLevel > 0 {
		timeNow := time.Now()
		fmt.Printf("%.1fmin - Writing %d clip site(s) to %s\n", timeNow.Sub(timeStart).Minutes(), len(clipRows), pathClipping)
	}
	if err = report.WriteClipping(pathClipping, clipRows, compress); err != nil {
		return nAlign, err
	}
	// Output: Zero coverage
	zeroRows := report.ZeroCovRows(pool, excl)
	pathZeroCov := outputPrefix + "-zero_cov.txt" + report.Suffix(compress)
	if verboseLevel > 0 {
		timeNow := time.Now()
		fmt.Printf("%.1fmin - Writing %d zero-coverage window(s) to %s\n", timeNow.Sub(timeStart).Minutes(), len(zeroRows), pathZeroCov)
	}
	if err = report.WriteZeroCov(pathZeroCov, zeroRows, compress); err != nil {
		return nAlign, err
	}
	// Output: Report
	if pathReport != "" {
		err = WriteReport(pathReport, nAlign, nMapped, uint64(readNames.Size()), pool.Len())
		if err != nil {
			return nAlign, err
		}
	}

	return nAlign, nil
}
