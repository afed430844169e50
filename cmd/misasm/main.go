//
// Copyright (C) 2023-2025 the misasm authors
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"git.sr.ht/~asmkit/misasm/lib/esam"
)

var version = "DEV"

func main() {
	// Arguments: General
	var pathReport, compress string
	var nWorker, verboseLevel int
	var verbose, printVersion bool
	flag.StringVar(&pathReport, "path_report", "", "Write run report to path (stdout with -)")
	flag.StringVar(&compress, "compress", "", "Compress output tables: 'lz4', 'lz4hc' or 'gzip' (default none)")
	flag.IntVar(&nWorker, "num_worker", 1, "Number of worker(s)")
	flag.IntVar(&verboseLevel, "verbose_level", 0, "Verbose level")
	flag.BoolVar(&verbose, "verbose", false, "Verbose")
	flag.BoolVar(&printVersion, "version", false, "Print version and quit")
	// Arguments: Input
	var pathBAM, pathSAMRaw, pathExclude string
	flag.StringVar(&pathBAM, "path_bam", "", "Path to BAM file of long reads mapped to their own assembly")
	flag.StringVar(&pathSAMRaw, "path_sam", "", "Path to SAM file of long reads mapped to their own assembly")
	flag.StringVar(&pathExclude, "path_exclude", "", "Path to BED file of regions to exclude from reports")
	// Arguments: Detection
	var outputPrefix string
	var minDistToEnd int
	var minClippingRatio float64
	var justDoIt bool
	flag.StringVar(&outputPrefix, "output_prefix", "", "Prefix for output files")
	flag.IntVar(&minDistToEnd, "min_dist_to_end", 100, "Minimum distance from contig ends to report a clip site")
	flag.Float64Var(&minClippingRatio, "min_clipping_ratio", 1.0, "Minimum ratio of clipped reads to coverage to report")
	flag.BoolVar(&justDoIt, "just_do_it", false, "Confirm the input maps long reads onto their own assembly")
	// Arguments: Parse
	flag.Parse()

	// Version
	if printVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Verbose
	if verbose && verboseLevel == 0 {
		verboseLevel = 1
	}

	// Max CPU
	runtime.GOMAXPROCS(nWorker * 2)

	// Time start
	var timeStart time.Time
	if verboseLevel > 0 {
		timeStart = time.Now()
	}

	// Confirmation gate: the clipping signal is only meaningful on a BAM
	// made from mapping long reads onto an assembly of those same reads.
	if !justDoIt {
		fmt.Fprintln(os.Stderr, "This program ONLY makes sense if you are using a BAM file that was made from")
		fmt.Fprintln(os.Stderr, "mapping long reads onto an assembly made with the SAME long reads.")
		fmt.Fprintln(os.Stderr, "If you are positive that you did JUST that, then re-run this program with")
		fmt.Fprintln(os.Stderr, "the -just_do_it flag.")
		os.Exit(1)
	}

	// Check arguments
	var pathSAM esam.PathSAM
	if len(pathBAM) > 0 {
		pathSAM = esam.PathSAM{Path: pathBAM, Binary: true}
	} else if len(pathSAMRaw) > 0 {
		pathSAM = esam.PathSAM{Path: pathSAMRaw, Binary: false}
	} else {
		log.Fatal("No SAM/BAM input")
	}
	if _, err := os.Stat(pathSAM.Path); os.IsNotExist(err) {
		log.Fatalln(pathSAM.Path, "not found")
	}
	if len(pathExclude) > 0 {
		if _, err := os.Stat(pathExclude); os.IsNotExist(err) {
			log.Fatalln(pathExclude, "not found")
		}
	}
	if len(outputPrefix) == 0 {
		log.Fatal("No output prefix")
	}
	if minDistToEnd < 0 {
		log.Fatal("min_dist_to_end must be >= 0")
	}
	if minClippingRatio < 0. {
		log.Fatal("min_clipping_ratio must be >= 0")
	}

	if verboseLevel > 0 {
		fmt.Printf("0.0min - Input: %s\n", pathSAM.Path)
		fmt.Printf("0.0min - Length of contig's end to ignore: %d\n", minDistToEnd)
	}

	// Detect mis-assembly candidates
	nAlign, err := Detect(pathSAM, outputPrefix, minDistToEnd, minClippingRatio, pathExclude, compress, pathReport, nWorker, timeStart, verboseLevel)
	if err != nil {
		log.Fatal(err)
	}

	// Verbose
	if verboseLevel > 0 {
		timeEnd := time.Now()
		fmt.Printf("%.1fmin - Done %d align.\n", timeEnd.Sub(timeStart).Minutes(), nAlign)
	}
}
