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
	"fmt"
	"os"
)

func WriteReport(pathReport string, nAlign, nMapped, nRead uint64, nContig int) (err error) {
	runReport := map[string]uint64{
		"alignments":        nAlign,
		"alignments_mapped": nMapped,
		"reads_unique":      nRead,
		"contigs_covered":   uint64(nContig),
	}
	report, _ := json.MarshalIndent(runReport, "", "  ")
	if pathReport != "-" {
		if f, err := os.Create(pathReport); err != nil {
			return err
		} else {
			f.Write(report)
			f.Close()
		}
	} else {
		fmt.Println(string(report))
	}
	return nil
}
