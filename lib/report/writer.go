//
// Copyright (C) 2023-2025 the misasm authors
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4"
)

type GenericWriter interface {
	Write(buf []byte) (n int, err error)
	Close() error
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// Suffix returns the file name suffix for a compression codec.
func Suffix(codec string) string {
	switch codec {
	case "lz4", "lz4hc":
		return ".lz4"
	case "gzip":
		return ".gz"
	}
	return ""
}

func newWriter(f *os.File, codec string) (GenericWriter, error) {
	switch codec {
	case "":
		return nopCloser{f}, nil
	case "lz4":
		return lz4.NewWriter(f), nil
	case "lz4hc":
		lzWriter := lz4.NewWriter(f)
		lzWriter.Header = lz4.Header{CompressionLevel: 9}
		return lzWriter, nil
	case "gzip":
		return gzip.NewWriter(f), nil
	}
	return nil, fmt.Errorf("unknown compression %q", codec)
}

func formatFloat(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteClipping writes the clip-site table to path.
func WriteClipping(path string, rows []ClipRow, codec string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	writer, err := newWriter(f, codec)
	if err != nil {
		return err
	}
	if _, err = io.WriteString(writer, "contig\tlength\tpos\trelative_pos\tcov\tclipping\tclipping_ratio\n"); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	for _, row := range rows {
		_, err = fmt.Fprintf(writer, "%s\t%d\t%d\t%s\t%d\t%d\t%s\n", row.Contig, row.Length, row.Pos, formatFloat(row.RelPos), row.Cov, row.Clipping, formatFloat(row.Ratio))
		if err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return writer.Close()
}

// WriteZeroCov writes the zero-coverage window table to path, with each
// window rendered as start-end.
func WriteZeroCov(path string, rows []ZeroRow, codec string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	writer, err := newWriter(f, codec)
	if err != nil {
		return err
	}
	if _, err = io.WriteString(writer, "contig\tlength\trange\trange_size\n"); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	for _, row := range rows {
		_, err = fmt.Fprintf(writer, "%s\t%d\t%d-%d\t%d\n", row.Contig, row.Length, row.Start, row.End, row.Size())
		if err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return writer.Close()
}
