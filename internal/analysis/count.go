// Copyright © 2018-2021 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package analysis

import (
	"bufio"
	"io"
	"strconv"

	"github.com/shenwei356/go-logging"

	"github.com/motroy/orion-kmer/internal/core"
	"github.com/motroy/orion-kmer/internal/counting"
	"github.com/motroy/orion-kmer/internal/kmer"
	"github.com/motroy/orion-kmer/internal/recordstream"
)

// CountOptions configures the count engine (§4.6.1).
type CountOptions struct {
	K        int
	Inputs   []string
	MinCount uint64
	Workers  int

	Logger      *logging.Logger
	Verbose     bool
	VeryVerbose bool
}

// Count runs the counting engine over every input file as a single
// combined table and writes "decode(kmer)\tcount" lines to w for every
// k-mer whose count is >= MinCount. Lines follow the table's shard and map
// iteration order, which is not defined and can differ between runs.
func Count(opts CountOptions, w io.Writer) error {
	if opts.MinCount < 1 {
		return &core.ArgumentError{Flag: "m", Reason: "min_count must be >= 1"}
	}
	if err := validateK(opts.K); err != nil {
		return err
	}

	stream := recordstream.NewMultiStream(opts.Inputs, func(path string) (recordstream.Stream, error) {
		return recordstream.OpenFastx(path)
	})

	engine := counting.NewEngine(opts.K, opts.Workers)
	configureEngine(engine, opts.Logger, opts.Verbose, opts.VeryVerbose)
	table, _, err := engine.Count(stream)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	var numBuf [20]byte
	table.Range(func(km kmer.Kmer, c uint64) {
		if c < opts.MinCount {
			return
		}
		bw.Write(kmer.Decode(km, opts.K))
		bw.WriteByte('\t')
		bw.Write(strconv.AppendUint(numBuf[:0], c, 10))
		bw.WriteByte('\n')
	})
	return bw.Flush()
}
