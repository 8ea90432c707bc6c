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
	"github.com/shenwei356/go-logging"

	"github.com/motroy/orion-kmer/internal/core"
	"github.com/motroy/orion-kmer/internal/counting"
	"github.com/motroy/orion-kmer/internal/kmerdb"
	"github.com/motroy/orion-kmer/internal/recordstream"
)

// BuildOptions configures the build engine (§4.6.2).
type BuildOptions struct {
	K       int
	Genomes []string
	Output  string
	Workers int

	// OnGenomeDone, if set, is called after each genome file finishes,
	// letting the cmd layer drive a progress bar without this package
	// importing one.
	OnGenomeDone func(path string)

	Logger      *logging.Logger
	Verbose     bool
	VeryVerbose bool
}

// Build runs the counting-as-set variant of the engine over each genome
// file independently, in the order the files were supplied, and writes
// the resulting database atomically to opts.Output.
func Build(opts BuildOptions) error {
	if err := validateK(opts.K); err != nil {
		return err
	}

	db := &kmerdb.Database{K: opts.K, Refs: make([]kmerdb.Reference, 0, len(opts.Genomes))}

	for _, path := range opts.Genomes {
		stream, err := recordstream.OpenFastx(path)
		if err != nil {
			return err
		}

		engine := counting.NewEngine(opts.K, opts.Workers)
		configureEngine(engine, opts.Logger, opts.Verbose, opts.VeryVerbose)
		set, _, err := engine.Set(stream)
		stream.Close()
		if err != nil {
			return err
		}

		db.Refs = append(db.Refs, kmerdb.Reference{Name: path, Kmers: set.Sorted()})
		if opts.OnGenomeDone != nil {
			opts.OnGenomeDone(path)
		}
	}

	if err := kmerdb.WriteAtomic(opts.Output, db); err != nil {
		return &core.OutputError{Path: opts.Output, Err: err}
	}
	return nil
}
