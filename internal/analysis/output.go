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

// Package analysis implements the count, build, compare, query, and
// classify engines, each a thin orchestration layer over kmer,
// recordstream, counting, and kmerdb.
package analysis

import (
	"os"

	"github.com/shenwei356/go-logging"

	"github.com/motroy/orion-kmer/internal/core"
	"github.com/motroy/orion-kmer/internal/counting"
)

// writeFileAtomic serializes data to path via a temp-file-then-rename, so a
// failure never leaves a partially written result file behind (§7).
func writeFileAtomic(path string, data []byte) (err error) {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return &core.OutputError{Path: path, Err: err}
	}
	defer func() {
		if err != nil {
			os.Remove(tmp)
		}
	}()

	if _, err = f.Write(data); err != nil {
		f.Close()
		return &core.OutputError{Path: path, Err: err}
	}
	if err = f.Close(); err != nil {
		return &core.OutputError{Path: path, Err: err}
	}
	if err = os.Rename(tmp, path); err != nil {
		return &core.OutputError{Path: path, Err: err}
	}
	return nil
}

// ratio returns a/b, or 0.0 when b == 0 (§9's numeric edge case rule).
func ratio(a, b int) float64 {
	if b == 0 {
		return 0.0
	}
	return float64(a) / float64(b)
}

// validateK rejects a k outside [1, 32] before it reaches the codec,
// where RevComp/Decode would otherwise panic on an out-of-range shift.
func validateK(k int) error {
	if k < 1 || k > 32 {
		return &core.KmerSizeOutOfRange{K: k}
	}
	return nil
}

// configureEngine wires the cmd layer's logger and verbosity into an
// Engine so it can emit the ambiguous-bases warning (verbosity >= 1) and
// the per-record debug line (verbosity >= 2, "-vv"), per §7/§10.1.
func configureEngine(e *counting.Engine, logger *logging.Logger, verbose, veryVerbose bool) {
	e.Logger = logger
	e.Verbose = verbose
	e.VeryVerbose = veryVerbose
}
