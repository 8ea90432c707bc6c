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

package counting

import (
	"io"
	"runtime"
	"sync"

	"github.com/shenwei356/go-logging"

	"github.com/motroy/orion-kmer/internal/kmer"
	"github.com/motroy/orion-kmer/internal/recordstream"
)

// tasksPerWorker bounds in-flight task memory: the dispatcher never has
// more than tasksPerWorker*Workers records in flight at once (§4.4's
// alpha*W semaphore).
const tasksPerWorker = 4

// Engine pulls records from a Stream sequentially (tokenization is the
// only strictly-sequential step) and fans the per-record k-mer extraction
// out across Workers goroutines.
type Engine struct {
	K       int
	Workers int

	// Logger, if set, receives the warnings and debug lines described in
	// §7/§10.1. A nil Logger disables both, so tests and callers that
	// don't care about verbosity can leave it unset.
	Logger *logging.Logger
	// Verbose enables the ambiguous-bases-only warning (verbosity >= 1).
	Verbose bool
	// VeryVerbose enables per-record debug logging: record id and
	// k-mer yield count (verbosity >= 2, "-vv").
	VeryVerbose bool
}

// NewEngine returns an Engine for k-mer length k using workers goroutines.
// workers <= 0 means "use every logical core" (§5's default).
func NewEngine(k, workers int) *Engine {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Engine{K: k, Workers: workers}
}

// Count runs the counting-mode pipeline: T[km] += 1 for every canonical
// k-mer seen. A stream error stops the dispatch; in-flight tasks run to
// completion and the error is returned after the pool drains.
func (e *Engine) Count(stream recordstream.Stream) (*ShardedCounts, int64, error) {
	table := NewShardedCounts(e.Workers)
	var records int64
	err := e.run(stream, func(seq []byte) int {
		n := 0
		kmer.Each(seq, e.K, func(c kmer.Kmer) { table.Add(c, 1); n++ })
		return n
	}, &records)
	return table, records, err
}

// Set runs the set-mode pipeline: S.insert(km) for every canonical k-mer
// seen, used by build where counts are not needed.
func (e *Engine) Set(stream recordstream.Stream) (*ShardedSet, int64, error) {
	set := NewShardedSet(e.Workers)
	var records int64
	err := e.run(stream, func(seq []byte) int {
		n := 0
		kmer.Each(seq, e.K, func(c kmer.Kmer) { set.Insert(c); n++ })
		return n
	}, &records)
	return set, records, err
}

// run drives the producer-consumer pipeline described in §4.4: a single
// sequential dispatcher pulls records and enqueues one task per record
// into a worker pool bounded by a tasksPerWorker*Workers semaphore.
// process returns the number of k-mers it extracted, used for the -vv
// per-record debug line and the ambiguous-bases warning.
func (e *Engine) run(stream recordstream.Stream, process func(seq []byte) int, recordCount *int64) error {
	var wg sync.WaitGroup
	tokens := make(chan struct{}, tasksPerWorker*e.Workers)

	var mu sync.Mutex
	var firstErr error
	setErr := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}
	hasErr := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return firstErr != nil
	}

	for !hasErr() {
		rec, err := stream.Next()
		if err != nil {
			if err != io.EOF {
				setErr(err)
			}
			break
		}

		idCopy := make([]byte, len(rec.ID))
		copy(idCopy, rec.ID)
		seqCopy := make([]byte, len(rec.Seq))
		copy(seqCopy, rec.Seq)

		wg.Add(1)
		tokens <- struct{}{}
		go func(id, seq []byte) {
			defer func() {
				<-tokens
				wg.Done()
			}()
			n := process(seq)
			if e.VeryVerbose && e.Logger != nil {
				e.Logger.Debugf("record %s: %d k-mer(s) extracted", id, n)
			}
			if n == 0 && e.Verbose && e.Logger != nil && kmer.IsAllAmbiguous(seq) {
				e.Logger.Warningf("record %s: only ambiguous bases, no k-mers extracted", id)
			}
		}(idCopy, seqCopy)

		*recordCount++
	}

	wg.Wait()
	return firstErr
}
