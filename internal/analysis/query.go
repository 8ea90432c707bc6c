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
	"runtime"
	"sort"
	"sync"

	"github.com/motroy/orion-kmer/internal/core"
	"github.com/motroy/orion-kmer/internal/kmer"
	"github.com/motroy/orion-kmer/internal/kmerdb"
	"github.com/motroy/orion-kmer/internal/recordstream"
)

// QueryOptions configures the query engine (§4.6.4).
type QueryOptions struct {
	Database string
	Reads    string
	MinHits  uint64
	Workers  int
}

// Query loads a database, extracts canonical k-mers from every read
// independently and in parallel, and writes the identifiers of reads
// whose hit count against the database's union set is >= MinHits. Each
// read contributes at most one output line; output order is unspecified.
func Query(opts QueryOptions, w io.Writer) error {
	if opts.MinHits < 1 {
		return &core.ArgumentError{Flag: "c", Reason: "min_hits must be >= 1"}
	}

	db, err := kmerdb.Load(opts.Database)
	if err != nil {
		return err
	}
	union := db.Union()

	stream, err := recordstream.OpenFastx(opts.Reads)
	if err != nil {
		return err
	}
	defer stream.Close()

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var wg sync.WaitGroup
	tokens := make(chan struct{}, tasksPerWorker*workers)

	var mu sync.Mutex
	var firstErr error
	bw := bufio.NewWriter(w)

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

		id := append([]byte(nil), rec.ID...)
		seq := append([]byte(nil), rec.Seq...)

		wg.Add(1)
		tokens <- struct{}{}
		go func(id, seq []byte) {
			defer func() {
				<-tokens
				wg.Done()
			}()

			var hits uint64
			kmer.Each(seq, db.K, func(c kmer.Kmer) {
				if memberOf(union, c) {
					hits++
				}
			})
			if hits >= opts.MinHits {
				mu.Lock()
				bw.Write(id)
				bw.WriteByte('\n')
				mu.Unlock()
			}
		}(id, seq)
	}

	wg.Wait()
	if firstErr != nil {
		return firstErr
	}
	return bw.Flush()
}

// memberOf reports whether c is present in the strictly ascending slice
// union, via binary search.
func memberOf(union []kmer.Kmer, c kmer.Kmer) bool {
	i := sort.Search(len(union), func(i int) bool { return union[i] >= c })
	return i < len(union) && union[i] == c
}

// tasksPerWorker mirrors counting.Engine's in-flight task bound for the
// per-read parallel loop.
const tasksPerWorker = 4
