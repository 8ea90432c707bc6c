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

// Package counting implements the concurrent kmer->count (and kmer-only
// set) tables the parallel pipeline fills, and the dispatcher that drives
// worker goroutines over a record stream.
package counting

import (
	"sync"

	farm "github.com/dgryski/go-farm"
	"github.com/twotwotwo/sorts/sortutil"

	"github.com/motroy/orion-kmer/internal/kmer"
)

// shardsPerWorker controls how finely the table is partitioned relative
// to the worker count; a single global mutex would defeat scaling (§5), so
// this is deliberately generous.
const shardsPerWorker = 16

func shardCountFor(workers int) int {
	n := 1
	min := workers * shardsPerWorker
	if min < 1 {
		min = shardsPerWorker
	}
	for n < min {
		n <<= 1
	}
	return n
}

func shardIndex(k kmer.Kmer, numShards int) int {
	h := farm.Hash64WithSeed(nil, uint64(k))
	return int(h & uint64(numShards-1))
}

type countShard struct {
	mu sync.Mutex
	m  map[kmer.Kmer]uint64
}

// ShardedCounts is a lock-striped kmer->count table. Read-modify-write on
// a single key is atomic because each shard is guarded by its own mutex
// and a key always hashes to the same shard.
type ShardedCounts struct {
	shards []countShard
}

// NewShardedCounts returns a table sized for the given worker count.
func NewShardedCounts(workers int) *ShardedCounts {
	n := shardCountFor(workers)
	t := &ShardedCounts{shards: make([]countShard, n)}
	for i := range t.shards {
		t.shards[i].m = make(map[kmer.Kmer]uint64)
	}
	return t
}

// Add increments the count for k by delta (insert-or-increment).
func (t *ShardedCounts) Add(k kmer.Kmer, delta uint64) {
	s := &t.shards[shardIndex(k, len(t.shards))]
	s.mu.Lock()
	s.m[k] += delta
	s.mu.Unlock()
}

// Len returns the total number of distinct keys.
func (t *ShardedCounts) Len() int {
	n := 0
	for i := range t.shards {
		t.shards[i].mu.Lock()
		n += len(t.shards[i].m)
		t.shards[i].mu.Unlock()
	}
	return n
}

// Range calls fn for every (kmer, count) pair. The table must not be
// mutated concurrently with Range; callers use it only after the
// dispatcher has finished.
func (t *ShardedCounts) Range(fn func(kmer.Kmer, uint64)) {
	for i := range t.shards {
		for k, v := range t.shards[i].m {
			fn(k, v)
		}
	}
}

// Get returns the count for k and whether it was present.
func (t *ShardedCounts) Get(k kmer.Kmer) (uint64, bool) {
	s := &t.shards[shardIndex(k, len(t.shards))]
	s.mu.Lock()
	v, ok := s.m[k]
	s.mu.Unlock()
	return v, ok
}

type setShard struct {
	mu sync.Mutex
	m  map[kmer.Kmer]struct{}
}

// ShardedSet is a lock-striped kmer set, used when counts are not needed
// (the build path).
type ShardedSet struct {
	shards []setShard
}

// NewShardedSet returns a set sized for the given worker count.
func NewShardedSet(workers int) *ShardedSet {
	n := shardCountFor(workers)
	s := &ShardedSet{shards: make([]setShard, n)}
	for i := range s.shards {
		s.shards[i].m = make(map[kmer.Kmer]struct{})
	}
	return s
}

// Insert adds k to the set.
func (s *ShardedSet) Insert(k kmer.Kmer) {
	sh := &s.shards[shardIndex(k, len(s.shards))]
	sh.mu.Lock()
	sh.m[k] = struct{}{}
	sh.mu.Unlock()
}

// Contains reports whether k is in the set.
func (s *ShardedSet) Contains(k kmer.Kmer) bool {
	sh := &s.shards[shardIndex(k, len(s.shards))]
	sh.mu.Lock()
	_, ok := sh.m[k]
	sh.mu.Unlock()
	return ok
}

// Len returns the number of distinct members.
func (s *ShardedSet) Len() int {
	n := 0
	for i := range s.shards {
		s.shards[i].mu.Lock()
		n += len(s.shards[i].m)
		s.shards[i].mu.Unlock()
	}
	return n
}

// Sorted drains the set into an ascending slice of Kmer, the
// representation the database writer needs for a Reference. Sorting uses
// a parallel sort across GOMAXPROCS, since a single build can drain tens
// of millions of k-mers.
func (s *ShardedSet) Sorted() []kmer.Kmer {
	raw := make([]uint64, 0, s.Len())
	for i := range s.shards {
		s.shards[i].mu.Lock()
		for k := range s.shards[i].m {
			raw = append(raw, uint64(k))
		}
		s.shards[i].mu.Unlock()
	}
	sortutil.Uint64s(raw)

	out := make([]kmer.Kmer, len(raw))
	for i, v := range raw {
		out[i] = kmer.Kmer(v)
	}
	return out
}
