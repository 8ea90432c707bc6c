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

package kmer

// Iterator extracts canonical k-mers from a nucleotide byte buffer,
// maintaining a rolling 2-bit window. It never copies the input buffer —
// it only borrows it for the duration of the traversal.
//
// Any byte outside {A,C,G,T,a,c,g,t} resets the window: the count of
// consecutive valid bases drops to zero and extraction resumes after the
// offending byte. No k-mer spanning such a byte is ever emitted.
type Iterator struct {
	s []byte
	k int

	pos    int
	window Kmer
	filled int
}

// NewIterator returns an Iterator over s for k-mers of length k. k must be
// in [1, 32]; the caller is expected to have validated this already (see
// kmer.ErrKOverflow).
func NewIterator(s []byte, k int) *Iterator {
	return &Iterator{s: s, k: k}
}

// Next returns the next canonical k-mer, or ok=false once the buffer is
// exhausted.
func (it *Iterator) Next() (code Kmer, ok bool) {
	for it.pos < len(it.s) {
		b := it.s[it.pos]
		it.pos++

		bits, valid := EncodeBase(b)
		if !valid {
			it.filled = 0
			it.window = 0
			continue
		}

		it.window = ((it.window << 2) | Kmer(bits)) & mask(it.k)
		if it.filled < it.k {
			it.filled++
		}

		if it.filled == it.k {
			return Canonical(it.window, it.k), true
		}
	}
	return 0, false
}

// Each calls fn for every canonical k-mer emitted while traversing s. It is
// a convenience wrapper for callers that don't need iterator state kept
// around, and is the hot inner loop driven by the counting engine.
func Each(s []byte, k int, fn func(Kmer)) {
	it := NewIterator(s, k)
	for {
		code, ok := it.Next()
		if !ok {
			return
		}
		fn(code)
	}
}
