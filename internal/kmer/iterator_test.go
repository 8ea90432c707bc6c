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

import "testing"

func collect(s []byte, k int) []Kmer {
	var out []Kmer
	Each(s, k, func(c Kmer) { out = append(out, c) })
	return out
}

// TestIteratorScenario3 is §8 scenario 3: k=3, ACGNACG.
func TestIteratorScenario3(t *testing.T) {
	codes := collect([]byte("ACGNACG"), 3)
	if len(codes) != 2 {
		t.Fatalf("expected 2 emitted k-mers, got %d", len(codes))
	}
	if codes[0] != codes[1] {
		t.Errorf("expected both windows to canonicalize to the same k-mer, got %d and %d", codes[0], codes[1])
	}
	want, _ := Encode([]byte("ACG"))
	want = Canonical(want, 3)
	if codes[0] != want {
		t.Errorf("got %d, want %d", codes[0], want)
	}
}

func TestIteratorNoWindowShorterThanK(t *testing.T) {
	if codes := collect([]byte("AC"), 3); len(codes) != 0 {
		t.Errorf("expected no k-mers for sequence shorter than k, got %d", len(codes))
	}
}

// TestIteratorAmbiguitySplit verifies that s1 + "N" + s2 yields the
// elementwise-summed multiset of processing s1 and s2 independently.
func TestIteratorAmbiguitySplit(t *testing.T) {
	s1 := []byte("ACGTACGT")
	s2 := []byte("TTGGCCAA")
	k := 3

	combined := collect(append(append(append([]byte{}, s1...), 'N'), s2...), k)
	independent := append(collect(s1, k), collect(s2, k)...)

	counts := func(codes []Kmer) map[Kmer]int {
		m := make(map[Kmer]int)
		for _, c := range codes {
			m[c]++
		}
		return m
	}

	cc, ci := counts(combined), counts(independent)
	if len(cc) != len(ci) {
		t.Fatalf("distinct k-mer count mismatch: %d vs %d", len(cc), len(ci))
	}
	for k, v := range ci {
		if cc[k] != v {
			t.Errorf("count mismatch for kmer %d: got %d want %d", k, cc[k], v)
		}
	}
}

// TestIteratorStrandInvariance verifies §8: counting s equals counting
// revcomp(s).
func TestIteratorStrandInvariance(t *testing.T) {
	s := []byte("ACGTTGCAACGTGGTTCCAA")
	k := 5

	rc := make([]byte, len(s))
	for i, b := range s {
		bits, _ := EncodeBase(b)
		comp := bits ^ 3
		rc[len(s)-1-i] = "ACGT"[comp]
	}

	forward := counts(collect(s, k))
	reverse := counts(collect(rc, k))
	if len(forward) != len(reverse) {
		t.Fatalf("distinct count mismatch: %d vs %d", len(forward), len(reverse))
	}
	for kmerCode, v := range forward {
		if reverse[kmerCode] != v {
			t.Errorf("strand invariance violated for kmer %d: %d vs %d", kmerCode, v, reverse[kmerCode])
		}
	}
}

func counts(codes []Kmer) map[Kmer]int {
	m := make(map[Kmer]int)
	for _, c := range codes {
		m[c]++
	}
	return m
}
