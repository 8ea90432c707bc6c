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

import (
	"bytes"
	"math/rand"
	"testing"
)

var randomMers [][]byte

func init() {
	randomMers = make([][]byte, 10000)
	for i := range randomMers {
		randomMers[i] = make([]byte, rand.Intn(32)+1)
		for j := range randomMers[i] {
			randomMers[i][j] = bit2base[rand.Intn(4)]
		}
	}
}

func TestEncodeDecode(t *testing.T) {
	for _, mer := range randomMers {
		code, err := Encode(mer)
		if err != nil {
			t.Fatalf("Encode(%s): %v", mer, err)
		}
		if got := Decode(code, len(mer)); !bytes.Equal(got, mer) {
			t.Errorf("Decode(Encode(%s)) = %s", mer, got)
		}
	}
}

func TestEncodeIllegalBase(t *testing.T) {
	if _, err := Encode([]byte("ACGN")); err != ErrIllegalBase {
		t.Errorf("expected ErrIllegalBase for N, got %v", err)
	}
	if _, err := Encode([]byte("ACGR")); err != ErrIllegalBase {
		t.Errorf("expected ErrIllegalBase for R (IUPAC degenerate), got %v", err)
	}
}

func TestEncodeKOverflow(t *testing.T) {
	if _, err := Encode(nil); err != ErrKOverflow {
		t.Errorf("expected ErrKOverflow for empty, got %v", err)
	}
	big := bytes.Repeat([]byte("A"), 33)
	if _, err := Encode(big); err != ErrKOverflow {
		t.Errorf("expected ErrKOverflow for k=33, got %v", err)
	}
}

// TestRevCompInvolution checks §8: revcomp(revcomp(x,k),k) = x.
func TestRevCompInvolution(t *testing.T) {
	for _, mer := range randomMers {
		code, _ := Encode(mer)
		k := len(mer)
		if got := RevComp(RevComp(code, k), k); got != code {
			t.Errorf("RevComp involution failed for %s: got %d want %d", mer, got, code)
		}
	}
}

// TestCanonicalIdempotent checks §8: canonical(canonical(x,k),k) = canonical(x,k).
func TestCanonicalIdempotent(t *testing.T) {
	for _, mer := range randomMers {
		code, _ := Encode(mer)
		k := len(mer)
		c1 := Canonical(code, k)
		c2 := Canonical(c1, k)
		if c1 != c2 {
			t.Errorf("Canonical not idempotent for %s: %d != %d", mer, c1, c2)
		}
	}
}

// TestCodecScenario1 exercises the literal §8 scenario 1: k=3, ATG.
func TestCodecScenario1(t *testing.T) {
	code, err := Encode([]byte("ATG"))
	if err != nil {
		t.Fatal(err)
	}
	if code != 14 {
		t.Errorf("Encode(ATG) = %d, want 14", code)
	}
	rc := RevComp(code, 3)
	if rc != 19 {
		t.Errorf("RevComp(ATG) = %d, want 19", rc)
	}
	if c := Canonical(code, 3); c != 14 {
		t.Errorf("Canonical(ATG) = %d, want 14", c)
	}
}

// TestCodecScenario2 exercises the §8 palindrome scenario: k=4, ACGT.
func TestCodecScenario2(t *testing.T) {
	code, err := Encode([]byte("ACGT"))
	if err != nil {
		t.Fatal(err)
	}
	if code != 27 {
		t.Errorf("Encode(ACGT) = %d, want 27", code)
	}
	if rc := RevComp(code, 4); rc != 27 {
		t.Errorf("RevComp(ACGT) = %d, want 27 (palindrome)", rc)
	}
	if c := Canonical(code, 4); c != 27 {
		t.Errorf("Canonical(ACGT) = %d, want 27", c)
	}
}

func TestAppendMatchesEncode(t *testing.T) {
	seq := []byte("ACGTACGTAC")
	k := 4
	var code Kmer
	var err error
	for i := 0; i < len(seq); i++ {
		code, err = Append(code, k, seq[i])
		if err != nil {
			t.Fatal(err)
		}
		if i >= k-1 {
			want, _ := Encode(seq[i-k+1 : i+1])
			if code != want {
				t.Errorf("Append rolling mismatch at %d: got %d want %d", i, code, want)
			}
		}
	}
}

func BenchmarkEncodeK32(b *testing.B) {
	mer := []byte("ACTGACTGGTCAGTCAACTGGTCAACTGGTCA")
	for i := 0; i < b.N; i++ {
		Encode(mer)
	}
}

func BenchmarkRevCompK32(b *testing.B) {
	mer := []byte("ACTGACTGGTCAGTCAACTGGTCAACTGGTCA")
	code, _ := Encode(mer)
	for i := 0; i < b.N; i++ {
		RevComp(code, 32)
	}
}
