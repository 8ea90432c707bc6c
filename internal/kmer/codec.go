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

// Package kmer implements the canonical k-mer codec: 2-bit packing,
// reverse complement, and canonicalization for k in [1, 32].
package kmer

import "fmt"

// ErrKOverflow means k is outside [1, 32].
var ErrKOverflow = fmt.Errorf("kmer: k (1-32) overflow")

// ErrIllegalBase means a byte outside {A,C,G,T} (case-insensitive) was seen.
var ErrIllegalBase = fmt.Errorf("kmer: illegal base")

// Kmer is a 2-bit-packed, right-aligned encoding of a DNA k-mer. For a
// given k, only the low 2k bits are ever set.
type Kmer uint64

const invalidBase = 0xff

// base2bits maps ASCII bytes to their 2-bit code; anything else maps to
// invalidBase. Only A/C/G/T (either case) are valid; windows touching
// any ambiguity code are skipped rather than silently resolved.
var base2bits [256]byte

func init() {
	for i := range base2bits {
		base2bits[i] = invalidBase
	}
	base2bits['A'], base2bits['a'] = 0, 0
	base2bits['C'], base2bits['c'] = 1, 1
	base2bits['G'], base2bits['g'] = 2, 2
	base2bits['T'], base2bits['t'] = 3, 3
}

// EncodeBase returns the 2-bit code for b, or (0, false) if b is not one
// of A, C, G, T (case-insensitive).
func EncodeBase(b byte) (byte, bool) {
	c := base2bits[b]
	if c == invalidBase {
		return 0, false
	}
	return c, true
}

var bit2base = [4]byte{'A', 'C', 'G', 'T'}

// IsAllAmbiguous reports whether seq is non-empty and contains no valid
// {A,C,G,T} base at all, i.e. every byte would reset the iterator's
// window. An empty seq yields false.
func IsAllAmbiguous(seq []byte) bool {
	for _, b := range seq {
		if _, ok := EncodeBase(b); ok {
			return false
		}
	}
	return len(seq) > 0
}

// mask returns the bitmask covering the low 2k bits.
func mask(k int) Kmer {
	if k == 32 {
		return ^Kmer(0)
	}
	return (Kmer(1) << uint(2*k)) - 1
}

// Encode packs a k-mer sequence (1 <= len <= 32) into a Kmer. The first
// (5') base occupies the most-significant occupied 2-bit slot.
func Encode(seq []byte) (Kmer, error) {
	k := len(seq)
	if k == 0 || k > 32 {
		return 0, ErrKOverflow
	}
	var code Kmer
	for _, b := range seq {
		bits, ok := EncodeBase(b)
		if !ok {
			return 0, ErrIllegalBase
		}
		code = (code << 2) | Kmer(bits)
	}
	return code, nil
}

// Decode is the inverse of Encode, used only by the count output path.
func Decode(x Kmer, k int) []byte {
	if k <= 0 || k > 32 {
		panic(ErrKOverflow)
	}
	out := make([]byte, k)
	for i := k - 1; i >= 0; i-- {
		out[i] = bit2base[x&3]
		x >>= 2
	}
	return out
}

// Append shifts x left by one base and appends b's code in the
// least-significant slot, discarding any bits above 2k.
func Append(x Kmer, k int, b byte) (Kmer, error) {
	bits, ok := EncodeBase(b)
	if !ok {
		return 0, ErrIllegalBase
	}
	return ((x << 2) | Kmer(bits)) & mask(k), nil
}

// RevComp returns the reverse complement of the k-mer x. Complementation
// is the bitwise complement of the occupied bits (A<->T, C<->G each flip
// both bits of their 2-bit slot); the reverse complement additionally
// reverses the order of the 2-bit slots.
func RevComp(x Kmer, k int) Kmer {
	if k <= 0 || k > 32 {
		panic(ErrKOverflow)
	}
	var rc Kmer
	comp := (^x) & mask(k)
	for i := 0; i < k; i++ {
		rc = (rc << 2) | (comp & 3)
		comp >>= 2
	}
	return rc
}

// Canonical returns min(x, RevComp(x, k)) under unsigned comparison.
func Canonical(x Kmer, k int) Kmer {
	rc := RevComp(x, k)
	if rc < x {
		return rc
	}
	return x
}

// String renders the k-mer as a nucleotide string.
func String(x Kmer, k int) string {
	return string(Decode(x, k))
}
