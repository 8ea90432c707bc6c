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
	"encoding/json"

	"github.com/motroy/orion-kmer/internal/core"
	"github.com/motroy/orion-kmer/internal/kmer"
	"github.com/motroy/orion-kmer/internal/kmerdb"
)

// CompareResult is the JSON object emitted by Compare (§4.6.3, §6).
type CompareResult struct {
	DB1Path         string  `json:"db1_path"`
	DB2Path         string  `json:"db2_path"`
	KmerSize        int     `json:"kmer_size"`
	DB1UniqueKmers  int     `json:"db1_unique_kmers"`
	DB2UniqueKmers  int     `json:"db2_unique_kmers"`
	IntersectionLen int     `json:"intersection_size"`
	UnionLen        int     `json:"union_size"`
	JaccardIndex    float64 `json:"jaccard_index"`
}

// Compare loads two databases, requires matching k, and computes the
// Jaccard index of their reference unions.
func Compare(db1Path, db2Path, output string) error {
	db1, err := kmerdb.Load(db1Path)
	if err != nil {
		return err
	}
	db2, err := kmerdb.Load(db2Path)
	if err != nil {
		return err
	}
	if db1.K != db2.K {
		return &core.KmerSizeMismatch{Expected: db1.K, Got: db2.K, Context: "compare"}
	}

	u1 := db1.Union()
	u2 := db2.Union()
	inter := intersectSorted(u1, u2)

	result := CompareResult{
		DB1Path:         db1Path,
		DB2Path:         db2Path,
		KmerSize:        db1.K,
		DB1UniqueKmers:  len(u1),
		DB2UniqueKmers:  len(u2),
		IntersectionLen: inter,
		UnionLen:        len(u1) + len(u2) - inter,
	}
	result.JaccardIndex = ratio(result.IntersectionLen, result.UnionLen)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(output, data)
}

// intersectSorted counts the elements common to two strictly ascending
// slices via a linear two-pointer merge.
func intersectSorted(a, b []kmer.Kmer) int {
	n, i, j := 0, 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			n++
			i++
			j++
		}
	}
	return n
}
