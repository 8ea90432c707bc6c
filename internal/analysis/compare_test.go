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
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/motroy/orion-kmer/internal/core"
	"github.com/motroy/orion-kmer/internal/kmer"
	"github.com/motroy/orion-kmer/internal/kmerdb"
)

// TestCompareScenario checks §8 scenario 4: databases built from AAAA and
// TTTT at k=3 both reduce to the single canonical kmer AAA=0, so
// intersection=union=1 and jaccard=1.0.
func TestCompareScenario(t *testing.T) {
	dir := t.TempDir()
	g1 := writeFasta(t, dir, "aaaa.fasta", map[string]string{"a": "AAAA"})
	g2 := writeFasta(t, dir, "tttt.fasta", map[string]string{"b": "TTTT"})

	db1Path := filepath.Join(dir, "db1.okdb")
	db2Path := filepath.Join(dir, "db2.okdb")
	if err := Build(BuildOptions{K: 3, Genomes: []string{g1}, Output: db1Path, Workers: 1}); err != nil {
		t.Fatal(err)
	}
	if err := Build(BuildOptions{K: 3, Genomes: []string{g2}, Output: db2Path, Workers: 1}); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "compare.json")
	if err := Compare(db1Path, db2Path, out); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var result CompareResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatal(err)
	}

	if result.DB1UniqueKmers != 1 || result.DB2UniqueKmers != 1 {
		t.Errorf("unique kmers = %d,%d, want 1,1", result.DB1UniqueKmers, result.DB2UniqueKmers)
	}
	if result.IntersectionLen != 1 {
		t.Errorf("intersection = %d, want 1", result.IntersectionLen)
	}
	if result.UnionLen != 1 {
		t.Errorf("union = %d, want 1", result.UnionLen)
	}
	if result.JaccardIndex != 1.0 {
		t.Errorf("jaccard = %v, want 1.0", result.JaccardIndex)
	}
}

func TestCompareKmerSizeMismatch(t *testing.T) {
	dir := t.TempDir()
	db1Path := filepath.Join(dir, "db1.okdb")
	db2Path := filepath.Join(dir, "db2.okdb")

	if err := kmerdb.WriteAtomic(db1Path, &kmerdb.Database{K: 3, Refs: []kmerdb.Reference{{Name: "a", Kmers: []kmer.Kmer{0}}}}); err != nil {
		t.Fatal(err)
	}
	if err := kmerdb.WriteAtomic(db2Path, &kmerdb.Database{K: 4, Refs: []kmerdb.Reference{{Name: "b", Kmers: []kmer.Kmer{0}}}}); err != nil {
		t.Fatal(err)
	}

	err := Compare(db1Path, db2Path, filepath.Join(dir, "out.json"))
	var mismatch *core.KmerSizeMismatch
	if !errors.As(err, &mismatch) {
		t.Errorf("error = %v, want *core.KmerSizeMismatch", err)
	}
}
