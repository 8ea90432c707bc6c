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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/motroy/orion-kmer/internal/kmer"
	"github.com/motroy/orion-kmer/internal/kmerdb"
)

func kmers(vals ...uint64) []kmer.Kmer {
	out := make([]kmer.Kmer, len(vals))
	for i, v := range vals {
		out[i] = kmer.Kmer(v)
	}
	return out
}

// TestClassifyScenario checks §8 scenario 5: input ACGTACGT against a
// single-reference database containing its canonical 3-mers {6,44}
// (ACG/CGT -> 6, GTA/TAC -> 44), yielding hits=2, breadth=1.0,
// proportion=1.0.
func TestClassifyScenario(t *testing.T) {
	dir := t.TempDir()
	input := writeFasta(t, dir, "in.fasta", map[string]string{"r": "ACGTACGT"})
	dbPath := filepath.Join(dir, "db.okdb")

	db := &kmerdb.Database{K: 3, Refs: []kmerdb.Reference{{Name: "ref1", Kmers: kmers(6, 44)}}}
	if err := kmerdb.WriteAtomic(dbPath, db); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "out.json")
	err := Classify(ClassifyOptions{
		Input:            input,
		Databases:        []string{dbPath},
		MinKmerFrequency: 1,
		MinCoverage:      0,
		Output:           out,
		Workers:          1,
	})
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var result ClassifyResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatal(err)
	}

	if result.TotalUniqueKmersInInput != 2 {
		t.Errorf("total unique input kmers = %d, want 2", result.TotalUniqueKmersInInput)
	}
	if len(result.DatabasesAnalyzed) != 1 {
		t.Fatalf("expected 1 database result")
	}
	dbRes := result.DatabasesAnalyzed[0]
	if dbRes.OverallInputKmersMatchedInDB != 2 {
		t.Errorf("overall matched = %d, want 2", dbRes.OverallInputKmersMatchedInDB)
	}
	if len(dbRes.References) != 1 {
		t.Fatalf("expected 1 surviving reference")
	}
	ref := dbRes.References[0]
	if ref.InputKmersHittingReference != 2 {
		t.Errorf("hits = %d, want 2", ref.InputKmersHittingReference)
	}
	if ref.ReferenceBreadthOfCoverage != 1.0 {
		t.Errorf("breadth = %v, want 1.0", ref.ReferenceBreadthOfCoverage)
	}
	if ref.ProportionInputKmersHittingReference != 1.0 {
		t.Errorf("proportion = %v, want 1.0", ref.ProportionInputKmersHittingReference)
	}
}

// TestClassifyMinCoverageFilter checks §8 scenario 6: two references of
// size 100 with hits 60 and 3; at min_coverage=0.1 the second reference is
// dropped from references[] and TSV but overall stats still reflect it.
func TestClassifyMinCoverageFilter(t *testing.T) {
	ref1Kmers := make([]uint64, 100)
	ref2Kmers := make([]uint64, 100)
	for i := 0; i < 100; i++ {
		ref1Kmers[i] = uint64(i)
		ref2Kmers[i] = uint64(1000 + i)
	}

	db := &kmerdb.Database{
		K: 3,
		Refs: []kmerdb.Reference{
			{Name: "ref1", Kmers: kmers(ref1Kmers...)},
			{Name: "ref2", Kmers: kmers(ref2Kmers...)},
		},
	}

	// 60 distinct input kmers hit ref1 (0..59), 3 distinct input kmers hit
	// ref2 (1000..1002); all with depth 1.
	var filtered []filteredKmer
	for i := 0; i < 60; i++ {
		filtered = append(filtered, filteredKmer{code: kmer.Kmer(i), depth: 1})
	}
	for i := 1000; i < 1003; i++ {
		filtered = append(filtered, filteredKmer{code: kmer.Kmer(i), depth: 1})
	}

	result, tsv := classifyCompute("in.fasta", 1, 0.1, filtered, []*kmerdb.Database{db}, []string{"db.okdb"})

	dbRes := result.DatabasesAnalyzed[0]
	if dbRes.OverallInputKmersMatchedInDB != 63 {
		t.Errorf("overall matched = %d, want 63 (60 + 3, filter must not affect overall stats)", dbRes.OverallInputKmersMatchedInDB)
	}
	if len(dbRes.References) != 1 {
		t.Fatalf("expected exactly 1 surviving reference, got %d", len(dbRes.References))
	}
	if dbRes.References[0].ReferenceName != "ref1" {
		t.Errorf("surviving reference = %q, want ref1", dbRes.References[0].ReferenceName)
	}

	if strings.Contains(tsv.String(), "ref2") {
		t.Error("TSV output must not contain the filtered-out reference")
	}
	if !strings.Contains(tsv.String(), "ref1") {
		t.Error("TSV output must contain the surviving reference")
	}
}

func TestClassifyKmerSizeMismatch(t *testing.T) {
	dir := t.TempDir()
	input := writeFasta(t, dir, "in.fasta", map[string]string{"r": "ACGT"})

	db1Path := filepath.Join(dir, "db1.okdb")
	db2Path := filepath.Join(dir, "db2.okdb")
	if err := kmerdb.WriteAtomic(db1Path, &kmerdb.Database{K: 3, Refs: []kmerdb.Reference{{Name: "a", Kmers: kmers(0)}}}); err != nil {
		t.Fatal(err)
	}
	if err := kmerdb.WriteAtomic(db2Path, &kmerdb.Database{K: 4, Refs: []kmerdb.Reference{{Name: "b", Kmers: kmers(0)}}}); err != nil {
		t.Fatal(err)
	}

	err := Classify(ClassifyOptions{
		Input:            input,
		Databases:        []string{db1Path, db2Path},
		MinKmerFrequency: 1,
		Output:           filepath.Join(dir, "out.json"),
		Workers:          1,
	})
	if err == nil {
		t.Fatal("expected KmerSizeMismatch")
	}
}
