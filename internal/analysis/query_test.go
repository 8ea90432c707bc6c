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
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/motroy/orion-kmer/internal/kmerdb"
)

func TestQueryEmitsReadsMeetingMinHits(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "db.okdb")
	db := &kmerdb.Database{K: 3, Refs: []kmerdb.Reference{{Name: "ref1", Kmers: kmers(0)}}} // canonical(AAA)=0

	if err := kmerdb.WriteAtomic(dbPath, db); err != nil {
		t.Fatal(err)
	}

	reads := writeFasta(t, dir, "reads.fasta", map[string]string{
		"hit":  "AAAAA",
		"miss": "ACGTG",
	})

	var out bytes.Buffer
	err := Query(QueryOptions{Database: dbPath, Reads: reads, MinHits: 1, Workers: 2}, &out)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.TrimSpace(out.String())
	if !strings.Contains(lines, "hit") {
		t.Errorf("expected output to contain read id 'hit', got %q", lines)
	}
	if strings.Contains(lines, "miss") {
		t.Errorf("expected 'miss' read to be absent, got %q", lines)
	}
}

func TestQueryRejectsZeroMinHits(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "db.okdb")
	db := &kmerdb.Database{K: 3, Refs: []kmerdb.Reference{{Name: "ref1", Kmers: kmers(0)}}}
	if err := kmerdb.WriteAtomic(dbPath, db); err != nil {
		t.Fatal(err)
	}
	reads := writeFasta(t, dir, "reads.fasta", map[string]string{"r": "AAAA"})

	var out bytes.Buffer
	if err := Query(QueryOptions{Database: dbPath, Reads: reads, MinHits: 0}, &out); err == nil {
		t.Error("expected ArgumentError for min_hits=0")
	}
}
