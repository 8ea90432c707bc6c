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
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/shenwei356/go-logging"

	"github.com/motroy/orion-kmer/internal/core"
	"github.com/motroy/orion-kmer/internal/counting"
	"github.com/motroy/orion-kmer/internal/kmer"
	"github.com/motroy/orion-kmer/internal/kmerdb"
	"github.com/motroy/orion-kmer/internal/recordstream"
)

// ClassifyOptions configures the classify engine (§4.6.5).
type ClassifyOptions struct {
	Input             string
	Databases         []string
	MinKmerFrequency  uint64
	MinCoverage       float64
	KmerSize          int // 0 means "adopt from first database"
	Output            string
	OutputTSV         string
	Workers           int

	// OnDatabaseLoaded, if set, is called after each database finishes
	// loading, letting the cmd layer drive a progress bar without this
	// package importing one.
	OnDatabaseLoaded func(path string)

	Logger      *logging.Logger
	Verbose     bool
	VeryVerbose bool
}

// ReferenceResult is one surviving entry of a database's references[] (§6).
type ReferenceResult struct {
	ReferenceName                        string  `json:"reference_name"`
	TotalKmersInReference                int     `json:"total_kmers_in_reference"`
	InputKmersHittingReference           int     `json:"input_kmers_hitting_reference"`
	SumDepthOfMatchedKmersInInput        uint64  `json:"sum_depth_of_matched_kmers_in_input"`
	AvgDepthOfMatchedKmersInInput        float64 `json:"avg_depth_of_matched_kmers_in_input"`
	ProportionInputKmersHittingReference float64 `json:"proportion_input_kmers_hitting_reference"`
	ReferenceBreadthOfCoverage           float64 `json:"reference_breadth_of_coverage"`
}

// DatabaseResult is one entry of databases_analyzed[] (§6).
type DatabaseResult struct {
	DatabasePath                        string            `json:"database_path"`
	DatabaseKmerSize                    int               `json:"database_kmer_size"`
	TotalUniqueKmersInDBAcrossRefs      int               `json:"total_unique_kmers_in_db_across_references"`
	OverallInputKmersMatchedInDB        int               `json:"overall_input_kmers_matched_in_db"`
	OverallSumDepthOfMatchedKmersInput  uint64            `json:"overall_sum_depth_of_matched_kmers_in_input"`
	OverallAvgDepthOfMatchedKmersInput  float64           `json:"overall_avg_depth_of_matched_kmers_in_input"`
	ProportionInputKmersInDBOverall     float64           `json:"proportion_input_kmers_in_db_overall"`
	ProportionDBKmersCoveredOverall     float64           `json:"proportion_db_kmers_covered_overall"`
	References                         []ReferenceResult `json:"references"`
}

// ClassifyResult is the top-level JSON object (§6).
type ClassifyResult struct {
	InputFilePath             string           `json:"input_file_path"`
	TotalUniqueKmersInInput   int              `json:"total_unique_kmers_in_input"`
	MinKmerFrequencyFilter    uint64           `json:"min_kmer_frequency_filter"`
	DatabasesAnalyzed         []DatabaseResult `json:"databases_analyzed"`
}

// filteredKmer is one surviving (kmer, depth) pair after the
// min_kmer_frequency filter (M' in §4.6.5).
type filteredKmer struct {
	code  kmer.Kmer
	depth uint64
}

// Classify runs the input multiset against one or more databases and
// produces the combined JSON (and optional TSV) report.
func Classify(opts ClassifyOptions) error {
	if opts.MinKmerFrequency < 1 {
		return &core.ArgumentError{Flag: "min-kmer-frequency", Reason: "must be >= 1"}
	}
	if opts.MinCoverage < 0 || opts.MinCoverage > 1 {
		return &core.ArgumentError{Flag: "min-coverage", Reason: "must be in [0,1]"}
	}
	if opts.KmerSize != 0 {
		if err := validateK(opts.KmerSize); err != nil {
			return err
		}
	}

	dbs := make([]*kmerdb.Database, len(opts.Databases))
	k := opts.KmerSize
	for i, path := range opts.Databases {
		db, err := kmerdb.Load(path)
		if err != nil {
			return err
		}
		if k == 0 {
			k = db.K
		} else if db.K != k {
			return &core.KmerSizeMismatch{Expected: k, Got: db.K, Context: "classify"}
		}
		dbs[i] = db
		if opts.OnDatabaseLoaded != nil {
			opts.OnDatabaseLoaded(path)
		}
	}
	if err := validateK(k); err != nil {
		return err
	}

	stream, err := recordstream.OpenFastx(opts.Input)
	if err != nil {
		return err
	}
	defer stream.Close()

	engine := counting.NewEngine(k, opts.Workers)
	configureEngine(engine, opts.Logger, opts.Verbose, opts.VeryVerbose)
	table, _, err := engine.Count(stream)
	if err != nil {
		return err
	}

	var filtered []filteredKmer
	table.Range(func(c kmer.Kmer, count uint64) {
		if count >= opts.MinKmerFrequency {
			filtered = append(filtered, filteredKmer{code: c, depth: count})
		}
	})
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].code < filtered[j].code })

	result, tsv := classifyCompute(opts.Input, opts.MinKmerFrequency, opts.MinCoverage, filtered, dbs, opts.Databases)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	if err := writeFileAtomic(opts.Output, data); err != nil {
		return err
	}

	if opts.OutputTSV != "" {
		if err := writeFileAtomic(opts.OutputTSV, tsv.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

// classifyCompute implements the pure per-database/per-reference
// statistics of §4.6.5, step 4 onward, separated from file I/O so the
// min-coverage filter and the overall-stats invariant can be tested
// directly against synthetic databases.
func classifyCompute(inputPath string, minFreq uint64, minCoverage float64, filtered []filteredKmer, dbs []*kmerdb.Database, dbPaths []string) (ClassifyResult, bytes.Buffer) {
	n := len(filtered)

	result := ClassifyResult{
		InputFilePath:           inputPath,
		TotalUniqueKmersInInput: n,
		MinKmerFrequencyFilter:  minFreq,
		DatabasesAnalyzed:       make([]DatabaseResult, len(dbs)),
	}

	var tsv bytes.Buffer
	tsv.WriteString("database\treference\ttotal_kmers_in_reference\tinput_kmers_hitting_reference\tsum_depth\tavg_depth\tproportion_input_kmers_hitting_reference\treference_breadth_of_coverage\n")

	for i, db := range dbs {
		union := db.Union()

		var hitsOverall int
		var sumDepthOverallU uint64
		for _, fk := range filtered {
			if memberOf(union, fk.code) {
				hitsOverall++
				sumDepthOverallU += fk.depth
			}
		}

		dbRes := DatabaseResult{
			DatabasePath:                       dbPaths[i],
			DatabaseKmerSize:                   db.K,
			TotalUniqueKmersInDBAcrossRefs:     len(union),
			OverallInputKmersMatchedInDB:       hitsOverall,
			OverallSumDepthOfMatchedKmersInput: sumDepthOverallU,
			OverallAvgDepthOfMatchedKmersInput: ratio(int(sumDepthOverallU), hitsOverall),
			ProportionInputKmersInDBOverall:    ratio(hitsOverall, n),
			ProportionDBKmersCoveredOverall:    ratio(hitsOverall, len(union)),
			References:                         make([]ReferenceResult, 0, len(db.Refs)),
		}

		for _, ref := range db.Refs {
			var hits int
			var sumDepth uint64
			for _, fk := range filtered {
				if memberOf(ref.Kmers, fk.code) {
					hits++
					sumDepth += fk.depth
				}
			}
			breadth := ratio(hits, len(ref.Kmers))
			if breadth < minCoverage {
				continue
			}

			refRes := ReferenceResult{
				ReferenceName:                        ref.Name,
				TotalKmersInReference:                len(ref.Kmers),
				InputKmersHittingReference:            hits,
				SumDepthOfMatchedKmersInInput:         sumDepth,
				AvgDepthOfMatchedKmersInInput:          ratio(int(sumDepth), hits),
				ProportionInputKmersHittingReference:  ratio(hits, n),
				ReferenceBreadthOfCoverage:            breadth,
			}
			dbRes.References = append(dbRes.References, refRes)

			fmt.Fprintf(&tsv, "%s\t%s\t%d\t%d\t%d\t%s\t%s\t%s\n",
				dbPaths[i], ref.Name,
				refRes.TotalKmersInReference, refRes.InputKmersHittingReference,
				refRes.SumDepthOfMatchedKmersInInput,
				strconv.FormatFloat(refRes.AvgDepthOfMatchedKmersInInput, 'f', -1, 64),
				strconv.FormatFloat(refRes.ProportionInputKmersHittingReference, 'f', -1, 64),
				strconv.FormatFloat(refRes.ReferenceBreadthOfCoverage, 'f', -1, 64))
		}

		result.DatabasesAnalyzed[i] = dbRes
	}

	return result, tsv
}
