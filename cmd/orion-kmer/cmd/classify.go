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

package cmd

import (
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v5"
	"github.com/vbauerster/mpb/v5/decor"

	"github.com/motroy/orion-kmer/internal/analysis"
	"github.com/motroy/orion-kmer/internal/core"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "classify an input sample against one or more k-mer databases",
	Run: func(cmd *cobra.Command, args []string) {
		start := time.Now()
		opt := getOptions(cmd)
		runtime.GOMAXPROCS(opt.Threads)

		input := getFlagPath(cmd, "input")
		databases := getFlagPathSlice(cmd, "db")
		out := getFlagPath(cmd, "out")
		outTSV := getFlagPath(cmd, "output-tsv")
		kmerSize := getFlagInt(cmd, "kmer-size")
		minFreq := getFlagUint64(cmd, "min-kmer-frequency")
		minCoverage := getFlagFloat64(cmd, "min-coverage")

		if len(databases) == 0 {
			checkError(&core.ArgumentError{Flag: "d", Reason: "at least one database is required"})
		}
		if minCoverage < 0 || minCoverage > 1 {
			checkError(&core.ArgumentError{Flag: "min-coverage", Reason: "must be in [0,1]"})
		}
		checkInputFiles(append([]string{input}, databases...)...)
		if opt.Verbose {
			log.Infof("classifying %s against %d database(s)", input, len(databases))
		}

		var bar *mpb.Bar
		if opt.Verbose {
			pbs := mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
			bar = pbs.AddBar(int64(len(databases)),
				mpb.BarStyle("[=>-]<+"),
				mpb.PrependDecorators(decor.Name("loading databases: "), decor.CountersNoUnit("%d / %d")),
				mpb.AppendDecorators(decor.Percentage()),
			)
		}

		err := analysis.Classify(analysis.ClassifyOptions{
			Input:            input,
			Databases:        databases,
			MinKmerFrequency: minFreq,
			MinCoverage:      minCoverage,
			KmerSize:         kmerSize,
			Output:           out,
			OutputTSV:        outTSV,
			Workers:          opt.Threads,
			OnDatabaseLoaded: func(path string) {
				if bar != nil {
					bar.Increment()
				}
			},
			Logger:      log,
			Verbose:     opt.Verbose,
			VeryVerbose: opt.VeryVerbose,
		})
		checkError(err, out, outTSV)
		reportCompletion(start)
	},
}

func init() {
	RootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().StringP("input", "i", "", "input FASTA/FASTQ file")
	classifyCmd.Flags().StringSliceP("db", "d", nil, "database path(s)")
	classifyCmd.Flags().StringP("out", "o", "", "output JSON path")
	classifyCmd.Flags().Int("kmer-size", 0, "expected k-mer size; validated against every database (0 = adopt from first database)")
	classifyCmd.Flags().Uint64("min-kmer-frequency", 1, "minimum input k-mer depth to retain (>= 1)")
	classifyCmd.Flags().Float64("min-coverage", 0.0, "minimum reference breadth of coverage to report a reference ([0,1])")
	classifyCmd.Flags().String("output-tsv", "", "optional TSV sink, one row per surviving reference")
}
