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
	"runtime"
	"time"

	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"

	"github.com/motroy/orion-kmer/internal/analysis"
	"github.com/motroy/orion-kmer/internal/core"
)

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "count canonical k-mers across one or more FASTA/Q files",
	Run: func(cmd *cobra.Command, args []string) {
		start := time.Now()
		opt := getOptions(cmd)
		runtime.GOMAXPROCS(opt.Threads)

		k := getFlagInt(cmd, "kmer-size")
		inputs := getFlagPathSlice(cmd, "input")
		out := getFlagPath(cmd, "out")
		minCount := getFlagUint64(cmd, "min-count")

		if len(inputs) == 0 {
			checkError(&core.ArgumentError{Flag: "i", Reason: "at least one input file is required"})
		}
		checkInputFiles(inputs...)
		if opt.Verbose {
			log.Infof("counting k-mers (k=%d) across %d input file(s)", k, len(inputs))
		}

		outfh, err := xopen.Wopen(out)
		checkError(err, out)
		defer outfh.Close()

		err = analysis.Count(analysis.CountOptions{
			K:           k,
			Inputs:      inputs,
			MinCount:    minCount,
			Workers:     opt.Threads,
			Logger:      log,
			Verbose:     opt.Verbose,
			VeryVerbose: opt.VeryVerbose,
		}, outfh)
		checkError(err, out)
		reportCompletion(start)
	},
}

func init() {
	RootCmd.AddCommand(countCmd)

	countCmd.Flags().IntP("kmer-size", "k", 0, "k-mer length (1-32)")
	countCmd.Flags().StringSliceP("input", "i", nil, "input FASTA/FASTQ file(s), optionally gzip/xz compressed")
	countCmd.Flags().StringP("out", "o", "", "output file (decode(kmer)\\tcount lines)")
	countCmd.Flags().Uint64P("min-count", "m", 1, "minimum count to report (>= 1)")
}
