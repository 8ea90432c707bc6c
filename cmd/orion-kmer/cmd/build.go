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

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "build a k-mer database from one or more genome files",
	Run: func(cmd *cobra.Command, args []string) {
		start := time.Now()
		opt := getOptions(cmd)
		runtime.GOMAXPROCS(opt.Threads)

		k := getFlagInt(cmd, "kmer-size")
		genomes := getFlagPathSlice(cmd, "genome")
		out := getFlagPath(cmd, "out")

		if len(genomes) == 0 {
			checkError(&core.ArgumentError{Flag: "g", Reason: "at least one genome file is required"})
		}
		checkInputFiles(genomes...)
		if opt.Verbose {
			log.Infof("building database (k=%d) from %d genome file(s)", k, len(genomes))
		}

		var bar *mpb.Bar
		if opt.Verbose {
			pbs := mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
			bar = pbs.AddBar(int64(len(genomes)),
				mpb.BarStyle("[=>-]<+"),
				mpb.PrependDecorators(decor.Name("building: "), decor.CountersNoUnit("%d / %d")),
				mpb.AppendDecorators(decor.Percentage()),
			)
		}

		err := analysis.Build(analysis.BuildOptions{
			K:       k,
			Genomes: genomes,
			Output:  out,
			Workers: opt.Threads,
			OnGenomeDone: func(path string) {
				if bar != nil {
					bar.Increment()
				}
			},
			Logger:      log,
			Verbose:     opt.Verbose,
			VeryVerbose: opt.VeryVerbose,
		})
		checkError(err, out)
		reportCompletion(start)
	},
}

func init() {
	RootCmd.AddCommand(buildCmd)

	buildCmd.Flags().IntP("kmer-size", "k", 0, "k-mer length (1-32)")
	buildCmd.Flags().StringSliceP("genome", "g", nil, "genome FASTA/FASTQ file(s), one reference per file")
	buildCmd.Flags().StringP("out", "o", "", "output database path")
}
