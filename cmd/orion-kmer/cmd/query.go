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
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "report reads whose k-mer hit count against a database meets a threshold",
	Run: func(cmd *cobra.Command, args []string) {
		start := time.Now()
		opt := getOptions(cmd)
		runtime.GOMAXPROCS(opt.Threads)

		db := getFlagPath(cmd, "db")
		reads := getFlagPath(cmd, "reads")
		out := getFlagPath(cmd, "out")
		minHits := getFlagUint64(cmd, "min-hits")

		checkInputFiles(db, reads)
		if opt.Verbose {
			log.Infof("querying %s against database %s", reads, db)
		}

		outfh, err := xopen.Wopen(out)
		checkError(err, out)
		defer outfh.Close()

		err = analysis.Query(analysis.QueryOptions{
			Database: db,
			Reads:    reads,
			MinHits:  minHits,
			Workers:  opt.Threads,
		}, outfh)
		checkError(err, out)
		reportCompletion(start)
	},
}

func init() {
	RootCmd.AddCommand(queryCmd)

	queryCmd.Flags().StringP("db", "d", "", "database path")
	queryCmd.Flags().StringP("reads", "r", "", "read FASTA/FASTQ file")
	queryCmd.Flags().StringP("out", "o", "", "output file (matching read identifiers, one per line)")
	queryCmd.Flags().Uint64P("min-hits", "c", 1, "minimum k-mer hit count to report a read (>= 1)")
}
