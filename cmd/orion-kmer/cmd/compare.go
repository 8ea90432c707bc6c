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

	"github.com/spf13/cobra"

	"github.com/motroy/orion-kmer/internal/analysis"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "compute the Jaccard index between two k-mer databases",
	Run: func(cmd *cobra.Command, args []string) {
		start := time.Now()
		opt := getOptions(cmd)
		runtime.GOMAXPROCS(opt.Threads)

		db1 := getFlagPath(cmd, "db1")
		db2 := getFlagPath(cmd, "db2")
		out := getFlagPath(cmd, "out")

		checkInputFiles(db1, db2)
		if opt.Verbose {
			log.Infof("comparing %s against %s", db1, db2)
		}

		err := analysis.Compare(db1, db2, out)
		checkError(err, out)
		reportCompletion(start)
	},
}

func init() {
	RootCmd.AddCommand(compareCmd)

	compareCmd.Flags().String("db1", "", "first database path")
	compareCmd.Flags().String("db2", "", "second database path")
	compareCmd.Flags().StringP("out", "o", "", "output JSON path")
}
