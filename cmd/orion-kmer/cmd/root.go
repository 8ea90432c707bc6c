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

// Package cmd implements the orion-kmer command-line surface: one
// subcommand per analysis engine, wired over cobra, sharing the global
// Options and checkError helpers in common.go.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// VERSION is the orion-kmer release version.
const VERSION = "0.1.0"

// RootCmd is the base command when orion-kmer is invoked without args.
var RootCmd = &cobra.Command{
	Use:   "orion-kmer",
	Short: "K-mer counting, database building, and classification toolkit",
	Long: fmt.Sprintf(`orion-kmer - k-mer counting, database building, and classification toolkit

A command-line toolkit for canonical-k-mer counting, per-genome database
construction, Jaccard comparison, membership query, and multi-database
classification (k <= 32).

Version: %s
`, VERSION),
}

// Execute adds all child commands to RootCmd and runs it. Called once by
// main.main().
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().IntP("threads", "t", 0, "number of worker threads to use (0 = all logical CPUs)")
	RootCmd.PersistentFlags().CountP("verbose", "v", "print progress information; repeat (-vv) for per-record debug logging")
}
