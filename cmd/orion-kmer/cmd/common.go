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
	"errors"
	"fmt"
	"os"
	"runtime"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/shenwei356/go-logging"
	"github.com/shenwei356/util/pathutil"
	"github.com/spf13/cobra"

	"github.com/motroy/orion-kmer/internal/core"
)

var log = logging.MustGetLogger("orion-kmer")

// Options carries the global persistent flags shared by every subcommand.
type Options struct {
	Threads     int
	Verbose     bool
	VeryVerbose bool
}

func getOptions(cmd *cobra.Command) *Options {
	threads := getFlagInt(cmd, "threads")
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	level := getFlagCount(cmd, "verbose")
	return &Options{
		Threads:     threads,
		Verbose:     level >= 1,
		VeryVerbose: level >= 2,
	}
}

// checkError reports err, removes out if non-empty (so a failed command
// never leaves a partial output file), and exits with the code matching
// the error taxonomy: 1 for user/input errors, 2 for I/O/database errors.
func checkError(err error, out ...string) {
	if err == nil {
		return
	}

	for _, path := range out {
		if path != "" {
			os.Remove(path)
		}
	}

	log.Error(err)

	var outputErr *core.OutputError
	var dbErr *core.DatabaseError
	if errors.As(err, &outputErr) || errors.As(err, &dbErr) {
		os.Exit(2)
	}
	os.Exit(1)
}

func getFlagInt(cmd *cobra.Command, name string) int {
	v, err := cmd.Flags().GetInt(name)
	checkError(err)
	return v
}

func getFlagCount(cmd *cobra.Command, name string) int {
	v, err := cmd.Flags().GetCount(name)
	checkError(err)
	return v
}

func getFlagString(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	checkError(err)
	return v
}

// getFlagPath is like getFlagString but expands a leading ~ the way a
// shell would, for path-valued flags (-i/-o/-d/-g).
func getFlagPath(cmd *cobra.Command, name string) string {
	v := getFlagString(cmd, name)
	if v == "" {
		return v
	}
	expanded, err := homedir.Expand(v)
	checkError(err)
	return expanded
}

func getFlagStringSlice(cmd *cobra.Command, name string) []string {
	v, err := cmd.Flags().GetStringSlice(name)
	checkError(err)
	return v
}

// getFlagPathSlice is getFlagStringSlice with ~ expansion applied to
// every element.
func getFlagPathSlice(cmd *cobra.Command, name string) []string {
	paths := getFlagStringSlice(cmd, name)
	for i, p := range paths {
		expanded, err := homedir.Expand(p)
		checkError(err)
		paths[i] = expanded
	}
	return paths
}

// checkInputFiles verifies every path exists before a command starts
// work that would otherwise fail partway through.
func checkInputFiles(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		ok, err := pathutil.Exists(p)
		if err != nil {
			checkError(fmt.Errorf("fail to read file %s: %w", p, err))
		}
		if !ok {
			checkError(fmt.Errorf("file does not exist: %s", p))
		}
	}
}

func getFlagUint64(cmd *cobra.Command, name string) uint64 {
	v, err := cmd.Flags().GetUint64(name)
	checkError(err)
	return v
}

func getFlagFloat64(cmd *cobra.Command, name string) float64 {
	v, err := cmd.Flags().GetFloat64(name)
	checkError(err)
	return v
}

// reportCompletion prints wall time and peak resident set size after a
// successful run, as required by §6. Both figures are cosmetic and never
// affect exit status.
func reportCompletion(start time.Time) {
	var ru syscall.Rusage
	var peakRSS string
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &ru); err == nil {
		// ru.Maxrss is kilobytes on Linux.
		peakRSS = humanize.IBytes(uint64(ru.Maxrss) * 1024)
	} else {
		peakRSS = "unknown"
	}
	fmt.Printf("elapsed time: %s\n", time.Since(start))
	fmt.Printf("peak RSS: %s\n", peakRSS)
}
