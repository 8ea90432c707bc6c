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

// Package core holds the error taxonomy shared by every analysis engine,
// so the cmd layer can map a failure to an exit code with a single
// errors.As switch instead of string matching.
package core

import "fmt"

// InputError wraps a failure reading or parsing a sequence file.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input error: %s: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// DatabaseError wraps a failure opening, reading, or validating a
// database file.
type DatabaseError struct {
	Path string
	Err  error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database error: %s: %v", e.Path, e.Err)
}

func (e *DatabaseError) Unwrap() error { return e.Err }

// KmerSizeMismatch means two k values that were required to agree did not.
type KmerSizeMismatch struct {
	Expected, Got int
	Context       string
}

func (e *KmerSizeMismatch) Error() string {
	return fmt.Sprintf("kmer size mismatch (%s): expected %d, got %d", e.Context, e.Expected, e.Got)
}

// KmerSizeOutOfRange means a supplied k fell outside [1, 32].
type KmerSizeOutOfRange struct {
	K int
}

func (e *KmerSizeOutOfRange) Error() string {
	return fmt.Sprintf("kmer size %d out of range [1,32]", e.K)
}

// ArgumentError means a numeric flag fell outside its valid range.
type ArgumentError struct {
	Flag   string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("argument error: -%s: %s", e.Flag, e.Reason)
}

// OutputError wraps a failure writing a result file.
type OutputError struct {
	Path string
	Err  error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("output error: %s: %v", e.Path, e.Err)
}

func (e *OutputError) Unwrap() error { return e.Err }
