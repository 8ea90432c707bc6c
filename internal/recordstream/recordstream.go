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

// Package recordstream abstracts over FASTA/FASTQ producers so the
// counting engine and analysis commands never import a tokenizer
// directly. A Stream yields (identifier, sequence) pairs in file order
// and signals end-of-stream with io.EOF, distinct from any other error.
package recordstream

import (
	"io"

	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"

	"github.com/motroy/orion-kmer/internal/core"
)

// Record is one (identifier, sequence) pair pulled from a Stream. Seq is
// owned by the stream and only valid until the next call to Next.
type Record struct {
	ID  []byte
	Seq []byte
}

// Stream is the abstract pull interface the counting engine consumes.
type Stream interface {
	// Next returns the next record, or io.EOF once exhausted. Any other
	// error is an *core.InputError.
	Next() (Record, error)
	// Close releases any underlying resource.
	Close() error
}

// FastxStream adapts github.com/shenwei356/bio/seqio/fastx.Reader, the
// teacher toolkit's own FASTA/FASTQ tokenizer, to the Stream interface.
type FastxStream struct {
	path   string
	reader *fastx.Reader
}

// OpenFastx opens path (FASTA or FASTQ, optionally compressed — decoding
// is handled by fastx/xopen, both outside this package's concern) as a
// Stream.
func OpenFastx(path string) (*FastxStream, error) {
	seq.ValidateSeq = false
	r, err := fastx.NewDefaultReader(path)
	if err != nil {
		return nil, &core.InputError{Path: path, Err: err}
	}
	return &FastxStream{path: path, reader: r}, nil
}

// Next implements Stream.
func (s *FastxStream) Next() (Record, error) {
	rec, err := s.reader.Read()
	if err != nil {
		if err == io.EOF {
			return Record{}, io.EOF
		}
		return Record{}, &core.InputError{Path: s.path, Err: err}
	}
	return Record{ID: rec.Name, Seq: rec.Seq.Seq}, nil
}

// Close implements Stream.
func (s *FastxStream) Close() error {
	s.reader.Close()
	return nil
}

// SliceStream is an in-memory Stream, used by tests and by any command
// that receives records that have already been materialized.
type SliceStream struct {
	path    string
	records []Record
	pos     int
}

// NewSliceStream returns a Stream over records already held in memory.
func NewSliceStream(path string, records []Record) *SliceStream {
	return &SliceStream{path: path, records: records}
}

// Next implements Stream.
func (s *SliceStream) Next() (Record, error) {
	if s.pos >= len(s.records) {
		return Record{}, io.EOF
	}
	rec := s.records[s.pos]
	s.pos++
	return rec, nil
}

// Close implements Stream.
func (s *SliceStream) Close() error { return nil }
