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

package recordstream

import "io"

// MultiStream concatenates a sequence of Streams, opened lazily, so that
// `count` over several input files fills one shared table as if the files
// had been catenated.
type MultiStream struct {
	open    func(path string) (Stream, error)
	paths   []string
	idx     int
	current Stream
}

// NewMultiStream returns a Stream over paths, opened one at a time with
// open as each prior stream is exhausted.
func NewMultiStream(paths []string, open func(path string) (Stream, error)) *MultiStream {
	return &MultiStream{open: open, paths: paths}
}

// Next implements Stream.
func (m *MultiStream) Next() (Record, error) {
	for {
		if m.current == nil {
			if m.idx >= len(m.paths) {
				return Record{}, io.EOF
			}
			s, err := m.open(m.paths[m.idx])
			if err != nil {
				return Record{}, err
			}
			m.idx++
			m.current = s
		}

		rec, err := m.current.Next()
		if err == io.EOF {
			m.current.Close()
			m.current = nil
			continue
		}
		if err != nil {
			return Record{}, err
		}
		return rec, nil
	}
}

// Close implements Stream.
func (m *MultiStream) Close() error {
	if m.current != nil {
		return m.current.Close()
	}
	return nil
}
