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

// Package kmerdb implements the versioned ".orion" database container:
// a fixed k, an ordered list of per-file references, and each
// reference's sorted canonical k-mer set. See the format layout in the
// package-level doc comment on Writer.
package kmerdb

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/cespare/xxhash"
	"github.com/pkg/errors"

	"github.com/motroy/orion-kmer/internal/core"
	"github.com/motroy/orion-kmer/internal/kmer"
)

// Magic is the 8-byte file signature.
var Magic = [8]byte{'O', 'R', 'I', 'O', 'N', 'K', 'M', 'R'}

// FormatVersion is the only format version this package reads or writes.
const FormatVersion uint16 = 1

var le = binary.LittleEndian

// ErrBadMagic means the file does not start with Magic.
var ErrBadMagic = errors.New("kmerdb: bad magic number")

// ErrUnsupportedVersion means format_ver != FormatVersion.
var ErrUnsupportedVersion = errors.New("kmerdb: unsupported format version")

// ErrKOutOfRange means k is outside [1, 32].
var ErrKOutOfRange = errors.New("kmerdb: k out of range [1,32]")

// ErrKmerOutOfRange means a stored k-mer has bits set above 2k.
var ErrKmerOutOfRange = errors.New("kmerdb: kmer exceeds 2k bits for this k")

// ErrNotAscending means a reference's k-mers are not strictly ascending.
var ErrNotAscending = errors.New("kmerdb: kmers not strictly ascending within reference")

// Reference is a named group of canonical k-mers originating from one
// input file given to the indexer. Kmers is kept sorted ascending.
type Reference struct {
	Name  string
	Kmers []kmer.Kmer
}

// Database is an ordered collection of references sharing a fixed K.
type Database struct {
	K    int
	Refs []Reference
}

// Union returns the sorted, deduplicated union of all k-mers across every
// reference in the database, obtained by streaming k-way merge rather
// than a hash table, as required by §4.5/§4.6.3.
func (db *Database) Union() []kmer.Kmer {
	idx := make([]int, len(db.Refs))
	union := make([]kmer.Kmer, 0, unionSizeHint(db))

	for {
		minVal := kmer.Kmer(0)
		minRef := -1
		for r := range db.Refs {
			if idx[r] >= len(db.Refs[r].Kmers) {
				continue
			}
			v := db.Refs[r].Kmers[idx[r]]
			if minRef == -1 || v < minVal {
				minVal, minRef = v, r
			}
		}
		if minRef == -1 {
			break
		}
		if len(union) == 0 || union[len(union)-1] != minVal {
			union = append(union, minVal)
		}
		idx[minRef]++
	}
	return union
}

func unionSizeHint(db *Database) int {
	n := 0
	for _, r := range db.Refs {
		n += len(r.Kmers)
	}
	return n
}

// Writer serializes a Database to the on-disk layout (little-endian
// throughout):
//
//	magic       : 8 bytes  = "ORIONKMR"
//	format_ver  : uint16   = 1
//	k           : uint8
//	reserved    : uint8    = 0
//	ref_count   : uint64
//	for each reference:
//	    name_len  : uint32
//	    name_utf8 : name_len bytes
//	    kmer_count: uint64
//	    kmers     : kmer_count x uint64 (canonical, ascending)
//	checksum    : uint64 (xxhash64 over preceding bytes)
type Writer struct {
	w   io.Writer
	sum *xxhash.Digest
}

// NewWriter wraps w, tee-ing every write into an xxhash64 digest so the
// trailing checksum can be emitted once the body is complete.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, sum: xxhash.New()}
}

func (wr *Writer) write(p []byte) error {
	if _, err := wr.w.Write(p); err != nil {
		return err
	}
	_, _ = wr.sum.Write(p)
	return nil
}

// WriteDatabase writes the full container: header, every reference, and
// the trailing checksum.
func (wr *Writer) WriteDatabase(db *Database) error {
	if db.K < 1 || db.K > 32 {
		return ErrKOutOfRange
	}

	if err := wr.write(Magic[:]); err != nil {
		return err
	}

	var verBuf [2]byte
	le.PutUint16(verBuf[:], FormatVersion)
	if err := wr.write(verBuf[:]); err != nil {
		return err
	}
	if err := wr.write([]byte{byte(db.K), 0}); err != nil {
		return err
	}

	var countBuf [8]byte
	le.PutUint64(countBuf[:], uint64(len(db.Refs)))
	if err := wr.write(countBuf[:]); err != nil {
		return err
	}

	for i := range db.Refs {
		SortReference(&db.Refs[i])
		if err := wr.writeReference(db.Refs[i]); err != nil {
			return err
		}
	}

	var checksumBuf [8]byte
	le.PutUint64(checksumBuf[:], wr.sum.Sum64())
	if _, err := wr.w.Write(checksumBuf[:]); err != nil {
		return err
	}
	return nil
}

func (wr *Writer) writeReference(ref Reference) error {
	name := []byte(ref.Name)

	var nameLenBuf [4]byte
	le.PutUint32(nameLenBuf[:], uint32(len(name)))
	if err := wr.write(nameLenBuf[:]); err != nil {
		return err
	}
	if err := wr.write(name); err != nil {
		return err
	}

	var countBuf [8]byte
	le.PutUint64(countBuf[:], uint64(len(ref.Kmers)))
	if err := wr.write(countBuf[:]); err != nil {
		return err
	}

	buf := make([]byte, 8)
	for _, km := range ref.Kmers {
		le.PutUint64(buf, uint64(km))
		if err := wr.write(buf); err != nil {
			return err
		}
	}
	return nil
}

// WriteAtomic serializes db to <path>.tmp and then renames it to path, so
// a reader never observes a partially written file under the target path.
func WriteAtomic(path string, db *Database) (err error) {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return errors.Wrapf(err, "create %s", tmp)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp)
		}
	}()

	bw := bufio.NewWriter(f)
	w := NewWriter(bw)
	if err = w.WriteDatabase(db); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", tmp)
	}
	if err = bw.Flush(); err != nil {
		f.Close()
		return errors.Wrapf(err, "flush %s", tmp)
	}
	if err = f.Close(); err != nil {
		return errors.Wrapf(err, "close %s", tmp)
	}
	if err = os.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, "rename %s to %s", tmp, path)
	}
	return nil
}

// Load reads and validates a Database from path. Any failure is returned
// as a *core.DatabaseError.
func Load(path string) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &core.DatabaseError{Path: path, Err: errors.Wrapf(err, "open %s", path)}
	}
	defer f.Close()

	db, err := Read(bufio.NewReader(f))
	if err != nil {
		return nil, &core.DatabaseError{Path: path, Err: errors.Wrapf(err, "read %s", filepath.Base(path))}
	}
	return db, nil
}

// Read parses a Database from r and checks every invariant from §4.5.
func Read(r io.Reader) (*Database, error) {
	sum := xxhash.New()
	tr := io.TeeReader(r, sum)

	var m [8]byte
	if _, err := io.ReadFull(tr, m[:]); err != nil {
		return nil, errors.Wrap(err, "read magic")
	}
	if m != Magic {
		return nil, ErrBadMagic
	}

	var verBuf [2]byte
	if _, err := io.ReadFull(tr, verBuf[:]); err != nil {
		return nil, errors.Wrap(err, "read format_ver")
	}
	if le.Uint16(verBuf[:]) != FormatVersion {
		return nil, ErrUnsupportedVersion
	}

	var kRes [2]byte
	if _, err := io.ReadFull(tr, kRes[:]); err != nil {
		return nil, errors.Wrap(err, "read k")
	}
	k := int(kRes[0])
	if k < 1 || k > 32 {
		return nil, ErrKOutOfRange
	}

	var countBuf [8]byte
	if _, err := io.ReadFull(tr, countBuf[:]); err != nil {
		return nil, errors.Wrap(err, "read ref_count")
	}
	refCount := le.Uint64(countBuf[:])

	db := &Database{K: k, Refs: make([]Reference, 0, refCount)}
	limit := kmer.Kmer(1) << uint(2*k)
	if k == 32 {
		limit = 0 // 1<<64 overflows; handled as "no limit" below
	}

	for i := uint64(0); i < refCount; i++ {
		ref, err := readReference(tr, k, limit)
		if err != nil {
			return nil, errors.Wrapf(err, "read reference %d", i)
		}
		db.Refs = append(db.Refs, ref)
	}

	computed := sum.Sum64()
	var checksumBuf [8]byte
	if _, err := io.ReadFull(r, checksumBuf[:]); err != nil {
		return nil, errors.Wrap(err, "read checksum")
	}
	stored := le.Uint64(checksumBuf[:])
	if stored != 0 && stored != computed {
		return nil, errors.New("kmerdb: checksum mismatch")
	}

	return db, nil
}

func readReference(r io.Reader, k int, limit kmer.Kmer) (Reference, error) {
	var nameLenBuf [4]byte
	if _, err := io.ReadFull(r, nameLenBuf[:]); err != nil {
		return Reference{}, errors.Wrap(err, "read name_len")
	}
	nameLen := le.Uint32(nameLenBuf[:])

	name := make([]byte, nameLen)
	if _, err := io.ReadFull(r, name); err != nil {
		return Reference{}, errors.Wrap(err, "read name")
	}

	var countBuf [8]byte
	if _, err := io.ReadFull(r, countBuf[:]); err != nil {
		return Reference{}, errors.Wrap(err, "read kmer_count")
	}
	count := le.Uint64(countBuf[:])

	kmers := make([]kmer.Kmer, count)
	buf := make([]byte, 8)
	var prev kmer.Kmer
	for i := uint64(0); i < count; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return Reference{}, errors.Wrap(err, "read kmer")
		}
		v := kmer.Kmer(le.Uint64(buf))
		if limit != 0 && v >= limit {
			return Reference{}, ErrKmerOutOfRange
		}
		if i > 0 && v <= prev {
			return Reference{}, ErrNotAscending
		}
		kmers[i] = v
		prev = v
	}

	return Reference{Name: string(name), Kmers: kmers}, nil
}

// SortReference sorts ref.Kmers ascending in place, deduplicating any
// repeats (the counting engine guarantees a set, so duplicates are not
// expected, but sorting is defensive and cheap relative to extraction).
func SortReference(ref *Reference) {
	sort.Sort(kmer.CodeSlice(ref.Kmers))
	if len(ref.Kmers) < 2 {
		return
	}
	out := ref.Kmers[:1]
	for _, v := range ref.Kmers[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	ref.Kmers = out
}
