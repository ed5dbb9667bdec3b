package mmap

import (
	"io"

	"github.com/pkg/errors"
)

var (
	// ErrOutOfRange is returned when a read extends past the end of a
	// mapping's content.
	ErrOutOfRange = errors.New("mmap: read out of range")
	// ErrUnavailable is returned when reading a mapping whose content was
	// not present in the dump.
	ErrUnavailable = errors.New("mmap: mapping content unavailable")
)

// Backing is the byte source of one mapping. Offsets are relative to the
// mapping start, not absolute addresses.
type Backing interface {
	io.ReaderAt
	// Size returns the number of readable bytes.
	Size() int64
}

// bufferBacking holds the whole mapping content resident in memory.
type bufferBacking struct {
	data []byte
}

// NewBufferBacking returns a Backing over an in-memory buffer.
func NewBufferBacking(data []byte) Backing {
	return &bufferBacking{data: data}
}

func (b *bufferBacking) Size() int64 { return int64(len(b.data)) }

func (b *bufferBacking) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > int64(len(b.data)) {
		return 0, errors.Wrapf(ErrOutOfRange, "read %d bytes at offset %#x of %#x", len(p), off, len(b.data))
	}
	return copy(p, b.data[off:]), nil
}

// fileBacking reads the mapping content from a section of an open file,
// avoiding materialization of large mappings.
type fileBacking struct {
	ra   io.ReaderAt
	size int64
}

// NewFileBacking returns a Backing that reads through ra. The reader stays
// open for the lifetime of the mapping set that owns the mapping.
func NewFileBacking(ra io.ReaderAt, size int64) Backing {
	return &fileBacking{ra: ra, size: size}
}

func (b *fileBacking) Size() int64 { return b.size }

func (b *fileBacking) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > b.size {
		return 0, errors.Wrapf(ErrOutOfRange, "read %d bytes at offset %#x of %#x", len(p), off, b.size)
	}
	n, err := b.ra.ReadAt(p, off)
	if err != nil {
		return n, errors.Wrap(err, "mmap: file backed read")
	}
	return n, nil
}

// absentBacking is metadata-only; every read fails.
type absentBacking struct {
	size int64
}

// AbsentBacking returns a Backing for a mapping whose content is missing
// from the dump. Size reports the mapping size so range math still works.
func AbsentBacking(size int64) Backing {
	return &absentBacking{size: size}
}

func (b *absentBacking) Size() int64 { return b.size }

func (b *absentBacking) ReadAt(p []byte, off int64) (int, error) {
	return 0, ErrUnavailable
}
