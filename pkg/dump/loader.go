package dump

import (
	"fmt"
	"path/filepath"

	"github.com/apex/log"
	"github.com/blacktop/go-memdump/pkg/mmap"
	"github.com/pkg/errors"
)

// ErrMissingContent is returned by a strict load when a mapping's content
// entry is absent from the archive.
var ErrMissingContent = errors.New("dump: missing mapping content")

// Above these sizes a mapping is served straight from the archive file
// instead of being materialized. The lazy loader tolerates bigger resident
// buffers since partial dumps tend to carry only a few mappings.
const (
	strictFileBackedMin = 1_000_000
	lazyFileBackedMin   = 10_000_000
)

// Load reconstructs an address-space snapshot from the dump archive at
// path. With lazy false, any mapping whose content entry is missing aborts
// the load with ErrMissingContent. With lazy true, such mappings are kept
// as metadata-only entries whose reads fail with mmap.ErrUnavailable.
func Load(path string, lazy bool) (*mmap.Mappings, error) {
	ar, err := Open(path)
	if err != nil {
		return nil, err
	}
	// file-backed mappings borrow the archive's open file handle; it has to
	// outlive the mapping set, so a fully loaded set with file-backed
	// members keeps the archive open. Any other exit closes it.
	fileBacked := false
	loaded := false
	defer func() {
		if !loaded || !fileBacked {
			ar.Close()
		}
	}()

	lines, err := ar.Index()
	if err != nil {
		return nil, err
	}

	threshold := int64(strictFileBackedMin)
	if lazy {
		threshold = lazyFileBackedMin
	}

	ms := mmap.NewMappings(filepath.Clean(path))
	for i, line := range lines {
		idx, err := parseIndexLine(line)
		if err != nil {
			return nil, errors.Wrapf(err, "index line %d", i+1)
		}
		name := fmt.Sprintf("%x-%x", idx.start, idx.end)
		log.Debugf("loading %s - %s", name, idx.pathname)

		backing, isFile, err := chooseBacking(ar, name, idx, threshold, lazy)
		if err != nil {
			return nil, err
		}
		fileBacked = fileBacked || isFile

		m, err := mmap.NewMapping(idx.start, idx.end, idx.perms, idx.offset,
			idx.major, idx.minor, idx.inode, idx.pathname, backing)
		if err != nil {
			return nil, errors.Wrapf(err, "index line %d", i+1)
		}
		if err := ms.Insert(m); err != nil {
			return nil, errors.Wrapf(err, "index line %d", i+1)
		}
	}
	loaded = true
	return ms, nil
}

// chooseBacking picks the backing store strategy for one mapping and
// reports whether the backing borrows the archive's file handle.
func chooseBacking(ar Archive, name string, idx indexLine, threshold int64, lazy bool) (mmap.Backing, bool, error) {
	size := int64(idx.end - idx.start)

	if ar.Buffered() {
		data, err := ar.Entry(name)
		if errors.Is(err, ErrEntryNotFound) {
			b, err := missingEntry(name, idx, lazy)
			return b, false, err
		}
		if err != nil {
			return nil, false, err
		}
		// the whole mapping stays resident; that is the cost of formats
		// that cannot expose a byte range per entry
		log.Debugf("buffering %s in memory (%d bytes)", name, len(data))
		return mmap.NewBufferBacking(data), false, nil
	}

	sr, ok := ar.EntryAt(name)
	if !ok {
		b, err := missingEntry(name, idx, lazy)
		return b, false, err
	}
	if size > threshold {
		log.Warnf("using file backed mapping for %s (%d bytes), content stays on disk", name, size)
		return mmap.NewFileBacking(sr, sr.Size()), true, nil
	}
	data := make([]byte, sr.Size())
	if len(data) > 0 {
		if _, err := sr.ReadAt(data, 0); err != nil {
			return nil, false, errors.Wrapf(err, "dump: reading %s", name)
		}
	}
	return mmap.NewBufferBacking(data), false, nil
}

func missingEntry(name string, idx indexLine, lazy bool) (mmap.Backing, error) {
	if !lazy {
		return nil, errors.Wrapf(ErrMissingContent, "entry %s (%s)", name, idx.pathname)
	}
	log.Debugf("ignoring absent content for %s (%s), mapping is metadata only", name, idx.pathname)
	return mmap.AbsentBacking(int64(idx.end - idx.start)), nil
}
