package dump

import (
	"io"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/blacktop/go-memdump/pkg/mmap"
	"github.com/pkg/errors"
)

// The kernel virtual-address window covered by a kcore style dump. This
// matches the 32-bit linux lowmem window the dumps are captured from.
const (
	kcoreStart uint64 = 0xc0000000
	kcoreEnd   uint64 = 0xc090d000
)

// LoadKcore synthesizes a single-mapping snapshot over a raw kernel memory
// dump. There is no index to parse; the one mapping covers the fixed
// kernel window, is readable, writable and executable, and carries no
// device or inode metadata.
func LoadKcore(path string) (*mmap.Mappings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "dump: open kcore")
	}
	source := filepath.Clean(path)
	size := int64(kcoreEnd - kcoreStart)
	log.Debugf("mapping kernel window %x-%x over %s", kcoreStart, kcoreEnd, source)

	m, err := mmap.NewMapping(kcoreStart, kcoreEnd,
		mmap.PermRead|mmap.PermWrite|mmap.PermExec,
		0, 0, 0, 0, source,
		mmap.NewFileBacking(io.NewSectionReader(f, 0, size), size))
	if err != nil {
		f.Close()
		return nil, err
	}
	ms := mmap.NewMappings(source)
	if err := ms.Insert(m); err != nil {
		f.Close()
		return nil, err
	}
	return ms, nil
}
