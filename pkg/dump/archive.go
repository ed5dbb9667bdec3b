// Package dump loads captured memory dump archives into mapping sets.
package dump

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"bytes"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/apex/log"
	"github.com/pkg/errors"
)

var (
	// ErrUnrecognized is returned when a dump is neither a tar nor a zip
	// archive carrying a mappings index.
	ErrUnrecognized = errors.New("dump: unrecognized archive format")
	// ErrEntryNotFound is returned when a named archive entry is absent.
	ErrEntryNotFound = errors.New("dump: entry not found")
)

// indexName is the archive entry holding the mapping metadata lines.
const indexName = "mappings"

// addrEntryRE matches content entry names: <start>-<end> in lowercase hex,
// no 0x prefix.
var addrEntryRE = regexp.MustCompile(`^[0-9a-f]+-[0-9a-f]+$`)

// Archive is a read-only handle on an opened dump container. The concrete
// format (tar or zip) is chosen once at open time.
type Archive interface {
	// Index returns the lines of the mappings index entry.
	Index() ([]string, error)
	// Entry reads the whole named entry into memory.
	Entry(name string) ([]byte, error)
	// EntryAt returns a reader over the named entry's bytes in the
	// underlying file, when the format stores entries uncompressed and
	// contiguous (tar). ok is false when the archive can only buffer.
	EntryAt(name string) (sr *io.SectionReader, ok bool)
	// Buffered reports whether reading an entry always materializes it.
	Buffered() bool
	Close() error
}

// Open probes the dump at path, trying tar then zip. A directory source is
// a documented future case and is rejected for now. Recognition requires
// the mappings index entry and at least one address-range-named entry.
func Open(path string) (Archive, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "dump: stat")
	}
	if fi.IsDir() {
		return nil, errors.Wrapf(ErrUnrecognized, "%s is a directory", path)
	}
	if ar, err := openTar(path); err == nil {
		return ar, nil
	}
	log.Debugf("%s is not a tar dump, trying zip", path)
	if ar, err := openZip(path); err == nil {
		return ar, nil
	}
	return nil, errors.Wrapf(ErrUnrecognized, "%s", path)
}

// recognized checks the naming contract shared by both formats. Tar
// entries may carry a leading "./".
func recognized(names []string) bool {
	index := false
	ranges := 0
	for _, name := range names {
		name = strings.TrimPrefix(name, "./")
		if name == indexName {
			index = true
		} else if addrEntryRE.MatchString(name) {
			ranges++
		}
	}
	if !index {
		log.Debug("no mappings index entry in archive")
		return false
	}
	return ranges > 0
}

type tarEntry struct {
	off  int64
	size int64
}

// tarArchive reads entries straight out of the underlying file; tar stores
// file data uncompressed at a known offset, so large mappings can be
// served without materialization.
type tarArchive struct {
	f       *os.File
	entries map[string]tarEntry
}

// countingReader tracks the read position within the tar stream. After
// tar.Reader.Next returns, the position is the data offset of the entry
// just announced (the reader consumes exactly through the header block).
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func openTar(path string) (*tarArchive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "dump: open")
	}
	cr := &countingReader{r: f}
	tr := tar.NewReader(cr)
	entries := make(map[string]tarEntry)
	var names []string
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			f.Close()
			return nil, errors.Wrap(err, "dump: not a tar archive")
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		name := strings.TrimPrefix(hdr.Name, "./")
		entries[name] = tarEntry{off: cr.n, size: hdr.Size}
		names = append(names, name)
	}
	if !recognized(names) {
		f.Close()
		return nil, errors.Wrap(ErrUnrecognized, "tar")
	}
	return &tarArchive{f: f, entries: entries}, nil
}

func (a *tarArchive) Index() ([]string, error) {
	data, err := a.Entry(indexName)
	if err != nil {
		return nil, err
	}
	return splitIndex(data)
}

func (a *tarArchive) Entry(name string) ([]byte, error) {
	sr, ok := a.EntryAt(name)
	if !ok {
		return nil, errors.Wrapf(ErrEntryNotFound, "%q", name)
	}
	data := make([]byte, sr.Size())
	if _, err := io.ReadFull(sr, data); err != nil {
		return nil, errors.Wrapf(err, "dump: reading entry %q", name)
	}
	return data, nil
}

func (a *tarArchive) EntryAt(name string) (*io.SectionReader, bool) {
	e, ok := a.entries[name]
	if !ok {
		return nil, false
	}
	return io.NewSectionReader(a.f, e.off, e.size), true
}

func (a *tarArchive) Buffered() bool { return false }

func (a *tarArchive) Close() error { return a.f.Close() }

// zipArchive buffers whole entries: zip entries are (usually) deflated, so
// there is no stable byte range to point a lazy reader at.
type zipArchive struct {
	rc    *zip.ReadCloser
	files map[string]*zip.File
}

func openZip(path string) (*zipArchive, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Wrap(err, "dump: not a zip archive")
	}
	files := make(map[string]*zip.File, len(rc.File))
	names := make([]string, 0, len(rc.File))
	for _, f := range rc.File {
		name := strings.TrimPrefix(f.Name, "./")
		files[name] = f
		names = append(names, name)
	}
	if !recognized(names) {
		rc.Close()
		return nil, errors.Wrap(ErrUnrecognized, "zip")
	}
	return &zipArchive{rc: rc, files: files}, nil
}

func (a *zipArchive) Index() ([]string, error) {
	data, err := a.Entry(indexName)
	if err != nil {
		return nil, err
	}
	return splitIndex(data)
}

func (a *zipArchive) Entry(name string) ([]byte, error) {
	f, ok := a.files[name]
	if !ok {
		return nil, errors.Wrapf(ErrEntryNotFound, "%q", name)
	}
	r, err := f.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "dump: opening entry %q", name)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "dump: reading entry %q", name)
	}
	return data, nil
}

func (a *zipArchive) EntryAt(name string) (*io.SectionReader, bool) {
	return nil, false
}

func (a *zipArchive) Buffered() bool { return true }

func (a *zipArchive) Close() error { return a.rc.Close() }

func splitIndex(data []byte) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "dump: scanning index")
	}
	return lines, nil
}
