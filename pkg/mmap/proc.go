package mmap

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ReadProcMaps parses /proc/<pid>/maps formatted text into a metadata-only
// mapping set (all backings are absent). source tags the resulting set.
func ReadProcMaps(r io.Reader, source string) (*Mappings, error) {
	ms := NewMappings(source)
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		m, err := parseProcMapsLine(line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineno)
		}
		if err := ms.Insert(m); err != nil {
			return nil, errors.Wrapf(err, "line %d", lineno)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "mmap: reading maps")
	}
	return ms, nil
}

// Self reads the analysis process's own address space from /proc/self/maps.
func Self() (*Mappings, error) {
	f, err := os.Open("/proc/self/maps")
	if err != nil {
		return nil, errors.Wrap(err, "mmap: open /proc/self/maps")
	}
	defer f.Close()
	return ReadProcMaps(f, "/proc/self/maps")
}

func parseProcMapsLine(line string) (*Mapping, error) {
	// range perms offset dev inode [pathname]; the pathname column is
	// padded with spaces, so split on any whitespace.
	fields := strings.Fields(line)
	if len(fields) < 5 {
		return nil, errors.Errorf("mmap: short maps line %q", line)
	}
	lo, hi, ok := strings.Cut(fields[0], "-")
	if !ok {
		return nil, errors.Errorf("mmap: bad address range %q", fields[0])
	}
	start, err := strconv.ParseUint(lo, 16, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "mmap: bad start %q", lo)
	}
	end, err := strconv.ParseUint(hi, 16, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "mmap: bad end %q", hi)
	}
	perms, err := ParsePerms(fields[1])
	if err != nil {
		return nil, err
	}
	offset, err := strconv.ParseUint(fields[2], 16, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "mmap: bad offset %q", fields[2])
	}
	maj, min, ok := strings.Cut(fields[3], ":")
	if !ok {
		return nil, errors.Errorf("mmap: bad device %q", fields[3])
	}
	major, err := strconv.ParseUint(maj, 16, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "mmap: bad major device %q", maj)
	}
	minor, err := strconv.ParseUint(min, 16, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "mmap: bad minor device %q", min)
	}
	inode, err := strconv.ParseUint(fields[4], 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "mmap: bad inode %q", fields[4])
	}
	var pathname string
	if len(fields) > 5 {
		pathname = strings.Join(fields[5:], " ")
	}
	return NewMapping(start, end, perms, offset, major, minor, inode, pathname, nil)
}
