package dump

import (
	"strconv"
	"strings"

	"github.com/blacktop/go-memdump/pkg/mmap"
	"github.com/pkg/errors"
)

// ErrMalformedIndex is returned when a mappings index line does not have
// the expected seven single-space-separated fields.
var ErrMalformedIndex = errors.New("dump: malformed index line")

// indexLine is one parsed record of the mappings index:
// start end perms offset major:minor inode pathname
type indexLine struct {
	start, end   uint64
	perms        mmap.Perms
	offset       uint64
	major, minor uint64
	inode        uint64
	pathname     string
}

func parseIndexLine(line string) (indexLine, error) {
	fields := strings.Split(strings.TrimSpace(line), " ")
	if len(fields) != 7 {
		return indexLine{}, errors.Wrapf(ErrMalformedIndex, "got %d fields in %q", len(fields), line)
	}
	var (
		idx indexLine
		err error
	)
	if idx.start, err = parseHex(fields[0]); err != nil {
		return indexLine{}, errors.Wrapf(ErrMalformedIndex, "start %q", fields[0])
	}
	if idx.end, err = parseHex(fields[1]); err != nil {
		return indexLine{}, errors.Wrapf(ErrMalformedIndex, "end %q", fields[1])
	}
	if idx.end <= idx.start {
		return indexLine{}, errors.Wrapf(ErrMalformedIndex, "range %q-%q", fields[0], fields[1])
	}
	if idx.perms, err = mmap.ParsePerms(fields[2]); err != nil {
		return indexLine{}, errors.Wrapf(ErrMalformedIndex, "perms %q", fields[2])
	}
	if idx.offset, err = parseHex(fields[3]); err != nil {
		return indexLine{}, errors.Wrapf(ErrMalformedIndex, "offset %q", fields[3])
	}
	maj, min, ok := strings.Cut(fields[4], ":")
	if !ok {
		return indexLine{}, errors.Wrapf(ErrMalformedIndex, "device %q", fields[4])
	}
	if idx.major, err = parseHex(maj); err != nil {
		return indexLine{}, errors.Wrapf(ErrMalformedIndex, "major device %q", maj)
	}
	if idx.minor, err = parseHex(min); err != nil {
		return indexLine{}, errors.Wrapf(ErrMalformedIndex, "minor device %q", min)
	}
	if idx.inode, err = strconv.ParseUint(fields[5], 10, 64); err != nil {
		return indexLine{}, errors.Wrapf(ErrMalformedIndex, "inode %q", fields[5])
	}
	// the literal None marks a pathless (anonymous) mapping
	if fields[6] != "None" {
		idx.pathname = fields[6]
	}
	return idx, nil
}

// parseHex decodes a hex field with or without a 0x prefix; dumpers differ
// on whether they write one.
func parseHex(s string) (uint64, error) {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	return strconv.ParseUint(s, 16, 64)
}
