package mmap

import "github.com/pkg/errors"

// Perms is the access-permission bitmask of a memory mapping.
type Perms uint8

const (
	PermRead Perms = 1 << iota
	PermWrite
	PermExec
	// PermShared is set for MAP_SHARED mappings; clear means private (COW).
	PermShared
)

// ErrBadPerms is returned when a permission string is not a 4-char rwxp field.
var ErrBadPerms = errors.New("mmap: bad permission string")

// ParsePerms parses a /proc/<pid>/maps style 4-character permission field,
// e.g. "r-xp", "rw-s" or "rwx-".
func ParsePerms(s string) (Perms, error) {
	if len(s) != 4 {
		return 0, errors.Wrapf(ErrBadPerms, "%q", s)
	}
	var p Perms
	for i, c := range []byte(s) {
		switch {
		case c == '-':
			continue
		case i == 0 && c == 'r':
			p |= PermRead
		case i == 1 && c == 'w':
			p |= PermWrite
		case i == 2 && c == 'x':
			p |= PermExec
		case i == 3 && c == 's':
			p |= PermShared
		case i == 3 && c == 'p':
			continue
		default:
			return 0, errors.Wrapf(ErrBadPerms, "%q", s)
		}
	}
	return p, nil
}

func (p Perms) String() string {
	b := []byte("---p")
	if p&PermRead != 0 {
		b[0] = 'r'
	}
	if p&PermWrite != 0 {
		b[1] = 'w'
	}
	if p&PermExec != 0 {
		b[2] = 'x'
	}
	if p&PermShared != 0 {
		b[3] = 's'
	}
	return string(b)
}
