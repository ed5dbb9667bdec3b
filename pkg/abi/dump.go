package abi

import (
	"bytes"
	"fmt"
	"sort"
	"text/tabwriter"
)

// Dump renders the scalar descriptor table for inspection.
func (t *Types) Dump() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "profile: pointer=%d long=%d longdouble=%d\n\n",
		t.profile.PointerSize, t.profile.LongSize, t.profile.LongDoubleSize)

	names := make([]string, 0, len(t.scalars))
	for name := range t.scalars {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(&buf, 0, 4, 1, ' ', 0)
	fmt.Fprintf(w, "TYPE\tSIZE\tALIGN\t\n")
	for _, name := range names {
		s := t.scalars[name]
		note := ""
		if s.opaque {
			note = " (opaque)"
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", name, s.size, s.align, note)
	}
	fmt.Fprintf(w, "%s\t%d\t%d\t\n", "void *", t.profile.PointerSize, t.profile.PointerSize)
	fmt.Fprintf(w, "%s\t%d\t%d\t\n", "cstring", t.cstring.Size(), t.cstring.Align())
	w.Flush()
	return buf.String()
}
