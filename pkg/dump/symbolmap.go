package dump

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/apex/log"
)

// ScanSymbolMap scans System.map formatted text (address, type char,
// symbol per line) for the first line containing marker and returns its
// address column. The markers are build-specific, which is why callers
// supply them; the kcore loader never consults the symbol map itself.
func ScanSymbolMap(r io.Reader, marker string) (uint64, bool) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, marker) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		addr, err := strconv.ParseUint(fields[0], 16, 64)
		if err != nil {
			continue
		}
		log.Debugf("found %q @ %#x", marker, addr)
		return addr, true
	}
	return 0, false
}

// KernelBase returns the load address of the kernel image.
func KernelBase(r io.Reader) (uint64, bool) {
	return ScanSymbolMap(r, "T startup_32")
}

// InitTask returns the address of the initial task structure.
func InitTask(r io.Reader) (uint64, bool) {
	return ScanSymbolMap(r, "D init_task")
}

// InitEnd returns the end address of the kernel's init data.
func InitEnd(r io.Reader) (uint64, bool) {
	return ScanSymbolMap(r, "__init_end")
}
