package dictcodec

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind selects which table a text dictionary's entries are merged into.
type Kind int

const (
	KindFNV Kind = iota
	KindXXH
)

// MergeText parses `<hex-digest> <space> <name>` lines and merges them
// into the dictionary, overwriting any existing entries for the same
// digest. Empty lines and lines with no space are skipped silently.
func (d *Dictionary) MergeText(s string, kind Kind) {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		sp := strings.IndexByte(line, ' ')
		if sp < 0 {
			continue
		}
		hexPart, name := line[:sp], line[sp+1:]
		switch kind {
		case KindFNV:
			v, err := strconv.ParseUint(hexPart, 16, 32)
			if err != nil {
				continue
			}
			d.FNV[uint32(v)] = name
		case KindXXH:
			v, err := strconv.ParseUint(hexPart, 16, 64)
			if err != nil {
				continue
			}
			d.XXH[v] = name
		}
	}
}

// SaveText renders a dictionary table as `<hex> <space> <name>` lines,
// one FNV or XXH table at a time depending on kind.
func (d *Dictionary) SaveText(kind Kind) string {
	var sb strings.Builder
	switch kind {
	case KindFNV:
		for hash, name := range d.FNV {
			fmt.Fprintf(&sb, "%08x %s\n", hash, name)
		}
	case KindXXH:
		for hash, name := range d.XXH {
			fmt.Fprintf(&sb, "%016x %s\n", hash, name)
		}
	}
	return sb.String()
}
