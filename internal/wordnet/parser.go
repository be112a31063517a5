package wordnet

import (
	"regexp"
	"strconv"
	"strings"
)

// Entry is the word and offsets found on one index line.
type Entry struct {
	Word    string
	Offsets []uint64
}

// LineParser extracts entries from index file lines.
// A LineParser is safe for concurrent use.
type LineParser struct {
	offsetPattern *regexp.Regexp
}

// NewLineParser compiles the offset matcher once for reuse across lines.
func NewLineParser() *LineParser {
	return &LineParser{
		offsetPattern: regexp.MustCompile(`\s(\d{8})`),
	}
}

// Parse returns the entry on line. ok is false for header and blank lines.
// The word is returned exactly as written, quotes included.
func (p *LineParser) Parse(line string) (Entry, bool) {
	line = strings.TrimRight(line, "\r\n")
	if IsHeaderLine(line) {
		return Entry{}, false
	}

	word, _, _ := strings.Cut(line, " ")
	if word == "" {
		return Entry{}, false
	}

	matches := p.offsetPattern.FindAllStringSubmatch(line, -1)
	offsets := make([]uint64, 0, len(matches))
	for _, m := range matches {
		off, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil {
			continue
		}
		offsets = append(offsets, off)
	}

	return Entry{Word: word, Offsets: offsets}, true
}
