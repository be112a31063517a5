package wordnet

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
)

// GlossResolver returns the gloss stored at a byte offset of a data file.
type GlossResolver interface {
	Resolve(offset uint64) (string, error)
}

// Resolver reads glosses from a random-access data file.
// A Resolver is not safe for concurrent use.
type Resolver struct {
	data         io.ReaderAt
	glossPattern *regexp.Regexp
	reader       *bufio.Reader
	calls        int
}

// NewResolver wraps an open data file.
func NewResolver(data io.ReaderAt) *Resolver {
	return &Resolver{
		data:         data,
		glossPattern: regexp.MustCompile(`\|\s([^;]+[^\s;]+)`),
		reader:       bufio.NewReader(nil),
	}
}

// Resolve seeks to offset, reads one line and extracts its gloss.
// A line without a "| gloss;" marker, or an offset past the end of the file,
// yields an empty gloss.
func (r *Resolver) Resolve(offset uint64) (string, error) {
	r.calls++

	if offset > math.MaxInt64 {
		return "", fmt.Errorf("offset %d out of range", offset)
	}
	start := int64(offset)
	r.reader.Reset(io.NewSectionReader(r.data, start, math.MaxInt64-start))

	line, err := r.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read data line at offset %08d: %w", offset, err)
	}

	m := r.glossPattern.FindStringSubmatch(line)
	if m == nil {
		return "", nil
	}
	return m[1], nil
}

// Calls returns how many times Resolve has been invoked.
func (r *Resolver) Calls() int {
	return r.calls
}
