package wordnet

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Default length bounds.
const (
	DefaultMinChars = 0
	DefaultMaxChars = 45
)

var (
	digitPattern       = regexp.MustCompile(`\d`)
	punctuationPattern = regexp.MustCompile(`[[:punct:]]|\s`)
)

// Reason explains why a candidate was rejected.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonHeader
	ReasonDigits
	ReasonPunctuation
	ReasonLength
)

// String returns a short label for logs and stats.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "kept"
	case ReasonHeader:
		return "header"
	case ReasonDigits:
		return "digits"
	case ReasonPunctuation:
		return "punctuation"
	case ReasonLength:
		return "length"
	default:
		return "unknown"
	}
}

// Policy decides which candidate words are kept.
//
// When AllowedLengths is non-empty it replaces the [MinChars, MaxChars] range.
// Lengths are counted in characters (runes).
type Policy struct {
	MinChars       int
	MaxChars       int
	AllowedLengths []int
	KeepNumbers    bool
	WholeWordsOnly bool
}

// DefaultPolicy returns the policy used when no filters are given.
func DefaultPolicy() Policy {
	return Policy{
		MinChars: DefaultMinChars,
		MaxChars: DefaultMaxChars,
	}
}

// Validate checks the policy once before a run.
func (p Policy) Validate() error {
	if len(p.AllowedLengths) > 0 {
		if p.MinChars != DefaultMinChars || p.MaxChars != DefaultMaxChars {
			return fmt.Errorf("explicit character counts cannot be combined with min/max chars")
		}
		seen := make(map[int]bool, len(p.AllowedLengths))
		for _, n := range p.AllowedLengths {
			if n <= 0 {
				return fmt.Errorf("character count must be positive, got %d", n)
			}
			if seen[n] {
				return fmt.Errorf("character count %d listed twice", n)
			}
			seen[n] = true
		}
		return nil
	}

	if p.MinChars < 0 {
		return fmt.Errorf("min chars must be non-negative, got %d", p.MinChars)
	}
	if p.MaxChars < 0 {
		return fmt.Errorf("max chars must be non-negative, got %d", p.MaxChars)
	}
	if p.MinChars > p.MaxChars {
		return fmt.Errorf("min chars (%d) exceeds max chars (%d)", p.MinChars, p.MaxChars)
	}
	return nil
}

// Keep reports whether word passes the policy.
func (p Policy) Keep(word string) bool {
	return p.Decide(word) == ReasonNone
}

// Decide returns ReasonNone for a kept word, or the first rule that rejected it.
func (p Policy) Decide(word string) Reason {
	if !p.KeepNumbers && digitPattern.MatchString(word) {
		return ReasonDigits
	}
	if p.WholeWordsOnly && punctuationPattern.MatchString(word) {
		return ReasonPunctuation
	}
	if !p.lengthOK(utf8.RuneCountInString(word)) {
		return ReasonLength
	}
	return ReasonNone
}

func (p Policy) lengthOK(n int) bool {
	if len(p.AllowedLengths) > 0 {
		for _, allowed := range p.AllowedLengths {
			if n == allowed {
				return true
			}
		}
		return false
	}
	return n >= p.MinChars && n <= p.MaxChars
}

// IsHeaderLine reports whether an index line is part of the license header.
func IsHeaderLine(line string) bool {
	return strings.HasPrefix(line, "  ")
}
