package wordnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy_Bounds(t *testing.T) {
	p := DefaultPolicy()

	assert.Equal(t, 0, p.MinChars)
	assert.Equal(t, 45, p.MaxChars)
	assert.False(t, p.KeepNumbers)
	assert.False(t, p.WholeWordsOnly)
	assert.Empty(t, p.AllowedLengths)
	require.NoError(t, p.Validate())
}

func TestPolicy_LengthBoundariesInclusive(t *testing.T) {
	// Given: a 3..5 range
	p := Policy{MinChars: 3, MaxChars: 5}

	// Then: both ends are kept, one past either end is rejected
	assert.False(t, p.Keep("ab"))
	assert.True(t, p.Keep("abc"))
	assert.True(t, p.Keep("abcde"))
	assert.False(t, p.Keep("abcdef"))
	assert.Equal(t, ReasonLength, p.Decide("abcdef"))
}

func TestPolicy_LengthCountsRunes(t *testing.T) {
	p := Policy{MinChars: 4, MaxChars: 4}

	assert.True(t, p.Keep("café"))
	assert.True(t, p.Keep("naïf"))
}

func TestPolicy_NumberExclusion(t *testing.T) {
	// Given: default number exclusion
	p := DefaultPolicy()

	// Then: "2d" is rejected for its digit
	assert.Equal(t, ReasonDigits, p.Decide("2d"))

	// When: numbers are kept
	p.KeepNumbers = true

	// Then: "2d" survives
	assert.True(t, p.Keep("2d"))
}

func TestPolicy_WholeWordsOnly(t *testing.T) {
	tests := []struct {
		word string
		keep bool
	}{
		{"abc", true},
		{"a_cappella", false},
		{"rock'n'roll", false},
		{"ad-lib", false},
		{"a.m.", false},
		{"good", true},
	}

	p := DefaultPolicy()
	p.WholeWordsOnly = true
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, tt.keep, p.Keep(tt.word))
		})
	}

	// Punctuation is allowed when the rule is off
	assert.True(t, DefaultPolicy().Keep("a_cappella"))
}

func TestPolicy_RuleOrder_DigitsBeforePunctuation(t *testing.T) {
	p := Policy{MaxChars: 1, WholeWordsOnly: true}

	assert.Equal(t, ReasonDigits, p.Decide("3-d"))
	assert.Equal(t, ReasonPunctuation, p.Decide("a-b"))
	assert.Equal(t, ReasonLength, p.Decide("ab"))
}

func TestPolicy_AllowedLengthsReplaceRange(t *testing.T) {
	// Given: explicit lengths 3 and 5
	p := DefaultPolicy()
	p.AllowedLengths = []int{3, 5}

	// Then: only those lengths pass
	assert.True(t, p.Keep("abc"))
	assert.False(t, p.Keep("abcd"))
	assert.True(t, p.Keep("abcde"))
	assert.False(t, p.Keep("a"))
}

func TestPolicy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		wantErr string
	}{
		{"default", DefaultPolicy(), ""},
		{"negative min", Policy{MinChars: -1, MaxChars: 4}, "min chars"},
		{"negative max", Policy{MinChars: 0, MaxChars: -4}, "max chars"},
		{"min above max", Policy{MinChars: 6, MaxChars: 5}, "exceeds"},
		{"lengths with min", Policy{MinChars: 2, MaxChars: 45, AllowedLengths: []int{4}}, "cannot be combined"},
		{"lengths with max", Policy{MaxChars: 10, AllowedLengths: []int{4}}, "cannot be combined"},
		{"zero length", Policy{MaxChars: 45, AllowedLengths: []int{0}}, "positive"},
		{"duplicate length", Policy{MaxChars: 45, AllowedLengths: []int{4, 4}}, "twice"},
		{"lengths alone", Policy{MaxChars: 45, AllowedLengths: []int{4, 7}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestIsHeaderLine(t *testing.T) {
	assert.True(t, IsHeaderLine("  1 This software and database is being provided"))
	assert.False(t, IsHeaderLine(" abc 1 00000010"))
	assert.False(t, IsHeaderLine("abc n 1 00000010"))
}

func TestReason_String(t *testing.T) {
	assert.Equal(t, "kept", ReasonNone.String())
	assert.Equal(t, "digits", ReasonDigits.String())
	assert.Equal(t, "length", ReasonLength.String())
	assert.Equal(t, "unknown", Reason(99).String())
}
