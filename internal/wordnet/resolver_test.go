package wordnet

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleData = "123456789\n" +
	"abc | a test gloss; usage note\n" +
	"00000042 no gloss marker here\n" +
	"tail | last gloss without semicolon   \n"

func TestResolver_ExtractsGlossAtOffset(t *testing.T) {
	// Given: a data file whose second line starts at byte 10
	r := NewResolver(strings.NewReader(sampleData))

	// When: resolving offset 10
	gloss, err := r.Resolve(10)

	// Then: the gloss stops before the semicolon
	require.NoError(t, err)
	assert.Equal(t, "a test gloss", gloss)
	assert.Equal(t, 1, r.Calls())
}

func TestResolver_MissingMarkerYieldsEmptyGloss(t *testing.T) {
	r := NewResolver(strings.NewReader(sampleData))

	gloss, err := r.Resolve(uint64(strings.Index(sampleData, "00000042")))

	require.NoError(t, err)
	assert.Empty(t, gloss)
}

func TestResolver_GlossWithoutSemicolonTrimsTrailingSpace(t *testing.T) {
	r := NewResolver(strings.NewReader(sampleData))

	gloss, err := r.Resolve(uint64(strings.Index(sampleData, "tail")))

	require.NoError(t, err)
	assert.Equal(t, "last gloss without semicolon", gloss)
}

func TestResolver_OffsetPastEOFYieldsEmptyGloss(t *testing.T) {
	r := NewResolver(strings.NewReader(sampleData))

	gloss, err := r.Resolve(99999999)

	require.NoError(t, err)
	assert.Empty(t, gloss)
}

func TestResolver_RepeatedResolveRereadsSameLine(t *testing.T) {
	r := NewResolver(strings.NewReader(sampleData))

	first, err := r.Resolve(10)
	require.NoError(t, err)
	second, err := r.Resolve(10)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, r.Calls())
}

type failingReaderAt struct{}

func (failingReaderAt) ReadAt([]byte, int64) (int, error) {
	return 0, errors.New("disk gone")
}

func TestResolver_ReadErrorIsReturned(t *testing.T) {
	r := NewResolver(failingReaderAt{})

	_, err := r.Resolve(10)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
	assert.Contains(t, err.Error(), "00000010")
}
