package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPlan_AssignsSequentialIDsInWordOrder(t *testing.T) {
	// Given: an index where o'clock reuses a definition of clock
	idx := testIndex(t)

	// When: planning rows
	plan := BuildPlan(idx)

	// Then: words are numbered in sorted order
	assert.Equal(t, []WordRow{
		{ID: 1, Data: "abc"},
		{ID: 2, Data: "clock"},
		{ID: 3, Data: "lonely"},
		{ID: 4, Data: "o'clock"},
	}, plan.Words)

	// And: definitions are numbered at first reference, shared ones once
	assert.Len(t, plan.Definitions, 3)
	assert.Equal(t, "a test gloss", plan.Definitions[0].Data)
	assert.Equal(t, "used after a number to say the hour, as in one's o'clock", plan.Definitions[2].Data)

	assert.Equal(t, []LinkRow{
		{ID: 1, DefinitionID: 1, WordID: 1},
		{ID: 2, DefinitionID: 2, WordID: 2},
		{ID: 3, DefinitionID: 3, WordID: 2},
		{ID: 4, DefinitionID: 3, WordID: 4},
	}, plan.Links)
}
