package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStage(t *testing.T) {
	st, err := ParseStage(" Sapling ")
	require.NoError(t, err)
	assert.Equal(t, StageSapling, st)

	_, err = ParseStage("forest")
	assert.Error(t, err)
}

func TestStage_Order(t *testing.T) {
	stages := AllStages()
	require.Len(t, stages, 7)
	assert.Equal(t, StageDNA, stages[0])
	assert.Equal(t, StageOrchard, stages[6])

	for i, st := range stages {
		assert.Equal(t, i, st.Index())
	}
	assert.Equal(t, -1, Stage("forest").Index())
}

func TestStage_NextPrevious(t *testing.T) {
	next, ok := StageSeed.Next()
	require.True(t, ok)
	assert.Equal(t, StageSprout, next)

	prev, ok := StageSeed.Previous()
	require.True(t, ok)
	assert.Equal(t, StageDNA, prev)

	_, ok = StageDNA.Previous()
	assert.False(t, ok)
	_, ok = StageOrchard.Next()
	assert.False(t, ok)
	_, ok = Stage("forest").Next()
	assert.False(t, ok)
}

func TestStage_Label(t *testing.T) {
	assert.Equal(t, "Seeme", StageSeed.Label("et"))
	assert.Equal(t, "Seed", StageSeed.Label("en"))
	assert.Equal(t, "Сад", StageOrchard.Label("ru"))
	assert.NotEmpty(t, StageTree.Tagline("et"))
}
