package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	id := NewID()
	require.NoError(t, id.Validate())
	assert.False(t, id.IsZero())
	assert.NotEqual(t, NewID(), id)
}

func TestNewAnalysisID(t *testing.T) {
	id := NewAnalysisID("analysis")
	assert.True(t, strings.HasPrefix(id, "analysis_"))
	assert.Len(t, id, len("analysis_")+8)

	other := NewAnalysisID("analysis")
	assert.NotEqual(t, id, other)
}

func TestParseID(t *testing.T) {
	valid := NewID()
	parsed, err := ParseID(valid.String())
	require.NoError(t, err)
	assert.Equal(t, valid, parsed)

	_, err = ParseID("")
	assert.Error(t, err)

	_, err = ParseID("not-a-uuid")
	assert.Error(t, err)
}
