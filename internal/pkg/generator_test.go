package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSessionID(t *testing.T) {
	first, err := GenerateSessionID()
	require.NoError(t, err)

	second, err := GenerateSessionID()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, IsValidSessionID(first))
	assert.False(t, IsValidSessionID("not-a-session"))
}
