package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("up")
	require.NoError(t, err)
	assert.Equal(t, DirectionUp, d)

	d, err = ParseDirection("down")
	require.NoError(t, err)
	assert.Equal(t, DirectionDown, d)

	_, err = ParseDirection("sideways")
	assert.Error(t, err)
}
