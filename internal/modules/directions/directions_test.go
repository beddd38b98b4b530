package directions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext(t *testing.T) {
	for from, want := range map[Direction]Direction{North: East, East: South, South: West, West: North} {
		got, err := from.Next()
		require.NoError(t, err)
		assert.Equal(t, want, got, "next of %s", from)
	}
}

func TestOpposite(t *testing.T) {
	for from, want := range map[Direction]Direction{North: South, East: West, South: North, West: East} {
		got, err := from.Opposite()
		require.NoError(t, err)
		assert.Equal(t, want, got, "opposite of %s", from)
	}
}

func TestUnknownDirection(t *testing.T) {
	_, err := Direction("UP").Next()
	require.EqualError(t, err, `unknown direction "UP"`)
	_, err = Direction("").Opposite()
	require.Error(t, err)
}
