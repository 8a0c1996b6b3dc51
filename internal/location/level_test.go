package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelNext(t *testing.T) {
	next, ok := Country.Next()
	require.True(t, ok)
	assert.Equal(t, State, next)

	next, ok = State.Next()
	require.True(t, ok)
	assert.Equal(t, City, next)

	_, ok = City.Next()
	assert.False(t, ok)

	_, ok = Level(7).Next()
	assert.False(t, ok)
}

func TestLevelParentAndDeeper(t *testing.T) {
	_, ok := Country.Parent()
	assert.False(t, ok)

	p, ok := City.Parent()
	require.True(t, ok)
	assert.Equal(t, State, p)

	assert.Equal(t, []Level{State, City}, Country.Deeper())
	assert.Equal(t, []Level{City}, State.Deeper())
	assert.Empty(t, City.Deeper())
}

func TestLevelStrings(t *testing.T) {
	assert.Equal(t, "country", Country.String())
	assert.Equal(t, "city", City.String())
	assert.Equal(t, "Level(9)", Level(9).String())
	assert.Equal(t, "Select State", State.Placeholder())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"country", Country},
		{"Countries", Country},
		{" states ", State},
		{"CITY", City},
		{"cities", City},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("province")
	assert.Error(t, err)
}
