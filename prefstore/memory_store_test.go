package prefstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	_, ok := s.Get("a")
	assert.False(t, ok)

	require.NoError(t, s.Set("a", "1"))
	require.NoError(t, s.Set("b", "2"))
	v, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, s.Snapshot())

	require.NoError(t, s.Remove("a", "missing"))
	assert.Equal(t, map[string]string{"b": "2"}, s.Snapshot())

	require.NoError(t, s.Clear())
	assert.Empty(t, s.Snapshot())
}
