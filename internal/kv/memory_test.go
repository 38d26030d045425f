package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	var s Store[int] = NewMemoryStore[int]()

	require.NoError(t, s.Insert("b", 2))
	require.NoError(t, s.Insert("a", 1))
	assert.Equal(t, []string{"a", "b"}, s.Keys())

	v, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	v, had, err := s.Remove("a")
	require.NoError(t, err)
	assert.True(t, had)
	assert.Equal(t, 1, v)

	_, had, err = s.Remove("a")
	require.NoError(t, err)
	assert.False(t, had)
	assert.Equal(t, []string{"b"}, s.Keys())
}

var (
	_ Store[int] = (*MemoryStore[int])(nil)
	_ Store[int] = (*JSONFileStore[int])(nil)
)
