package cba

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapState(t *testing.T) {
	s := NewMapState()

	_, ok := s.GetInt64("current-note-id")
	assert.False(t, ok)

	s.Set("current-note-id", int64(3))
	id, ok := s.GetInt64("current-note-id")
	assert.True(t, ok)
	assert.Equal(t, int64(3), id)

	s.Set("selected-tag-id", "12")
	id, ok = s.GetInt64("selected-tag-id")
	assert.True(t, ok)
	assert.Equal(t, int64(12), id)

	s.Set("search", "mm")
	assert.Equal(t, "mm", s.GetString("search"))
	assert.Equal(t, "", s.GetString("current-note-id"))

	s.Delete("search")
	assert.Equal(t, "", s.GetString("search"))

	s.Clear()
	_, ok = s.Get("current-note-id")
	assert.False(t, ok)
}
