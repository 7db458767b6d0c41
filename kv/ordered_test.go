package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderedPutReplacesInPlace(t *testing.T) {
	m := NewOrdered[string, int]()
	m.Put("a", 1)
	m.Put("b", 2)
	m.Put("a", 3)

	assert.Equal(t, []string{"a", "b"}, m.Keys())
	v, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestOrderedRemove(t *testing.T) {
	m := NewOrdered[string, int]()
	m.Put("a", 1)
	m.Put("b", 2)
	m.Remove("a")

	assert.Equal(t, []string{"b"}, m.Keys())
	assert.False(t, m.ContainsKey("a"))
}
