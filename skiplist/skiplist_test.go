package skiplist

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkipList_EmptyAndSize(t *testing.T) {
	s := NewOrdered[int](DefaultMaxHeight)
	assert.True(t, s.Empty())
	assert.Equal(t, 0, s.Size())

	require.True(t, s.Insert(5))
	assert.False(t, s.Empty())
	assert.Equal(t, 1, s.Size())
}

func TestSkipList_InsertRejectsDuplicate(t *testing.T) {
	s := NewOrdered[int](DefaultMaxHeight)
	require.True(t, s.Insert(3))
	assert.False(t, s.Insert(3))
	assert.Equal(t, 1, s.Size())
}

func TestSkipList_ContainsAndOrderedKeys(t *testing.T) {
	s := NewWithSeed[int](func(a, b int) bool { return a < b }, DefaultMaxHeight, 42)

	values := []int{8, 3, 1, 9, 4, 2, 7, 6, 5}
	for _, v := range values {
		require.True(t, s.Insert(v))
	}

	for _, v := range values {
		assert.True(t, s.Contains(v))
	}
	assert.False(t, s.Contains(100))

	sorted := append([]int(nil), values...)
	sort.Ints(sorted)
	assert.Equal(t, sorted, s.Keys())
}

func TestSkipList_EraseMissingReturnsFalse(t *testing.T) {
	s := NewOrdered[int](DefaultMaxHeight)
	require.True(t, s.Insert(1))
	assert.False(t, s.Erase(2))
	assert.Equal(t, 1, s.Size())
}

func TestSkipList_EraseShrinksHeight(t *testing.T) {
	s := NewWithSeed[int](func(a, b int) bool { return a < b }, DefaultMaxHeight, 7)

	for i := 0; i < 50; i++ {
		require.True(t, s.Insert(i))
	}
	for i := 0; i < 50; i++ {
		require.True(t, s.Erase(i))
	}

	assert.True(t, s.Empty())
	assert.Equal(t, 0, s.Size())
	assert.Equal(t, 1, s.height)
	assert.Empty(t, s.Keys())
}

func TestSkipList_Clear(t *testing.T) {
	s := NewOrdered[int](DefaultMaxHeight)
	for i := 0; i < 20; i++ {
		require.True(t, s.Insert(i))
	}

	s.Clear()
	assert.True(t, s.Empty())
	assert.Equal(t, 0, s.Size())
	assert.False(t, s.Contains(5))

	require.True(t, s.Insert(5))
	assert.True(t, s.Contains(5))
}

func TestSkipList_SmallMaxHeightCapsLevels(t *testing.T) {
	s := NewOrdered[int](2)
	for i := 0; i < 100; i++ {
		require.True(t, s.Insert(i))
	}
	assert.LessOrEqual(t, s.height, 2)
	assert.Equal(t, 100, s.Size())
}
