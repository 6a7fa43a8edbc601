package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUKReplacer_SeedScenario(t *testing.T) {
	r := NewLRUKReplacer(7, 2)

	for _, f := range []int{1, 2, 3, 4, 5, 6} {
		require.NoError(t, r.RecordAccess(f, AccessUnknown))
	}
	for _, f := range []int{1, 2, 3, 4, 5} {
		require.NoError(t, r.RecordAccess(f, AccessUnknown))
	}
	for _, f := range []int{1, 2, 3, 4, 5, 6} {
		require.NoError(t, r.SetEvictable(f, true))
	}

	assert.Equal(t, 6, r.Size())

	// frame 6 was recorded once (k=2), so it carries +inf backward k-distance and goes first;
	// the rest have distances 10,9,8,7,6 for frames 1..5 respectively, so descending order follows.
	expected := []int{6, 1, 2, 3, 4, 5}
	for i, want := range expected {
		got, ok := r.Evict()
		require.True(t, ok, "eviction %d should succeed", i)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 0, r.Size())
}

func TestLRUKReplacer_InvalidFrameId(t *testing.T) {
	r := NewLRUKReplacer(4, 2)
	assert.ErrorIs(t, r.RecordAccess(-1, AccessUnknown), ErrInvalidFrameId)
	assert.ErrorIs(t, r.RecordAccess(4, AccessUnknown), ErrInvalidFrameId)
}

func TestLRUKReplacer_RemoveNonEvictableIsInvariantViolation(t *testing.T) {
	r := NewLRUKReplacer(4, 2)
	require.NoError(t, r.RecordAccess(0, AccessUnknown))
	assert.ErrorIs(t, r.Remove(0), ErrFrameNotEvictable)

	require.NoError(t, r.Remove(3)) // absent frame is a silent no-op
}

func TestLRUKReplacer_EvictReturnsFalseWhenNothingEvictable(t *testing.T) {
	r := NewLRUKReplacer(2, 2)
	require.NoError(t, r.RecordAccess(0, AccessUnknown))
	_, ok := r.Evict()
	assert.False(t, ok)
}
