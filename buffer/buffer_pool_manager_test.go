package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"helin/disk"
)

func newTestPool(t *testing.T, poolSize int) *BufferPoolManager {
	dm, _, err := disk.NewDiskManager(t.TempDir() + "/bpm_test.db")
	require.NoError(t, err)
	t.Cleanup(func() { dm.Close() })

	sched := disk.NewDiskScheduler(dm, 8)
	t.Cleanup(sched.Shutdown)

	return NewBufferPoolManager(poolSize, sched, 2)
}

func TestBufferPoolManager_NewPageIsWritableAndDurable(t *testing.T) {
	bpm := newTestPool(t, 4)

	g, err := NewPageWrite(bpm)
	require.NoError(t, err)
	copy(g.GetDataMut(), []byte("hello"))
	pageId := g.PageId()
	g.Drop()

	require.NoError(t, bpm.FlushAllPages())

	rg, err := FetchPageRead(bpm, pageId)
	require.NoError(t, err)
	defer rg.Drop()
	assert.Equal(t, byte('h'), rg.GetData()[0])
}

func TestBufferPoolManager_ExhaustedPoolReturnsErrNoFreeFrames(t *testing.T) {
	bpm := newTestPool(t, 2)

	g1, err := NewPageWrite(bpm)
	require.NoError(t, err)
	g2, err := NewPageWrite(bpm)
	require.NoError(t, err)

	_, err = NewPageWrite(bpm)
	assert.ErrorIs(t, err, ErrNoFreeFrames)

	g1.Drop()
	g2.Drop()
}

func TestBufferPoolManager_UnpinnedPageIsEvictedWhenPoolIsFull(t *testing.T) {
	bpm := newTestPool(t, 2)

	g1, err := NewPageWrite(bpm)
	require.NoError(t, err)
	copy(g1.GetDataMut(), []byte("first"))
	firstId := g1.PageId()
	g1.Drop()

	g2, err := NewPageWrite(bpm)
	require.NoError(t, err)
	g2.Drop()

	g3, err := NewPageWrite(bpm)
	require.NoError(t, err)
	g3.Drop()

	rg, err := FetchPageRead(bpm, firstId)
	require.NoError(t, err)
	defer rg.Drop()
	assert.Equal(t, byte('f'), rg.GetData()[0])
}

func TestBufferPoolManager_DeletePageFailsWhilePinned(t *testing.T) {
	bpm := newTestPool(t, 2)

	g, err := NewPageWrite(bpm)
	require.NoError(t, err)
	pageId := g.PageId()

	assert.False(t, bpm.DeletePage(pageId))
	g.Drop()
	assert.True(t, bpm.DeletePage(pageId))
}
