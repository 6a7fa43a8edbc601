package buffer

import (
	"errors"
	"helin/disk"
	"sync"
)

var ErrNoFreeFrames = errors.New("buffer pool: no free frames available to evict")

// frameSlot is one slot of the pool's fixed frame array, holding its resident page.
type frameSlot struct {
	page *page
}

// BufferPoolManager is the fixed-size cache of disk pages sitting in front of a DiskScheduler.
// Grounded on buffer.PoolV2's concurrency idiom (a single pool-wide mutex guarding the page table
// and free list, a pluggable IReplacer for eviction, per-frame latches never held across I/O) but
// rebuilt against the DiskScheduler/LRUKReplacer pair instead of PoolV2's WAL-coupled frame
// machinery, whose pages.RawPage dependency is missing required fields in the retrieved snapshot.
type BufferPoolManager struct {
	mu         sync.Mutex
	frames     []*frameSlot
	pageTable  map[uint64]int
	freeList   []int
	lruk       *LRUKReplacer
	scheduler  *disk.DiskScheduler
	nextPageId uint64
}

// NewBufferPoolManager constructs a pool of poolSize frames backed by scheduler, with eviction
// governed by an LRU-K replacer of history depth k.
func NewBufferPoolManager(poolSize int, scheduler *disk.DiskScheduler, k int) *BufferPoolManager {
	free := make([]int, poolSize)
	frames := make([]*frameSlot, poolSize)
	for i := 0; i < poolSize; i++ {
		free[i] = i
		frames[i] = &frameSlot{page: newPage()}
	}

	lruk := NewLRUKReplacer(poolSize, k)
	return &BufferPoolManager{
		frames:    frames,
		pageTable: make(map[uint64]int),
		freeList:  free,
		lruk:      lruk,
		scheduler: scheduler,
	}
}

// Size returns the pool's fixed frame capacity.
func (b *BufferPoolManager) Size() int {
	return len(b.frames)
}

// pickFrame returns an available frame index: a free frame if one exists, otherwise an evicted
// victim. Must be called with b.mu held. Returns false if the pool is fully pinned.
func (b *BufferPoolManager) pickFrame() (int, bool) {
	if n := len(b.freeList); n > 0 {
		idx := b.freeList[n-1]
		b.freeList = b.freeList[:n-1]
		return idx, true
	}

	victim, ok := b.lruk.Evict()
	if !ok {
		return 0, false
	}

	frame := b.frames[victim]
	if frame.page.isDirty {
		b.flushFrameLocked(victim)
	}
	delete(b.pageTable, frame.page.pageId)
	return victim, true
}

func (b *BufferPoolManager) flushFrameLocked(frameIdx int) {
	frame := b.frames[frameIdx]
	done := b.scheduler.CreatePromise()
	data := make([]byte, PageSize)
	copy(data, frame.page.data[:])
	b.scheduler.Schedule(&disk.DiskRequest{IsWrite: true, Data: data, PageId: frame.page.pageId, Done: done})
	<-done
	frame.page.isDirty = false
}

// NewPage allocates a fresh page on disk, installs it in a frame pinned once, and returns its id
// and frame index. Returns ErrNoFreeFrames if every frame is pinned.
func (b *BufferPoolManager) NewPage() (pageId uint64, frameIdx int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx, ok := b.pickFrame()
	if !ok {
		return 0, 0, ErrNoFreeFrames
	}

	b.nextPageId++
	pageId = b.nextPageId
	b.frames[idx].page.reset(pageId)
	b.pageTable[pageId] = idx
	_ = b.lruk.RecordAccess(idx, AccessUnknown)
	_ = b.lruk.SetEvictable(idx, false)
	return pageId, idx, nil
}

// FetchPage resolves pageId to a resident frame, reading it from disk on a miss. Returns
// ErrNoFreeFrames if the page is absent and no frame can be freed for it.
func (b *BufferPoolManager) FetchPage(pageId uint64) (frameIdx int, err error) {
	b.mu.Lock()

	if idx, ok := b.pageTable[pageId]; ok {
		_ = b.lruk.RecordAccess(idx, AccessUnknown)
		_ = b.lruk.SetEvictable(idx, false)
		b.mu.Unlock()
		return idx, nil
	}

	idx, ok := b.pickFrame()
	if !ok {
		b.mu.Unlock()
		return 0, ErrNoFreeFrames
	}
	b.frames[idx].page.reset(pageId)
	b.pageTable[pageId] = idx
	_ = b.lruk.RecordAccess(idx, AccessUnknown)
	_ = b.lruk.SetEvictable(idx, false)

	frame := b.frames[idx]
	b.mu.Unlock()

	done := b.scheduler.CreatePromise()
	buf := make([]byte, PageSize)
	b.scheduler.Schedule(&disk.DiskRequest{IsWrite: false, Data: buf, PageId: pageId, Done: done})
	<-done

	frame.page.latch.Lock()
	copy(frame.page.data[:], buf)
	frame.page.latch.Unlock()

	return idx, nil
}

// UnpinPage marks pageId's page as no longer needed by the caller, optionally flagging it dirty.
// Once the page's last pinner unpins it becomes eligible for eviction.
func (b *BufferPoolManager) UnpinPage(pageId uint64, isDirty bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx, ok := b.pageTable[pageId]
	if !ok {
		return
	}
	if isDirty {
		b.frames[idx].page.isDirty = true
	}
	_ = b.lruk.SetEvictable(idx, true)
}

// FlushPage writes pageId's frame to disk unconditionally, regardless of its dirty flag.
func (b *BufferPoolManager) FlushPage(pageId uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx, ok := b.pageTable[pageId]
	if !ok {
		return nil
	}
	b.flushFrameLocked(idx)
	return nil
}

// FlushAllPages writes every resident page to disk, dirty or not.
func (b *BufferPoolManager) FlushAllPages() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for pageId := range b.pageTable {
		b.flushFrameLocked(b.pageTable[pageId])
	}
	return nil
}

// DeletePage removes pageId from the pool and returns it to the disk's free list. Fails silently (returns false)
// if the page is still pinned.
func (b *BufferPoolManager) DeletePage(pageId uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx, ok := b.pageTable[pageId]
	if !ok {
		return true
	}
	if b.lruk.NumPinnedPagesFor(idx) {
		return false
	}

	delete(b.pageTable, pageId)
	_ = b.lruk.Remove(idx)
	b.freeList = append(b.freeList, idx)
	b.scheduler.DeallocatePage(pageId)
	return true
}

// GetPinCount reports whether pageId is currently pinned (present but not evictable). It exists
// primarily for tests asserting pin/unpin discipline.
func (b *BufferPoolManager) GetPinCount(pageId uint64) (pinned bool, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx, present := b.pageTable[pageId]
	if !present {
		return false, false
	}
	return b.lruk.NumPinnedPagesFor(idx), true
}

// dataOf exposes the raw frame buffer for a resident page; used by page guards.
func (b *BufferPoolManager) dataOf(frameIdx int) *page {
	return b.frames[frameIdx].page
}
