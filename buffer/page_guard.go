package buffer

// ReadPageGuard and WritePageGuard give RAII-shaped access to a pinned, latched page. Go has no
// destructors, so unlike the reference guards these rely on an explicit Drop() (or a deferred
// call to it) rather than scope exit; forgetting to call Drop leaks a pin exactly as forgetting to
// unpin would in the teacher's PoolV2.pin/unpinFrame pairing. Grounded on that pairing's drop
// order: release the page latch first, then unpin in the pool (which may mark the frame evictable).

// ReadPageGuard holds a page's read latch and its buffer-pool pin.
type ReadPageGuard struct {
	bpm     *BufferPoolManager
	pageId  uint64
	page    *page
	dropped bool
}

// FetchPageRead fetches pageId, pins it and takes its read latch.
func FetchPageRead(bpm *BufferPoolManager, pageId uint64) (*ReadPageGuard, error) {
	frameIdx, err := bpm.FetchPage(pageId)
	if err != nil {
		return nil, err
	}
	p := bpm.dataOf(frameIdx)
	p.latch.RLock()
	return &ReadPageGuard{bpm: bpm, pageId: pageId, page: p}, nil
}

func (g *ReadPageGuard) PageId() uint64 { return g.pageId }

// GetData returns the page's bytes. Valid only until Drop.
func (g *ReadPageGuard) GetData() []byte {
	return g.page.data[:]
}

// Drop releases the read latch and unpins the page, making it eligible for eviction once nothing
// else holds it. Safe to call more than once.
func (g *ReadPageGuard) Drop() {
	if g.dropped {
		return
	}
	g.dropped = true
	g.page.latch.RUnlock()
	g.bpm.UnpinPage(g.pageId, false)
}

// WritePageGuard holds a page's write latch and its buffer-pool pin. Any access through
// GetDataMut implicitly dirties the page; the dirty flag is applied at Drop time.
type WritePageGuard struct {
	bpm     *BufferPoolManager
	pageId  uint64
	page    *page
	dropped bool
}

// FetchPageWrite fetches pageId, pins it and takes its write latch.
func FetchPageWrite(bpm *BufferPoolManager, pageId uint64) (*WritePageGuard, error) {
	frameIdx, err := bpm.FetchPage(pageId)
	if err != nil {
		return nil, err
	}
	p := bpm.dataOf(frameIdx)
	p.latch.Lock()
	return &WritePageGuard{bpm: bpm, pageId: pageId, page: p}, nil
}

// NewPageWrite allocates a fresh page and returns it already pinned and write-latched.
func NewPageWrite(bpm *BufferPoolManager) (*WritePageGuard, error) {
	pageId, frameIdx, err := bpm.NewPage()
	if err != nil {
		return nil, err
	}
	p := bpm.dataOf(frameIdx)
	p.latch.Lock()
	return &WritePageGuard{bpm: bpm, pageId: pageId, page: p}, nil
}

func (g *WritePageGuard) PageId() uint64 { return g.pageId }

// GetData returns the page's bytes without marking it dirty.
func (g *WritePageGuard) GetData() []byte {
	return g.page.data[:]
}

// GetDataMut returns the page's bytes for mutation and marks the page dirty.
func (g *WritePageGuard) GetDataMut() []byte {
	g.page.isDirty = true
	return g.page.data[:]
}

// Flush writes the page to disk immediately without releasing the guard.
func (g *WritePageGuard) Flush() error {
	return g.bpm.FlushPage(g.pageId)
}

// Drop releases the write latch and unpins the page, carrying forward its dirty flag. Safe to
// call more than once.
func (g *WritePageGuard) Drop() {
	if g.dropped {
		return
	}
	g.dropped = true
	dirty := g.page.isDirty
	g.page.latch.Unlock()
	g.bpm.UnpinPage(g.pageId, dirty)
}
