package buffer

import "sync"

// PageSize is the fixed size in bytes of every buffer-pool frame and every on-disk page slot.
const PageSize = 4096

// page is a frame-resident copy of a disk page plus its buffer-pool bookkeeping: latch, pin count
// and dirty flag. Grounded on disk/pages.RawPage's field set (pageId, isDirty, rwLatch, PinCount,
// Data), kept local to this package because the copied pages.RawPage/PoolV2 pairing in the teacher
// tree references fields (PageId, GetWholeData, GetPageLSN, TryRLatch) that were never defined
// anywhere in the retrieved snapshot; rather than build atop that broken pairing, frames here carry
// a self-contained page type exercised by the new BufferPoolManager and DiskScheduler.
type page struct {
	pageId   uint64
	data     [PageSize]byte
	pinCount int32
	isDirty  bool
	latch    sync.RWMutex
}

func newPage() *page {
	return &page{}
}

func (p *page) reset(pageId uint64) {
	p.pageId = pageId
	p.pinCount = 0
	p.isDirty = false
	for i := range p.data {
		p.data[i] = 0
	}
}
