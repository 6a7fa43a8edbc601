package disk

import (
	"sync"
)

// DiskRequest is a single scheduled read or write against a page-aligned disk slot. Data is read
// into or written out of Data depending on IsWrite; Done carries the outcome back to the issuer.
type DiskRequest struct {
	IsWrite bool
	Data    []byte
	PageId  uint64
	Done    chan bool
}

// DiskSchedulerPromise is the completion channel handed back by CreatePromise. Callers block on it
// after Schedule to learn whether the request succeeded.
type DiskSchedulerPromise = chan bool

// DiskScheduler serializes disk access behind a single background goroutine so callers never touch
// the underlying IDiskManager directly. Grounded on the reference DiskScheduler (single worker
// thread draining a channel, nil-sentinel shutdown); the teacher's disk.Manager has no equivalent
// queueing layer of its own, so this is new code wrapping it rather than an adaptation of an
// existing file.
type DiskScheduler struct {
	diskManager IDiskManager
	queue       chan *DiskRequest
	wg          sync.WaitGroup
}

// NewDiskScheduler starts the worker goroutine and returns a scheduler ready to accept requests.
// queueDepth bounds the number of in-flight requests before Schedule blocks.
func NewDiskScheduler(diskManager IDiskManager, queueDepth int) *DiskScheduler {
	s := &DiskScheduler{
		diskManager: diskManager,
		queue:       make(chan *DiskRequest, queueDepth),
	}
	s.wg.Add(1)
	go s.startWorker()
	return s
}

// CreatePromise allocates a fresh completion channel for a single DiskRequest.
func (s *DiskScheduler) CreatePromise() DiskSchedulerPromise {
	return make(chan bool, 1)
}

// Schedule enqueues r for processing by the background worker. It does not block on completion;
// the caller receives on r.Done for that.
func (s *DiskScheduler) Schedule(r *DiskRequest) {
	s.queue <- r
}

// startWorker drains the queue until a nil request signals shutdown, issuing each request against
// the disk manager in order and reporting success on its Done channel.
func (s *DiskScheduler) startWorker() {
	defer s.wg.Done()

	for r := range s.queue {
		if r == nil {
			return
		}

		success := true
		if r.IsWrite {
			if err := s.diskManager.WritePage(r.Data, r.PageId); err != nil {
				success = false
			}
		} else {
			data, err := s.diskManager.ReadPage(r.PageId)
			if err != nil {
				success = false
			} else {
				copy(r.Data, data)
			}
		}

		r.Done <- success
	}
}

// DeallocatePage releases pageId back to the disk manager's free list. Grounded on the reference's
// DeallocatePage, which is likewise a thin pass-through since there is no separate tracking
// structure for deallocated-but-not-yet-reused pages.
func (s *DiskScheduler) DeallocatePage(pageId uint64) {
	s.diskManager.FreePage(pageId)
}

// Shutdown pushes the nil sentinel and waits for the worker goroutine to exit. Safe to call once;
// requests scheduled after Shutdown are never serviced (Schedule itself blocks only once the
// queue's buffer is full), matching the reference's destructor
// semantics where no request survives scheduler teardown.
func (s *DiskScheduler) Shutdown() {
	s.queue <- nil
	s.wg.Wait()
}
