package structures

import (
	"errors"
	"helin/btree"
	"helin/buffer"
	"helin/concurrency"
	"helin/disk/pages"
)

var ErrTupleNotFound = errors.New("tuple not found at given rid")

type Rid btree.SlotPointer

func NewRid(pageID, slotIdx int) Rid {
	return Rid{
		PageId:  int64(pageID),
		SlotIdx: int16(slotIdx),
	}
}

type ITableHeap interface {
	// InsertTuple Insert a tuple into the table. If the tuple is too large (>= page_size), return error.
	InsertTuple(row Row, txn concurrency.Transaction) (Rid, error)

	// UpdateTuple if the new tuple is too large to fit in the old page, return error (will delete and insert)
	UpdateTuple(row Row, rid Rid, txn concurrency.Transaction) error

	// ReadTuple if tuple does not exist at rid returns an error
	ReadTuple(rid Rid, dest *Row, txn concurrency.Transaction) error

	// HardDeleteTuple if tuple does not exist at rid returns an error
	HardDeleteTuple(rid Rid, txn concurrency.Transaction) error

	// Vacuum compresses the structure so that there are no gaps between pages and in pages.
	Vacuum() error
}

type TableHeap struct {
	pool        *buffer.BufferPoolManager
	firstPageID int
	lastPageID  int
}

// NewTableHeapWithTxn creates an empty table heap backed by a single freshly allocated heap page.
func NewTableHeapWithTxn(pool *buffer.BufferPoolManager, txn concurrency.Transaction) (*TableHeap, error) {
	g, err := buffer.NewPageWrite(pool)
	if err != nil {
		return nil, err
	}

	raw := pages.WrapRawPage(int(g.PageId()), g.GetDataMut())
	pages.InitHeapPage(raw)
	pid := int(g.PageId())
	g.Drop()

	return &TableHeap{
		pool:        pool,
		firstPageID: pid,
		lastPageID:  pid,
	}, nil
}

func (t *TableHeap) HardDeleteTuple(rid Rid, txn concurrency.Transaction) error {
	g, err := buffer.FetchPageWrite(t.pool, uint64(rid.PageId))
	if err != nil {
		return err
	}
	defer g.Drop()

	hp := pages.AsHeapPage(pages.WrapRawPage(int(rid.PageId), g.GetDataMut()))
	return hp.HardDelete(int(rid.SlotIdx))
}

func (t *TableHeap) InsertTuple(row Row, txn concurrency.Transaction) (Rid, error) {
	data := row.GetData()
	if len(data)+pages.SLOT_ARRAY_ENTRY_SIZE > buffer.PageSize-pages.HeapPageHeaderSize {
		return Rid{}, errors.New("tuple is too large to fit in a page")
	}

	currPageID := t.lastPageID
	for {
		g, err := buffer.FetchPageWrite(t.pool, uint64(currPageID))
		if err != nil {
			return Rid{}, err
		}
		hp := pages.AsHeapPage(pages.WrapRawPage(currPageID, g.GetDataMut()))

		if hp.GetFreeSpace() >= len(data)+pages.SLOT_ARRAY_ENTRY_SIZE {
			idx, err := hp.InsertTuple(data)
			if err != nil {
				g.Drop()
				return Rid{}, err
			}
			g.Drop()
			t.lastPageID = currPageID
			return NewRid(currPageID, idx), nil
		}

		h := hp.GetHeader()
		if h.NextPageID == 0 {
			newG, err := buffer.NewPageWrite(t.pool)
			if err != nil {
				g.Drop()
				return Rid{}, err
			}
			newRaw := pages.WrapRawPage(int(newG.PageId()), newG.GetDataMut())
			pages.InitHeapPage(newRaw)
			newPageID := int(newG.PageId())
			newG.Drop()

			h.NextPageID = uint64(newPageID)
			hp.SetHeader(h)
			g.Drop()

			currPageID = newPageID
			continue
		}

		g.Drop()
		currPageID = int(h.NextPageID)
	}
}

func (t *TableHeap) UpdateTuple(row Row, rid Rid, txn concurrency.Transaction) error {
	g, err := buffer.FetchPageWrite(t.pool, uint64(rid.PageId))
	if err != nil {
		return err
	}
	defer g.Drop()

	hp := pages.AsHeapPage(pages.WrapRawPage(int(rid.PageId), g.GetDataMut()))
	return hp.UpdateTuple(int(rid.SlotIdx), row.GetData())
}

func (t *TableHeap) ReadTuple(rid Rid, dest *Row, txn concurrency.Transaction) error {
	g, err := buffer.FetchPageRead(t.pool, uint64(rid.PageId))
	if err != nil {
		return err
	}
	defer g.Drop()

	hp := pages.AsHeapPage(pages.WrapRawPage(int(rid.PageId), g.GetData()))
	data := hp.GetTuple(int(rid.SlotIdx))
	if data == nil {
		return ErrTupleNotFound
	}

	// GetTuple returns a slice into the guarded frame, which is only valid until Drop; copy it out.
	cp := make([]byte, len(data))
	copy(cp, data)

	dest.Data = cp
	dest.Rid = rid
	return nil
}

func (t *TableHeap) Vacuum() error {
	// TODO: should it have a transaction? it might be beneficial to have a special transaction for these kind of
	// background jobs so that they can work in parallel to other processes too.
	panic("implement me")
}

func (t *TableHeap) GetFirstPageID() int {
	return t.firstPageID
}
