package structures

import (
	"helin/buffer"
	"helin/common"
	"helin/concurrency"
	"helin/disk/pages"
)

type Iterator interface {
	Next() interface{}
}

type TableIterator struct {
	txn  concurrency.Transaction
	rid  Rid
	heap *TableHeap
}

func (it *TableIterator) Next() *Row {
	// TODO: get pool from somewhere else
	pool := it.heap.pool
	dest := Row{}

	g, err := buffer.FetchPageRead(pool, uint64(it.rid.PageId))
	common.PanicIfErr(err)
	hp := pages.AsHeapPage(pages.WrapRawPage(int(it.rid.PageId), g.GetData()))

	nextIdx, err := hp.GetNextIdx(int(it.rid.SlotIdx))
	if err != nil {
		for {
			nextPageID := int(hp.GetHeader().NextPageID)
			g.Drop()
			if nextPageID == 0 {
				// we come to the end of heap
				return nil
			}

			g, err = buffer.FetchPageRead(pool, uint64(nextPageID))
			common.PanicIfErr(err)
			hp = pages.AsHeapPage(pages.WrapRawPage(nextPageID, g.GetData()))
			nextIdx, err = hp.GetNextIdx(-1)
			if err != nil {
				continue
			}
			break
		}
	}

	nextRid := Rid{
		PageId:  int64(hp.GetPageId()),
		SlotIdx: int16(nextIdx),
	}
	g.Drop()

	if err := it.heap.ReadTuple(nextRid, &dest, it.txn); err != nil {
		panic(err)
	}

	it.rid = nextRid
	return &dest
}

func NewTableIterator(txn concurrency.Transaction, heap *TableHeap) *TableIterator {
	return &TableIterator{
		txn: txn,
		rid: Rid{
			PageId:  int64(heap.firstPageID),
			SlotIdx: -1,
		},
		heap: heap,
	}
}
