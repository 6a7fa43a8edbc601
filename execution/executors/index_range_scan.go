package executors

import (
	"helin/btree"
	"helin/catalog"
	"helin/catalog/db_types"
	"helin/disk/structures"
	"helin/execution"
	"helin/execution/plans"
)

// IndexRangeScanExecutor walks an index in key order starting at min (inclusive, or the first key
// if min is nil) and stops once a fetched key reaches max (exclusive), matching BusTub's
// BPlusTreeIndexIterator range-scan convention.
type IndexRangeScanExecutor struct {
	BaseExecutor
	plan      *plans.IndexRangeScanPlanNode
	indexIter *btree.TreeIterator
	index     *catalog.IndexInfo
}

func (e *IndexRangeScanExecutor) Init() {
	min, _ := e.plan.GetRange()
	e.index = e.executorCtx.Catalog.GetIndexByOID(e.plan.GetIndexOID())
	pager := e.index.Index.GetPager()

	if min != nil {
		e.indexIter = btree.NewTreeIteratorWithKey(e.executorCtx.Txn, min, e.index.Index, pager)
	} else {
		e.indexIter = btree.NewTreeIterator(e.executorCtx.Txn, e.index.Index, pager)
	}
}

func (e *IndexRangeScanExecutor) GetOutSchema() catalog.Schema {
	return e.plan.OutSchema
}

func (e *IndexRangeScanExecutor) Next(t *catalog.Tuple, rid *structures.Rid) error {
	_, max := e.plan.GetRange()
	table := e.index.GetTable()

	for {
		val := e.indexIter.Next()
		if val == nil {
			return ErrNoTuple{}
		}

		r := structures.Rid(val.(btree.SlotPointer))
		if err := table.Heap.ReadTuple(r, t.GetRow(), e.executorCtx.Txn); err != nil {
			continue
		}

		if max != nil {
			// the iterator only ever hands back values, not keys, so rebuild the indexed
			// column(s) off the fetched tuple to compare against the upper bound the same way
			// IndexScanExecutor's point lookup builds a key off a predicate constant.
			vals := make([]*db_types.Value, 0, len(e.index.ColumnIndexes))
			for _, idx := range e.index.ColumnIndexes {
				vals = append(vals, t.GetValue(table.Schema, idx))
			}
			tk := catalog.NewTupleKey(e.index.BareSchema, vals...)
			if !tk.Less(max) {
				return ErrNoTuple{}
			}
		}

		*rid = r
		return nil
	}
}

func NewIndexRangeScanExecutor(ctx *execution.ExecutorContext, plan *plans.IndexRangeScanPlanNode) *IndexRangeScanExecutor {
	return &IndexRangeScanExecutor{
		BaseExecutor: BaseExecutor{
			executorCtx: ctx,
		},
		plan: plan,
	}
}
