package executors

import (
	"helin/btree"
	"helin/catalog"
	"helin/disk/structures"
	"helin/execution"
	"helin/execution/expressions"
	"helin/execution/plans"
)

// IndexScanExecutor serves tuples through an index instead of a full heap walk. Grounded on
// index_scan_executor.cpp's two modes: a point lookup when the predicate is a single equality
// against the index's leading column, otherwise an ordered scan of the whole index filtering each
// fetched tuple the way SeqScanExecutor does.
type IndexScanExecutor struct {
	BaseExecutor
	plan      *plans.IndexScanPlanNode
	indexIter *btree.TreeIterator
	index     *catalog.IndexInfo

	pointLookup  bool
	pointResults []structures.Rid
	pointIdx     int
}

func (e *IndexScanExecutor) Init() {
	e.index = e.executorCtx.Catalog.GetIndexByOID(e.plan.GetIndexOID())

	if key, ok := e.pointLookupKey(); ok {
		e.pointLookup = true
		e.pointResults = nil
		e.pointIdx = 0
		if val := e.index.Index.Find(&key); val != nil {
			e.pointResults = append(e.pointResults, structures.Rid(val.(btree.SlotPointer)))
		}
		return
	}

	e.pointLookup = false
	e.indexIter = btree.NewTreeIterator(e.executorCtx.Txn, e.index.Index, e.index.Index.GetPager())
}

// pointLookupKey recognizes a predicate of the shape `col = const` where col is the index's sole,
// unique leading column, and builds the index key to look it up with.
func (e *IndexScanExecutor) pointLookupKey() (catalog.TupleKey, bool) {
	pred := e.plan.GetPredicate()
	if pred == nil || !e.index.IsUnique || len(e.index.ColumnIndexes) != 1 {
		return catalog.TupleKey{}, false
	}

	cmp, ok := pred.(*expressions.CompExpression)
	if !ok || cmp.GetCompType() != expressions.Equal {
		return catalog.TupleKey{}, false
	}

	colExpr, constExpr, ok := splitColumnAndConst(cmp)
	if !ok || colExpr.ColIdx != e.index.ColumnIndexes[0] {
		return catalog.TupleKey{}, false
	}

	v := constExpr.GetValue()
	return catalog.NewTupleKey(e.index.Schema, &v), true
}

func splitColumnAndConst(cmp *expressions.CompExpression) (*expressions.GetColumnExpression, *expressions.ConstExpression, bool) {
	lhs, rhs := cmp.GetChildAt(0), cmp.GetChildAt(1)
	if col, ok := lhs.(*expressions.GetColumnExpression); ok {
		if c, ok := rhs.(*expressions.ConstExpression); ok {
			return col, c, true
		}
	}
	if col, ok := rhs.(*expressions.GetColumnExpression); ok {
		if c, ok := lhs.(*expressions.ConstExpression); ok {
			return col, c, true
		}
	}
	return nil, nil, false
}

func (e *IndexScanExecutor) GetOutSchema() catalog.Schema {
	return e.plan.OutSchema
}

func (e *IndexScanExecutor) Next(t *catalog.Tuple, rid *structures.Rid) error {
	table := e.index.GetTable()

	if e.pointLookup {
		for e.pointIdx < len(e.pointResults) {
			r := e.pointResults[e.pointIdx]
			e.pointIdx++

			if err := table.Heap.ReadTuple(r, t.GetRow(), e.executorCtx.Txn); err != nil {
				continue
			}
			*rid = r
			return nil
		}
		return ErrNoTuple{}
	}

	for {
		val := e.indexIter.Next()
		if val == nil {
			return ErrNoTuple{}
		}

		r := structures.Rid(val.(btree.SlotPointer))
		if err := table.Heap.ReadTuple(r, t.GetRow(), e.executorCtx.Txn); err != nil {
			continue
		}
		*rid = r

		pred := e.plan.GetPredicate()
		if pred != nil {
			v := pred.Eval(*t, e.GetOutSchema())
			if !v.GetAsInterface().(bool) {
				continue
			}
		}
		return nil
	}
}

func NewIndexScanExecutor(ctx *execution.ExecutorContext, plan *plans.IndexScanPlanNode) *IndexScanExecutor {
	return &IndexScanExecutor{
		BaseExecutor: BaseExecutor{
			executorCtx: ctx,
		},
		plan: plan,
	}
}
