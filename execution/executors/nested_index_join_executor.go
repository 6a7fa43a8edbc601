package executors

import (
	"helin/btree"
	"helin/catalog"
	"helin/disk/structures"
	"helin/execution"
	"helin/execution/plans"
)

// NestedIndexJoinExecutor probes an index on the inner table once per outer row instead of
// scanning the inner table fully, the way IndexScanExecutor probes an index in place of a heap
// scan. Only equality probes against a unique index are supported, since BTree.Find returns at
// most one match; this mirrors IndexScanExecutor's point-lookup restriction.
type NestedIndexJoinExecutor struct {
	BaseExecutor
	plan        *plans.NestedIndexJoinPlanNode
	childExec   IExecutor
	innerIndex  *catalog.IndexInfo
	innerSchema catalog.Schema

	outerTuple   catalog.Tuple
	haveOuter    bool
	outerMatched bool
	found        bool
}

func (e *NestedIndexJoinExecutor) Init() {
	e.childExec.Init()
	e.innerIndex = e.executorCtx.Catalog.GetIndexByOID(e.plan.GetInnerIndexOID())
	e.innerSchema = e.innerIndex.GetTable().Schema

	e.haveOuter = false
	e.outerMatched = false
	e.found = false
}

func (e *NestedIndexJoinExecutor) GetOutSchema() catalog.Schema {
	if e.plan.GetOutSchema() == nil {
		return concatSchemas(e.plan.GetChildPlan().GetOutSchema(), e.innerSchema)
	}
	return e.plan.OutSchema
}

func (e *NestedIndexJoinExecutor) Next(t *catalog.Tuple, rid *structures.Rid) error {
	outerSchema := e.plan.GetChildPlan().GetOutSchema()
	innerTable := e.innerIndex.GetTable()

	for {
		if e.haveOuter && e.found {
			e.found = false

			v := e.plan.GetKeyPredicate().Eval(e.outerTuple, outerSchema)
			key := catalog.NewTupleKey(e.innerIndex.Schema, &v)

			if val := e.innerIndex.Index.Find(&key); val != nil {
				r := structures.Rid(val.(btree.SlotPointer))
				var innerTuple catalog.Tuple
				if err := innerTable.Heap.ReadTuple(r, innerTuple.GetRow(), e.executorCtx.Txn); err == nil {
					e.outerMatched = true
					nr := concatRows(e.outerTuple.Row, innerTuple.Row)
					*t = catalog.Tuple{Row: nr}
					return nil
				}
			}
		}

		if e.haveOuter && e.plan.GetJoinType() == plans.Left && !e.outerMatched {
			e.haveOuter = false
			nr := concatRows(e.outerTuple.Row, zeroRow(e.innerSchema))
			*t = catalog.Tuple{Row: nr}
			return nil
		}

		var or structures.Rid
		if err := e.childExec.Next(&e.outerTuple, &or); err != nil {
			return err
		}

		e.haveOuter = true
		e.outerMatched = false
		e.found = true
	}
}

func NewNestedIndexJoinExecutor(ctx *execution.ExecutorContext, plan *plans.NestedIndexJoinPlanNode, child IExecutor) *NestedIndexJoinExecutor {
	return &NestedIndexJoinExecutor{
		BaseExecutor: BaseExecutor{executorCtx: ctx},
		plan:         plan,
		childExec:    child,
	}
}
