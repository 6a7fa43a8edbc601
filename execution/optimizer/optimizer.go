// Package optimizer rewrites a plan tree into an equivalent, cheaper one before it is executed.
// Grounded on BusTub's Optimizer class: a handful of independent rules, each walking the whole
// tree bottom-up and rebuilding a node (via IPlanNode.WithChildren) once its children have already
// been optimized.
package optimizer

import (
	"helin/catalog"
	"helin/execution/expressions"
	"helin/execution/plans"
)

// Optimizer holds whatever catalog state a rule needs to decide whether a rewrite applies, e.g.
// which indexes exist on a table.
type Optimizer struct {
	Catalog catalog.Catalog
}

func NewOptimizer(c catalog.Catalog) *Optimizer {
	return &Optimizer{Catalog: c}
}

// Optimize runs every rule over plan, in the same order BusTub's default rule chain applies them:
// index-friendly scans are chosen before joins are rewritten, so a later rule sees the cheaper
// scan shape.
func (o *Optimizer) Optimize(plan plans.IPlanNode) plans.IPlanNode {
	plan = o.OptimizeSeqScanAsIndexScan(plan)
	plan = o.OptimizeNLJAsHashJoin(plan)
	return plan
}

func optimizeChildren(plan plans.IPlanNode, rule func(plans.IPlanNode) plans.IPlanNode) plans.IPlanNode {
	children := plan.GetChildren()
	newChildren := make([]plans.IPlanNode, len(children))
	for i, child := range children {
		newChildren[i] = rule(child)
	}
	return plan.WithChildren(newChildren)
}

// OptimizeSeqScanAsIndexScan replaces a SeqScanPlanNode filtered by `col = const` with an
// IndexScanPlanNode when the table has a unique single-column index on col, letting
// IndexScanExecutor serve the predicate as a point lookup instead of a full heap walk. Grounded on
// seqscan_as_indexscan.cpp's OptimizeSeqScanAsIndexScan, narrowed to the single equality condition
// this codebase's IndexScanExecutor actually knows how to point-lookup (no OR/disjunction support,
// since there is no LogicExpression here).
func (o *Optimizer) OptimizeSeqScanAsIndexScan(plan plans.IPlanNode) plans.IPlanNode {
	optimized := optimizeChildren(plan, o.OptimizeSeqScanAsIndexScan)

	seqScan, ok := optimized.(*plans.SeqScanPlanNode)
	if !ok {
		return optimized
	}

	pred := seqScan.GetPredicate()
	if pred == nil {
		return optimized
	}

	colIdx, ok := equalityColumnIdx(pred)
	if !ok {
		return optimized
	}

	table := o.Catalog.GetTableByOID(seqScan.GetTableOID())
	if table == nil {
		return optimized
	}

	for _, idx := range o.Catalog.GetTableIndexes(table.Name) {
		if idx.IsUnique && len(idx.ColumnIndexes) == 1 && idx.ColumnIndexes[0] == colIdx {
			return plans.NewIndexScanPlanNode(seqScan.GetOutSchema(), pred, idx.OID)
		}
	}

	return optimized
}

// equalityColumnIdx recognizes a predicate of the shape `col = const` and returns col's index,
// mirroring IsIndexFriendly/ExtractEqualityConditions's equality-only case.
func equalityColumnIdx(pred expressions.IExpression) (int, bool) {
	cmp, ok := pred.(*expressions.CompExpression)
	if !ok || cmp.GetCompType() != expressions.Equal {
		return 0, false
	}

	lhs, rhs := cmp.GetChildAt(0), cmp.GetChildAt(1)
	if col, ok := lhs.(*expressions.GetColumnExpression); ok {
		if _, ok := rhs.(*expressions.ConstExpression); ok {
			return col.ColIdx, true
		}
	}
	if col, ok := rhs.(*expressions.GetColumnExpression); ok {
		if _, ok := lhs.(*expressions.ConstExpression); ok {
			return col.ColIdx, true
		}
	}
	return 0, false
}

// OptimizeNLJAsHashJoin replaces a NestedLoopJoinPlanNode predicated on a single equi-condition
// between its two sides with a HashJoinPlanNode built over that condition's columns, matching
// HashJoinExecutor's key-expression-list shape. Grounded on nlj_as_hash_join.cpp's
// OptimizeNLJAsHashJoin; narrowed the same way to a single equi-condition rather than an
// arbitrary AND-chain, since there is no LogicExpression to recurse through here.
func (o *Optimizer) OptimizeNLJAsHashJoin(plan plans.IPlanNode) plans.IPlanNode {
	optimized := optimizeChildren(plan, o.OptimizeNLJAsHashJoin)

	nlj, ok := optimized.(*plans.NestedLoopJoinPlanNode)
	if !ok || nlj.GetPredicate() == nil {
		return optimized
	}

	left, right, ok := extractEquiJoinKeys(nlj.GetPredicate())
	if !ok {
		return optimized
	}

	return plans.NewHashJoinPlanNode(
		nlj.GetOutSchema(),
		nlj.GetLeftPlan(),
		nlj.GetRightPlan(),
		[]expressions.IExpression{left},
		[]expressions.IExpression{right},
		plans.Inner,
	)
}

// extractEquiJoinKeys recognizes `leftCol = rightCol` (one column from each side of the join) and
// returns a key expression for each side, normalized to reference that side's own output schema
// the way HashJoinExecutor's joinKey expects (it evaluates each key expression against one side's
// tuple/schema alone, so the expression's TupleIdx is irrelevant and left at its zero value).
func extractEquiJoinKeys(pred expressions.IExpression) (left, right expressions.IExpression, ok bool) {
	cmp, isCmp := pred.(*expressions.CompExpression)
	if !isCmp || cmp.GetCompType() != expressions.Equal {
		return nil, nil, false
	}

	lhs, lok := cmp.GetChildAt(0).(*expressions.GetColumnExpression)
	rhs, rok := cmp.GetChildAt(1).(*expressions.GetColumnExpression)
	if !lok || !rok || lhs.TupleIdx == rhs.TupleIdx {
		return nil, nil, false
	}

	if lhs.TupleIdx == 0 {
		return &expressions.GetColumnExpression{ColIdx: lhs.ColIdx}, &expressions.GetColumnExpression{ColIdx: rhs.ColIdx}, true
	}
	return &expressions.GetColumnExpression{ColIdx: rhs.ColIdx}, &expressions.GetColumnExpression{ColIdx: lhs.ColIdx}, true
}
