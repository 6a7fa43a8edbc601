package executors

import (
	"fmt"
	"helin/catalog"
	"helin/catalog/db_types"
	"helin/disk/structures"
	"helin/execution"
	"helin/execution/expressions"
	"helin/execution/plans"
)

// HashJoinExecutor equi-joins left and right by building a hash table over the right (build) side
// keyed on its join-key expressions, then probing it once per left row. Supports Inner and Left
// joins, mirroring hash_join_executor.cpp's build/probe split.
//
// db_types has no null Value, so a Left join's unmatched right side is padded with each column's
// zero value (0 for integer columns, 0.0 for float columns, "" for any other column) rather than a
// real SQL NULL.
type HashJoinExecutor struct {
	BaseExecutor
	plan      *plans.HashJoinPlanNode
	leftExec  IExecutor
	rightExec IExecutor

	buildTable map[string][]catalog.Tuple

	leftTuple   catalog.Tuple
	haveLeft    bool
	leftMatched bool
	matches     []catalog.Tuple
	matchIdx    int
}

func (e *HashJoinExecutor) Init() {
	e.leftExec.Init()
	e.rightExec.Init()

	e.buildTable = make(map[string][]catalog.Tuple)
	rightSchema := e.plan.GetRightPlan().GetOutSchema()

	var rt catalog.Tuple
	var rr structures.Rid
	for e.rightExec.Next(&rt, &rr) == nil {
		key := e.joinKey(e.plan.GetRightKeyExpressions(), rt, rightSchema)
		e.buildTable[key] = append(e.buildTable[key], rt)
	}

	e.haveLeft = false
	e.leftMatched = false
	e.matches = nil
	e.matchIdx = 0
}

func (e *HashJoinExecutor) GetOutSchema() catalog.Schema {
	if e.plan.GetOutSchema() == nil {
		ls, rs := e.plan.GetLeftPlan().GetOutSchema(), e.plan.GetRightPlan().GetOutSchema()
		return concatSchemas(ls, rs)
	}

	return e.plan.OutSchema
}

func (e *HashJoinExecutor) joinKey(exprs []expressions.IExpression, t catalog.Tuple, s catalog.Schema) string {
	key := ""
	for _, expr := range exprs {
		val := expr.Eval(t, s)
		key += fmt.Sprintf("|%v", val.GetAsInterface())
	}
	return key
}

func (e *HashJoinExecutor) Next(t *catalog.Tuple, rid *structures.Rid) error {
	ls, rs := e.plan.GetLeftPlan().GetOutSchema(), e.plan.GetRightPlan().GetOutSchema()

	for {
		if e.haveLeft && e.matchIdx < len(e.matches) {
			rt := e.matches[e.matchIdx]
			e.matchIdx++
			e.leftMatched = true

			nr := concatRows(e.leftTuple.Row, rt.Row)
			*t = catalog.Tuple{Row: nr}
			return nil
		}

		if e.haveLeft && e.plan.GetJoinType() == plans.Left && !e.leftMatched {
			e.haveLeft = false
			nr := concatRows(e.leftTuple.Row, zeroRow(rs))
			*t = catalog.Tuple{Row: nr}
			return nil
		}

		var lr structures.Rid
		if err := e.leftExec.Next(&e.leftTuple, &lr); err != nil {
			return err
		}

		e.haveLeft = true
		e.leftMatched = false
		e.matchIdx = 0

		key := e.joinKey(e.plan.GetLeftKeyExpressions(), e.leftTuple, ls)
		e.matches = e.buildTable[key]
	}
}

func zeroRow(s catalog.Schema) structures.Row {
	values := make([]*db_types.Value, 0, len(s.GetColumns()))
	for _, col := range s.GetColumns() {
		values = append(values, zeroValueForType(col.TypeId))
	}

	tup, err := catalog.NewTupleWithSchema(values, s)
	if err != nil {
		panic(err)
	}
	return tup.Row
}

func zeroValueForType(typeId db_types.TypeID) *db_types.Value {
	switch typeId.KindID {
	case 1:
		return db_types.NewValue(int32(0))
	case 4:
		return db_types.NewValue(0.0)
	default:
		return db_types.NewValue("")
	}
}

func NewHashJoinExecutor(ctx *execution.ExecutorContext, plan *plans.HashJoinPlanNode, l, r IExecutor) *HashJoinExecutor {
	return &HashJoinExecutor{
		BaseExecutor: BaseExecutor{executorCtx: ctx},
		plan:         plan,
		leftExec:     l,
		rightExec:    r,
	}
}
