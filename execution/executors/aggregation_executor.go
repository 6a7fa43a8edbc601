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

type aggregateValue struct {
	groupBys []*db_types.Value
	aggs     []*db_types.Value
	counts   []int64
}

// AggregationExecutor groups its child's rows by the plan's group-by expressions and reduces each
// aggregate expression within a group, the way BusTub's SimpleAggregationHashTable does, minus the
// hash table indirection (a Go map keyed by a string encoding of the group-by values plays that
// role here, the same technique HashJoinExecutor uses for its join key).
type AggregationExecutor struct {
	BaseExecutor
	plan      *plans.AggregationPlanNode
	childExec IExecutor

	groups  map[string]*aggregateValue
	order   []string
	emitted int
}

func (e *AggregationExecutor) Init() {
	e.childExec.Init()
	e.groups = make(map[string]*aggregateValue)
	e.order = nil
	e.emitted = 0

	childSchema := e.plan.GetChildPlan().GetOutSchema()

	var tup catalog.Tuple
	var rid structures.Rid
	for e.childExec.Next(&tup, &rid) == nil {
		groupVals := evalAll(e.plan.GetGroupBys(), tup, childSchema)
		aggVals := evalAll(e.plan.GetAggregates(), tup, childSchema)

		key := groupKey(groupVals)
		g, ok := e.groups[key]
		if !ok {
			g = &aggregateValue{
				groupBys: groupVals,
				aggs:     make([]*db_types.Value, len(aggVals)),
				counts:   make([]int64, len(aggVals)),
			}
			e.groups[key] = g
			e.order = append(e.order, key)
		}

		for i, aggType := range e.plan.GetAggregateTypes() {
			g.counts[i]++
			combineAggregate(aggType, g, i, aggVals[i])
		}
	}

	// COUNT(*) over an empty table with no group-by still produces one row reporting zero.
	if len(e.plan.GetGroupBys()) == 0 && len(e.groups) == 0 {
		g := &aggregateValue{
			aggs: make([]*db_types.Value, len(e.plan.GetAggregateTypes())),
		}
		for i := range e.plan.GetAggregateTypes() {
			g.aggs[i] = db_types.NewValue(int32(0))
		}
		key := groupKey(nil)
		e.groups[key] = g
		e.order = append(e.order, key)
	}
}

func combineAggregate(aggType plans.AggregationType, g *aggregateValue, i int, val *db_types.Value) {
	switch aggType {
	case plans.CountStarAggregate, plans.CountAggregate:
		g.aggs[i] = db_types.NewValue(int32(g.counts[i]))
	case plans.SumAggregate:
		if g.aggs[i] == nil {
			g.aggs[i] = val
		} else {
			g.aggs[i] = g.aggs[i].Add(val)
		}
	case plans.MinAggregate:
		if g.aggs[i] == nil || val.LessThanValue(g.aggs[i]) {
			g.aggs[i] = val
		}
	case plans.MaxAggregate:
		if g.aggs[i] == nil || g.aggs[i].LessThanValue(val) {
			g.aggs[i] = val
		}
	}
}

func evalAll(exprs []expressions.IExpression, t catalog.Tuple, s catalog.Schema) []*db_types.Value {
	out := make([]*db_types.Value, 0, len(exprs))
	for _, expr := range exprs {
		v := expr.Eval(t, s)
		out = append(out, &v)
	}
	return out
}

func groupKey(vals []*db_types.Value) string {
	key := ""
	for _, v := range vals {
		key += fmt.Sprintf("|%v", v.GetAsInterface())
	}
	return key
}

func (e *AggregationExecutor) GetOutSchema() catalog.Schema {
	return e.plan.OutSchema
}

func (e *AggregationExecutor) Next(t *catalog.Tuple, rid *structures.Rid) error {
	if e.emitted >= len(e.order) {
		return ErrNoTuple{}
	}

	g := e.groups[e.order[e.emitted]]
	e.emitted++

	values := make([]*db_types.Value, 0, len(g.groupBys)+len(g.aggs))
	values = append(values, g.groupBys...)
	values = append(values, g.aggs...)

	out, err := catalog.NewTupleWithSchema(values, e.GetOutSchema())
	if err != nil {
		return err
	}
	*t = *out
	*rid = structures.Rid{}
	return nil
}

func NewAggregationExecutor(ctx *execution.ExecutorContext, plan *plans.AggregationPlanNode, child IExecutor) *AggregationExecutor {
	return &AggregationExecutor{
		BaseExecutor: BaseExecutor{executorCtx: ctx},
		plan:         plan,
		childExec:    child,
	}
}
