package executors

import (
	"helin/catalog"
	"helin/catalog/db_types"
	"helin/disk/structures"
	"helin/execution"
	"helin/execution/plans"
)

// UpdateExecutor recomputes every column of each tuple its child produces by evaluating the plan's
// target expressions against it, replaces the tuple in the target table (and its indexes), and
// yields a single one-column tuple reporting how many rows were updated. Grounded on
// update_executor.cpp's "execute once, report a count" shape.
type UpdateExecutor struct {
	BaseExecutor
	plan          *plans.UpdatePlanNode
	childExecutor IExecutor
	executed      bool
}

func (e *UpdateExecutor) Init() {
	e.executed = false
	e.childExecutor.Init()
}

func (e *UpdateExecutor) GetOutSchema() catalog.Schema {
	return e.plan.OutSchema
}

func (e *UpdateExecutor) Next(t *catalog.Tuple, rid *structures.Rid) error {
	if e.executed {
		return ErrNoTuple{}
	}
	e.executed = true

	table := e.executorCtx.Catalog.GetTableByOID(e.plan.GetTableOID())
	targets := e.plan.GetTargetExpressions()

	updated := 0
	var childTuple catalog.Tuple
	var childRid structures.Rid
	for {
		if err := e.childExecutor.Next(&childTuple, &childRid); err != nil {
			break
		}

		values := make([]*db_types.Value, 0, len(targets))
		for _, target := range targets {
			val := target.Eval(childTuple, table.Schema)
			values = append(values, &val)
		}

		if err := table.UpdateTuple(childRid, values, e.executorCtx.Txn); err != nil {
			continue
		}
		updated++
	}

	out, err := catalog.NewTupleWithSchema([]*db_types.Value{db_types.NewValue(int32(updated))}, e.GetOutSchema())
	if err != nil {
		return err
	}
	*t = *out
	return nil
}

func NewUpdateExecutor(ctx *execution.ExecutorContext, plan *plans.UpdatePlanNode, childExecutor IExecutor) *UpdateExecutor {
	return &UpdateExecutor{
		BaseExecutor:  BaseExecutor{executorCtx: ctx},
		plan:          plan,
		childExecutor: childExecutor,
	}
}
