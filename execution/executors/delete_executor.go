package executors

import (
	"helin/catalog"
	"helin/catalog/db_types"
	"helin/disk/structures"
	"helin/execution"
	"helin/execution/plans"
)

// DeleteExecutor deletes every tuple its child produces from the target table (and all of the
// table's indexes), then yields a single one-column tuple reporting how many rows were deleted.
// Grounded on delete_executor.cpp's "execute once, report a count" shape.
type DeleteExecutor struct {
	BaseExecutor
	plan          *plans.DeletePlanNode
	childExecutor IExecutor
	executed      bool
}

func (e *DeleteExecutor) Init() {
	e.executed = false
	e.childExecutor.Init()
}

func (e *DeleteExecutor) GetOutSchema() catalog.Schema {
	return e.plan.OutSchema
}

func (e *DeleteExecutor) Next(t *catalog.Tuple, rid *structures.Rid) error {
	if e.executed {
		return ErrNoTuple{}
	}
	e.executed = true

	table := e.executorCtx.Catalog.GetTableByOID(e.plan.GetTableOID())

	deleted := 0
	var childTuple catalog.Tuple
	var childRid structures.Rid
	for {
		if err := e.childExecutor.Next(&childTuple, &childRid); err != nil {
			break
		}

		if err := table.DeleteTuple(childRid, e.executorCtx.Txn); err != nil {
			continue
		}
		deleted++
	}

	out, err := catalog.NewTupleWithSchema([]*db_types.Value{db_types.NewValue(int32(deleted))}, e.GetOutSchema())
	if err != nil {
		return err
	}
	*t = *out
	return nil
}

func NewDeleteExecutor(ctx *execution.ExecutorContext, plan *plans.DeletePlanNode, childExecutor IExecutor) *DeleteExecutor {
	return &DeleteExecutor{
		BaseExecutor:  BaseExecutor{executorCtx: ctx},
		plan:          plan,
		childExecutor: childExecutor,
	}
}
