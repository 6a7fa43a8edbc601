package executors

import (
	"helin/catalog"
	"helin/disk/structures"
	"helin/execution"
	"helin/execution/plans"
)

// LimitExecutor caps the number of rows it passes through from its child at plan.GetLimit(),
// grounded on limit_executor.cpp's output_count_ counter.
type LimitExecutor struct {
	BaseExecutor
	plan        *plans.LimitPlanNode
	childExec   IExecutor
	outputCount int
}

func (e *LimitExecutor) Init() {
	e.childExec.Init()
	e.outputCount = 0
}

func (e *LimitExecutor) GetOutSchema() catalog.Schema {
	return e.plan.OutSchema
}

func (e *LimitExecutor) Next(t *catalog.Tuple, rid *structures.Rid) error {
	if e.outputCount >= e.plan.GetLimit() {
		return ErrNoTuple{}
	}

	if err := e.childExec.Next(t, rid); err != nil {
		return err
	}

	e.outputCount++
	return nil
}

func NewLimitExecutor(ctx *execution.ExecutorContext, plan *plans.LimitPlanNode, child IExecutor) *LimitExecutor {
	return &LimitExecutor{
		BaseExecutor: BaseExecutor{executorCtx: ctx},
		plan:         plan,
		childExec:    child,
	}
}
