package plans

import (
	"helin/catalog"
	"helin/execution/expressions"
)

// UpdatePlanNode recomputes every column of each tuple its child produces by evaluating
// targetExpressions against it, then replaces the tuple in tableOID's table (and its indexes).
type UpdatePlanNode struct {
	BasePlanNode
	tableOID          catalog.TableOID
	targetExpressions []expressions.IExpression
}

func (n *UpdatePlanNode) GetType() PlanType {
	return Update
}

func (n *UpdatePlanNode) WithChildren(children []IPlanNode) IPlanNode {
	c := *n
	c.Children = children
	return &c
}

func (n *UpdatePlanNode) GetTableOID() catalog.TableOID {
	return n.tableOID
}

func (n *UpdatePlanNode) GetTargetExpressions() []expressions.IExpression {
	return n.targetExpressions
}

func (n *UpdatePlanNode) GetChildPlan() IPlanNode {
	return n.GetChildAt(0)
}

func NewUpdatePlanNode(outSchema catalog.Schema, child IPlanNode, toid catalog.TableOID, targetExpressions []expressions.IExpression) *UpdatePlanNode {
	return &UpdatePlanNode{
		BasePlanNode: BasePlanNode{
			OutSchema: outSchema,
			Children:  []IPlanNode{child},
		},
		tableOID:          toid,
		targetExpressions: targetExpressions,
	}
}
