package plans

import "helin/catalog"

// LimitPlanNode caps the number of rows its child produces at limit, matching BusTub's
// LimitPlanNode.
type LimitPlanNode struct {
	BasePlanNode
	limit int
}

func (n *LimitPlanNode) GetType() PlanType {
	return Limit
}

func (n *LimitPlanNode) WithChildren(children []IPlanNode) IPlanNode {
	c := *n
	c.Children = children
	return &c
}

func (n *LimitPlanNode) GetChildPlan() IPlanNode {
	return n.GetChildAt(0)
}

func (n *LimitPlanNode) GetLimit() int {
	return n.limit
}

func NewLimitPlanNode(outSchema catalog.Schema, child IPlanNode, limit int) *LimitPlanNode {
	return &LimitPlanNode{
		BasePlanNode: BasePlanNode{
			OutSchema: outSchema,
			Children:  []IPlanNode{child},
		},
		limit: limit,
	}
}
