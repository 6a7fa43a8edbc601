package plans

import (
	"helin/catalog"
	"helin/execution/expressions"
)

// OrderByType is the direction a sort key is compared in.
type OrderByType int

const (
	Ascending OrderByType = iota
	Descending
)

// OrderBy pairs a sort key expression with the direction it is compared in. SortPlanNode carries a
// list of these so ties on the leading key fall through to the next one, the same way BusTub's
// SortPlanNode's order_bys_ works.
type OrderBy struct {
	Type OrderByType
	Expr expressions.IExpression
}

// SortPlanNode produces its child's rows in order_bys_ order. It is executed by
// ExternalMergeSortExecutor, which spills to disk rather than sorting in memory.
type SortPlanNode struct {
	BasePlanNode
	orderBys []OrderBy
}

func (n *SortPlanNode) GetType() PlanType {
	return ExternalMergeSort
}

func (n *SortPlanNode) WithChildren(children []IPlanNode) IPlanNode {
	c := *n
	c.Children = children
	return &c
}

func (n *SortPlanNode) GetChildPlan() IPlanNode {
	return n.GetChildAt(0)
}

func (n *SortPlanNode) GetOrderBys() []OrderBy {
	return n.orderBys
}

func NewSortPlanNode(outSchema catalog.Schema, child IPlanNode, orderBys []OrderBy) *SortPlanNode {
	return &SortPlanNode{
		BasePlanNode: BasePlanNode{
			OutSchema: outSchema,
			Children:  []IPlanNode{child},
		},
		orderBys: orderBys,
	}
}
