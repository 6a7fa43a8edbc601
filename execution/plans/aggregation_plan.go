package plans

import (
	"helin/catalog"
	"helin/execution/expressions"
)

// AggregationType is the reduction applied to one aggregate expression's values within a group.
type AggregationType int

const (
	CountStarAggregate AggregationType = iota
	CountAggregate
	SumAggregate
	MinAggregate
	MaxAggregate
)

// AggregationPlanNode groups child rows by groupBys and reduces aggregates within each group
// according to aggregateTypes, matching BusTub's AggregationPlanNode/SimpleAggregationHashTable
// split of "what to group by" from "what to reduce."
type AggregationPlanNode struct {
	BasePlanNode
	groupBys       []expressions.IExpression
	aggregates     []expressions.IExpression
	aggregateTypes []AggregationType
}

func (n *AggregationPlanNode) GetType() PlanType {
	return Aggregation
}

func (n *AggregationPlanNode) WithChildren(children []IPlanNode) IPlanNode {
	c := *n
	c.Children = children
	return &c
}

func (n *AggregationPlanNode) GetChildPlan() IPlanNode {
	return n.GetChildAt(0)
}

func (n *AggregationPlanNode) GetGroupBys() []expressions.IExpression {
	return n.groupBys
}

func (n *AggregationPlanNode) GetAggregates() []expressions.IExpression {
	return n.aggregates
}

func (n *AggregationPlanNode) GetAggregateTypes() []AggregationType {
	return n.aggregateTypes
}

func NewAggregationPlanNode(outSchema catalog.Schema, child IPlanNode, groupBys, aggregates []expressions.IExpression, aggregateTypes []AggregationType) *AggregationPlanNode {
	return &AggregationPlanNode{
		BasePlanNode: BasePlanNode{
			OutSchema: outSchema,
			Children:  []IPlanNode{child},
		},
		groupBys:       groupBys,
		aggregates:     aggregates,
		aggregateTypes: aggregateTypes,
	}
}
