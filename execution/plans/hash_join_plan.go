package plans

import (
	"helin/catalog"
	"helin/execution/expressions"
)

// JoinType distinguishes the row-production rules HashJoinExecutor supports: Inner drops any left
// row with no matching right rows, Left emits it once regardless.
type JoinType int

const (
	Inner JoinType = iota
	Left
)

// HashJoinPlanNode equi-joins left and right on the values their respective key expression lists
// evaluate to, matching BusTub's HashJoinPlanNode split of "how to build the key" from "how to
// compare rows".
type HashJoinPlanNode struct {
	BasePlanNode
	leftKeyExpressions  []expressions.IExpression
	rightKeyExpressions []expressions.IExpression
	joinType            JoinType
}

func (n *HashJoinPlanNode) GetType() PlanType {
	return HashJoin
}

func (n *HashJoinPlanNode) WithChildren(children []IPlanNode) IPlanNode {
	c := *n
	c.Children = children
	return &c
}

func (n *HashJoinPlanNode) GetLeftPlan() IPlanNode {
	return n.GetChildAt(0)
}

func (n *HashJoinPlanNode) GetRightPlan() IPlanNode {
	return n.GetChildAt(1)
}

func (n *HashJoinPlanNode) GetLeftKeyExpressions() []expressions.IExpression {
	return n.leftKeyExpressions
}

func (n *HashJoinPlanNode) GetRightKeyExpressions() []expressions.IExpression {
	return n.rightKeyExpressions
}

func (n *HashJoinPlanNode) GetJoinType() JoinType {
	return n.joinType
}

func NewHashJoinPlanNode(outSchema catalog.Schema, left, right IPlanNode, leftKeyExpressions, rightKeyExpressions []expressions.IExpression, joinType JoinType) *HashJoinPlanNode {
	return &HashJoinPlanNode{
		BasePlanNode: BasePlanNode{
			OutSchema: outSchema,
			Children:  []IPlanNode{left, right},
		},
		leftKeyExpressions:  leftKeyExpressions,
		rightKeyExpressions: rightKeyExpressions,
		joinType:            joinType,
	}
}
