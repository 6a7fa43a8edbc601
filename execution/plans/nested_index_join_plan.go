package plans

import (
	"helin/catalog"
	"helin/execution/expressions"
)

// NestedIndexJoinPlanNode probes innerIndexOID once per outer (child) row, evaluating
// keyPredicate against the outer row to build the probe key, mirroring BusTub's
// NestedIndexJoinPlanNode split of "how to build the probe key" from "which index to probe."
type NestedIndexJoinPlanNode struct {
	BasePlanNode
	keyPredicate  expressions.IExpression
	innerTableOID catalog.TableOID
	innerIndexOID catalog.IndexOID
	joinType      JoinType
}

func (n *NestedIndexJoinPlanNode) GetType() PlanType {
	return NestedIndexJoin
}

func (n *NestedIndexJoinPlanNode) WithChildren(children []IPlanNode) IPlanNode {
	c := *n
	c.Children = children
	return &c
}

func (n *NestedIndexJoinPlanNode) GetChildPlan() IPlanNode {
	return n.GetChildAt(0)
}

func (n *NestedIndexJoinPlanNode) GetKeyPredicate() expressions.IExpression {
	return n.keyPredicate
}

func (n *NestedIndexJoinPlanNode) GetInnerTableOID() catalog.TableOID {
	return n.innerTableOID
}

func (n *NestedIndexJoinPlanNode) GetInnerIndexOID() catalog.IndexOID {
	return n.innerIndexOID
}

func (n *NestedIndexJoinPlanNode) GetJoinType() JoinType {
	return n.joinType
}

func NewNestedIndexJoinPlanNode(outSchema catalog.Schema, child IPlanNode, keyPredicate expressions.IExpression, innerTableOID catalog.TableOID, innerIndexOID catalog.IndexOID, joinType JoinType) *NestedIndexJoinPlanNode {
	return &NestedIndexJoinPlanNode{
		BasePlanNode: BasePlanNode{
			OutSchema: outSchema,
			Children:  []IPlanNode{child},
		},
		keyPredicate:  keyPredicate,
		innerTableOID: innerTableOID,
		innerIndexOID: innerIndexOID,
		joinType:      joinType,
	}
}
