package plans

import "helin/catalog"

// DeletePlanNode deletes every tuple its child produces from tableOID's table, removing it from
// every index on that table as well.
type DeletePlanNode struct {
	BasePlanNode
	tableOID catalog.TableOID
}

func (n *DeletePlanNode) GetType() PlanType {
	return Delete
}

func (n *DeletePlanNode) WithChildren(children []IPlanNode) IPlanNode {
	c := *n
	c.Children = children
	return &c
}

func (n *DeletePlanNode) GetTableOID() catalog.TableOID {
	return n.tableOID
}

func (n *DeletePlanNode) GetChildPlan() IPlanNode {
	return n.GetChildAt(0)
}

func NewDeletePlanNode(outSchema catalog.Schema, child IPlanNode, toid catalog.TableOID) *DeletePlanNode {
	return &DeletePlanNode{
		BasePlanNode: BasePlanNode{
			OutSchema: outSchema,
			Children:  []IPlanNode{child},
		},
		tableOID: toid,
	}
}
