package executors

import (
	dt "helin/catalog"
	"helin/catalog/db_types"
	"helin/disk/structures"
	"helin/execution"
	"helin/execution/expressions"
	"helin/execution/plans"
	"helin/transaction"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNestedIndexJoinExecutor_InnerJoin_ProbesUniqueIndex(t *testing.T) {
	pool, ctg, closer := poolAndCatalog()
	defer closer()

	outerSchema := dt.NewSchema([]dt.Column{
		{Name: "id", TypeId: db_types.IntegerTypeID},
	})
	outerTable := ctg.CreateTable(transaction.TxnNoop(), "orders", outerSchema)

	innerSchema := dt.NewSchema([]dt.Column{
		{Name: "id", TypeId: db_types.IntegerTypeID},
		{Name: "label", TypeId: db_types.CharTypeID},
	})
	innerTable := ctg.CreateTable(transaction.TxnNoop(), "products", innerSchema)

	ctx := execution.ExecutorContext{Txn: nil, Catalog: ctg, Pool: pool, TxnManager: nil}

	outerRows := [][]*db_types.Value{
		{db_types.NewValue(int32(1))},
		{db_types.NewValue(int32(2))},
		{db_types.NewValue(int32(3))},
	}
	ins1 := NewInsertExecutor(&ctx, plans.NewRawInsertPlanNode(outerRows, outerTable.OID), nil)
	ins1.Init()
	var tup dt.Tuple
	var rid structures.Rid
	for ins1.Next(&tup, &rid) == nil {
	}

	innerRows := [][]*db_types.Value{
		{db_types.NewValue(int32(1)), db_types.NewValue("widget")},
		{db_types.NewValue(int32(2)), db_types.NewValue("gadget")},
	}
	ins2 := NewInsertExecutor(&ctx, plans.NewRawInsertPlanNode(innerRows, innerTable.OID), nil)
	ins2.Init()
	for ins2.Next(&tup, &rid) == nil {
	}

	idx, err := ctg.CreateBtreeIndex(transaction.TxnNoop(), "products_id_idx", "products", []int{0}, true)
	require.NoError(t, err)

	outerScanPlan := plans.NewSeqScanPlanNode(outerSchema, nil, outerTable.OID)
	outerScan := NewSeqScanExecutor(&ctx, outerScanPlan)

	keyPred := &expressions.GetColumnExpression{ColIdx: 0}
	joinPlan := plans.NewNestedIndexJoinPlanNode(nil, outerScanPlan, keyPred, innerTable.OID, idx.OID, plans.Inner)
	joinExec := NewNestedIndexJoinExecutor(&ctx, joinPlan, outerScan)
	joinExec.Init()

	count := 0
	for {
		if err := joinExec.Next(&tup, &rid); err != nil {
			require.ErrorIs(t, err, ErrNoTuple{})
			break
		}
		count++
	}
	// order id=3 has no matching product, so only 2 rows join
	require.Equal(t, 2, count)
}
