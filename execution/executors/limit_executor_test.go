package executors

import (
	dt "helin/catalog"
	"helin/catalog/db_types"
	"helin/disk/structures"
	"helin/execution"
	"helin/execution/plans"
	"helin/transaction"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLimitExecutor_CapsRowsFromChild(t *testing.T) {
	pool, ctg, closer := poolAndCatalog()
	defer closer()

	schema := dt.NewSchema([]dt.Column{{Name: "id", TypeId: db_types.IntegerTypeID}})
	table := ctg.CreateTable(transaction.TxnNoop(), "limited", schema)

	ctx := execution.ExecutorContext{Txn: nil, Catalog: ctg, Pool: pool, TxnManager: nil}

	rows := make([][]*db_types.Value, 0, 10)
	for i := 0; i < 10; i++ {
		rows = append(rows, []*db_types.Value{db_types.NewValue(int32(i))})
	}
	insertExec := NewInsertExecutor(&ctx, plans.NewRawInsertPlanNode(rows, table.OID), nil)
	insertExec.Init()
	var tup dt.Tuple
	var rid structures.Rid
	for insertExec.Next(&tup, &rid) == nil {
	}

	scanPlan := plans.NewSeqScanPlanNode(schema, nil, table.OID)
	scanExec := NewSeqScanExecutor(&ctx, scanPlan)
	limitPlan := plans.NewLimitPlanNode(schema, scanPlan, 3)
	limitExec := NewLimitExecutor(&ctx, limitPlan, scanExec)
	limitExec.Init()

	count := 0
	for {
		if err := limitExec.Next(&tup, &rid); err != nil {
			require.ErrorIs(t, err, ErrNoTuple{})
			break
		}
		count++
	}

	require.Equal(t, 3, count)
}
