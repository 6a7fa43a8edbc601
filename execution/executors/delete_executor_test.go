package executors

import (
	"fmt"
	dt "helin/catalog"
	"helin/catalog/db_types"
	"helin/disk/structures"
	"helin/execution"
	"helin/execution/plans"
	"helin/transaction"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeleteExecutor_Deletes_Every_Row_From_Child(t *testing.T) {
	pool, ctg, closer := poolAndCatalog()
	defer closer()

	columns := []dt.Column{
		{Name: "id", TypeId: db_types.IntegerTypeID},
		{Name: "name", TypeId: db_types.CharTypeID},
	}
	schema := dt.NewSchema(columns)
	table := ctg.CreateTable(transaction.TxnNoop(), "myTable", schema)

	ctx := execution.ExecutorContext{Txn: nil, Catalog: ctg, Pool: pool, TxnManager: nil}

	n := 100
	rows := make([][]*db_types.Value, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, []*db_types.Value{
			db_types.NewValue(int32(i)),
			db_types.NewValue(fmt.Sprintf("selam_%04d", i)),
		})
	}
	insertPlan := plans.NewRawInsertPlanNode(rows, table.OID)
	insertExec := NewInsertExecutor(&ctx, insertPlan, nil)
	insertExec.Init()
	var tup dt.Tuple
	var rid structures.Rid
	for {
		if err := insertExec.Next(&tup, &rid); err != nil {
			require.ErrorIs(t, err, ErrNoTuple{})
			break
		}
	}

	scanPlan := plans.NewSeqScanPlanNode(schema, nil, table.OID)
	scanExec := NewSeqScanExecutor(&ctx, scanPlan)

	countSchema := dt.NewSchema([]dt.Column{{Name: "count", TypeId: db_types.IntegerTypeID}})
	deletePlan := plans.NewDeletePlanNode(countSchema, scanPlan, table.OID)
	deleteExec := NewDeleteExecutor(&ctx, deletePlan, scanExec)
	deleteExec.Init()

	require.NoError(t, deleteExec.Next(&tup, &rid))
	require.Equal(t, int32(n), tup.GetValue(countSchema, 0).GetAsInterface())

	require.ErrorIs(t, deleteExec.Next(&tup, &rid), ErrNoTuple{})

	verifyPlan := plans.NewSeqScanPlanNode(schema, nil, table.OID)
	verifyExec := NewSeqScanExecutor(&ctx, verifyPlan)
	verifyExec.Init()
	require.ErrorIs(t, verifyExec.Next(&tup, &rid), ErrNoTuple{})
}
