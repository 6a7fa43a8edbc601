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

func TestAggregationExecutor_GroupsAndSums(t *testing.T) {
	pool, ctg, closer := poolAndCatalog()
	defer closer()

	schema := dt.NewSchema([]dt.Column{
		{Name: "dept", TypeId: db_types.IntegerTypeID},
		{Name: "salary", TypeId: db_types.IntegerTypeID},
	})
	table := ctg.CreateTable(transaction.TxnNoop(), "employees", schema)

	ctx := execution.ExecutorContext{Txn: nil, Catalog: ctg, Pool: pool, TxnManager: nil}

	rows := [][]*db_types.Value{
		{db_types.NewValue(int32(1)), db_types.NewValue(int32(100))},
		{db_types.NewValue(int32(1)), db_types.NewValue(int32(200))},
		{db_types.NewValue(int32(2)), db_types.NewValue(int32(50))},
	}
	insertExec := NewInsertExecutor(&ctx, plans.NewRawInsertPlanNode(rows, table.OID), nil)
	insertExec.Init()
	var tup dt.Tuple
	var rid structures.Rid
	for insertExec.Next(&tup, &rid) == nil {
	}

	scanPlan := plans.NewSeqScanPlanNode(schema, nil, table.OID)
	scanExec := NewSeqScanExecutor(&ctx, scanPlan)

	groupBys := []expressions.IExpression{&expressions.GetColumnExpression{ColIdx: 0}}
	aggregates := []expressions.IExpression{&expressions.GetColumnExpression{ColIdx: 1}}
	outSchema := dt.NewSchema([]dt.Column{
		{Name: "dept", TypeId: db_types.IntegerTypeID},
		{Name: "sum_salary", TypeId: db_types.IntegerTypeID},
	})
	aggPlan := plans.NewAggregationPlanNode(outSchema, scanPlan, groupBys, aggregates, []plans.AggregationType{plans.SumAggregate})
	aggExec := NewAggregationExecutor(&ctx, aggPlan, scanExec)
	aggExec.Init()

	sums := map[int32]int32{}
	for {
		if err := aggExec.Next(&tup, &rid); err != nil {
			require.ErrorIs(t, err, ErrNoTuple{})
			break
		}
		dept := tup.GetValue(outSchema, 0).GetAsInterface().(int32)
		sum := tup.GetValue(outSchema, 1).GetAsInterface().(int32)
		sums[dept] = sum
	}

	require.Equal(t, int32(300), sums[1])
	require.Equal(t, int32(50), sums[2])
}

func TestAggregationExecutor_CountStarOnEmptyTableReturnsZero(t *testing.T) {
	pool, ctg, closer := poolAndCatalog()
	defer closer()

	schema := dt.NewSchema([]dt.Column{
		{Name: "id", TypeId: db_types.IntegerTypeID},
	})
	table := ctg.CreateTable(transaction.TxnNoop(), "empty_table", schema)

	ctx := execution.ExecutorContext{Txn: nil, Catalog: ctg, Pool: pool, TxnManager: nil}

	scanPlan := plans.NewSeqScanPlanNode(schema, nil, table.OID)
	scanExec := NewSeqScanExecutor(&ctx, scanPlan)

	outSchema := dt.NewSchema([]dt.Column{{Name: "count", TypeId: db_types.IntegerTypeID}})
	aggregates := []expressions.IExpression{&expressions.GetColumnExpression{ColIdx: 0}}
	aggPlan := plans.NewAggregationPlanNode(outSchema, scanPlan, nil, aggregates, []plans.AggregationType{plans.CountStarAggregate})
	aggExec := NewAggregationExecutor(&ctx, aggPlan, scanExec)
	aggExec.Init()

	var tup dt.Tuple
	var rid structures.Rid
	require.NoError(t, aggExec.Next(&tup, &rid))
	require.Equal(t, int32(0), tup.GetValue(outSchema, 0).GetAsInterface().(int32))
	require.ErrorIs(t, aggExec.Next(&tup, &rid), ErrNoTuple{})
}
