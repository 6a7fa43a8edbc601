package executors

import (
	"math/rand"
	"testing"

	"helin/catalog"
	dt "helin/catalog/db_types"
	"helin/disk/structures"
	"helin/execution"
	"helin/execution/expressions"
	"helin/execution/plans"
	"helin/transaction"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExternalMergeSortExecutor_SortsAscending(t *testing.T) {
	pool, ctg, closer := poolAndCatalog()
	defer closer()

	columns := []catalog.Column{{Name: "id", TypeId: dt.IntegerTypeID}}
	schema := catalog.NewSchema(columns)
	table := ctg.CreateTable(transaction.TxnNoop(), "sorted", schema)

	// enough rows to span several sort pages (a 4096-byte page holds ~1000 4-byte ints) and force
	// more than one merge round.
	n := 2500
	ids := make([]int32, n)
	for i := range ids {
		ids[i] = int32(i)
	}
	rand.Shuffle(n, func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	rows := make([][]*dt.Value, 0, n)
	for _, id := range ids {
		rows = append(rows, []*dt.Value{dt.NewValue(id)})
	}

	ctx := execution.ExecutorContext{Txn: nil, Catalog: ctg, Pool: pool, TxnManager: nil}
	insertExec := NewInsertExecutor(&ctx, plans.NewRawInsertPlanNode(rows, table.OID), nil)
	insertExec.Init()
	var tup catalog.Tuple
	var rid structures.Rid
	for insertExec.Next(&tup, &rid) == nil {
	}

	scanPlan := plans.NewSeqScanPlanNode(schema, nil, table.OID)
	scanExec := NewSeqScanExecutor(&ctx, scanPlan)

	orderBys := []plans.OrderBy{{
		Type: plans.Ascending,
		Expr: &expressions.GetColumnExpression{
			BaseExpression: expressions.BaseExpression{Children: []expressions.IExpression{}},
			ColIdx:         0,
		},
	}}
	sortPlan := plans.NewSortPlanNode(schema, scanPlan, orderBys)
	sortExec := NewExternalMergeSortExecutor(&ctx, sortPlan, scanExec)
	sortExec.Init()

	got := make([]int32, 0, n)
	for {
		if err := sortExec.Next(&tup, &rid); err != nil {
			require.ErrorIs(t, err, ErrNoTuple{})
			break
		}
		got = append(got, tup.GetValue(schema, 0).GetAsInterface().(int32))
	}

	require.Len(t, got, n)
	for i, v := range got {
		assert.Equal(t, int32(i), v)
	}
}

func TestExternalMergeSortExecutor_SortsDescending(t *testing.T) {
	pool, ctg, closer := poolAndCatalog()
	defer closer()

	columns := []catalog.Column{{Name: "id", TypeId: dt.IntegerTypeID}}
	schema := catalog.NewSchema(columns)
	table := ctg.CreateTable(transaction.TxnNoop(), "sorted_desc", schema)

	n := 200
	rows := make([][]*dt.Value, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, []*dt.Value{dt.NewValue(int32(i))})
	}

	ctx := execution.ExecutorContext{Txn: nil, Catalog: ctg, Pool: pool, TxnManager: nil}
	insertExec := NewInsertExecutor(&ctx, plans.NewRawInsertPlanNode(rows, table.OID), nil)
	insertExec.Init()
	var tup catalog.Tuple
	var rid structures.Rid
	for insertExec.Next(&tup, &rid) == nil {
	}

	scanPlan := plans.NewSeqScanPlanNode(schema, nil, table.OID)
	scanExec := NewSeqScanExecutor(&ctx, scanPlan)

	orderBys := []plans.OrderBy{{
		Type: plans.Descending,
		Expr: &expressions.GetColumnExpression{
			BaseExpression: expressions.BaseExpression{Children: []expressions.IExpression{}},
			ColIdx:         0,
		},
	}}
	sortPlan := plans.NewSortPlanNode(schema, scanPlan, orderBys)
	sortExec := NewExternalMergeSortExecutor(&ctx, sortPlan, scanExec)
	sortExec.Init()

	got := make([]int32, 0, n)
	for {
		if err := sortExec.Next(&tup, &rid); err != nil {
			require.ErrorIs(t, err, ErrNoTuple{})
			break
		}
		got = append(got, tup.GetValue(schema, 0).GetAsInterface().(int32))
	}

	require.Len(t, got, n)
	for i, v := range got {
		assert.Equal(t, int32(n-1-i), v)
	}
}
