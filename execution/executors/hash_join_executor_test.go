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

func TestHashJoinExecutor_InnerJoin_MatchesOnKey(t *testing.T) {
	pool, ctg, closer := poolAndCatalog()
	defer closer()

	leftSchema := dt.NewSchema([]dt.Column{
		{Name: "id", TypeId: db_types.IntegerTypeID},
		{Name: "name", TypeId: db_types.CharTypeID},
	})
	leftTable := ctg.CreateTable(transaction.TxnNoop(), "people", leftSchema)

	rightSchema := dt.NewSchema([]dt.Column{
		{Name: "person_id", TypeId: db_types.IntegerTypeID},
		{Name: "pet", TypeId: db_types.CharTypeID},
	})
	rightTable := ctg.CreateTable(transaction.TxnNoop(), "pets", rightSchema)

	ctx := execution.ExecutorContext{Txn: nil, Catalog: ctg, Pool: pool, TxnManager: nil}

	leftRows := [][]*db_types.Value{
		{db_types.NewValue(int32(1)), db_types.NewValue("alice")},
		{db_types.NewValue(int32(2)), db_types.NewValue("bob")},
		{db_types.NewValue(int32(3)), db_types.NewValue("carol")},
	}
	insertExec := NewInsertExecutor(&ctx, plans.NewRawInsertPlanNode(leftRows, leftTable.OID), nil)
	insertExec.Init()
	var tup dt.Tuple
	var rid structures.Rid
	for insertExec.Next(&tup, &rid) == nil {
	}

	rightRows := [][]*db_types.Value{
		{db_types.NewValue(int32(1)), db_types.NewValue("dog")},
		{db_types.NewValue(int32(1)), db_types.NewValue("cat")},
		{db_types.NewValue(int32(2)), db_types.NewValue("fish")},
	}
	insertExec2 := NewInsertExecutor(&ctx, plans.NewRawInsertPlanNode(rightRows, rightTable.OID), nil)
	insertExec2.Init()
	for insertExec2.Next(&tup, &rid) == nil {
	}

	leftPlan := plans.NewSeqScanPlanNode(leftSchema, nil, leftTable.OID)
	rightPlan := plans.NewSeqScanPlanNode(rightSchema, nil, rightTable.OID)

	leftKeys := []expressions.IExpression{&expressions.GetColumnExpression{ColIdx: 0}}
	rightKeys := []expressions.IExpression{&expressions.GetColumnExpression{ColIdx: 0}}

	joinPlan := plans.NewHashJoinPlanNode(nil, leftPlan, rightPlan, leftKeys, rightKeys, plans.Inner)
	joinExec := NewHashJoinExecutor(&ctx, joinPlan, NewSeqScanExecutor(&ctx, leftPlan), NewSeqScanExecutor(&ctx, rightPlan))
	joinExec.Init()

	count := 0
	for {
		if err := joinExec.Next(&tup, &rid); err != nil {
			require.ErrorIs(t, err, ErrNoTuple{})
			break
		}
		count++
	}
	// alice matches 2 pets, bob matches 1, carol matches 0 => 3 joined rows
	require.Equal(t, 3, count)
}

func TestHashJoinExecutor_LeftJoin_KeepsUnmatchedLeftRows(t *testing.T) {
	pool, ctg, closer := poolAndCatalog()
	defer closer()

	leftSchema := dt.NewSchema([]dt.Column{
		{Name: "id", TypeId: db_types.IntegerTypeID},
	})
	leftTable := ctg.CreateTable(transaction.TxnNoop(), "people", leftSchema)

	rightSchema := dt.NewSchema([]dt.Column{
		{Name: "person_id", TypeId: db_types.IntegerTypeID},
	})
	rightTable := ctg.CreateTable(transaction.TxnNoop(), "pets", rightSchema)

	ctx := execution.ExecutorContext{Txn: nil, Catalog: ctg, Pool: pool, TxnManager: nil}

	leftRows := [][]*db_types.Value{
		{db_types.NewValue(int32(1))},
		{db_types.NewValue(int32(2))},
	}
	insertExec := NewInsertExecutor(&ctx, plans.NewRawInsertPlanNode(leftRows, leftTable.OID), nil)
	insertExec.Init()
	var tup dt.Tuple
	var rid structures.Rid
	for insertExec.Next(&tup, &rid) == nil {
	}

	rightRows := [][]*db_types.Value{
		{db_types.NewValue(int32(1))},
	}
	insertExec2 := NewInsertExecutor(&ctx, plans.NewRawInsertPlanNode(rightRows, rightTable.OID), nil)
	insertExec2.Init()
	for insertExec2.Next(&tup, &rid) == nil {
	}

	leftPlan := plans.NewSeqScanPlanNode(leftSchema, nil, leftTable.OID)
	rightPlan := plans.NewSeqScanPlanNode(rightSchema, nil, rightTable.OID)

	leftKeys := []expressions.IExpression{&expressions.GetColumnExpression{ColIdx: 0}}
	rightKeys := []expressions.IExpression{&expressions.GetColumnExpression{ColIdx: 0}}

	joinPlan := plans.NewHashJoinPlanNode(nil, leftPlan, rightPlan, leftKeys, rightKeys, plans.Left)
	joinExec := NewHashJoinExecutor(&ctx, joinPlan, NewSeqScanExecutor(&ctx, leftPlan), NewSeqScanExecutor(&ctx, rightPlan))
	joinExec.Init()

	count := 0
	for {
		if err := joinExec.Next(&tup, &rid); err != nil {
			require.ErrorIs(t, err, ErrNoTuple{})
			break
		}
		count++
	}
	// id=1 matches, id=2 has no match but is still emitted once for the left join => 2 rows
	require.Equal(t, 2, count)
}
