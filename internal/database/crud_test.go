package database_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/aojudge/ranklist/internal/database"
	"github.com/aojudge/ranklist/internal/database/models"
	"github.com/aojudge/ranklist/internal/rank"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Init(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	return db
}

func TestAppendRunDeduplicates(t *testing.T) {
	db := testDB(t)

	rec := models.FromRun(rank.Run{ID: 7, TeamID: "t1", ProblemID: "A", Time: 30, Result: rank.VerdictAccepted})
	fresh, err := database.AppendRun(db, &rec)
	require.NoError(t, err)
	assert.True(t, fresh)

	dup := models.FromRun(rank.Run{ID: 7, TeamID: "t1", ProblemID: "A", Time: 30, Result: rank.VerdictAccepted})
	fresh, err = database.AppendRun(db, &dup)
	require.NoError(t, err)
	assert.False(t, fresh)

	count, err := database.CountRuns(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestListRunsOrdersByID(t *testing.T) {
	db := testDB(t)
	for _, id := range []int64{5, 1, 3} {
		rec := models.FromRun(rank.Run{ID: id, TeamID: "t1", ProblemID: "A", Time: id, Result: rank.VerdictWrongAnswer})
		_, err := database.AppendRun(db, &rec)
		require.NoError(t, err)
	}

	recs, err := database.ListRuns(db)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []int64{1, 3, 5}, []int64{recs[0].ID, recs[1].ID, recs[2].ID})
}

func TestRunRecordRoundTrip(t *testing.T) {
	db := testDB(t)
	dist := 12
	dual := rank.Run{
		ID: 9, TeamID: "t1", ProblemID: "G", Time: 40,
		Result:      rank.VerdictAccepted,
		ProblemType: rank.TypeDualTask,
		DualTaskDetails: &rank.DualTaskDetails{
			Task1Score: 30, Task2Score: 50, EditDistance: &dist,
		},
	}
	classic := rank.Run{
		ID: 10, TeamID: "t2", ProblemID: "A", Time: 50,
		Result: rank.VerdictWrongAnswer,
	}
	for _, r := range []rank.Run{dual, classic} {
		rec := models.FromRun(r)
		_, err := database.AppendRun(db, &rec)
		require.NoError(t, err)
	}

	recs, err := database.ListRuns(db)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, dual, recs[0].Run())
	assert.Equal(t, classic, recs[1].Run())
	assert.Nil(t, recs[1].Run().DualTaskDetails)
}

func TestOperatorLookup(t *testing.T) {
	db := testDB(t)
	require.NoError(t, database.CreateOperator(db, &models.Operator{
		ID: "op1", Username: "admin", PasswordHash: "x",
	}))

	op, err := database.GetOperatorByUsername(db, "admin")
	require.NoError(t, err)
	assert.Equal(t, "op1", op.ID)

	_, err = database.GetOperatorByUsername(db, "ghost")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	count, err := database.CountOperators(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
