package storage

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/litgraph/errors"
	"github.com/teranos/litgraph/kb/compile"
	"github.com/teranos/litgraph/kb/parser"
	"github.com/teranos/litgraph/kb/storage/testutil"
	"github.com/teranos/litgraph/kb/types"
)

func compileText(t *testing.T, text string, rowLimit int) *types.CompiledQuery {
	t.Helper()
	q, err := parser.Parse(text)
	require.NoError(t, err)
	compiled, err := compile.Compile(q, testutil.Collection, rowLimit)
	require.NoError(t, err)
	return compiled
}

func TestFactStoreSinglePattern(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.LoadFixtures(t, db, testutil.DrugDiseaseFixtures())
	store := NewSQLFactStore(db, nil)

	compiled := compileText(t, "Drug1 treats ?D(Disease)", 0)
	rows, err := store.Execute(context.Background(), compiled.Request)
	require.NoError(t, err)

	require.Len(t, rows, 3, "the PMC document is excluded")
	assert.Equal(t, []int64{12, 11, 10}, []int64{rows[0].DocumentID, rows[1].DocumentID, rows[2].DocumentID})

	first := rows[0]
	assert.Equal(t, "Drug1 and DiseaseB", first.Title)
	assert.Equal(t, 2021, first.PublicationYear)
	assert.Equal(t, 1, first.PublicationMonth)
	require.Len(t, first.Slots, 1)
	assert.Equal(t, "DiseaseB", first.Slots[0].ObjectID)
	assert.Equal(t, "Disease", first.Slots[0].ObjectType)
	assert.Equal(t, "Drug1 treats DiseaseB.", first.Slots[0].Sentence)
	assert.InDelta(t, 0.7, first.Slots[0].Confidence, 1e-9)
}

func TestFactStoreJoinAcrossPatterns(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.LoadFixtures(t, db, testutil.DrugDiseaseFixtures())
	store := NewSQLFactStore(db, nil)

	compiled := compileText(t, "Drug1 treats ?D(Disease) _AND_ ?D associated ?G(Gene)", 0)
	rows, err := store.Execute(context.Background(), compiled.Request)
	require.NoError(t, err)

	require.Len(t, rows, 2)
	for _, row := range rows {
		require.Len(t, row.Slots, 2)
		assert.Equal(t, row.Slots[0].ObjectID, row.Slots[1].SubjectID)
	}
	assert.Equal(t, "GeneY", rows[0].Slots[1].ObjectID)
	assert.Equal(t, "GeneX", rows[1].Slots[1].ObjectID)
}

func TestFactStoreLimitFetchesOneExtra(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.LoadFixtures(t, db, testutil.DrugDiseaseFixtures())
	store := NewSQLFactStore(db, nil)

	q, err := parser.Parse("Drug1 treats ?D(Disease)")
	require.NoError(t, err)

	rows, limitHit, _, err := compile.CompileAndExecute(context.Background(), store, q, testutil.Collection, 2)
	require.NoError(t, err)
	assert.True(t, limitHit)
	assert.Len(t, rows, 2)

	rows, limitHit, _, err = compile.CompileAndExecute(context.Background(), store, q, testutil.Collection, 3)
	require.NoError(t, err)
	assert.False(t, limitHit)
	assert.Len(t, rows, 3)
}

func TestFactStoreMissingDocumentMetadata(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.LoadFixtures(t, db, testutil.Fixtures{
		Facts: []testutil.Fact{
			{ID: 1, DocumentID: 99, SubjectID: "Drug9", SubjectType: "Drug", Predicate: "treats", ObjectID: "D", ObjectType: "Disease"},
		},
	})
	store := NewSQLFactStore(db, nil)

	rows, err := store.Execute(context.Background(), compileText(t, "Drug9 treats ?D", 0).Request)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(99), rows[0].DocumentID)
	assert.Empty(t, rows[0].Title)
	assert.Empty(t, rows[0].Slots[0].Sentence)
}

func TestFactStoreErrorIsWrapped(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectQuery("SELECT .* FROM predication p0").
		WithArgs("PubMed", "Drug1").
		WillReturnError(errors.New("disk I/O error"))

	store := NewSQLFactStore(mockDB, nil)
	req := &types.Request{
		Collection: "PubMed",
		Slots:      1,
		Filters:    []types.Filter{{Slot: 0, Column: types.ColumnSubjectID, Value: "Drug1"}},
	}

	_, err = store.Execute(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute fact query")
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.Contains(t, errors.FlattenDetails(err), "Operation: Execute")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFactStoreMissingSchema(t *testing.T) {
	store := NewSQLFactStore(testutil.SetupEmptyDB(t), nil)
	_, err := store.Execute(context.Background(), &types.Request{Collection: "PubMed", Slots: 1})
	assert.Error(t, err)
}
