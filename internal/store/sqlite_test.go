package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hartanah/propcompare/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestCreateAndGetRun(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "https://example.com/listing/1")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusQueued, run.Status)

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "https://example.com/listing/1", got.ListingURL)
	assert.Nil(t, got.Result)
}

func TestGetRun_NotFound(t *testing.T) {
	st := newTestStore(t)
	_, err := st.GetRun(context.Background(), "missing-id")
	assert.Error(t, err)
}

func TestUpdateRunStatus(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "https://example.com/listing/2")
	require.NoError(t, err)

	require.NoError(t, st.UpdateRunStatus(ctx, run.ID, model.RunStatusExtracting))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusExtracting, got.Status)
}

func TestUpdateRunStatus_NotFound(t *testing.T) {
	st := newTestStore(t)
	err := st.UpdateRunStatus(context.Background(), "missing-id", model.RunStatusExtracting)
	assert.Error(t, err)
}

func TestCompleteRun(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "https://example.com/listing/3")
	require.NoError(t, err)

	result := &model.RunResult{
		Reference: model.PropertyRecord{
			Title:      "Sky Residence",
			Price:      "RM 650,000",
			ListingURL: "https://example.com/listing/3",
		},
		Comparables: []model.Comparable{
			{Title: "Vista Tower", Link: "https://www.iproperty.com.my/vista"},
		},
		Recommendation: "Buy Vista Tower.",
	}
	require.NoError(t, st.CompleteRun(ctx, run.ID, result))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, "Sky Residence", got.Result.Reference.Title)
	require.Len(t, got.Result.Comparables, 1)
	assert.Equal(t, "Buy Vista Tower.", got.Result.Recommendation)
}

func TestListRuns(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	first, err := st.CreateRun(ctx, "https://example.com/a")
	require.NoError(t, err)
	_, err = st.CreateRun(ctx, "https://example.com/b")
	require.NoError(t, err)

	require.NoError(t, st.UpdateRunStatus(ctx, first.ID, model.RunStatusFailed))

	all, err := st.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	failed, err := st.ListRuns(ctx, RunFilter{Status: model.RunStatusFailed})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, first.ID, failed[0].ID)

	byURL, err := st.ListRuns(ctx, RunFilter{ListingURL: "https://example.com/b"})
	require.NoError(t, err)
	assert.Len(t, byURL, 1)

	limited, err := st.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
