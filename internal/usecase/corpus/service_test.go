package corpus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/domain"
	"github.com/kailas-cloud/jobmatch/internal/repository/postings"
	"github.com/kailas-cloud/jobmatch/internal/vectorspace"
)

type mockLoader struct {
	table postings.Table
	err   error
}

func (m *mockLoader) Load(_ context.Context) (postings.Table, error) { return m.table, m.err }

type failingStrategy struct{}

func (failingStrategy) Name() string { return "failing" }

func (failingStrategy) Fit(_ context.Context, _ []string) (vectorspace.Projector, [][]float32, error) {
	return nil, nil, errors.New("model unavailable")
}

func sampleTable() postings.Table {
	return postings.Table{
		Columns: []string{"job_id", "title", "description"},
		Rows: []map[string]string{
			{"job_id": "1", "title": "Python Developer", "description": "backend"},
			{"job_id": "2", "title": "Nurse", "description": "hospital care"},
		},
	}
}

func TestService_InitiallyUninitialized(t *testing.T) {
	svc := New(&mockLoader{}, vectorspace.NewSparse(0), "", zap.NewNop())

	assert.Equal(t, Uninitialized, svc.Status().State)
	_, err := svc.Snapshot()
	require.ErrorIs(t, err, domain.ErrIndexNotReady)
	assert.Nil(t, svc.Columns())
}

func TestService_LoadReady(t *testing.T) {
	svc := New(&mockLoader{table: sampleTable()}, vectorspace.NewSparse(0), "", zap.NewNop())
	require.NoError(t, svc.Load(context.Background()))

	st := svc.Status()
	assert.Equal(t, Ready, st.State)
	assert.True(t, st.Loaded)
	assert.True(t, st.Vectorized)
	assert.Equal(t, 2, st.Rows)
	assert.Equal(t, 3, st.Columns)
	assert.Equal(t, vectorspace.StrategySparse, st.Strategy)
	assert.Positive(t, st.Dimensions)
	assert.Empty(t, st.Error)

	snap, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Index.Len())
	assert.Equal(t, snap.Projector.Dimensions(), snap.Index.Dimensions())
	assert.Equal(t, []string{"job_id", "title", "description"}, svc.Columns())
}

func TestService_LoaderError(t *testing.T) {
	svc := New(&mockLoader{err: errors.New("no such file")}, vectorspace.NewSparse(0), "", zap.NewNop())
	require.Error(t, svc.Load(context.Background()))

	st := svc.Status()
	assert.Equal(t, Failed, st.State)
	assert.False(t, st.Loaded)
	assert.False(t, st.Vectorized)
	assert.Contains(t, st.Error, "no such file")

	_, err := svc.Snapshot()
	require.ErrorIs(t, err, domain.ErrIndexNotReady)
}

func TestService_EmptyCorpus(t *testing.T) {
	tbl := postings.Table{Columns: []string{"title"}}
	svc := New(&mockLoader{table: tbl}, vectorspace.NewSparse(0), "", zap.NewNop())

	err := svc.Load(context.Background())
	require.ErrorIs(t, err, domain.ErrEmptyCorpus)
	assert.Equal(t, Failed, svc.Status().State)
	assert.True(t, svc.Status().Loaded)
	assert.Equal(t, []string{"title"}, svc.Columns())
}

func TestService_VectorizationFailure(t *testing.T) {
	svc := New(&mockLoader{table: sampleTable()}, failingStrategy{}, "", zap.NewNop())
	require.Error(t, svc.Load(context.Background()))

	st := svc.Status()
	assert.Equal(t, Failed, st.State)
	assert.True(t, st.Loaded)
	assert.False(t, st.Vectorized)
	assert.Equal(t, 2, st.Rows)

	_, err := svc.Snapshot()
	require.ErrorIs(t, err, domain.ErrIndexNotReady)
}

func TestService_MissingTitleColumn(t *testing.T) {
	tbl := postings.Table{Columns: []string{"description"}, Rows: []map[string]string{{"description": "x"}}}
	svc := New(&mockLoader{table: tbl}, vectorspace.NewSparse(0), "", zap.NewNop())

	err := svc.Load(context.Background())
	require.ErrorIs(t, err, domain.ErrMalformedInput)
	assert.Equal(t, Failed, svc.Status().State)
}
