package vectorspace

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/jobmatch/internal/domain"
	"github.com/kailas-cloud/jobmatch/internal/index"
)

var scenarioCorpus = []string{
	"python developer backend",
	"nurse hospital care",
	"senior python engineer backend systems",
}

func TestSparse_FitDimensions(t *testing.T) {
	proj, vectors, err := NewSparse(0).Fit(context.Background(), scenarioCorpus)
	require.NoError(t, err)
	require.Len(t, vectors, 3)

	// python developer backend nurse hospital care senior engineer systems
	assert.Equal(t, 9, proj.Dimensions())
	for _, v := range vectors {
		assert.Len(t, v, proj.Dimensions())
	}
}

func TestSparse_VectorsAreUnitLength(t *testing.T) {
	_, vectors, err := NewSparse(0).Fit(context.Background(), scenarioCorpus)
	require.NoError(t, err)

	for _, v := range vectors {
		var sum float64
		for _, x := range v {
			sum += float64(x) * float64(x)
		}
		assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
	}
}

func TestSparse_ScenarioRanking(t *testing.T) {
	proj, vectors, err := NewSparse(0).Fit(context.Background(), scenarioCorpus)
	require.NoError(t, err)

	q, err := proj.Project(context.Background(), "python backend engineer")
	require.NoError(t, err)

	s1 := index.Cosine(q, vectors[0])
	s2 := index.Cosine(q, vectors[1])
	s3 := index.Cosine(q, vectors[2])
	assert.Greater(t, s3, s1)
	assert.Greater(t, s1, s2)
	assert.Equal(t, 0.0, s2)
}

func TestSparse_MaxFeatures(t *testing.T) {
	corpus := []string{"go go go rust", "go rust java", "haskell"}
	proj, vectors, err := NewSparse(2).Fit(context.Background(), corpus)
	require.NoError(t, err)

	assert.Equal(t, 2, proj.Dimensions())
	// "haskell" fell out of the vocabulary
	for _, x := range vectors[2] {
		assert.Zero(t, x)
	}
}

func TestSparse_StopWordsAndShortTokensDropped(t *testing.T) {
	proj, _, err := NewSparse(0).Fit(context.Background(), []string{"the a of python x"})
	require.NoError(t, err)
	assert.Equal(t, 1, proj.Dimensions())
}

func TestSparse_EmptyCorpus(t *testing.T) {
	proj, vectors, err := NewSparse(0).Fit(context.Background(), nil)
	require.ErrorIs(t, err, domain.ErrEmptyCorpus)
	assert.Nil(t, proj)
	assert.Nil(t, vectors)
}

func TestSparse_NoTerms(t *testing.T) {
	proj, vectors, err := NewSparse(0).Fit(context.Background(), []string{"the and of", ""})
	require.ErrorIs(t, err, ErrNoTerms)
	assert.Nil(t, proj)
	assert.Nil(t, vectors)
}

func TestSparse_ProjectUnknownTerms(t *testing.T) {
	proj, _, err := NewSparse(0).Fit(context.Background(), scenarioCorpus)
	require.NoError(t, err)

	v, err := proj.Project(context.Background(), "carpentry woodwork")
	require.NoError(t, err)
	assert.Len(t, v, proj.Dimensions())
	for _, x := range v {
		assert.Zero(t, x)
	}
}

func TestSparse_Deterministic(t *testing.T) {
	_, a, err := NewSparse(0).Fit(context.Background(), scenarioCorpus)
	require.NoError(t, err)
	_, b, err := NewSparse(0).Fit(context.Background(), scenarioCorpus)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSparse_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := NewSparse(0).Fit(ctx, scenarioCorpus)
	require.ErrorIs(t, err, context.Canceled)
}
