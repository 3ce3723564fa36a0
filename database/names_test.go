package database

import (
	"context"
	"testing"

	"github.com/siherrmann/placeresolver/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamesDBHandler(t *testing.T) {
	database := initDB(t)

	namesDbHandler, err := NewNamesDBHandler(database, testEmbeddingDim, true)
	require.NoError(t, err, "Expected NewNamesDBHandler to not return an error")

	ctx := context.Background()

	t.Run("Upsert name with embedding", func(t *testing.T) {
		err := namesDbHandler.UpsertName("dharsiwa", []float32{1, 0, 0})
		assert.NoError(t, err, "Expected UpsertName to not return an error")
	})

	t.Run("Upsert name without embedding", func(t *testing.T) {
		err := namesDbHandler.UpsertName("trigram only", nil)
		assert.NoError(t, err, "Expected UpsertName without embedding to not return an error")
	})

	t.Run("Upsert same name twice does not duplicate", func(t *testing.T) {
		require.NoError(t, namesDbHandler.UpsertName("abhanpur", []float32{0, 1, 0}))
		require.NoError(t, namesDbHandler.UpsertName("abhanpur", []float32{0, 0, 1}))

		hits, err := namesDbHandler.SelectNamesBySimilarity(ctx, []float32{0, 0, 1}, 10)
		require.NoError(t, err)

		count := 0
		for _, hit := range hits {
			if hit.Name == "abhanpur" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("Similarity search ranks the identical vector first", func(t *testing.T) {
		require.NoError(t, namesDbHandler.UpsertName("kurud", []float32{1, 0, 0}))
		require.NoError(t, namesDbHandler.UpsertName("gariaband", []float32{0, 1, 0}))

		hits, err := namesDbHandler.SelectNamesBySimilarity(ctx, []float32{1, 0, 0}, 5)
		require.NoError(t, err, "Expected SelectNamesBySimilarity to not return an error")

		require.NotEmpty(t, hits)
		assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
		for i := 1; i < len(hits); i++ {
			assert.GreaterOrEqual(t, hits[i-1].Score, hits[i].Score)
		}
	})

	t.Run("Similarity search skips rows without embedding", func(t *testing.T) {
		hits, err := namesDbHandler.SelectNamesBySimilarity(ctx, []float32{1, 0, 0}, 50)
		require.NoError(t, err)

		for _, hit := range hits {
			assert.NotEqual(t, "trigram only", hit.Name)
		}
	})

	t.Run("Trigram search finds misspelled name", func(t *testing.T) {
		require.NoError(t, namesDbHandler.UpsertName("pandri", nil))

		hits, err := namesDbHandler.SelectNamesByTrigram(ctx, "pandari", 5)
		require.NoError(t, err, "Expected SelectNamesByTrigram to not return an error")

		require.NotEmpty(t, hits)
		assert.Equal(t, "pandri", hits[0].Name)
		assert.Greater(t, hits[0].Score, 0.0)
		assert.LessOrEqual(t, hits[0].Score, 1.0)
	})

	t.Run("Trigram search respects limit", func(t *testing.T) {
		require.NoError(t, namesDbHandler.UpsertName("pandri kala", nil))
		require.NoError(t, namesDbHandler.UpsertName("pandri khurd", nil))

		hits, err := namesDbHandler.SelectNamesByTrigram(ctx, "pandri", 2)
		require.NoError(t, err)
		assert.Len(t, hits, 2)
	})

	t.Run("Trigram search with no lexical overlap returns empty", func(t *testing.T) {
		hits, err := namesDbHandler.SelectNamesByTrigram(ctx, "zzzzqqqq", 5)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})

	t.Run("Delete name removes it from both searches", func(t *testing.T) {
		require.NoError(t, namesDbHandler.UpsertName("deleteme", []float32{0.5, 0.5, 0}))

		err := namesDbHandler.DeleteName("deleteme")
		require.NoError(t, err, "Expected DeleteName to not return an error")

		hits, err := namesDbHandler.SelectNamesByTrigram(ctx, "deleteme", 5)
		require.NoError(t, err)
		for _, hit := range hits {
			assert.NotEqual(t, "deleteme", hit.Name)
		}
	})

	t.Run("Hits scan into the shared model type", func(t *testing.T) {
		hits, err := namesDbHandler.SelectNamesByTrigram(ctx, "pandri", 1)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.IsType(t, model.SearchHit{}, hits[0])
	})
}
