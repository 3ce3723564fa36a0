package database

import (
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/siherrmann/placeresolver/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testChoice(placeKey string, decidedBy model.DecidedBy) *model.FinalChoice {
	return &model.FinalChoice{
		ID:       uuid.New(),
		PlaceKey: placeKey,
		Name:     "Pandri",
		Kind:     model.KindVillage,
		Block:    model.ParentRef{Name: "Kharora"},
		District: model.ParentRef{Name: "Raipur"},
		State:    model.ParentRef{Name: "Chhattisgarh"},
		Country:  model.ParentRef{Name: "India"},
		LocalBody: model.LocalBody{
			Type: model.LocalBodyGP,
			Name: "Pandri GP",
		},
		FullPath:   model.PathList{"India", "Chhattisgarh", "Raipur", "Kharora", "Pandri"},
		Confidence: 0.93,
		DecidedBy:  decidedBy,
	}
}

func TestResolutionsDBHandler(t *testing.T) {
	database := initDB(t)

	resolutionsDbHandler, err := NewResolutionsDBHandler(database, true)
	require.NoError(t, err, "Expected NewResolutionsDBHandler to not return an error")

	t.Run("First insert gets version 1", func(t *testing.T) {
		choice := testChoice("pandri|village", model.DecidedByAuto)
		err := resolutionsDbHandler.InsertResolution(choice, model.Metadata{"source_id": "post-1"})
		require.NoError(t, err, "Expected InsertResolution to not return an error")

		assert.Equal(t, 1, choice.Version)
		assert.False(t, choice.DecidedAt.IsZero())
	})

	t.Run("Later inserts append strictly increasing versions", func(t *testing.T) {
		second := testChoice("pandri|village", model.DecidedByHuman)
		require.NoError(t, resolutionsDbHandler.InsertResolution(second, nil))
		assert.Equal(t, 2, second.Version)

		third := testChoice("pandri|village", model.DecidedByAuto)
		require.NoError(t, resolutionsDbHandler.InsertResolution(third, nil))
		assert.Equal(t, 3, third.Version)
	})

	t.Run("Versions are independent per place key", func(t *testing.T) {
		choice := testChoice("amlidih|village", model.DecidedByAuto)
		require.NoError(t, resolutionsDbHandler.InsertResolution(choice, nil))
		assert.Equal(t, 1, choice.Version)
	})

	t.Run("Current resolution is the highest version", func(t *testing.T) {
		current, err := resolutionsDbHandler.SelectCurrentResolution("pandri|village")
		require.NoError(t, err, "Expected SelectCurrentResolution to not return an error")

		assert.Equal(t, 3, current.Version)
		assert.Equal(t, model.DecidedByAuto, current.DecidedBy)
		assert.Equal(t, "pandri|village", current.PlaceKey)
		assert.Equal(t, "Pandri", current.Name)
		assert.Len(t, current.FullPath, 5)
	})

	t.Run("History returns all versions oldest first", func(t *testing.T) {
		history, err := resolutionsDbHandler.SelectResolutionHistory("pandri|village")
		require.NoError(t, err, "Expected SelectResolutionHistory to not return an error")

		require.Len(t, history, 3)
		for i, choice := range history {
			assert.Equal(t, i+1, choice.Version)
		}
		assert.Equal(t, model.DecidedByHuman, history[1].DecidedBy)
	})

	t.Run("Unknown place key reports not found", func(t *testing.T) {
		_, err := resolutionsDbHandler.SelectCurrentResolution("unknown|village")
		require.Error(t, err)
		assert.True(t, IsNotFound(err), "Expected not found error for unknown place key")
	})

	t.Run("Unknown place key has empty history", func(t *testing.T) {
		history, err := resolutionsDbHandler.SelectResolutionHistory("unknown|village")
		require.NoError(t, err)
		assert.Empty(t, history)
	})

	t.Run("Concurrent inserts of the same key yield gap free versions", func(t *testing.T) {
		const writers = 8

		// every writer may conflict with every other one
		resolutionsDbHandler.maxRetries = writers

		var wg sync.WaitGroup
		errs := make([]error, writers)
		versions := make([]int, writers)

		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				choice := testChoice("concurrent|village", model.DecidedByAuto)
				errs[i] = resolutionsDbHandler.InsertResolution(choice, model.Metadata{
					"source_id": fmt.Sprintf("post-%d", i),
				})
				versions[i] = choice.Version
			}(i)
		}
		wg.Wait()

		for i, err := range errs {
			require.NoError(t, err, "writer %d failed", i)
		}

		sort.Ints(versions)
		for i, version := range versions {
			assert.Equal(t, i+1, version, "versions must be distinct and gap free")
		}

		history, err := resolutionsDbHandler.SelectResolutionHistory("concurrent|village")
		require.NoError(t, err)
		assert.Len(t, history, writers)
	})
}
