package resolve

import (
	"testing"

	"github.com/siherrmann/placeresolver/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pandriRural() *model.GazetteerEntry {
	return &model.GazetteerEntry{
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
		Path: model.PathList{"India", "Chhattisgarh", "Raipur", "Kharora", "Pandri"},
	}
}

func pandriUrban() *model.GazetteerEntry {
	return &model.GazetteerEntry{
		Name:     "Pandri",
		Kind:     model.KindWard,
		District: model.ParentRef{Name: "Raipur"},
		State:    model.ParentRef{Name: "Chhattisgarh"},
		Country:  model.ParentRef{Name: "India"},
		LocalBody: model.LocalBody{
			Type:   model.LocalBodyUrban,
			Name:   "Raipur Municipal Corporation",
			WardNo: "12",
		},
		Path: model.PathList{"India", "Chhattisgarh", "Raipur", "Raipur Municipal Corporation", "Pandri"},
	}
}

func TestDisambiguate(t *testing.T) {
	t.Run("No entries yields empty result", func(t *testing.T) {
		result := Disambiguate("Pandri", nil, "some context")
		assert.Nil(t, result.Chosen)
		assert.Empty(t, result.Placements)
		assert.False(t, result.Ambiguous)
	})

	t.Run("Single entry is chosen without context", func(t *testing.T) {
		result := Disambiguate("Pandri", []*model.GazetteerEntry{pandriRural()}, "")
		require.NotNil(t, result.Chosen)
		assert.False(t, result.Ambiguous)
		assert.False(t, result.Chosen.IsUrban)
		assert.Equal(t, "Pandri GP", result.Chosen.Rural.GramPanchayat)
	})

	t.Run("Context naming the block picks the rural placement", func(t *testing.T) {
		entries := []*model.GazetteerEntry{pandriUrban(), pandriRural()}
		result := Disambiguate("Pandri", entries, "road damaged near Pandri in Kharora block")

		require.NotNil(t, result.Chosen)
		assert.False(t, result.Ambiguous)
		assert.False(t, result.Chosen.IsUrban)
		assert.Equal(t, model.KindVillage, result.Chosen.Entry.Kind)
	})

	t.Run("Context naming the ULB picks the urban placement", func(t *testing.T) {
		entries := []*model.GazetteerEntry{pandriRural(), pandriUrban()}
		result := Disambiguate("Pandri", entries, "streetlight broken, Pandri ward, Raipur Municipal Corporation")

		require.NotNil(t, result.Chosen)
		assert.True(t, result.Chosen.IsUrban)
		assert.Equal(t, "Raipur Municipal Corporation", result.Chosen.Urban.ULB)
		assert.Equal(t, "12", result.Chosen.Urban.WardNo)
	})

	t.Run("Empty context with multiple placements is ambiguous", func(t *testing.T) {
		entries := []*model.GazetteerEntry{pandriRural(), pandriUrban()}
		result := Disambiguate("Pandri", entries, "   ")

		assert.Nil(t, result.Chosen)
		assert.True(t, result.Ambiguous)
		assert.Len(t, result.Placements, 2)
	})

	t.Run("Context shared by both placements is ambiguous", func(t *testing.T) {
		entries := []*model.GazetteerEntry{pandriRural(), pandriUrban()}
		result := Disambiguate("Pandri", entries, "issue reported from Raipur district Chhattisgarh")

		assert.Nil(t, result.Chosen)
		assert.True(t, result.Ambiguous)
	})

	t.Run("Context matching neither placement is ambiguous", func(t *testing.T) {
		entries := []*model.GazetteerEntry{pandriRural(), pandriUrban()}
		result := Disambiguate("Pandri", entries, "water shortage since yesterday")

		assert.Nil(t, result.Chosen)
		assert.True(t, result.Ambiguous)
	})
}

func TestNewPlacement(t *testing.T) {
	t.Run("Gram panchayat entry is rural", func(t *testing.T) {
		p := model.NewPlacement(pandriRural())
		assert.False(t, p.IsUrban)
		require.NotNil(t, p.Rural)
		assert.Nil(t, p.Urban)
	})

	t.Run("Ward entry is urban", func(t *testing.T) {
		p := model.NewPlacement(pandriUrban())
		assert.True(t, p.IsUrban)
		require.NotNil(t, p.Urban)
		assert.Nil(t, p.Rural)
	})
}
