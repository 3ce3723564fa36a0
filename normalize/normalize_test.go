package normalize

import (
	"errors"
	"testing"

	"github.com/siherrmann/placeresolver/model"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Run("Trim and case fold", func(t *testing.T) {
		normalized, err := Normalize("  Raipur ")
		assert.NoError(t, err, "Expected Normalize to not return an error")
		assert.Equal(t, "raipur", normalized, "Expected trimmed lowercase name")
	})

	t.Run("Collapse internal whitespace", func(t *testing.T) {
		normalized, err := Normalize("New   Raipur \t Town")
		assert.NoError(t, err, "Expected Normalize to not return an error")
		assert.Equal(t, "new raipur town", normalized, "Expected internal whitespace collapsed to single spaces")
	})

	t.Run("Devanagari passes through unchanged", func(t *testing.T) {
		normalized, err := Normalize(" पंडरी ")
		assert.NoError(t, err, "Expected Normalize to not return an error")
		assert.Equal(t, "पंडरी", normalized, "Expected Devanagari name to be trimmed only")
	})

	t.Run("Empty string fails validation", func(t *testing.T) {
		_, err := Normalize("")
		assert.Error(t, err, "Expected Normalize to return an error for empty input")
		assert.True(t, errors.Is(err, model.ErrValidation), "Expected error to wrap ErrValidation")
	})

	t.Run("Whitespace-only string fails validation", func(t *testing.T) {
		_, err := Normalize(" \t\n ")
		assert.Error(t, err, "Expected Normalize to return an error for whitespace-only input")
		assert.True(t, errors.Is(err, model.ErrValidation), "Expected error to wrap ErrValidation")
	})
}

func TestPlaceKey(t *testing.T) {
	t.Run("Key includes kind", func(t *testing.T) {
		key := PlaceKey("raipur", model.KindDistrict)
		assert.Equal(t, "raipur|district", key, "Expected key to combine name and kind")
	})

	t.Run("Same name with different kinds yields distinct keys", func(t *testing.T) {
		assert.NotEqual(t,
			PlaceKey("raipur", model.KindDistrict),
			PlaceKey("raipur", model.KindVillage),
			"Expected distinct keys per kind")
	})

	t.Run("Empty kind defaults to unknown", func(t *testing.T) {
		key := PlaceKey("raipur", "")
		assert.Equal(t, "raipur|unknown", key, "Expected empty kind to default to unknown")
	})
}
