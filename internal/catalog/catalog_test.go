package catalog

import (
	"testing"

	"spotr/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalogProvider_LoadsSeed(t *testing.T) {
	c, err := NewCatalogProvider()
	require.NoError(t, err)

	spots := c.All()
	require.NotEmpty(t, spots)
	for _, s := range spots {
		assert.NotEmpty(t, s.ID)
		assert.NotEmpty(t, s.Name)
		assert.Contains(t, models.SpotTypes, s.Type)
		assert.True(t, s.ValidCoordinates(), s.ID)
	}
}

func TestCatalog_Find(t *testing.T) {
	c := New([]models.Spot{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}})

	s, ok := c.Find("b")
	require.True(t, ok)
	assert.Equal(t, "B", s.Name)

	_, ok = c.Find("missing")
	assert.False(t, ok)
}

func TestCatalog_AllReturnsCopy(t *testing.T) {
	c := New([]models.Spot{{ID: "a", Name: "A"}})

	spots := c.All()
	spots[0].Name = "changed"

	s, _ := c.Find("a")
	assert.Equal(t, "A", s.Name)
}
