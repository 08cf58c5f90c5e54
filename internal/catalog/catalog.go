package catalog

import (
	_ "embed"
	"fmt"

	json "github.com/goccy/go-json"

	"spotr/internal/models"
)

//go:embed spots.json
var seedSpots []byte

type CatalogInterface interface {
	All() []models.Spot
	Find(id string) (models.Spot, bool)
}

// Catalog is the static, read-only list of spots shipped with the app.
type Catalog struct {
	spots []models.Spot
	byID  map[string]int
}

func New(spots []models.Spot) *Catalog {
	c := &Catalog{
		spots: append([]models.Spot{}, spots...),
		byID:  make(map[string]int, len(spots)),
	}
	for i, s := range c.spots {
		c.byID[s.ID] = i
	}
	return c
}

func NewCatalogProvider() (CatalogInterface, error) {
	var spots []models.Spot
	if err := json.Unmarshal(seedSpots, &spots); err != nil {
		return nil, fmt.Errorf("decode seed spots: %w", err)
	}
	return New(spots), nil
}

// All returns a copy of the catalog in its original order.
func (c *Catalog) All() []models.Spot {
	return append([]models.Spot{}, c.spots...)
}

func (c *Catalog) Find(id string) (models.Spot, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Spot{}, false
	}
	return c.spots[i], true
}
