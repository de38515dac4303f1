package menu

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aayushshr101/digital-menu-backend/internal/models"
)

func TestGroupByCategory(t *testing.T) {
	mains := &models.CategoryRef{ID: uuid.New(), Name: "Mains"}
	drinks := &models.CategoryRef{ID: uuid.New(), Name: "Drinks"}

	items := []models.MenuItem{
		{ID: uuid.New(), Name: "Dal Bhat", Category: mains, IsAvailable: true},
		{ID: uuid.New(), Name: "Mystery", Category: nil, IsAvailable: true},
		{ID: uuid.New(), Name: "Tea", Category: drinks, IsAvailable: true},
		{ID: uuid.New(), Name: "Sold Out Curry", Category: mains, IsAvailable: false},
		{ID: uuid.New(), Name: "Thali", Category: mains, IsAvailable: true},
	}

	sections := GroupByCategory(items)
	require.Len(t, sections, 3)

	assert.Equal(t, "Mains", sections[0].Name)
	require.Len(t, sections[0].Items, 2)
	assert.Equal(t, "Dal Bhat", sections[0].Items[0].Name)
	assert.Equal(t, "Thali", sections[0].Items[1].Name)

	assert.Equal(t, UncategorizedID, sections[1].ID)
	assert.Equal(t, UncategorizedName, sections[1].Name)

	assert.Equal(t, "Drinks", sections[2].Name)
}

func TestGroupByCategoryEmpty(t *testing.T) {
	assert.Empty(t, GroupByCategory(nil))
	assert.Empty(t, GroupByCategory([]models.MenuItem{{ID: uuid.New(), IsAvailable: false}}))
}

func TestIndexByID(t *testing.T) {
	a := models.MenuItem{ID: uuid.New(), Name: "A"}
	idx := IndexByID([]models.MenuItem{a})
	assert.Equal(t, "A", idx[a.ID].Name)
}
