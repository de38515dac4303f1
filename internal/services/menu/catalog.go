// Package menu serves the read-only catalog: categories, menu items, and dining tables.
package menu

import (
	"github.com/google/uuid"

	"github.com/Aayushshr101/digital-menu-backend/internal/models"
)

const (
	UncategorizedID   = "uncategorized"
	UncategorizedName = "Uncategorized"
)

// Section is one category heading with its orderable items.
type Section struct {
	ID    string            `json:"id"`
	Name  string            `json:"name"`
	Items []models.MenuItem `json:"items"`
}

// GroupByCategory buckets available items by category, in order of first appearance.
// Items without a category land in the Uncategorized section. Unavailable items are dropped.
func GroupByCategory(items []models.MenuItem) []Section {
	var sections []Section
	index := make(map[string]int)

	for _, item := range Available(items) {
		id, name := UncategorizedID, UncategorizedName
		if item.Category != nil {
			id, name = item.Category.ID.String(), item.Category.Name
		}

		i, ok := index[id]
		if !ok {
			i = len(sections)
			index[id] = i
			sections = append(sections, Section{ID: id, Name: name})
		}
		sections[i].Items = append(sections[i].Items, item)
	}

	return sections
}

// Available keeps only items that can currently be ordered.
func Available(items []models.MenuItem) []models.MenuItem {
	out := make([]models.MenuItem, 0, len(items))
	for _, item := range items {
		if item.IsAvailable {
			out = append(out, item)
		}
	}
	return out
}

// IndexByID maps item id to item.
func IndexByID(items []models.MenuItem) map[uuid.UUID]models.MenuItem {
	out := make(map[uuid.UUID]models.MenuItem, len(items))
	for _, item := range items {
		out[item.ID] = item
	}
	return out
}
