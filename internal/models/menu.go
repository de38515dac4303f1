package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups menu items for display.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CategoryRef is the category embedded in a menu item.
type CategoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// CustomizationOption is one choice inside a group, e.g. "Large" for +1.50.
type CustomizationOption struct {
	Name          string `json:"name"`
	PriceAddition Money  `json:"price_addition"`
}

// CustomizationGroup is a single-select set of options, e.g. "Size".
type CustomizationGroup struct {
	Name    string                `json:"name"`
	Options []CustomizationOption `json:"options"`
}

// Option looks up an option by name.
func (g CustomizationGroup) Option(name string) (CustomizationOption, bool) {
	for _, opt := range g.Options {
		if opt.Name == name {
			return opt, true
		}
	}
	return CustomizationOption{}, false
}

// MenuItem is a catalog entry. A nil Category places the item in the uncategorized bucket.
type MenuItem struct {
	ID             uuid.UUID            `json:"id"`
	Name           string               `json:"name"`
	Description    string               `json:"description,omitempty"`
	Price          Money                `json:"price"`
	Category       *CategoryRef         `json:"category"`
	IsAvailable    bool                 `json:"is_available"`
	ImageURL       string               `json:"image_url,omitempty"`
	Customizations []CustomizationGroup `json:"customizations"`
	CreatedAt      time.Time            `json:"created_at"`
}

// Group looks up a customization group by name.
func (m MenuItem) Group(name string) (CustomizationGroup, bool) {
	for _, g := range m.Customizations {
		if g.Name == name {
			return g, true
		}
	}
	return CustomizationGroup{}, false
}

// Table is a physical dining table identified by the QR code on it.
type Table struct {
	ID          uuid.UUID `json:"id"`
	TableNumber string    `json:"table_number"`
	Capacity    int       `json:"capacity,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
