package cart

import (
	"fmt"

	"github.com/Aayushshr101/digital-menu-backend/internal/models"
	"github.com/Aayushshr101/digital-menu-backend/internal/pricing"
)

// Selector tracks the options picked for one menu item while it is being customized.
type Selector struct {
	item       models.MenuItem
	selections models.Selections
}

func NewSelector(item models.MenuItem) *Selector {
	return &Selector{item: item, selections: models.Selections{}}
}

// SelectOption picks option in group, replacing any earlier pick for that group.
func (s *Selector) SelectOption(group, option string) error {
	g, ok := s.item.Group(group)
	if !ok {
		return models.ValidationError{Field: "customizations", Message: fmt.Sprintf("%s has no option group %q", s.item.Name, group)}
	}
	opt, ok := g.Option(option)
	if !ok {
		return models.ValidationError{Field: "customizations." + group, Message: fmt.Sprintf("unknown option %q", option)}
	}
	s.selections[group] = models.Selection{Name: opt.Name, Price: opt.PriceAddition}
	return nil
}

// Price is the running customization price: one addition per selected group.
func (s *Selector) Price() models.Money {
	return pricing.CustomizationTotal(s.selections)
}

// Selections returns a copy of the current picks.
func (s *Selector) Selections() models.Selections {
	return s.selections.Clone()
}

func (s *Selector) Item() models.MenuItem {
	return s.item
}

func (s *Selector) Reset() {
	s.selections = models.Selections{}
}
