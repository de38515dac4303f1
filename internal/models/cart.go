package models

import (
	"encoding/json"
	"sort"

	"github.com/google/uuid"
)

// Selection is the option chosen for one customization group.
type Selection struct {
	Name  string `json:"name"`
	Price Money  `json:"price"`
}

// Selections maps customization group name to the chosen option.
type Selections map[string]Selection

// Key serializes the selections canonically as a JSON array of [group, option] pairs
// sorted by group, so names containing delimiters cannot collide.
func (s Selections) Key() string {
	if len(s) == 0 {
		return ""
	}
	groups := s.Groups()
	pairs := make([][2]string, 0, len(groups))
	for _, g := range groups {
		pairs = append(pairs, [2]string{g, s[g].Name})
	}
	b, _ := json.Marshal(pairs)
	return string(b)
}

// Groups returns the selected group names in sorted order.
func (s Selections) Groups() []string {
	groups := make([]string, 0, len(s))
	for g := range s {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}

// Clone returns an independent copy.
func (s Selections) Clone() Selections {
	if s == nil {
		return nil
	}
	out := make(Selections, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// CartLine is a staged, not yet submitted order line.
type CartLine struct {
	ID        string     `json:"id"`
	ItemID    uuid.UUID  `json:"item_id"`
	Name      string     `json:"name"`
	UnitPrice Money      `json:"unit_price"`
	Quantity  int        `json:"quantity"`
	Options   Selections `json:"options,omitempty"`
}

// LineKey is the identity of a cart line: the item id plus its serialized selections.
func LineKey(itemID uuid.UUID, opts Selections) string {
	key := opts.Key()
	if key == "" {
		return itemID.String()
	}
	return itemID.String() + "|" + key
}

// ToOrderLineItem snapshots the cart line for persistence.
func (l CartLine) ToOrderLineItem() OrderLineItem {
	item := OrderLineItem{
		Item:     l.ItemID,
		Name:     l.Name,
		Quantity: l.Quantity,
		Price:    l.UnitPrice,
	}
	for _, group := range l.Options.Groups() {
		sel := l.Options[group]
		item.Customizations = append(item.Customizations, Customization{
			OptionName:    group,
			Selection:     sel.Name,
			PriceAddition: sel.Price,
		})
	}
	return item
}
