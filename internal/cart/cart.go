// Package cart stages order lines on the customer side before they are submitted.
//
// A Builder belongs to one ordering session and is not safe for concurrent use.
package cart

import (
	"github.com/Aayushshr101/digital-menu-backend/internal/models"
	"github.com/Aayushshr101/digital-menu-backend/internal/pricing"
)

// Builder holds cart lines in insertion order.
type Builder struct {
	lines []models.CartLine
}

func New() *Builder {
	return &Builder{}
}

// AddLine adds one unit of item with the given selections. A line with the same item and
// selections has its quantity incremented; otherwise a new line is appended.
func (b *Builder) AddLine(item models.MenuItem, opts models.Selections, priceDelta models.Money) models.CartLine {
	key := models.LineKey(item.ID, opts)

	for i := range b.lines {
		if b.lines[i].ID == key {
			b.lines[i].Quantity++
			return b.lines[i]
		}
	}

	line := models.CartLine{
		ID:        key,
		ItemID:    item.ID,
		Name:      item.Name,
		UnitPrice: item.Price.Add(priceDelta),
		Quantity:  1,
		Options:   opts.Clone(),
	}
	b.lines = append(b.lines, line)
	return line
}

// AddCustomized adds item using the selector's current choices.
func (b *Builder) AddCustomized(item models.MenuItem, sel *Selector) models.CartLine {
	return b.AddLine(item, sel.Selections(), sel.Price())
}

// RemoveLine decrements the line's quantity and drops it at zero. Unknown ids are ignored.
func (b *Builder) RemoveLine(lineID string) {
	for i := range b.lines {
		if b.lines[i].ID != lineID {
			continue
		}
		if b.lines[i].Quantity > 1 {
			b.lines[i].Quantity--
			return
		}
		b.lines = append(b.lines[:i], b.lines[i+1:]...)
		return
	}
}

// Lines returns a copy of the current lines.
func (b *Builder) Lines() []models.CartLine {
	out := make([]models.CartLine, len(b.lines))
	copy(out, b.lines)
	return out
}

func (b *Builder) Len() int {
	return len(b.lines)
}

// ItemCount is the total quantity across lines.
func (b *Builder) ItemCount() int {
	n := 0
	for _, l := range b.lines {
		n += l.Quantity
	}
	return n
}

func (b *Builder) Total() models.Money {
	return pricing.CartTotal(b.lines)
}

func (b *Builder) Clear() {
	b.lines = nil
}
