package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Aayushshr101/digital-menu-backend/internal/models"
)

func money(s string) models.Money { return models.MustMoney(s) }

func TestLineTotal(t *testing.T) {
	line := models.CartLine{UnitPrice: money("25"), Quantity: 2}
	assert.True(t, money("50").Equal(LineTotal(line)), LineTotal(line).String())
}

func TestCartTotal(t *testing.T) {
	tests := []struct {
		name  string
		lines []models.CartLine
		want  string
	}{
		{name: "empty", lines: nil, want: "0"},
		{name: "single", lines: []models.CartLine{{UnitPrice: money("9.99"), Quantity: 1}}, want: "9.99"},
		{
			name: "mixed",
			lines: []models.CartLine{
				{UnitPrice: money("0.1"), Quantity: 3},
				{UnitPrice: money("0.2"), Quantity: 1},
			},
			want: "0.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CartTotal(tt.lines)
			assert.True(t, money(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestCustomizationTotal(t *testing.T) {
	assert.True(t, models.Zero.Equal(CustomizationTotal(nil)))

	sel := models.Selections{
		"Size":  {Name: "Large", Price: money("2")},
		"Extra": {Name: "Cheese", Price: money("1.25")},
	}
	assert.True(t, money("3.25").Equal(CustomizationTotal(sel)))
}

func TestUnitPriceAndItemsTotal(t *testing.T) {
	item := models.MenuItem{ID: uuid.New(), Price: money("10")}
	sel := models.Selections{"Size": {Name: "Large", Price: money("2.5")}}
	assert.True(t, money("12.5").Equal(UnitPrice(item, sel)))

	items := []models.OrderLineItem{
		{Price: money("12.5"), Quantity: 2},
		{Price: money("3"), Quantity: 1},
	}
	assert.True(t, money("28").Equal(ItemsTotal(items)))
	assert.Equal(t, "28.00", Display(ItemsTotal(items)))
}
