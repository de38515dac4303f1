package display

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Aayushshr101/digital-menu-backend/internal/models"
)

func TestTicket(t *testing.T) {
	ticket := &models.KitchenTicket{
		OrderNumber: "ORD_20240101_007",
		TableID:     uuid.New(),
		Addition:    true,
		TotalAmount: models.MustMoney("19.5"),
		Items: []models.OrderLineItem{{
			Item:     uuid.New(),
			Name:     "Momo",
			Quantity: 2,
			Price:    models.MustMoney("6.50"),
			Customizations: []models.Customization{
				{OptionName: "Size", Selection: "Large", PriceAddition: models.MustMoney("1.50")},
			},
			Notes: "extra spicy",
		}},
	}

	out := Ticket(ticket)
	assert.Contains(t, out, "ADDITION ORD_20240101_007")
	assert.Contains(t, out, "2 x Momo (Size: Large)  13.00")
	assert.Contains(t, out, "extra spicy")
	assert.Contains(t, out, "19.50")
}

func TestOrderAndCart(t *testing.T) {
	order := &models.Order{
		OrderNumber: "ORD_20240101_001",
		Status:      models.StatusPreparing,
		TotalAmount: models.MustMoney("2.5"),
		Items:       []models.OrderLineItem{{Name: "Tea", Quantity: 2, Price: models.MustMoney("1.25")}},
	}
	out := Order(order)
	assert.Contains(t, out, "PREPARING")
	assert.Contains(t, out, "Total: 2.50")

	assert.Contains(t, Cart(nil), "cart is empty")

	lines := []models.CartLine{{
		Name:      "Momo",
		Quantity:  1,
		UnitPrice: models.MustMoney("6.50"),
		Options:   models.Selections{"Size": {Name: "Large", Price: models.MustMoney("1.50")}},
	}}
	assert.Contains(t, Cart(lines), "1 x Momo (Size: Large)")
	assert.Contains(t, Cart(lines), "Cart total: 6.50")
}
