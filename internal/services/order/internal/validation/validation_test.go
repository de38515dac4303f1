package validation

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Aayushshr101/digital-menu-backend/internal/models"
)

func money(s string) models.Money { return models.MustMoney(s) }

func TestValidateCreateOrderRequest(t *testing.T) {
	item := uuid.New()
	valid := models.OrderLineItem{Item: item, Quantity: 1, Price: money("9.99")}

	tests := []struct {
		name      string
		req       *models.CreateOrderRequest
		wantField string
	}{
		{
			name: "valid request",
			req:  &models.CreateOrderRequest{TableID: uuid.New(), Items: []models.OrderLineItem{valid}},
		},
		{
			name:      "missing table",
			req:       &models.CreateOrderRequest{Items: []models.OrderLineItem{valid}},
			wantField: "table",
		},
		{
			name:      "empty items",
			req:       &models.CreateOrderRequest{TableID: uuid.New()},
			wantField: "items",
		},
		{
			name: "zero quantity",
			req: &models.CreateOrderRequest{TableID: uuid.New(), Items: []models.OrderLineItem{
				{Item: item, Quantity: 0, Price: money("1")},
			}},
			wantField: "items[0].quantity",
		},
		{
			name: "quantity above limit",
			req: &models.CreateOrderRequest{TableID: uuid.New(), Items: []models.OrderLineItem{
				valid, {Item: item, Quantity: MaxQuantity + 1, Price: money("1")},
			}},
			wantField: "items[1].quantity",
		},
		{
			name: "negative price",
			req: &models.CreateOrderRequest{TableID: uuid.New(), Items: []models.OrderLineItem{
				{Item: item, Quantity: 1, Price: money("-1")},
			}},
			wantField: "items[0].price",
		},
		{
			name: "price with three decimals",
			req: &models.CreateOrderRequest{TableID: uuid.New(), Items: []models.OrderLineItem{
				{Item: item, Quantity: 1, Price: money("9.995")},
			}},
			wantField: "items[0].price",
		},
		{
			name: "trailing zeros are fine",
			req: &models.CreateOrderRequest{TableID: uuid.New(), Items: []models.OrderLineItem{
				{Item: item, Quantity: 1, Price: money("9.500")},
			}},
		},
		{
			name: "price addition with three decimals",
			req: &models.CreateOrderRequest{TableID: uuid.New(), Items: []models.OrderLineItem{
				{Item: item, Quantity: 1, Price: money("1"), Customizations: []models.Customization{
					{OptionName: "Size", Selection: "Large", PriceAddition: money("0.125")},
				}},
			}},
			wantField: "items[0].customizations[0].price_addition",
		},
		{
			name: "missing menu item",
			req: &models.CreateOrderRequest{TableID: uuid.New(), Items: []models.OrderLineItem{
				{Quantity: 1, Price: money("1")},
			}},
			wantField: "items[0].item",
		},
		{
			name: "notes too long",
			req: &models.CreateOrderRequest{TableID: uuid.New(), Items: []models.OrderLineItem{
				{Item: item, Quantity: 1, Price: money("1"), Notes: strings.Repeat("x", MaxNotesLength+1)},
			}},
			wantField: "items[0].notes",
		},
		{
			name: "duplicate option group",
			req: &models.CreateOrderRequest{TableID: uuid.New(), Items: []models.OrderLineItem{
				{Item: item, Quantity: 1, Price: money("1"), Customizations: []models.Customization{
					{OptionName: "Size", Selection: "Large"},
					{OptionName: "Size", Selection: "Small"},
				}},
			}},
			wantField: "items[0].customizations[1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCreateOrderRequest(tt.req)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verr ValidationError
			if assert.ErrorAs(t, err, &verr) {
				assert.Equal(t, tt.wantField, verr.Field)
			}
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestValidateAgainstCatalog(t *testing.T) {
	momo := models.MenuItem{
		ID:          uuid.New(),
		Name:        "Momo",
		Price:       money("8.5"),
		IsAvailable: true,
		Customizations: []models.CustomizationGroup{
			{Name: "Style", Options: []models.CustomizationOption{
				{Name: "Steamed", PriceAddition: models.Zero},
				{Name: "Jhol", PriceAddition: money("1.5")},
			}},
		},
	}
	soldOut := models.MenuItem{ID: uuid.New(), Name: "Special", Price: money("15"), IsAvailable: false}
	fineSauce := models.MenuItem{
		ID:          uuid.New(),
		Name:        "Sekuwa",
		Price:       money("12"),
		IsAvailable: true,
		Customizations: []models.CustomizationGroup{
			{Name: "Sauce", Options: []models.CustomizationOption{{Name: "Timur", PriceAddition: money("0.125")}}},
		},
	}
	oddBase := models.MenuItem{ID: uuid.New(), Name: "Lassi", Price: money("3.333"), IsAvailable: true}
	catalog := map[uuid.UUID]models.MenuItem{momo.ID: momo, soldOut.ID: soldOut, fineSauce.ID: fineSauce, oddBase.ID: oddBase}

	jhol := []models.Customization{{OptionName: "Style", Selection: "Jhol", PriceAddition: money("1.5")}}

	tests := []struct {
		name    string
		items   []models.OrderLineItem
		wantErr bool
	}{
		{name: "plain item", items: []models.OrderLineItem{{Item: momo.ID, Quantity: 2, Price: money("8.50")}}},
		{name: "customized item", items: []models.OrderLineItem{{Item: momo.ID, Quantity: 1, Price: money("10"), Customizations: jhol}}},
		{name: "unknown item", items: []models.OrderLineItem{{Item: uuid.New(), Quantity: 1, Price: money("1")}}, wantErr: true},
		{name: "unavailable item", items: []models.OrderLineItem{{Item: soldOut.ID, Quantity: 1, Price: money("15")}}, wantErr: true},
		{name: "price mismatch", items: []models.OrderLineItem{{Item: momo.ID, Quantity: 1, Price: money("8.5"), Customizations: jhol}}, wantErr: true},
		{
			name: "unknown selection",
			items: []models.OrderLineItem{{Item: momo.ID, Quantity: 1, Price: money("8.5"), Customizations: []models.Customization{
				{OptionName: "Style", Selection: "Fried"},
			}}},
			wantErr: true,
		},
		{
			name: "menu addition finer than cents",
			items: []models.OrderLineItem{{Item: fineSauce.ID, Quantity: 1, Price: money("12.125"), Customizations: []models.Customization{
				{OptionName: "Sauce", Selection: "Timur", PriceAddition: money("0.125")},
			}}},
			wantErr: true,
		},
		{name: "menu price finer than cents", items: []models.OrderLineItem{{Item: oddBase.ID, Quantity: 1, Price: money("3.333")}}, wantErr: true},
		{
			name: "tampered price addition",
			items: []models.OrderLineItem{{Item: momo.ID, Quantity: 1, Price: money("8.5"), Customizations: []models.Customization{
				{OptionName: "Style", Selection: "Jhol", PriceAddition: models.Zero},
			}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAgainstCatalog(tt.items, catalog)
			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
