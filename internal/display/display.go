// Package display renders tickets, orders and notifications for terminals.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Aayushshr101/digital-menu-backend/internal/models"
	"github.com/Aayushshr101/digital-menu-backend/internal/pricing"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	additionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#0a84ff")).
			Padding(0, 1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	statusColors = map[models.OrderStatus]lipgloss.Color{
		models.StatusPending:   lipgloss.Color("#ff9f0a"),
		models.StatusPreparing: lipgloss.Color("#0a84ff"),
		models.StatusServed:    lipgloss.Color("#5e5ce6"),
		models.StatusComplete:  lipgloss.Color("#30d158"),
		models.StatusCancelled: lipgloss.Color("#ff453a"),
	}
)

// Status renders an order status as a colored badge.
func Status(s models.OrderStatus) string {
	style := lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("#FFFFFF"))
	if c, ok := statusColors[s]; ok {
		style = style.Background(c)
	}
	return style.Render(strings.ToUpper(string(s)))
}

// Ticket renders a kitchen ticket with one row per line.
func Ticket(t *models.KitchenTicket) string {
	header := titleStyle.Render("NEW ORDER " + t.OrderNumber)
	if t.Addition {
		header = additionStyle.Render("ADDITION " + t.OrderNumber)
	}

	rows := make([]string, 0, len(t.Items)+1)
	rows = append(rows, header)
	for _, item := range t.Items {
		rows = append(rows, lineRow(item))
	}
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("table %s  ·  bill %s", shortID(t.TableID.String()), pricing.Display(t.TotalAmount))))

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// Order renders an order summary.
func Order(o *models.Order) string {
	rows := []string{
		lipgloss.JoinHorizontal(lipgloss.Center, titleStyle.Render(o.OrderNumber), " ", Status(o.Status)),
	}
	for _, item := range o.Items {
		rows = append(rows, lineRow(item))
	}
	rows = append(rows, "Total: "+pricing.Display(o.TotalAmount))
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// Cart renders pending cart lines and their total.
func Cart(lines []models.CartLine) string {
	if len(lines) == 0 {
		return mutedStyle.Render("cart is empty")
	}
	rows := make([]string, 0, len(lines)+1)
	for _, l := range lines {
		row := fmt.Sprintf("%d x %s", l.Quantity, l.Name)
		if opts := selections(l.Options); opts != "" {
			row += " (" + opts + ")"
		}
		rows = append(rows, row+"  "+pricing.Display(pricing.LineTotal(l)))
	}
	rows = append(rows, "Cart total: "+pricing.Display(pricing.CartTotal(lines)))
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func lineRow(item models.OrderLineItem) string {
	name := item.Name
	if name == "" {
		name = shortID(item.Item.String())
	}
	row := fmt.Sprintf("%d x %s", item.Quantity, name)
	if len(item.Customizations) > 0 {
		parts := make([]string, 0, len(item.Customizations))
		for _, c := range item.Customizations {
			parts = append(parts, c.OptionName+": "+c.Selection)
		}
		row += " (" + strings.Join(parts, ", ") + ")"
	}
	row += "  " + pricing.Display(pricing.ItemTotal(item))
	if item.Notes != "" {
		row += "\n  " + mutedStyle.Render(item.Notes)
	}
	return row
}

func selections(opts models.Selections) string {
	groups := opts.Groups()
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		parts = append(parts, g+": "+opts[g].Name)
	}
	return strings.Join(parts, ", ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
