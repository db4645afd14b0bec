package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/teiprometal/inventory/internal/service"
)

var (
	accent = lipgloss.Color("#D97706")
	dim    = lipgloss.Color("#6B7280")

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	dimStyle    = lipgloss.NewStyle().Foreground(dim)
	totalStyle  = lipgloss.NewStyle().Bold(true)
)

// numericColumns are right-aligned: id, quantity, price and value.
var numericColumns = map[int]bool{0: true, 2: true, 3: true, 4: true}

// RenderCatalog renders the products as a table followed by the total catalog value.
func RenderCatalog(catalog *service.CatalogDto) string {
	var b strings.Builder
	if len(catalog.Products) == 0 {
		if catalog.Query != "" {
			b.WriteString(dimStyle.Render(fmt.Sprintf("No products match %q", catalog.Query)))
		} else {
			b.WriteString(dimStyle.Render("No products"))
		}
	} else {
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(dimStyle).
			Headers("ID", "NAME", "QUANTITY", "PRICE", "VALUE").
			StyleFunc(func(row, col int) lipgloss.Style {
				switch {
				case row == table.HeaderRow:
					return headerStyle
				case numericColumns[col]:
					return numberStyle
				default:
					return cellStyle
				}
			})
		for _, p := range catalog.Products {
			t.Row(
				strconv.FormatInt(p.ID, 10),
				p.Name,
				strconv.FormatInt(p.Quantity, 10),
				strconv.FormatFloat(p.Price, 'f', -1, 64),
				p.Value.String(),
			)
		}
		b.WriteString(t.Render())
	}
	b.WriteString("\n")
	b.WriteString(totalStyle.Render("Total value: " + catalog.TotalValue.String()))
	return b.String()
}

// RenderValuation renders the total catalog value and size on one line.
func RenderValuation(v *service.ValuationDto) string {
	return totalStyle.Render("Total value: "+v.TotalValue.String()) +
		dimStyle.Render(fmt.Sprintf(" (%d products)", v.Count))
}
