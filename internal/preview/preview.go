// Package preview renders small tables for the terminal.
package preview

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"
)

// Table builds a markdown section holding a heading and at most limit rows.
func Table(title string, header []string, rows [][]string, limit int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", title)
	if len(rows) == 0 {
		b.WriteString("_no rows_\n")
		return b.String()
	}

	writeRow(&b, header)
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(&b, sep)
	for i, r := range rows {
		if limit > 0 && i == limit {
			break
		}
		writeRow(&b, r)
	}
	if limit > 0 && len(rows) > limit {
		fmt.Fprintf(&b, "\n_%d more rows_\n", len(rows)-limit)
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(strings.ReplaceAll(c, "|", `\|`))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

// Render formats markdown for a plain terminal.
func Render(markdown string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("rendering preview: %w", err)
	}
	return out, nil
}

// INR formats an amount in rupees.
func INR(amount decimal.Decimal) string {
	cur := money.GetCurrency(money.INR)
	return money.New(amount.Shift(int32(cur.Fraction)).Round(0).IntPart(), money.INR).Display()
}
