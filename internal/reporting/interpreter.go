package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatAmount renders a monetary value with thousands separators and two
// decimals, e.g. -1,234.50.
func FormatAmount(v float64) string {
	return printer.Sprintf("%.2f", v)
}

// InterpretROI returns a plain-language label for an actual ROI value.
func InterpretROI(actualROI float64) string {
	switch {
	case actualROI > 0:
		return "net gain, model decisions added business value"
	case actualROI < 0:
		return "net loss, model decisions cost more than they returned"
	default:
		return "break-even"
	}
}

// FormatSummaryReport produces a plain-language report for one batch.
func FormatSummaryReport(res *BatchResult) string {
	var b strings.Builder

	r := res.Report

	b.WriteString(fmt.Sprintf("=== %s ===\n\n", res.Name))
	b.WriteString(fmt.Sprintf("Actual ROI:   %s (%s)\n", FormatAmount(r.ActualROI), InterpretROI(r.ActualROI)))
	b.WriteString(fmt.Sprintf("Amount field: %s\n", r.AmountField))
	if res.DurationMs > 0 {
		b.WriteString(fmt.Sprintf("Duration:     %v\n", time.Duration(res.DurationMs)*time.Millisecond))
	}

	if res.Breakdown == nil {
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Records:      %d\n\n", res.Breakdown.Records))

	header := []string{"Class", "Records", "Amount", "Multiplier", "Contribution"}
	rows := [][]string{header}
	for _, cs := range res.Breakdown.Classes {
		multiplier := "-"
		if cs.Configured {
			multiplier = cs.Multiplier.String()
		}
		rows = append(rows, []string{
			fmt.Sprintf("%s (%s)", cs.Class, cs.Class.Description()),
			fmt.Sprintf("%d", cs.Count),
			formatDecimal(cs.Amount),
			multiplier,
			formatDecimal(cs.Contribution),
		})
	}
	writeTable(&b, rows)

	return b.String()
}

func formatDecimal(d decimal.Decimal) string {
	return FormatAmount(d.Round(2).InexactFloat64())
}

// writeTable writes rows as aligned columns. The first column is left
// aligned, the others right aligned.
func writeTable(b *strings.Builder, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	for _, row := range rows {
		b.WriteString("  ")
		for i, cell := range row {
			if i == 0 {
				b.WriteString(runewidth.FillRight(cell, widths[i]))
			} else {
				b.WriteString("  ")
				b.WriteString(runewidth.FillLeft(cell, widths[i]))
			}
		}
		b.WriteString("\n")
	}
}
