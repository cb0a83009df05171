// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/look-composer/internal/catalog"
	"github.com/jonathan/look-composer/internal/jobstore"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintStylePlan outputs a human-readable summary of the plan about to be
// assembled.
func (p *Printer) PrintStylePlan(plan *catalog.StylePlan) {
	if plan == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Look:     %s\n", plan.LookID))
	sb.WriteString(fmt.Sprintf("Budget:   %.2f %s\n", plan.BudgetTotal, plan.Currency))
	if len(plan.RetailerPriority) > 0 {
		sb.WriteString(fmt.Sprintf("Sources:  %s\n", strings.Join(plan.RetailerPriority, ", ")))
	}
	sb.WriteString("\n")

	for i, slot := range plan.RequiredSlots {
		if i >= maxItemsToShow {
			sb.WriteString(fmt.Sprintf("... and %d more slots\n", len(plan.RequiredSlots)-maxItemsToShow))
			break
		}
		sb.WriteString(fmt.Sprintf("%-10s %s\n", slot+":", describeConstraint(plan.Constraint(slot))))
	}

	p.printBox("STYLE PLAN", strings.TrimRight(sb.String(), "\n"))
}

// PrintLookResponse outputs a summary of the assembled look.
func (p *Printer) PrintLookResponse(resp *catalog.LookResponse) {
	if resp == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Status:   %s\n", resp.Status))
	if resp.TotalPrice != nil {
		sb.WriteString(fmt.Sprintf("Total:    %.2f %s\n", *resp.TotalPrice, resp.Currency))
	}
	sb.WriteString("\n")

	for _, product := range resp.Slots {
		line := fmt.Sprintf("%-10s %s", product.Slot+":", product.Title)
		if product.Retailer != "" {
			line += " @" + product.Retailer
		}
		sb.WriteString(line + "\n")
	}
	if len(resp.MissingSlots) > 0 {
		sb.WriteString(fmt.Sprintf("\nUnfilled:  %s\n", strings.Join(resp.MissingSlots, ", ")))
	}

	p.printBox("ASSEMBLED LOOK", strings.TrimRight(sb.String(), "\n"))
}

// PrintProgress outputs per-slot search statistics from a job record.
func (p *Printer) PrintProgress(progress map[string]jobstore.SlotProgress) {
	if len(progress) == 0 {
		return
	}

	slots := make([]string, 0, len(progress))
	for slot := range progress {
		slots = append(slots, slot)
	}
	sort.Strings(slots)

	var sb strings.Builder
	for _, slot := range slots {
		sp := progress[slot]
		status := "unfilled"
		if sp.Filled {
			status = "filled"
		}
		if sp.Relaxed {
			status += " (relaxed)"
		}
		sb.WriteString(fmt.Sprintf("%-10s %2d candidates from %d sources, %s\n",
			slot+":", sp.Candidates, sp.Attempted, status))
	}

	p.printBox("SLOT SEARCH", strings.TrimRight(sb.String(), "\n"))
}

func describeConstraint(c *catalog.SlotConstraint) string {
	if c == nil {
		return "(no constraints)"
	}

	parts := []string{}
	if c.Category != "" {
		parts = append(parts, c.Category)
	}
	if len(c.Keywords) > 0 {
		parts = append(parts, strings.Join(c.Keywords, " "))
	}
	if c.MaxPrice > 0 {
		parts = append(parts, fmt.Sprintf("%.0f-%.0f", c.MinPrice, c.MaxPrice))
	}
	if len(parts) == 0 {
		return "(any)"
	}
	return strings.Join(parts, ", ")
}
