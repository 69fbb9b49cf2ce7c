package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Apurer/restaurant-backoffice/internal/domains/billing/ports"
)

// renderText prints the statement as aligned columns, one block per billing period.
func renderText(w io.Writer, view *ports.StatementView) error {
	stmt := view.Statement
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Statement for restaurant %s\n", stmt.RestaurantID)
	if len(stmt.Periods) == 0 {
		fmt.Fprintln(tw, "\nNo billable orders.")
	}
	for _, period := range stmt.Periods {
		fmt.Fprintf(tw, "\nPeriod %s\n", period.Key)
		fmt.Fprintln(tw, "ORDER\tITEM\tQTY\tUNIT COST\tTOTAL\t")
		for _, line := range period.Lines {
			cost := line.CostPerUnit.StringFixed(2)
			if line.MissingCost {
				cost = "n/a"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", line.ID, line.ItemID, line.Quantity.String(), cost, line.Total.StringFixed(2))
		}
		fmt.Fprintf(tw, "\t\t\tSubtotal\t%s\t\n", period.Subtotal.StringFixed(2))
	}
	fmt.Fprintf(tw, "\nTotal\t%s\n", stmt.Total.StringFixed(2))
	if len(stmt.Missing) > 0 {
		fmt.Fprintf(tw, "\n%d line(s) priced at zero for missing cost data:\n", len(stmt.Missing))
		for _, missing := range stmt.Missing {
			fmt.Fprintf(tw, "  %s\n", missing.Error())
		}
	}
	if len(view.Invoices) > 0 {
		fmt.Fprintln(tw, "\nINVOICE\tTOTAL\tDUE\tPAID\t")
		for _, inv := range view.Invoices {
			paid := "-"
			if inv.LastPayment != nil {
				paid = inv.LastPayment.Format("2006-01-02")
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", inv.ID, inv.Total.StringFixed(2), inv.DueDate.Format("2006-01-02"), paid)
		}
	}
	return tw.Flush()
}
