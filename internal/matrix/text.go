package matrix

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/schoolsupply/orderdesk/internal/money"
)

// RenderText prints r as one plain table per grade.
func RenderText(w io.Writer, r Report) error {
	if len(r.Sections) == 0 {
		_, err := fmt.Fprintln(w, "no orders")
		return err
	}
	for i, sec := range r.Sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "GRADO: %s\n", sec.Grade)

		table := tablewriter.NewWriter(w)
		header := make([]any, 0, len(sec.Subjects)+5)
		for _, h := range sec.Header() {
			header = append(header, h)
		}
		table.Header(header...)

		for _, rw := range sec.Rows {
			line := []string{rw.Customer, rw.Phone, money.Format(rw.Total), money.Format(rw.Balance)}
			for _, c := range rw.Cells {
				line = append(line, mark(c))
			}
			line = append(line, strconv.Itoa(rw.Count))
			if err := table.Append(line); err != nil {
				return fmt.Errorf("append row: %w", err)
			}
		}

		totals := []string{"TOTAL", "", "", ""}
		for _, t := range sec.Totals {
			totals = append(totals, mark(t))
		}
		totals = append(totals, strconv.Itoa(sec.TotalCount))
		if err := table.Append(totals); err != nil {
			return fmt.Errorf("append totals: %w", err)
		}

		if err := table.Render(); err != nil {
			return fmt.Errorf("render %s: %w", sec.Grade, err)
		}
	}
	return nil
}

func mark(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
