// Package matrix builds the per-grade purchase report: for every grade, one
// row per order and one column per subject marking whether it was bought.
package matrix

import (
	"github.com/schoolsupply/orderdesk/internal/catalog"
	"github.com/schoolsupply/orderdesk/internal/selection"
	"github.com/shopspring/decimal"
)

// Fixed leading and trailing column headers. Subject names go in between.
var (
	leadingHeader = []string{"Cliente", "Celular", "Total", "Saldo"}
	countHeader   = "Cant"
)

// Order is the subset of an order the report needs.
type Order struct {
	ID       string
	Customer string
	Phone    string
	Detail   string
	Total    decimal.Decimal
	Balance  decimal.Decimal
}

// Row is one order inside a grade section.
type Row struct {
	OrderID  string          `json:"order_id"`
	Customer string          `json:"customer"`
	Phone    string          `json:"phone"`
	Total    decimal.Decimal `json:"total"`
	Balance  decimal.Decimal `json:"balance"`
	// Cells holds 1 or 0 per subject, aligned with Section.Subjects.
	Cells []int `json:"cells"`
	Count int   `json:"count"`
}

// Section is the block of the report for a single grade.
type Section struct {
	Grade      string   `json:"grade"`
	Subjects   []string `json:"subjects"`
	Rows       []Row    `json:"rows"`
	Totals     []int    `json:"totals"`
	TotalCount int      `json:"total_count"`
}

// Header returns the column titles of the section.
func (s Section) Header() []string {
	h := make([]string, 0, len(leadingHeader)+len(s.Subjects)+1)
	h = append(h, leadingHeader...)
	h = append(h, s.Subjects...)
	return append(h, countHeader)
}

// Report is the full matrix, one section per grade in catalog order.
type Report struct {
	Sections []Section `json:"sections"`
}

// Build decodes every order against c. A grade gets a section when at least
// one order carries a token for it; orders appear in input order.
func Build(orders []Order, c *catalog.Catalog) Report {
	decoded := make([]selection.Decoded, len(orders))
	for i, o := range orders {
		decoded[i] = selection.Decode(o.Detail, c)
	}

	var r Report
	for _, grade := range c.Grades() {
		subjects := c.Subjects(grade)
		sec := Section{
			Grade:    grade,
			Subjects: subjects,
			Totals:   make([]int, len(subjects)),
		}
		for i, o := range orders {
			gp, ok := decoded[i].Grade(grade)
			if !ok {
				continue
			}
			row := Row{
				OrderID:  o.ID,
				Customer: o.Customer,
				Phone:    o.Phone,
				Total:    o.Total,
				Balance:  o.Balance,
				Cells:    make([]int, len(subjects)),
				Count:    gp.Count,
			}
			for j, present := range gp.Row() {
				if present {
					row.Cells[j] = 1
					sec.Totals[j]++
				}
			}
			sec.TotalCount += row.Count
			sec.Rows = append(sec.Rows, row)
		}
		if len(sec.Rows) == 0 {
			continue
		}
		r.Sections = append(r.Sections, sec)
	}
	return r
}
