// Package catalog models the school-supplies price list: grades contain
// subjects, subjects contain items with a cost and a sale price.
package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Item is a single catalog entry. Unique by (Grade, Subject, Name).
type Item struct {
	Grade   string          `json:"grade"`
	Subject string          `json:"subject"`
	Name    string          `json:"name"`
	Cost    decimal.Decimal `json:"cost"`
	Price   decimal.Decimal `json:"price"`
}

// Key identifies an item within the catalog.
type Key struct {
	Grade   string
	Subject string
	Name    string
}

// Key returns the identity of the item.
func (i Item) Key() Key {
	return Key{Grade: i.Grade, Subject: i.Subject, Name: i.Name}
}

// Profit is the sale price minus the cost.
func (i Item) Profit() decimal.Decimal {
	return i.Price.Sub(i.Cost)
}

// Catalog is an immutable, ordered view over a list of items.
// Iteration order is grade, then subject, then item, each in order of first
// appearance in the source rows.
type Catalog struct {
	items    []Item
	grades   []string
	subjects map[string][]string
	byGrade  map[string][]Item
	index    map[Key]int
}

// New builds a Catalog from source rows. Text fields are trimmed, rows with an
// empty grade or name are skipped and later duplicates of a key are dropped.
func New(rows []Item) *Catalog {
	type subjectBucket struct {
		name  string
		items []Item
	}
	var grades []string
	buckets := make(map[string][]*subjectBucket)
	seen := make(map[Key]bool)

	for _, row := range rows {
		row.Grade = strings.TrimSpace(row.Grade)
		row.Subject = strings.TrimSpace(row.Subject)
		row.Name = strings.TrimSpace(row.Name)
		if row.Grade == "" || row.Name == "" {
			continue
		}
		if seen[row.Key()] {
			continue
		}
		seen[row.Key()] = true

		list, ok := buckets[row.Grade]
		if !ok {
			grades = append(grades, row.Grade)
		}
		var bucket *subjectBucket
		for _, b := range list {
			if b.name == row.Subject {
				bucket = b
				break
			}
		}
		if bucket == nil {
			bucket = &subjectBucket{name: row.Subject}
			list = append(list, bucket)
		}
		bucket.items = append(bucket.items, row)
		buckets[row.Grade] = list
	}

	c := &Catalog{
		grades:   grades,
		subjects: make(map[string][]string, len(grades)),
		byGrade:  make(map[string][]Item, len(grades)),
		index:    make(map[Key]int, len(seen)),
	}
	for _, g := range grades {
		for _, b := range buckets[g] {
			c.subjects[g] = append(c.subjects[g], b.name)
			for _, it := range b.items {
				c.index[it.Key()] = len(c.items)
				c.items = append(c.items, it)
				c.byGrade[g] = append(c.byGrade[g], it)
			}
		}
	}
	return c
}

// Items returns every item in catalog order.
func (c *Catalog) Items() []Item {
	return c.items
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Grades returns the distinct grades in catalog order.
func (c *Catalog) Grades() []string {
	return c.grades
}

// HasGrade reports whether the catalog lists any item for grade.
func (c *Catalog) HasGrade(grade string) bool {
	_, ok := c.byGrade[grade]
	return ok
}

// Subjects returns the distinct subjects of grade in catalog order.
func (c *Catalog) Subjects(grade string) []string {
	return c.subjects[grade]
}

// ItemsInGrade returns the items of grade in catalog order.
func (c *Catalog) ItemsInGrade(grade string) []Item {
	return c.byGrade[grade]
}

// Lookup finds an item by key.
func (c *Catalog) Lookup(k Key) (Item, bool) {
	i, ok := c.index[k]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

// GradeSummary aggregates cost, price and profit for one grade.
type GradeSummary struct {
	Grade  string          `json:"grade"`
	Items  int             `json:"items"`
	Cost   decimal.Decimal `json:"cost"`
	Price  decimal.Decimal `json:"price"`
	Profit decimal.Decimal `json:"profit"`
}

// Summary returns per-grade totals in catalog order.
func (c *Catalog) Summary() []GradeSummary {
	out := make([]GradeSummary, 0, len(c.grades))
	for _, g := range c.grades {
		s := GradeSummary{Grade: g, Cost: decimal.Zero, Price: decimal.Zero}
		for _, it := range c.byGrade[g] {
			s.Items++
			s.Cost = s.Cost.Add(it.Cost)
			s.Price = s.Price.Add(it.Price)
		}
		s.Profit = s.Price.Sub(s.Cost)
		out = append(out, s)
	}
	return out
}
