package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
)

func item(grade, subject, name string, cost, price int64) Item {
	return Item{
		Grade:   grade,
		Subject: subject,
		Name:    name,
		Cost:    decimal.NewFromInt(cost),
		Price:   decimal.NewFromInt(price),
	}
}

func TestNew_OrdersByGradeThenSubject(t *testing.T) {
	c := New([]Item{
		item("Grade1", "Math", "Book1", 30000, 50000),
		item("Grade2", "Science", "Lab", 10000, 20000),
		item("Grade1", "English", "Book2", 25000, 45000),
		item("Grade1", "Math", "Workbook", 5000, 9000),
	})

	want := []string{"Book1", "Workbook", "Book2", "Lab"}
	items := c.Items()
	if len(items) != len(want) {
		t.Fatalf("items: got %d, want %d", len(items), len(want))
	}
	for i, name := range want {
		if items[i].Name != name {
			t.Errorf("items[%d]: got %q, want %q", i, items[i].Name, name)
		}
	}

	grades := c.Grades()
	if len(grades) != 2 || grades[0] != "Grade1" || grades[1] != "Grade2" {
		t.Errorf("grades: got %v", grades)
	}
	subjects := c.Subjects("Grade1")
	if len(subjects) != 2 || subjects[0] != "Math" || subjects[1] != "English" {
		t.Errorf("subjects: got %v", subjects)
	}
}

func TestNew_TrimsAndSkipsBadRows(t *testing.T) {
	c := New([]Item{
		item(" Grade1 ", " Math ", " Book1 ", 1, 2),
		item("Grade1", "Math", "Book1", 9, 9),
		item("", "Math", "Orphan", 1, 1),
		item("Grade1", "Math", "  ", 1, 1),
	})

	if c.Len() != 1 {
		t.Fatalf("len: got %d, want 1", c.Len())
	}
	got, ok := c.Lookup(Key{Grade: "Grade1", Subject: "Math", Name: "Book1"})
	if !ok {
		t.Fatal("expected trimmed key to be found")
	}
	if !got.Price.Equal(decimal.NewFromInt(2)) {
		t.Errorf("first row should win, got price %s", got.Price)
	}
	if c.HasGrade("") {
		t.Error("empty grade should be skipped")
	}
}

func TestSummary(t *testing.T) {
	c := New([]Item{
		item("Grade1", "Math", "Book1", 30000, 50000),
		item("Grade1", "English", "Book2", 25000, 45000),
		item("Grade2", "Science", "Lab", 10000, 20000),
	})

	sum := c.Summary()
	if len(sum) != 2 {
		t.Fatalf("summary: got %d rows, want 2", len(sum))
	}
	g1 := sum[0]
	if g1.Grade != "Grade1" || g1.Items != 2 {
		t.Errorf("grade1: got %+v", g1)
	}
	if !g1.Cost.Equal(decimal.NewFromInt(55000)) || !g1.Price.Equal(decimal.NewFromInt(95000)) || !g1.Profit.Equal(decimal.NewFromInt(40000)) {
		t.Errorf("grade1 totals: cost=%s price=%s profit=%s", g1.Cost, g1.Price, g1.Profit)
	}
}

func TestItemProfit(t *testing.T) {
	it := item("Grade1", "Math", "Book1", 30000, 50000)
	if !it.Profit().Equal(decimal.NewFromInt(20000)) {
		t.Errorf("profit: got %s", it.Profit())
	}
}
