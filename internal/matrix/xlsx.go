package matrix

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the report.
const SheetName = "Listado Matriz"

// Filename is the suggested download name.
const Filename = "Reporte_Matriz.xlsx"

type xlsxStyles struct {
	grade, header, cell int
}

func newStyles(f *excelize.File) (xlsxStyles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	var s xlsxStyles
	var err error
	s.grade, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
		Border: border,
	})
	if err != nil {
		return s, err
	}
	s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFF2CC"}, Pattern: 1},
		Border:    border,
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return s, err
	}
	s.cell, err = f.NewStyle(&excelize.Style{
		Border:    border,
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	return s, err
}

// WriteXLSX renders r as a workbook. Each section is a grade title row, a
// column header row, the order rows and a TOTAL row, followed by two empty
// rows. Subject cells are left blank when the subject was not bought.
func WriteXLSX(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	st, err := newStyles(f)
	if err != nil {
		return fmt.Errorf("create styles: %w", err)
	}

	row := 1
	set := func(col int, v any, style int) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, v); err != nil {
			return err
		}
		return f.SetCellStyle(SheetName, cell, cell, style)
	}

	for _, sec := range r.Sections {
		if err := set(1, "GRADO: "+sec.Grade, st.grade); err != nil {
			return err
		}
		row++

		for i, h := range sec.Header() {
			if err := set(i+1, h, st.header); err != nil {
				return err
			}
		}
		row++

		for _, rw := range sec.Rows {
			values := []any{rw.Customer, rw.Phone, rw.Total.InexactFloat64(), rw.Balance.InexactFloat64()}
			for _, c := range rw.Cells {
				values = append(values, blankZero(c))
			}
			values = append(values, rw.Count)
			for i, v := range values {
				if err := set(i+1, v, st.cell); err != nil {
					return err
				}
			}
			row++
		}

		totals := []any{"TOTAL", "", "", ""}
		for _, t := range sec.Totals {
			totals = append(totals, blankZero(t))
		}
		totals = append(totals, sec.TotalCount)
		for i, v := range totals {
			if err := set(i+1, v, st.header); err != nil {
				return err
			}
		}
		row += 3
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func blankZero(n int) any {
	if n == 0 {
		return ""
	}
	return n
}
