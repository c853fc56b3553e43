package matrix

import (
	"bytes"
	"testing"

	"github.com/schoolsupply/orderdesk/internal/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testCatalog() *catalog.Catalog {
	d := decimal.NewFromInt
	return catalog.New([]catalog.Item{
		{Grade: "Grade1", Subject: "Math", Name: "Book1", Cost: d(30000), Price: d(50000)},
		{Grade: "Grade1", Subject: "English", Name: "Book2", Cost: d(25000), Price: d(45000)},
		{Grade: "Grade2", Subject: "Science", Name: "Lab", Cost: d(10000), Price: d(20000)},
		{Grade: "Grade3", Subject: "Art", Name: "Paints", Cost: d(1000), Price: d(2000)},
	})
}

func testOrders() []Order {
	return []Order{
		{ID: "0001", Customer: "Ana", Phone: "3001112222", Detail: "[Grade1] (Math) Book1 | [Grade1] (English) Book2", Total: decimal.NewFromInt(95000), Balance: decimal.NewFromInt(45000)},
		{ID: "0002", Customer: "Luis", Phone: "3003334444", Detail: "[Grade1] Book1 | [Grade2] (Science) Lab", Total: decimal.NewFromInt(70000), Balance: decimal.Zero},
		{ID: "0003", Customer: "Eva", Phone: "3005556666", Detail: "nothing useful", Total: decimal.Zero, Balance: decimal.Zero},
	}
}

func TestBuild(t *testing.T) {
	r := Build(testOrders(), testCatalog())

	require.Len(t, r.Sections, 2, "Grade3 has no orders")
	g1 := r.Sections[0]
	assert.Equal(t, "Grade1", g1.Grade)
	assert.Equal(t, []string{"Cliente", "Celular", "Total", "Saldo", "Math", "English", "Cant"}, g1.Header())
	require.Len(t, g1.Rows, 2)
	assert.Equal(t, []int{1, 1}, g1.Rows[0].Cells)
	assert.Equal(t, 2, g1.Rows[0].Count)
	assert.Equal(t, []int{1, 0}, g1.Rows[1].Cells)
	assert.Equal(t, []int{2, 1}, g1.Totals)
	assert.Equal(t, 3, g1.TotalCount)

	g2 := r.Sections[1]
	assert.Equal(t, "Grade2", g2.Grade)
	require.Len(t, g2.Rows, 1)
	assert.Equal(t, "0002", g2.Rows[0].OrderID)
}

func TestBuild_NoOrders(t *testing.T) {
	r := Build(nil, testCatalog())
	assert.Empty(t, r.Sections)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, Build(testOrders(), testCatalog())))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)

	assert.Equal(t, "GRADO: Grade1", rows[0][0])
	assert.Equal(t, []string{"Cliente", "Celular", "Total", "Saldo", "Math", "English", "Cant"}, rows[1])
	assert.Equal(t, "Ana", rows[2][0])
	assert.Equal(t, "1", rows[2][4])
	assert.Equal(t, "Luis", rows[3][0])
	assert.Equal(t, "", rows[3][5], "unbought subject is blank")
	assert.Equal(t, "TOTAL", rows[4][0])

	// two blank rows, then the next grade
	v, err := f.GetCellValue(SheetName, "A8")
	require.NoError(t, err)
	assert.Equal(t, "GRADO: Grade2", v)
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, Build(testOrders(), testCatalog())))

	out := buf.String()
	assert.Contains(t, out, "GRADO: Grade1")
	assert.Contains(t, out, "GRADO: Grade2")
	assert.Contains(t, out, "Ana")
	assert.Contains(t, out, "$95,000")
	assert.NotContains(t, out, "Eva")
}

func TestRenderText_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, Report{}))
	assert.Equal(t, "no orders\n", buf.String())
}
