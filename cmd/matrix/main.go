// Command matrix prints the per-grade purchase matrix from a catalog export
// and an orders export, without touching the database.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/schoolsupply/orderdesk/internal/catalog"
	"github.com/schoolsupply/orderdesk/internal/logger"
	"github.com/schoolsupply/orderdesk/internal/matrix"
	"github.com/schoolsupply/orderdesk/internal/sheet"
	"go.uber.org/zap"
)

func main() {
	catalogPath := flag.String("catalog", "", "Catalog CSV (Grado, Area, Libro, Costo, Precio Venta)")
	ordersPath := flag.String("orders", "", "Orders CSV (ID_Pedido, ...)")
	xlsxPath := flag.String("xlsx", "", "Write the workbook here instead of printing tables")
	flag.Parse()

	if *catalogPath == "" || *ordersPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	// Tables go to stdout; keep diagnostics on the console logger.
	if err := logger.Init(true); err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.L()

	items, err := readCatalog(*catalogPath)
	if err != nil {
		log.Fatal("read catalog", zap.String("file", *catalogPath), zap.Error(err))
	}
	orders, err := readOrders(*ordersPath)
	if err != nil {
		log.Fatal("read orders", zap.String("file", *ordersPath), zap.Error(err))
	}

	report := matrix.Build(orders, catalog.New(items))

	if *xlsxPath == "" {
		if err := matrix.RenderText(os.Stdout, report); err != nil {
			log.Fatal("render matrix", zap.Error(err))
		}
		return
	}

	out, err := os.Create(*xlsxPath)
	if err != nil {
		log.Fatal("create workbook", zap.String("file", *xlsxPath), zap.Error(err))
	}
	if err := matrix.WriteXLSX(out, report); err != nil {
		out.Close()
		log.Fatal("write workbook", zap.Error(err))
	}
	if err := out.Close(); err != nil {
		log.Fatal("close workbook", zap.String("file", *xlsxPath), zap.Error(err))
	}
	log.Info("workbook written", zap.String("file", *xlsxPath), zap.Int("sections", len(report.Sections)))
}

func readCatalog(path string) ([]catalog.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return sheet.ReadCatalog(f)
}

func readOrders(path string) ([]matrix.Order, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := sheet.ReadOrders(f)
	if err != nil {
		return nil, err
	}
	orders := make([]matrix.Order, len(rows))
	for i, o := range rows {
		orders[i] = matrix.Order{
			ID:       o.ID,
			Customer: o.Customer,
			Phone:    o.Phone,
			Detail:   o.Detail,
			Total:    o.Total,
			Balance:  o.Balance,
		}
	}
	return orders, nil
}
