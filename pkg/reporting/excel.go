package reporting

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/ducminhle1904/bybit-spot-dashboard/pkg/types"
)

const tradesSheet = "Trades"

// ExcelReporter exports the trade history as an xlsx workbook
type ExcelReporter struct{}

func NewExcelReporter() *ExcelReporter {
	return &ExcelReporter{}
}

// WriteTradesXLSX saves the workbook to path, creating the directory if needed
func (r *ExcelReporter) WriteTradesXLSX(records []types.TradeRecord, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx, err := r.build(records)
	if err != nil {
		return err
	}
	defer fx.Close()

	return fx.SaveAs(path)
}

// WriteTrades streams the workbook to w
func (r *ExcelReporter) WriteTrades(w io.Writer, records []types.TradeRecord) error {
	fx, err := r.build(records)
	if err != nil {
		return err
	}
	defer fx.Close()

	_, err = fx.WriteTo(w)
	return err
}

func (r *ExcelReporter) build(records []types.TradeRecord) (*excelize.File, error) {
	fx := excelize.NewFile()
	if err := fx.SetSheetName(fx.GetSheetName(0), tradesSheet); err != nil {
		fx.Close()
		return nil, err
	}

	headerStyle, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"2F4F4F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		fx.Close()
		return nil, err
	}

	buyStyle, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "006100"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C6EFCE"}, Pattern: 1},
	})
	if err != nil {
		fx.Close()
		return nil, err
	}
	sellStyle, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "9C0006"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
	})
	if err != nil {
		fx.Close()
		return nil, err
	}

	fx.SetColWidth(tradesSheet, "A", "A", 14) // Pair
	fx.SetColWidth(tradesSheet, "B", "B", 8)  // Action
	fx.SetColWidth(tradesSheet, "C", "E", 16)

	headers := []string{"Pair", "Action", "Price", "Amount", "Notional"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(tradesSheet, cell, h)
		fx.SetCellStyle(tradesSheet, cell, cell, headerStyle)
	}

	for i, rec := range records {
		row := i + 2
		values := []interface{}{rec.Pair, rec.Action, rec.Price, rec.Amount, rec.Price * rec.Amount}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			fx.SetCellValue(tradesSheet, cell, v)
		}
		actionCell, _ := excelize.CoordinatesToCellName(2, row)
		switch rec.Action {
		case "Buy":
			fx.SetCellStyle(tradesSheet, actionCell, actionCell, buyStyle)
		case "Sell":
			fx.SetCellStyle(tradesSheet, actionCell, actionCell, sellStyle)
		}
	}

	if len(records) > 0 {
		fx.AutoFilter(tradesSheet, fmt.Sprintf("A1:E%d", len(records)+1), []excelize.AutoFilterOptions{})
	}
	fx.SetPanes(tradesSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	return fx, nil
}
