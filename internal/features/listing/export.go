package listing

import (
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportXLSX writes the page rows to a single-sheet workbook. Without
// explicit columns the keys of the first row are used, sorted.
func ExportXLSX(page *Page, columns []string, sheetName string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if sheetName == "" {
		sheetName = "Export"
	}
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if sheetName != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	if len(columns) == 0 && len(page.Rows) > 0 {
		for k := range page.Rows[0] {
			columns = append(columns, k)
		}
		sort.Strings(columns)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, col)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, row := range page.Rows {
		for colIdx, col := range columns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			switch v := row[col].(type) {
			case nil:
			case time.Time:
				_ = f.SetCellValue(sheetName, cell, v.Format("2006-01-02 15:04:05"))
			case map[string]any, []any:
				_ = f.SetCellValue(sheetName, cell, fmt.Sprintf("%v", v))
			default:
				_ = f.SetCellValue(sheetName, cell, v)
			}
		}
	}

	for i := range columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheetName, col, col, 18)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
