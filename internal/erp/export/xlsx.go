package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// WorkbookFileName Purchase_Tickets_20240301.xlsx
func WorkbookFileName(title string, now time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", title, now.Format("20060102"))
}

// BuildWorkbook 列表导出：每张磅单一行，末行汇总净重
func BuildWorkbook(sheet string, docs []Document) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, err
	}

	var keys []string
	if len(docs) > 0 {
		for _, fld := range docs[0].Fields {
			keys = append(keys, fld.Key)
		}
	}

	// 表头样式: 加粗
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, key := range keys {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, FieldLabel(key))
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	netCol := -1
	for i, key := range keys {
		if key == "net_weight" {
			netCol = i + 1
		}
	}

	var total float64
	for r, doc := range docs {
		for c, fld := range doc.Fields {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(sheet, cell, fld.Value)
		}
		if kg, ok := doc.NetWeight.Kg(); ok {
			total += kg.InexactFloat64()
			if netCol > 0 {
				cell, _ := excelize.CoordinatesToCellName(netCol, r+2)
				f.SetCellValue(sheet, cell, kg.InexactFloat64())
			}
		}
	}

	// 底部汇总行
	summaryRow := len(docs) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("Total (%d tickets)", len(docs)))
	if netCol > 0 {
		cell, _ := excelize.CoordinatesToCellName(netCol, summaryRow)
		f.SetCellValue(sheet, cell, total)
	}
	if len(keys) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(keys), summaryRow)
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", summaryRow), last, summaryStyle)
	}

	for i := range keys {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, 16)
	}

	return f, nil
}
