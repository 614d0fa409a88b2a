package export

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// moneyColumns are written as numbers so the workbook can total them.
var moneyColumns = map[string]bool{
	"amount": true,
	"debit":  true,
	"credit": true,
}

// WriteXLSX writes rows to a single-sheet workbook at path with the same
// columns as the CSV.
func WriteXLSX(path, sheet string, rows any) error {
	table, err := records(rows)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := table[0]
	for r, record := range table {
		for c, value := range record {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			var v any = value
			if r > 0 && moneyColumns[header[c]] {
				if n, err := strconv.ParseFloat(value, 64); err == nil {
					v = n
				}
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("writing %s: %w", cell, err)
			}
		}
	}

	if err := styleSheet(f, sheet, header, len(table)); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func styleSheet(f *excelize.File, sheet string, header []string, rows int) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return err
	}

	// built-in format 4 is #,##0.00
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return err
	}
	for c, name := range header {
		if !moneyColumns[name] || rows < 2 {
			continue
		}
		top, _ := excelize.CoordinatesToCellName(c+1, 2)
		bottom, _ := excelize.CoordinatesToCellName(c+1, rows)
		if err := f.SetCellStyle(sheet, top, bottom, money); err != nil {
			return err
		}
	}
	return nil
}
