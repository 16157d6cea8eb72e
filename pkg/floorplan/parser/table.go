package parser

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ukaji3/floorplan-go/pkg/floorplan/models"
	"github.com/xuri/excelize/v2"
)

// ReadTable reads room metadata from an .xlsx or .csv file.
// For workbooks the first sheet is used.
func ReadTable(path string) (models.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return models.Table{}, err
		}
		defer f.Close()
		return ReadSheet(f, f.GetSheetName(0))
	case ".csv":
		file, err := os.Open(path)
		if err != nil {
			return models.Table{}, err
		}
		defer file.Close()

		r := csv.NewReader(file)
		r.FieldsPerRecord = -1
		records, err := r.ReadAll()
		if err != nil {
			return models.Table{}, err
		}
		return BuildTable(records), nil
	default:
		return models.Table{}, fmt.Errorf("unsupported table format: %s", filepath.Ext(path))
	}
}

// ReadSheet reads a sheet as a table whose first non-empty row is the header.
func ReadSheet(f *excelize.File, sheetName string) (models.Table, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return models.Table{}, err
	}
	return BuildTable(rows), nil
}

// BuildTable turns raw rows into a table. The first non-empty row supplies
// the column names; blank header cells drop their column, and for repeated
// names the first column wins. Rows without any value are skipped.
func BuildTable(rows [][]string) models.Table {
	var table models.Table
	var header []string

	for _, row := range rows {
		if !hasData(row) {
			continue
		}

		if header == nil {
			header = make([]string, len(row))
			seen := make(map[string]bool)
			for colIdx, cell := range row {
				name := strings.TrimSpace(cell)
				if name == "" || seen[name] {
					continue
				}
				seen[name] = true
				header[colIdx] = name
				table.Columns = append(table.Columns, name)
			}
			continue
		}

		rec := make(models.Row)
		for colIdx, cell := range row {
			if colIdx >= len(header) || header[colIdx] == "" {
				continue
			}
			if value := strings.TrimSpace(cell); value != "" {
				rec[header[colIdx]] = value
			}
		}
		table.Rows = append(table.Rows, rec)
	}

	return table
}

func hasData(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return true
		}
	}
	return false
}
