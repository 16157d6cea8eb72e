package models

// Row maps a column header to the trimmed cell value.
type Row map[string]string

// Table is tabular room metadata read from a spreadsheet or CSV file.
type Table struct {
	// Columns lists the header names in sheet order.
	Columns []string `json:"columns"`
	// Rows contains the data rows below the header.
	Rows []Row `json:"rows"`
}
