// Package merge joins extracted labels with tabular room metadata.
package merge

import (
	"strings"
	"unicode"

	"github.com/ukaji3/floorplan-go/pkg/floorplan/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// IdentifierKey is the normalized form shared by the accepted room
// identifier headers: "RoomID", "Room ID", "RoomId", "Room Id".
const IdentifierKey = "roomid"

// NormalizeHeader case-folds a column header and removes whitespace, so that
// "Room ID" and "roomid" compare equal. Compatibility forms such as
// full-width letters are normalized first.
func NormalizeHeader(header string) string {
	s := cases.Fold().String(norm.NFKC.String(header))
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// IdentifierColumns returns the columns holding room identifiers, in table
// order.
func IdentifierColumns(columns []string) []string {
	var ids []string
	for _, c := range columns {
		if NormalizeHeader(c) == IdentifierKey {
			ids = append(ids, c)
		}
	}
	return ids
}

// RoomID returns the first non-empty identifier of row among idColumns.
func RoomID(row models.Row, idColumns []string) (string, bool) {
	for _, c := range idColumns {
		if v := row[c]; v != "" {
			return v, true
		}
	}
	return "", false
}

// Join pairs every row with each label whose text equals the row's room
// identifier. Records follow row order, then label order. Rows without an
// identifier or without a matching label produce no record.
func Join(labels []models.Label, table models.Table) []models.Record {
	idColumns := IdentifierColumns(table.Columns)
	if len(idColumns) == 0 {
		return []models.Record{}
	}

	byText := make(map[string][]models.Label)
	for _, l := range labels {
		byText[l.Text] = append(byText[l.Text], l)
	}

	records := []models.Record{}
	for _, row := range table.Rows {
		id, ok := RoomID(row, idColumns)
		if !ok {
			continue
		}
		for _, l := range byText[id] {
			records = append(records, models.Record{
				RoomID:     id,
				Attributes: attributes(row, idColumns),
				X:          l.X,
				Y:          l.Y,
			})
		}
	}

	return records
}

// JoinBatch joins each document of batch with table.
func JoinBatch(batch models.Batch, table models.Table) map[string][]models.Record {
	result := make(map[string][]models.Record, len(batch))
	for name, labels := range batch {
		result[name] = Join(labels, table)
	}
	return result
}

// Stats summarizes how many rows and labels took part in a join.
type Stats struct {
	Rows            int
	RowsWithoutID   int
	UnmatchedRows   int
	UnmatchedLabels int
	Records         int
}

// Summarize computes join statistics for reporting. It does not affect
// Join's result.
func Summarize(labels []models.Label, table models.Table) Stats {
	idColumns := IdentifierColumns(table.Columns)
	texts := make(map[string]bool)
	for _, l := range labels {
		texts[l.Text] = true
	}

	st := Stats{Rows: len(table.Rows)}
	ids := make(map[string]bool)
	for _, row := range table.Rows {
		id, ok := RoomID(row, idColumns)
		if !ok {
			st.RowsWithoutID++
			continue
		}
		ids[id] = true
		if !texts[id] {
			st.UnmatchedRows++
		}
	}
	for _, l := range labels {
		if !ids[l.Text] {
			st.UnmatchedLabels++
		}
	}
	st.Records = len(Join(labels, table))
	return st
}

func attributes(row models.Row, idColumns []string) map[string]string {
	attrs := make(map[string]string, len(row))
	for k, v := range row {
		attrs[k] = v
	}
	for _, c := range idColumns {
		delete(attrs, c)
	}
	return attrs
}
