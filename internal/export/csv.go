// Package export writes the downloadable report files. It operates on the
// filtered, unpaginated record sequence, never on a page slice.
package export

import (
	"encoding/csv"
	"io"
)

// Column maps one spreadsheet column onto a record field.
type Column[T any] struct {
	Header string
	Value  func(T) string
}

// WriteCSV renders rows under the given column mapping.
func WriteCSV[T any](w io.Writer, columns []Column[T], rows []T) error {
	writer := csv.NewWriter(w)

	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = col.Header
	}
	if err := writer.Write(headers); err != nil {
		return err
	}

	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			record[i] = col.Value(row)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
