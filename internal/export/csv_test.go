package export

import (
	"bytes"
	"testing"
)

type row struct {
	name   string
	status string
}

func TestWriteCSV(t *testing.T) {
	columns := []Column[row]{
		{Header: "Name", Value: func(r row) string { return r.name }},
		{Header: "Status", Value: func(r row) string { return r.status }},
	}
	rows := []row{
		{name: "Ali", status: "present"},
		{name: "Sara, Jr.", status: "absent"},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, columns, rows); err != nil {
		t.Fatalf("write: %v", err)
	}

	want := "Name,Status\nAli,present\n\"Sara, Jr.\",absent\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
}

func TestWriteCSVNoRows(t *testing.T) {
	columns := []Column[row]{{Header: "Name", Value: func(r row) string { return r.name }}}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, columns, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf.String() != "Name\n" {
		t.Fatalf("output = %q, want header only", buf.String())
	}
}
