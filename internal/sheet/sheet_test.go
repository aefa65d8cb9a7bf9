package sheet

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

func mkXLSX(rows [][]any) []byte {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	buf := bytes.NewBuffer(nil)
	_, _ = f.WriteTo(buf)
	return buf.Bytes()
}

func TestParseXLSXKeepsCellTypes(t *testing.T) {
	blob := mkXLSX([][]any{
		{"PRIMARY PART NUMBER", "TARIFF NUM", "QTY"},
		{"E100", "", 4017},
		{"X-7", "8501.10", 2.5},
	})

	rows, err := Parse("upload.xlsx", blob)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("len=%d", len(rows))
	}
	if rows[0].Text(0) != "PRIMARY PART NUMBER" {
		t.Fatalf("header=%v", rows[0])
	}
	if v, ok := rows[1][2].(float64); !ok || v != 4017 {
		t.Fatalf("numeric cell=%#v", rows[1][2])
	}
	if rows[1].Text(2) != "4017" {
		t.Fatalf("text=%q", rows[1].Text(2))
	}
	if rows[2].Text(1) != "8501.10" {
		t.Fatalf("string cell=%#v", rows[2][1])
	}
}

func TestParseCSV(t *testing.T) {
	blob := []byte("\xef\xbb\xbfPrimary Part,Tariff Num\nE100,\nZ999,1234\n")
	rows, err := Parse("upload.CSV", blob)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("len=%d", len(rows))
	}
	if rows[0].Text(0) != "Primary Part" {
		t.Fatalf("BOM not stripped: %q", rows[0].Text(0))
	}
	if rows[1].Cell(1) != nil {
		t.Fatalf("empty cell should be nil, got %#v", rows[1].Cell(1))
	}
}

func TestParseHTMLTable(t *testing.T) {
	blob := []byte(`<html><body><table>
<tr><th>Primary Part #</th><th>Tariff Number</th></tr>
<tr><td> E100 </td><td></td></tr>
</table></body></html>`)
	rows, err := Parse("export.html", blob)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[1].Text(0) != "E100" || rows[1].Cell(1) != nil {
		t.Fatalf("rows=%v", rows)
	}
}

func TestParseUnreadable(t *testing.T) {
	_, err := Parse("broken.xlsx", []byte("definitely not a zip archive"))
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("err=%v", err)
	}
}

func TestParseEmptyBytes(t *testing.T) {
	rows, err := Parse("empty.xlsx", nil)
	if err != nil || len(rows) != 0 {
		t.Fatalf("rows=%v err=%v", rows, err)
	}
}

func TestSerializeKeepsSheetOrderAndNames(t *testing.T) {
	blob, err := Serialize([]NamedSheet{
		{Name: "Updated Data", Rows: []Row{{"A", "B"}, {"x", 1.5}}},
		{Name: "Newly Matched", Rows: []Row{{"Part Number"}, {"Z999"}}},
	})
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(blob))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) != 2 || names[0] != "Updated Data" || names[1] != "Newly Matched" {
		t.Fatalf("sheets=%v", names)
	}
	v, _ := f.GetCellValue("Newly Matched", "A2")
	if v != "Z999" {
		t.Fatalf("A2=%q", v)
	}

	rows, err := Parse("roundtrip.xlsx", blob)
	if err != nil {
		t.Fatal(err)
	}
	if rows[1].Text(1) != "1.5" {
		t.Fatalf("round trip=%v", rows)
	}
}

func TestSerializeRequiresSheets(t *testing.T) {
	if _, err := Serialize(nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestFromRecords(t *testing.T) {
	rows := FromRecords([]string{"Code", "Tariff"}, []map[string]any{
		{"Tariff": "8501", "Code": "E100", "Ignored": "x"},
		{"Code": "E200"},
	})
	if len(rows) != 3 {
		t.Fatalf("len=%d", len(rows))
	}
	if rows[0].Text(0) != "Code" || rows[1].Text(0) != "E100" || rows[1].Text(1) != "8501" || rows[2].Cell(1) != nil {
		t.Fatalf("rows=%v", rows)
	}
}

func TestRowSetGrows(t *testing.T) {
	row := Row{"E100"}
	row = row.Set(3, "8501")
	if len(row) != 4 || row.Text(3) != "8501" || row.Cell(1) != nil {
		t.Fatalf("row=%v", row)
	}

	orig := Row{"a", "b"}
	copied := orig.With(1, "c")
	if orig.Text(1) != "b" || copied.Text(1) != "c" {
		t.Fatalf("With mutated original: %v %v", orig, copied)
	}
}
