package catalog

import (
	"partsearch/internal"
	"partsearch/internal/sheet"
)

// Positional layout of the catalog workbook. Column 10 is reserved and
// never read, but written back as an empty placeholder.
const (
	colPrimary = iota
	colDescription1
	colDescription2
	colVendorCode
	colVendorItem
	colTariff
	colCategory
	colSubCategory
	colVendorName
	colVendorAddress
	colReserved
	colCity
	colState
	colZip

	columnCount
)

var catalogHeader = [columnCount]string{
	"Eurolink Item#", "Description 1", "Description 2", "Vendor Code", "Supplier Part#",
	"Tariff Code", "Category", "Sub Category", "Vendor Name", "Vendor Address",
	"", "City", "State", "Zip",
}

// Decode maps catalog rows (header first) to records. IDs are ordinal.
func Decode(rows []sheet.Row) []internal.PartRecord {
	if len(rows) < 2 {
		return []internal.PartRecord{}
	}
	out := make([]internal.PartRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		out = append(out, internal.PartRecord{
			ID:            i,
			PrimaryCode:   cellString(row, colPrimary),
			Description1:  cellString(row, colDescription1),
			Description2:  cellString(row, colDescription2),
			VendorCode:    cellString(row, colVendorCode),
			VendorItem:    cellString(row, colVendorItem),
			Tariff:        cellString(row, colTariff),
			Category:      cellString(row, colCategory),
			SubCategory:   cellString(row, colSubCategory),
			VendorName:    cellString(row, colVendorName),
			VendorAddress: cellString(row, colVendorAddress),
			City:          cellString(row, colCity),
			State:         cellString(row, colState),
			Zip:           cellString(row, colZip),
		})
	}
	return out
}

// ToRows is the inverse of Decode: a header row followed by one
// fourteen-column row per record.
func ToRows(parts []internal.PartRecord) []sheet.Row {
	out := make([]sheet.Row, 0, len(parts)+1)
	head := make(sheet.Row, columnCount)
	for i, h := range catalogHeader {
		if h != "" {
			head[i] = h
		}
	}
	out = append(out, head)

	for _, p := range parts {
		row := make(sheet.Row, columnCount)
		row[colPrimary] = p.PrimaryCode
		row[colDescription1] = p.Description1
		row[colDescription2] = p.Description2
		row[colVendorCode] = p.VendorCode
		row[colVendorItem] = p.VendorItem
		row[colTariff] = p.Tariff
		row[colCategory] = p.Category
		row[colSubCategory] = p.SubCategory
		row[colVendorName] = p.VendorName
		row[colVendorAddress] = p.VendorAddress
		row[colCity] = p.City
		row[colState] = p.State
		row[colZip] = p.Zip
		out = append(out, row)
	}
	return out
}

func cellString(row sheet.Row, col int) string {
	return sheet.CellText(row.Cell(col))
}
