package catalog

import (
	"partsearch/internal"
	"partsearch/internal/sheet"
)

const (
	SearchExportFileName  = "parts_search_results.xlsx"
	SearchExportSheetName = "Search Results"
	CatalogSheetName      = "Parts"
)

var searchExportHeader = []string{
	"Eurolink Item#", "Description 1", "Description 2", "Vendor Code", "Supplier Part#",
	"Tariff Code", "Category", "Sub Category", "Vendor Name",
}

// SearchExport lays out search results as the single "Search Results" sheet.
func SearchExport(parts []internal.PartRecord) []sheet.NamedSheet {
	records := make([]map[string]any, 0, len(parts))
	for _, p := range parts {
		records = append(records, map[string]any{
			"Eurolink Item#": p.PrimaryCode,
			"Description 1":  p.Description1,
			"Description 2":  p.Description2,
			"Vendor Code":    p.VendorCode,
			"Supplier Part#": p.VendorItem,
			"Tariff Code":    p.Tariff,
			"Category":       p.Category,
			"Sub Category":   p.SubCategory,
			"Vendor Name":    p.VendorName,
		})
	}
	return []sheet.NamedSheet{{Name: SearchExportSheetName, Rows: sheet.FromRecords(searchExportHeader, records)}}
}

// CatalogExport writes the whole catalog in its positional source layout.
func CatalogExport(parts []internal.PartRecord) []sheet.NamedSheet {
	return []sheet.NamedSheet{{Name: CatalogSheetName, Rows: ToRows(parts)}}
}
