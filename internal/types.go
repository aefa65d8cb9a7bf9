package internal

// PartRecord is one catalog row. ID is the record's ordinal position in the catalog.
type PartRecord struct {
	ID            int    `json:"id"`
	PrimaryCode   string `json:"primaryCode"`
	Description1  string `json:"description1"`
	Description2  string `json:"description2"`
	VendorCode    string `json:"vendorCode"`
	VendorItem    string `json:"vendorItem"`
	Tariff        string `json:"tariff"`
	Category      string `json:"category"`
	SubCategory   string `json:"subCategory"`
	VendorName    string `json:"vendorName"`
	VendorAddress string `json:"vendorAddress"`
	City          string `json:"city"`
	State         string `json:"state"`
	Zip           string `json:"zip"`
}

type SearchScope string

const (
	ScopeAll         SearchScope = "all"
	ScopePrimary     SearchScope = "primary"
	ScopeVendor      SearchScope = "vendor"
	ScopeDescription SearchScope = "description"
	ScopeTariff      SearchScope = "tariff"
)

type SuggestScope string

const (
	SuggestDescription SuggestScope = "description"
	SuggestBroad       SuggestScope = "broad"
)

// ManualMatch records a tariff that a user assigned to an unmatched part by
// picking a catalog record.
type ManualMatch struct {
	PartNumber   string `json:"partNumber"`
	Tariff       string `json:"tariffCode"`
	MatchedFrom  string `json:"matchedFrom"`
	Description1 string `json:"description1"`
	Description2 string `json:"description2"`
	VendorName   string `json:"vendorName"`
	RowsUpdated  int    `json:"rowsUpdated"`
}

// RunRecord summarises one reconciled upload for the audit trail.
type RunRecord struct {
	TraceID         string `json:"traceId"`
	FileName        string `json:"fileName"`
	MatchedRows     int    `json:"matchedRows"`
	UnmatchedRows   int    `json:"unmatchedRows"`
	UniqueUnmatched int    `json:"uniqueUnmatched"`
	CreatedAt       string `json:"createdAt,omitempty"`
}
