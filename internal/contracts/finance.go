package contracts

import (
	"time"
)

// Period is one reporting interval label ("2023", "2025_Q1")
// 모든 표(BS/IS/CF/비율)는 동일한 기간 순서를 공유함
type Period string

// SheetType identifies a statement or the ratio table
type SheetType string

const (
	SheetBalanceSheet    SheetType = "合并-bs"
	SheetIncomeStatement SheetType = "合并-is"
	SheetCashFlow        SheetType = "合并-cf"
	SheetRatios          SheetType = "financial_ratios"
)

// sheetAliases maps short query values onto canonical sheet types
var sheetAliases = map[string]SheetType{
	"bs":     SheetBalanceSheet,
	"is":     SheetIncomeStatement,
	"cf":     SheetCashFlow,
	"ratios": SheetRatios,
}

// ParseSheetType resolves a canonical sheet name or a short alias
func ParseSheetType(s string) (SheetType, bool) {
	switch t := SheetType(s); t {
	case SheetBalanceSheet, SheetIncomeStatement, SheetCashFlow, SheetRatios:
		return t, true
	}
	t, ok := sheetAliases[s]
	return t, ok
}

// StatementRow is one template line: a label plus one value per period.
// Values[i] belongs to StatementTable.Periods[i]; nil marks a header row.
type StatementRow struct {
	Item   string     `json:"item"`
	Values []*float64 `json:"values"`
}

// StatementTable is an ordered statement for one (company, sheet) pair
// ⭐ SSOT: 행 순서 = 템플릿 순서 (표시 계약)
type StatementTable struct {
	Sheet   SheetType      `json:"sheet"`
	Periods []Period       `json:"periods"`
	Rows    []StatementRow `json:"rows"`
}

// PeriodIndex returns the column index of p, or -1
func (t *StatementTable) PeriodIndex(p Period) int {
	for i, period := range t.Periods {
		if period == p {
			return i
		}
	}
	return -1
}

// Row returns the row with the given label
func (t *StatementTable) Row(item string) (*StatementRow, bool) {
	for i := range t.Rows {
		if t.Rows[i].Item == item {
			return &t.Rows[i], true
		}
	}
	return nil, false
}

// Value returns the numeric value of item at period.
// Missing rows, unknown periods and header cells report ok=false.
func (t *StatementTable) Value(item string, p Period) (float64, bool) {
	row, ok := t.Row(item)
	if !ok {
		return 0, false
	}
	idx := t.PeriodIndex(p)
	if idx < 0 || idx >= len(row.Values) || row.Values[idx] == nil {
		return 0, false
	}
	return *row.Values[idx], true
}

// Labels returns the row labels in order
func (t *StatementTable) Labels() []string {
	labels := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		labels[i] = row.Item
	}
	return labels
}

// RatioTable maps period → ratio name → value (nil = 분모 0 또는 전기 없음)
type RatioTable map[Period]map[string]*float64

// CompanyData holds everything generated for one company
type CompanyData struct {
	ID     string                        `json:"id"`
	Name   string                        `json:"name"`
	Sheets map[SheetType]*StatementTable `json:"sheets"`
	Ratios RatioTable                    `json:"ratios"`
}

// Dataset is the immutable output of one generation run
// ⭐ SSOT: 생성 후 읽기 전용 (재생성 시 통째로 교체)
type Dataset struct {
	ID          string                  `json:"id"`
	Seed        int64                   `json:"seed"`
	GeneratedAt time.Time               `json:"generated_at"`
	Periods     []Period                `json:"periods"`
	CompanyIDs  []string                `json:"company_ids"` // profile table order
	Companies   map[string]*CompanyData `json:"companies"`
}

// Company returns the generated data for id
func (d *Dataset) Company(id string) (*CompanyData, bool) {
	c, ok := d.Companies[id]
	return c, ok
}

// HasPeriod reports whether p is part of the generated sequence
func (d *Dataset) HasPeriod(p Period) bool {
	for _, period := range d.Periods {
		if period == p {
			return true
		}
	}
	return false
}

// DatasetEvent is pushed to subscribers when a dataset is swapped in
type DatasetEvent struct {
	Type        string    `json:"type"`
	DatasetID   string    `json:"dataset_id"`
	Seed        int64     `json:"seed"`
	GeneratedAt time.Time `json:"generated_at"`
}

// EventDatasetRegenerated is the DatasetEvent type for a completed swap
const EventDatasetRegenerated = "dataset_regenerated"
