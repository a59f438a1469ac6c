package store

import (
	"strings"
	"sync"

	"github.com/wonny/aura/backend/internal/contracts"
	"github.com/wonny/aura/backend/internal/profile"
)

// Defaults applied when a query parameter is absent
const (
	DefaultCompany = "aura"
	DefaultSheet   = contracts.SheetBalanceSheet
)

// Store serves the current dataset to request handlers.
// ⭐ SSOT: 요청 경로의 유일한 데이터 접근점 (재생성 시 포인터 통째로 교체)
type Store struct {
	mu       sync.RWMutex
	current  *contracts.Dataset
	profiles *profile.Table
}

// New creates a store holding ds
func New(profiles *profile.Table, ds *contracts.Dataset) *Store {
	return &Store{current: ds, profiles: profiles}
}

// Current returns the dataset being served
func (s *Store) Current() *contracts.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Replace swaps in a freshly generated dataset and returns the previous one
func (s *Store) Replace(ds *contracts.Dataset) *contracts.Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.current
	s.current = ds
	return prev
}

// Companies lists profiles in table order
func (s *Store) Companies() []contracts.CompanySummary {
	all := s.profiles.All()
	out := make([]contracts.CompanySummary, len(all))
	for i, p := range all {
		out[i] = contracts.CompanySummary{
			ID:          p.ID,
			Name:        p.Name,
			Type:        p.Type,
			Description: p.Description,
		}
	}
	return out
}

// Periods returns the generated period sequence
func (s *Store) Periods() []contracts.Period {
	return append([]contracts.Period(nil), s.Current().Periods...)
}

// Query projects one (company, sheet) table onto the requested periods.
// Empty arguments fall back to DefaultCompany, DefaultSheet and every period.
func (s *Store) Query(company, sheet, periods string) (*contracts.FinanceResponse, error) {
	ds := s.Current()

	if company == "" {
		company = DefaultCompany
	}
	data, ok := ds.Company(company)
	if !ok {
		return nil, &contracts.NotFoundError{Kind: "company", ID: company}
	}

	sheetType := DefaultSheet
	if sheet != "" {
		t, ok := contracts.ParseSheetType(sheet)
		if !ok {
			return nil, &contracts.NotFoundError{Kind: "sheet", ID: sheet}
		}
		sheetType = t
	}

	requested, err := ParsePeriods(periods, ds.Periods)
	if err != nil {
		return nil, err
	}

	resp := &contracts.FinanceResponse{
		CompanyID:        data.ID,
		CompanyName:      data.Name,
		SheetType:        sheetType,
		PeriodsRequested: requested,
	}

	if sheetType == contracts.SheetRatios {
		resp.Data = projectRatios(data.Ratios, requested)
		return resp, nil
	}

	table, ok := data.Sheets[sheetType]
	if !ok {
		return nil, &contracts.NotFoundError{Kind: "sheet", ID: string(sheetType)}
	}
	resp.Data = projectTable(table, requested)
	return resp, nil
}

// ParsePeriods splits a comma separated period list.
// Entries are trimmed and de-duplicated keeping request order; empty input selects all.
func ParsePeriods(raw string, valid []contracts.Period) ([]contracts.Period, error) {
	if strings.TrimSpace(raw) == "" {
		return append([]contracts.Period(nil), valid...), nil
	}

	known := make(map[contracts.Period]bool, len(valid))
	for _, p := range valid {
		known[p] = true
	}

	var out []contracts.Period
	seen := make(map[contracts.Period]bool)
	for _, part := range strings.Split(raw, ",") {
		p := contracts.Period(strings.TrimSpace(part))
		if !known[p] {
			return nil, &contracts.InvalidPeriodError{Period: string(p), Valid: valid}
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out, nil
}

func projectTable(t *contracts.StatementTable, periods []contracts.Period) []contracts.RowView {
	idx := make([]int, len(periods))
	for i, p := range periods {
		idx[i] = t.PeriodIndex(p)
	}

	rows := make([]contracts.RowView, len(t.Rows))
	for r, row := range t.Rows {
		values := make([]*float64, len(periods))
		for i, col := range idx {
			if col >= 0 && col < len(row.Values) {
				values[i] = row.Values[col]
			}
		}
		rows[r] = contracts.RowView{Item: row.Item, Periods: periods, Values: values}
	}
	return rows
}

func projectRatios(r contracts.RatioTable, periods []contracts.Period) contracts.RatioTable {
	out := make(contracts.RatioTable, len(periods))
	for _, p := range periods {
		if byName, ok := r[p]; ok {
			out[p] = byName
		}
	}
	return out
}
