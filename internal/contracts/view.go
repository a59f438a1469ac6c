package contracts

import (
	"bytes"
	"encoding/json"
)

// RowView is a statement row projected onto the requested periods.
// Serialized as {"item": label, "<period>": value, ...} in period order.
type RowView struct {
	Item    string
	Periods []Period
	Values  []*float64
}

// MarshalJSON keeps "item" first and periods in request order
func (r RowView) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"item":`)
	item, err := json.Marshal(r.Item)
	if err != nil {
		return nil, err
	}
	buf.Write(item)

	for i, p := range r.Periods {
		key, err := json.Marshal(string(p))
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')

		if i >= len(r.Values) || r.Values[i] == nil {
			buf.WriteString("null")
			continue
		}
		val, err := json.Marshal(*r.Values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// FinanceResponse is the /finance_data payload.
// Data is []RowView for statements and RatioTable for financial_ratios.
type FinanceResponse struct {
	CompanyID        string      `json:"company_id"`
	CompanyName      string      `json:"company_name"`
	SheetType        SheetType   `json:"sheet_type"`
	PeriodsRequested []Period    `json:"periods_requested"`
	Data             interface{} `json:"data"`
}

// CompanySummary describes one profile for listing endpoints
type CompanySummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"desc"`
}
