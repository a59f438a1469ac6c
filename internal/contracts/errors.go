package contracts

import (
	"fmt"
	"strings"
)

// NotFoundError reports an unknown company or sheet identifier (HTTP 404)
type NotFoundError struct {
	Kind string // "company" | "sheet"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Kind, e.ID)
}

// InvalidPeriodError reports a requested period outside the generated sequence (HTTP 400)
type InvalidPeriodError struct {
	Period string
	Valid  []Period
}

func (e *InvalidPeriodError) Error() string {
	valid := make([]string, len(e.Valid))
	for i, p := range e.Valid {
		valid[i] = string(p)
	}
	return fmt.Sprintf("invalid period '%s'. Available: %s", e.Period, strings.Join(valid, ", "))
}
