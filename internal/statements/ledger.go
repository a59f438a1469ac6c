package statements

import (
	"fmt"
	"math/rand/v2"

	"github.com/shopspring/decimal"

	"github.com/wonny/aura/backend/internal/contracts"
)

// Volatility scaling per line family (1.0 = the profile's full coefficient)
const (
	trajectoryVolatilityFactor = 0.5
	equityVolatilityFactor     = 0.3
	expenseVolatilityFactor    = 0.7
	minorityVolatilityFactor   = 0.5
)

const (
	statementDecimals = 2
	ratioDecimals     = 4
)

// noise applies uniform multiplicative perturbation scaled by a profile's volatility
type noise struct {
	rng        *rand.Rand
	volatility float64
}

func newNoise(rng *rand.Rand, volatility float64) noise {
	return noise{rng: rng, volatility: volatility}
}

// perturb returns v × (1 + U(-vol·factor, +vol·factor))
func (n noise) perturb(v, factor float64) float64 {
	vol := n.volatility * factor
	if vol == 0 {
		return v
	}
	return v * (1 + uniform(n.rng, -vol, vol))
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

// ledger accumulates unrounded values per template label and period index
type ledger struct {
	values map[string][]float64
}

func newLedger(t Template, n int) *ledger {
	l := &ledger{values: make(map[string][]float64, len(t.Items))}
	for _, item := range t.Items {
		l.values[item] = make([]float64, n)
	}
	return l
}

func (l *ledger) column(item string) []float64 {
	col, ok := l.values[item]
	if !ok {
		panic(fmt.Sprintf("statements: label %q is not part of the template", item))
	}
	return col
}

func (l *ledger) set(item string, i int, v float64) {
	l.column(item)[i] = v
}

func (l *ledger) add(item string, i int, v float64) {
	l.column(item)[i] += v
}

func (l *ledger) get(item string, i int) float64 {
	return l.column(item)[i]
}

// table renders the ledger in template order, rounding data cells to 2 dp
func (l *ledger) table(t Template, periods []contracts.Period) *contracts.StatementTable {
	rows := make([]contracts.StatementRow, len(t.Items))
	for r, item := range t.Items {
		values := make([]*float64, len(periods))
		if !t.IsHeader(item) {
			col := l.column(item)
			for i := range periods {
				v := round(col[i], statementDecimals)
				values[i] = &v
			}
		}
		rows[r] = contracts.StatementRow{Item: item, Values: values}
	}

	return &contracts.StatementTable{
		Sheet:   t.Sheet,
		Periods: append([]contracts.Period(nil), periods...),
		Rows:    rows,
	}
}

// round uses half-away-from-zero decimal rounding
func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
