package profile

// CompanyProfile holds the static tuning coefficients of one mock company.
// 회사별 분기는 코드가 아니라 이 데이터로 표현함 (새 회사 = YAML 항목 추가)
type CompanyProfile struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Description string `yaml:"desc"`

	BaseAssetMultiplier float64 `yaml:"base_asset_multiplier"`
	AssetGrowth         float64 `yaml:"asset_growth"`
	LiabilityRatio      float64 `yaml:"liability_ratio"`
	ProfitMargin        float64 `yaml:"profit_margin"`
	Volatility          float64 `yaml:"volatility"`
	RevenueToAsset      float64 `yaml:"revenue_to_asset"`

	BalanceSheet    BalanceSheetProfile    `yaml:"balance_sheet"`
	IncomeStatement IncomeStatementProfile `yaml:"income_statement"`
	CashFlow        CashFlowProfile        `yaml:"cash_flow"`
}

// Allocation assigns a share of some base amount to a statement line item
type Allocation struct {
	Item  string  `yaml:"item"`
	Share float64 `yaml:"share"`
}

// BalanceSheetProfile describes how totals are split into line items
type BalanceSheetProfile struct {
	CurrentAssets    []Allocation `yaml:"current_assets"`     // share of total assets
	NonCurrentAssets []Allocation `yaml:"non_current_assets"` // share of total assets

	CurrentLiabilityShare float64      `yaml:"current_liability_share"` // of total liabilities
	CurrentLiabilities    []Allocation `yaml:"current_liabilities"`     // share of current target
	NonCurrentLiabilities []Allocation `yaml:"non_current_liabilities"` // share of non-current target
	Provisions            []Allocation `yaml:"provisions"`              // share of total liabilities, booked non-current

	Equity                []Allocation `yaml:"equity"`                  // share of total equity
	MinorityInterestShare float64      `yaml:"minority_interest_share"` // share of total equity
}

// RevenueSegment is a revenue stream with its own cost ratio
type RevenueSegment struct {
	Name      string  `yaml:"name"`
	Share     float64 `yaml:"share"`      // of revenue
	CostRatio float64 `yaml:"cost_ratio"` // COGS as share of segment revenue
}

// IncomeStatementProfile describes the cost structure below revenue
type IncomeStatementProfile struct {
	Segments    []RevenueSegment `yaml:"segments"`
	Expenses    []Allocation     `yaml:"expenses"`     // share of revenue
	OtherIncome []Allocation     `yaml:"other_income"` // share of revenue
	Impairments []Allocation     `yaml:"impairments"`  // share of revenue, booked negative

	SurchargeRate         float64 `yaml:"surcharge_rate"` // of COGS
	TaxRate               float64 `yaml:"tax_rate"`
	MinorityInterestShare float64 `yaml:"minority_interest_share"` // of net profit
}

// InvestingMode selects the base of the investing cash flow
type InvestingMode string

const (
	InvestingAssetDelta InvestingMode = "asset_delta" // |Δ total assets| × intensity
	InvestingAssetLevel InvestingMode = "asset_level" // total assets × intensity
)

// FinancingMode selects how financing cash flow follows operating and investing
type FinancingMode string

const (
	// FinancingPlug: 부족분은 외부 조달, 여유분은 자산 증가분 일부 상환
	FinancingPlug FinancingMode = "plug"
	// FinancingInvestmentFunded: 투자 유출의 일정 비율을 외부 조달
	FinancingInvestmentFunded FinancingMode = "investment_funded"
	// FinancingDebtService: 부채 상환 압박 (항상 유출 쪽으로 치우침)
	FinancingDebtService FinancingMode = "debt_service"
)

// CashFlowProfile describes the three activity-level cash flows
type CashFlowProfile struct {
	OperatingMultiplierMin float64 `yaml:"operating_multiplier_min"`
	OperatingMultiplierMax float64 `yaml:"operating_multiplier_max"`

	InvestingMode      InvestingMode `yaml:"investing_mode"`
	InvestingIntensity float64       `yaml:"investing_intensity"`

	FinancingMode FinancingMode `yaml:"financing_mode"`
	// FinancingFactor multiplies the plug base (operating+investing, or |investing|)
	FinancingFactor float64 `yaml:"financing_factor"`
	// RepaymentShare of Δ assets repaid when the plug base is a surplus
	RepaymentShare float64 `yaml:"repayment_share"`
	// DebtServiceShare of total assets repaid every period
	DebtServiceShare float64 `yaml:"debt_service_share"`
}

// Table is the ordered, immutable profile table
type Table struct {
	profiles []*CompanyProfile
	byID     map[string]*CompanyProfile
}

// NewTable builds a table preserving the given order
func NewTable(profiles []*CompanyProfile) *Table {
	t := &Table{
		profiles: profiles,
		byID:     make(map[string]*CompanyProfile, len(profiles)),
	}
	for _, p := range profiles {
		t.byID[p.ID] = p
	}
	return t
}

// Get returns the profile with the given id
func (t *Table) Get(id string) (*CompanyProfile, bool) {
	p, ok := t.byID[id]
	return p, ok
}

// All returns profiles in table order
func (t *Table) All() []*CompanyProfile {
	out := make([]*CompanyProfile, len(t.profiles))
	copy(out, t.profiles)
	return out
}

// IDs returns company identifiers in table order
func (t *Table) IDs() []string {
	ids := make([]string, len(t.profiles))
	for i, p := range t.profiles {
		ids[i] = p.ID
	}
	return ids
}

// Len returns the number of profiles
func (t *Table) Len() int {
	return len(t.profiles)
}
