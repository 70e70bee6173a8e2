// Package decision is the policy core: it turns extracted financial facts
// into a CONTRIBUTE, DISTRIBUTE, or DO_NOTHING call with an auditable
// amount breakdown and a confidence grade.
package decision

// PolicyConfig collects every tunable threshold of the decision tree.
// These are product policy, the primary tuning surface, and are loaded
// from configuration rather than inlined at the branch points.
type PolicyConfig struct {
	// Deficit severity tiers, in dollars.
	MinorDeficit    float64 `yaml:"minor_deficit"`
	ModerateDeficit float64 `yaml:"moderate_deficit"`

	// Reserve runway tiers, in months.
	ReserveFloorMonths        float64 `yaml:"reserve_floor_months"`
	AdequateReserveMonths     float64 `yaml:"adequate_reserve_months"`
	LowReserveMonths          float64 `yaml:"low_reserve_months"`
	DistributionReserveMonths float64 `yaml:"distribution_reserve_months"`
	// Single-month distributions demand this multiple of the floor.
	SingleMonthReserveMultiplier float64 `yaml:"single_month_reserve_multiplier"`

	// Distribution sizing.
	DistributionMin      float64 `yaml:"distribution_min"`
	DistributionFloor    float64 `yaml:"distribution_floor"`
	DistributionFraction float64 `yaml:"distribution_fraction"`

	// Contribution sizing.
	SafetyBufferPct    float64 `yaml:"safety_buffer_pct"`
	CrisisBufferMonths float64 `yaml:"crisis_buffer_months"`

	// Working capital crisis trigger, in dollars (negative).
	WorkingCapitalCrisis float64 `yaml:"working_capital_crisis"`

	// Forward-projection horizons for crisis contributions, keyed on
	// YTD NOI variance against the on-budget band.
	OnBudgetBandPct            float64 `yaml:"on_budget_band_pct"`
	MonthsForwardUnderperform  int     `yaml:"months_forward_underperform"`
	MonthsForwardOnBudget      int     `yaml:"months_forward_on_budget"`
	MonthsForwardOutperforming int     `yaml:"months_forward_outperforming"`

	// Monthly-obligation estimation.
	LiabilitiesMonthlyFactor float64 `yaml:"liabilities_monthly_factor"`
	DefaultOperatingCost     float64 `yaml:"default_operating_cost"`
	InterestFactor           float64 `yaml:"interest_factor"`
	ReserveSentinelMonths    float64 `yaml:"reserve_sentinel_months"`

	// Occupancy adjustment trigger, in percentage points.
	OccupancyGapPts float64 `yaml:"occupancy_gap_pts"`

	// Trend classification band, in percent change between half-averages.
	TrendChangePct float64 `yaml:"trend_change_pct"`
}

// DefaultPolicy returns the shipped thresholds.
func DefaultPolicy() PolicyConfig {
	return PolicyConfig{
		MinorDeficit:    50000,
		ModerateDeficit: 150000,

		ReserveFloorMonths:           6,
		AdequateReserveMonths:        4,
		LowReserveMonths:             3,
		DistributionReserveMonths:    10,
		SingleMonthReserveMultiplier: 1.5,

		DistributionMin:      100000,
		DistributionFloor:    50000,
		DistributionFraction: 0.5,

		SafetyBufferPct:    0.10,
		CrisisBufferMonths: 3,

		WorkingCapitalCrisis: -50000,

		OnBudgetBandPct:            5,
		MonthsForwardUnderperform:  6,
		MonthsForwardOnBudget:      4,
		MonthsForwardOutperforming: 3,

		LiabilitiesMonthlyFactor: 0.1,
		DefaultOperatingCost:     50000,
		InterestFactor:           0.5,
		ReserveSentinelMonths:    999,

		OccupancyGapPts: 3,

		TrendChangePct: 10,
	}
}

// SummerSeason is the seasonal classification that excuses an expected
// deficit from triggering a contribution.
const SummerSeason = "Summer Session"
