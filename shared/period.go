package shared

// Period represents a relative lookback range for historical data. Periods
// are passed through to the data provider as-is.
type Period string

const (
	OneDay       Period = "1d"
	FiveDay      Period = "5d"
	OneMonth     Period = "1mo"
	ThreeMonth   Period = "3mo"
	SixMonth     Period = "6mo"
	OneYear      Period = "1y"
	TwoYear      Period = "2y"
	FiveYear     Period = "5y"
	TenYear      Period = "10y"
	YearToDate   Period = "ytd"
	MaxAvailable Period = "max"
)

// DefaultPeriod is the lookback range used when none is provided.
const DefaultPeriod = OneYear

// String stringifies the provided period.
func (p Period) String() string {
	return string(p)
}

// Known reports whether the period is part of the provider's documented
// range vocabulary. Unknown periods are still passed through.
func (p Period) Known() bool {
	switch p {
	case OneDay, FiveDay, OneMonth, ThreeMonth, SixMonth, OneYear,
		TwoYear, FiveYear, TenYear, YearToDate, MaxAvailable:
		return true
	default:
		return false
	}
}
