package tags

import "github.com/shopspring/decimal"

// RoundMoney clamps v at zero and rounds half away from zero to 2 decimals.
func RoundMoney(v float64) float64 {
	if v < 0 {
		return 0
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// FormatMoney renders a rounded amount without trailing zeros ("200", "12.5").
func FormatMoney(v float64) string {
	return decimal.NewFromFloat(RoundMoney(v)).String()
}
