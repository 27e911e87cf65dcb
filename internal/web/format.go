package web

import (
	"math"
	"strconv"

	"github.com/govalues/decimal"

	"go-chi-calculator/internal/evaluator"
)

// formatNumber renders v rounded to precision fractional digits without
// trailing zeros. Values a decimal cannot hold, and non-zero values that would
// round away entirely, keep the shortest float64 representation.
func formatNumber(v float64, precision int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	if v != 0 && math.Abs(v) < math.Pow10(-precision) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}

	d, err := decimal.Parse(strconv.FormatFloat(v, 'f', -1, 64))
	if err != nil {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return d.Round(precision).Trim(0).String()
}

func formatResult(res evaluator.Result, precision int) string {
	if res.Integer {
		return strconv.FormatInt(res.Int, 10)
	}
	return formatNumber(res.Value, precision)
}
