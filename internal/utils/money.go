package utils

import (
	"fmt"
	"math"
	"strings"
)

// ToPaisa converts a major-unit price (rupees, possibly with fractional
// paisa) into integer paisa. Rounding is half away from zero so whole
// rupee amounts convert exactly and fractional paisa never truncate.
func ToPaisa(major float64) int64 {
	return int64(math.Round(major * 100))
}

// FromPaisa converts paisa back to a major-unit amount.
func FromPaisa(paisa int64) float64 {
	return float64(paisa) / 100
}

// DiscountPercent returns the rounded discount a bundle price gives
// against the original price. It never returns a negative value: a
// bundle priced at or above the original shows no discount.
func DiscountPercent(originalPrice, bundlePrice float64) int {
	if originalPrice <= 0 || bundlePrice >= originalPrice {
		return 0
	}
	return int(math.Round((originalPrice - bundlePrice) / originalPrice * 100))
}

// FormatRupees renders a paisa amount as "Rs 1,499.50" with thousand
// separators, dropping the fraction for whole-rupee amounts.
func FormatRupees(paisa int64) string {
	negative := paisa < 0
	if negative {
		paisa = -paisa
	}

	rupees := paisa / 100
	fraction := paisa % 100

	digits := fmt.Sprintf("%d", rupees)
	var grouped strings.Builder
	length := len(digits)
	for i, digit := range digits {
		if i > 0 && (length-i)%3 == 0 {
			grouped.WriteString(",")
		}
		grouped.WriteRune(digit)
	}

	out := "Rs " + grouped.String()
	if fraction > 0 {
		out += fmt.Sprintf(".%02d", fraction)
	}
	if negative {
		out = "-" + out
	}
	return out
}
