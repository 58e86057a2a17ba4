package output

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrency formats a rupee amount with Indian digit grouping:
// the last three digits form one group, every two digits after that
// (₹12,34,567.00).
func FormatCurrency(amount decimal.Decimal) string {
	s := amount.Abs().StringFixed(2)
	intPart, fracPart, _ := strings.Cut(s, ".")

	grouped := groupIndian(intPart)
	out := "₹" + grouped + "." + fracPart
	if amount.IsNegative() {
		out = "-" + out
	}
	return out
}

// FormatPercentage formats a decimal as a percentage string.
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(2) + "%"
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(groups, ",") + "," + tail
}
