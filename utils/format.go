// utils/format.go
package utils

import (
	"fmt"
	"strings"
	"time"
)

// FormatPrice renders an amount the way the storefront displays it: two
// decimals, comma as decimal separator, space-grouped thousands, trailing
// euro sign (e.g. "1 234,50 €").
func FormatPrice(amount float64) string {
	s := fmt.Sprintf("%.2f", Round2(amount))

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	parts := strings.SplitN(s, ".", 2)
	intPart, decPart := parts[0], parts[1]

	var grouped []string
	for len(intPart) > 3 {
		grouped = append([]string{intPart[len(intPart)-3:]}, grouped...)
		intPart = intPart[:len(intPart)-3]
	}
	grouped = append([]string{intPart}, grouped...)

	out := strings.Join(grouped, " ") + "," + decPart + " €"
	if neg {
		out = "-" + out
	}
	return out
}

// FormatDate renders a date in day/month/year order for display.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}
