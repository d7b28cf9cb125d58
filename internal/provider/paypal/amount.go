package paypal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ParseCents converts an mc_gross value such as "12.34" to cents.
// The fractional part must have exactly two digits.
func ParseCents(gross string) (int64, error) {
	whole, frac, ok := strings.Cut(gross, ".")
	if !ok || len(frac) != 2 {
		return 0, fmt.Errorf("mc_gross %q must have exactly two decimal places", gross)
	}
	if !digits(whole) || !digits(frac) {
		return 0, fmt.Errorf("mc_gross %q is not a plain decimal", gross)
	}

	d, err := decimal.NewFromString(gross)
	if err != nil {
		return 0, fmt.Errorf("parsing mc_gross: %w", err)
	}
	if !d.IsPositive() {
		return 0, errors.New("mc_gross must be positive")
	}
	return d.Shift(2).IntPart(), nil
}

func digits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseCustom splits the custom field into tags: "+" separates pairs and
// the first "_" separates key from value.
func ParseCustom(custom string) map[string]string {
	tags := make(map[string]string)
	for _, pair := range strings.Split(custom, "+") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "_")
		tags[key] = value
	}
	return tags
}

var paymentDateLayouts = []string{
	"15:04:05 Jan 02, 2006 MST",
	"15:04:05 Jan 2, 2006 MST",
}

// ParsePaymentDate parses PayPal's payment_date, e.g. "08:15:02 Mar 05, 2026 PST".
func ParsePaymentDate(value string, loc *time.Location) (time.Time, error) {
	var lastErr error
	for _, layout := range paymentDateLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
