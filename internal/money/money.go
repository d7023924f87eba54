// Package money converts between integer cents and two-decimal display strings.
//
// All arithmetic in the ledger happens on int64 cents; strings like "2548.76"
// exist only at the API boundary.
package money

import (
	"fmt"
	"strings"
)

// FormatCents renders cents as a decimal string with exactly two fractional
// digits, e.g. 254876 -> "2548.76".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// ParseAmount parses a decimal amount string into cents without going through
// floating point. At most two fractional digits are accepted; "50", "50.5" and
// "50.00" are all valid and mean 5000, 5050 and 5000 cents respectively.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	negative := false
	if s[0] == '+' || s[0] == '-' {
		negative = s[0] == '-'
		s = s[1:]
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}

	if whole == "" && frac == "" {
		return 0, fmt.Errorf("malformed amount %q", s)
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}

	var cents int64
	for _, r := range whole {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("malformed amount %q", s)
		}
		digit := int64(r - '0')
		if cents > (maxCents-digit)/10 {
			return 0, fmt.Errorf("amount %q out of range", s)
		}
		cents = cents*10 + digit
	}
	cents *= 100

	// Pad "50.5" to 50 cents worth of fraction
	for len(frac) < 2 {
		frac += "0"
	}
	for i, r := range frac {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("malformed amount %q", s)
		}
		if i == 0 {
			cents += int64(r-'0') * 10
		} else {
			cents += int64(r - '0')
		}
	}

	if negative {
		cents = -cents
	}
	return cents, nil
}

// maxCents bounds parsed amounts well below int64 overflow
const maxCents = int64(1) << 53
