package sourcing

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	firstNumberPattern = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
	firstIntPattern    = regexp.MustCompile(`\d+(?:,\d{3})*`)
)

// FlexibleRating accepts the rating field however a provider encodes it:
// a JSON number, a numeric string, or prose like "4.3 out of 5 stars".
type FlexibleRating struct {
	decimal.Decimal
}

// UnmarshalJSON implements json.Unmarshaler
func (r *FlexibleRating) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == `""` {
		r.Decimal = decimal.Zero
		return nil
	}

	if trimmed[0] != '"' {
		d, err := decimal.NewFromString(trimmed)
		if err != nil {
			r.Decimal = decimal.Zero
			return nil
		}
		r.Decimal = d
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	r.Decimal = parseRatingText(s)
	return nil
}

// parseRatingText extracts the first numeric token from a rating string
func parseRatingText(s string) decimal.Decimal {
	match := firstNumberPattern.FindString(s)
	if match == "" {
		return decimal.Zero
	}
	match = strings.ReplaceAll(match, ",", ".")
	d, err := decimal.NewFromString(match)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FlexibleCount accepts a count field encoded as a JSON number, a numeric
// string, or prose like "13 people found this helpful".
type FlexibleCount int

// UnmarshalJSON implements json.Unmarshaler
func (c *FlexibleCount) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == `""` {
		*c = 0
		return nil
	}

	if trimmed[0] != '"' {
		var n int
		if err := json.Unmarshal(data, &n); err != nil {
			*c = 0
			return nil
		}
		*c = FlexibleCount(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = FlexibleCount(parseCountText(s))
	return nil
}

// parseCountText extracts the first integer from prose, tolerating thousands
// separators. "One person found this helpful" style phrasing maps to 1.
func parseCountText(s string) int {
	if match := firstIntPattern.FindString(s); match != "" {
		n, err := strconv.Atoi(strings.ReplaceAll(match, ",", ""))
		if err == nil {
			return n
		}
	}
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(s)), "one ") {
		return 1
	}
	return 0
}
