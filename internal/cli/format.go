package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
)

// FormatIndianCurrency formats a number in Indian currency format (lakhs, crores).
func FormatIndianCurrency(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	str := fmt.Sprintf("%.2f", amount)
	parts := strings.Split(str, ".")
	intPart := parts[0]
	decPart := parts[1]

	result := "₹" + formatIndianNumber(intPart) + "." + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// formatIndianNumber formats an integer string in Indian numbering system.
// Indian system: 1,00,00,000 (1 crore) vs Western: 10,000,000
func formatIndianNumber(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	// First group of 3 from right, then groups of 2
	result := s[n-3:]
	s = s[:n-3]

	for len(s) > 0 {
		if len(s) >= 2 {
			result = s[len(s)-2:] + "," + result
			s = s[:len(s)-2]
		} else {
			result = s + "," + result
			s = ""
		}
	}

	return result
}

// FormatExpiry formats a scrip master expiry epoch as a date. Zero means no
// expiry (cash instruments).
func FormatExpiry(epoch int64) string {
	if epoch == 0 {
		return "-"
	}
	return time.Unix(epoch, 0).Format("2006-01-02")
}

// FormatOrderStatus colors an upstream order status string.
func FormatOrderStatus(status string) string {
	switch strings.ToLower(status) {
	case "complete", "traded":
		return color.GreenString(status)
	case "rejected", "cancelled":
		return color.RedString(status)
	case "open", "trigger pending", "put order req received":
		return color.YellowString(status)
	default:
		return status
	}
}

// strField returns the string form of a decoded JSON value.
func strField(m map[string]interface{}, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%.2f", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// dataRows extracts the list of row objects under a decoded body's data key.
func dataRows(body map[string]interface{}) []map[string]interface{} {
	raw, ok := body["data"].([]interface{})
	if !ok {
		if d, ok := body["data"].(map[string]interface{}); ok {
			// Some reports nest the list one level deeper
			for _, key := range []string{"positions", "holdings"} {
				if inner, ok := d[key].([]interface{}); ok {
					raw = inner
					break
				}
			}
		}
	}
	rows := make([]map[string]interface{}, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]interface{}); ok {
			rows = append(rows, m)
		}
	}
	return rows
}

// sortedKeys returns map keys in stable order for raw dumps.
func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
