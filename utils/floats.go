package utils

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseFloatList splits up a space-delimited field and converts every entry to a float64.
// If want is positive the field must contain exactly that many entries.
func ParseFloatList(s string, want int) ([]float64, error) {
	fields := strings.Fields(s)
	if want > 0 && len(fields) != want {
		return nil, errors.Errorf("expected %d space-delimited values but got %d in %q", want, len(fields), s)
	}
	converted := make([]float64, 0, len(fields))
	for _, field := range fields {
		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid number %q", field)
		}
		converted = append(converted, value)
	}
	return converted, nil
}

// FormatFloat writes f in the shortest form that parses back to the identical float64.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// FormatFloatList is the inverse of ParseFloatList.
func FormatFloatList(values ...float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = FormatFloat(v)
	}
	return strings.Join(parts, " ")
}
