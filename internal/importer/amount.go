package importer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount reads a money amount written either way round: "1.234,56" and
// "1,234.56" are both 1234.56. When only one kind of separator appears, a
// single one followed by exactly three digits groups thousands ("12.500" is
// 12500); otherwise it marks the decimals ("12,5" is 12.5). Currency symbols
// and spaces are ignored.
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '€', '$', '£', '¥':
			return -1
		}

		return r
	}, s)

	dot := strings.LastIndexByte(clean, '.')
	comma := strings.LastIndexByte(clean, ',')

	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot {
			clean = strings.ReplaceAll(clean, ".", "")
			clean = strings.Replace(clean, ",", ".", 1)
		} else {
			clean = strings.ReplaceAll(clean, ",", "")
		}
	case comma >= 0:
		clean = normalizeSeparator(clean, ",")
	case dot >= 0:
		clean = normalizeSeparator(clean, ".")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}

	return d, nil
}

func normalizeSeparator(s, sep string) string {
	last := strings.LastIndex(s, sep)
	if strings.Count(s, sep) > 1 || len(s)-last-1 == 3 {
		return strings.ReplaceAll(s, sep, "")
	}

	return strings.Replace(s, sep, ".", 1)
}
