package sales

import (
	"strconv"
	"strings"
)

// SaleIDPrefix prefixes every generated sale identifier.
const SaleIDPrefix = "AS"

// ParseSaleNumber extracts n from "AS<n>".
func ParseSaleNumber(id string) (int64, bool) {
	rest, ok := strings.CutPrefix(id, SaleIDPrefix)
	if !ok || rest == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// NextSaleID returns the identifier following last. Without a previous sale,
// or when last does not look like "AS<n>", numbering restarts at AS1.
func NextSaleID(last string, found bool) string {
	next := int64(1)
	if found {
		if n, ok := ParseSaleNumber(last); ok {
			next = n + 1
		}
	}
	return FormatSaleID(next)
}

// FormatSaleID renders n as a sale identifier.
func FormatSaleID(n int64) string {
	return SaleIDPrefix + strconv.FormatInt(n, 10)
}
