package domain

import "strings"

// Account-number widths inherited from the legacy chart. Existing postings
// were generated with these exact paddings, so they cannot change.
const (
	chartNumberWidth     = 6
	compositeNumberWidth = 9
	networkNumberWidth   = 12
	positionSuffixWidth  = 3
)

// padRight right-pads s with pad up to width. Strings already at or beyond
// width are returned unchanged.
func padRight(s string, width int, pad byte) string {
	if len(s) >= width {
		return s
	}

	return s + strings.Repeat(string(pad), width-len(s))
}

// NetworkAccountNumber builds the network-wide account number:
// pad(chart,6) + bankCode + branchCode padded to 12, then the position
// suffix padded to 3.
func NetworkAccountNumber(chartAccountNumber, bankCode, branchCode, positionNumber string) string {
	base := padRight(chartAccountNumber, chartNumberWidth, '0')

	return padRight(base+bankCode+branchCode, networkNumberWidth, '0') +
		padRight(positionNumber, positionSuffixWidth, '0')
}

// CompositeAccountNumber builds the composite unique account number:
// pad(chart,6) + branchCode padded to 9, then the position suffix padded to 3.
func CompositeAccountNumber(chartAccountNumber, branchCode, positionNumber string) string {
	base := padRight(chartAccountNumber, chartNumberWidth, '0')

	return padRight(base+branchCode, compositeNumberWidth, '0') +
		padRight(positionNumber, positionSuffixWidth, '0')
}
