package parser

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// digitPrinter formats the elision marker with digit grouping, so very long
// numbers report "[1,234,567 digits]" rather than an unreadable run.
var digitPrinter = message.NewPrinter(language.English)

// truncateNumber shortens a digit run longer than cutoff to its leading and
// trailing digits around an elision marker. The short form is display text
// only. Returns the input unchanged when it fits.
func truncateNumber(value string, cutoff int) (string, bool) {
	runes := []rune(value)
	if len(runes) <= cutoff {
		return value, false
	}
	left := cutoff / 3
	if left > 30 {
		left = 30
	}
	elided := len(runes) - 2*left
	marker := digitPrinter.Sprintf("[%d digits]", elided)
	return string(runes[:left]) + marker + string(runes[len(runes)-left:]), true
}
