package valueobject

import (
	"strings"

	"github.com/shopspring/decimal"
)

var vnDigits = [10]string{"không", "một", "hai", "ba", "bốn", "năm", "sáu", "bảy", "tám", "chín"}

// vnScales names each group of three digits, least significant first.
// Beyond tỷ the names compound, so the reading stays unambiguous up to 10^21.
var vnScales = []string{"", "nghìn", "triệu", "tỷ", "nghìn tỷ", "triệu tỷ", "tỷ tỷ"}

// AmountInWords spells an amount of dong out in Vietnamese, e.g.
// 1500000 -> "một triệu năm trăm nghìn đồng". Zero reads "không đồng".
// Fractions are rounded half-up to whole dong first.
func AmountInWords(amount decimal.Decimal) string {
	n := amount.Round(0)
	if n.IsZero() {
		return "không đồng"
	}

	prefix := ""
	if n.IsNegative() {
		prefix = "âm "
		n = n.Neg()
	}

	groups := splitGroups(n.IntPart())
	if len(groups) > len(vnScales) {
		// Out of range for named scales; fall back to digits
		return prefix + n.String() + " đồng"
	}

	parts := make([]string, 0, len(groups)*2)
	leading := true
	for i := len(groups) - 1; i >= 0; i-- {
		g := groups[i]
		if g == 0 {
			continue
		}
		// Inner groups are read in full ("không trăm linh năm") so that
		// 1.005.000 does not collapse into 1.500.000 when spoken
		parts = append(parts, readTriple(g, !leading))
		if vnScales[i] != "" {
			parts = append(parts, vnScales[i])
		}
		leading = false
	}

	return prefix + strings.Join(parts, " ") + " đồng"
}

func splitGroups(n int64) []int {
	var groups []int
	for n > 0 {
		groups = append(groups, int(n%1000))
		n /= 1000
	}
	return groups
}

// readTriple reads a number in [1, 999]. When full is set the hundreds
// position is always spoken, even if it is zero.
func readTriple(n int, full bool) string {
	hundreds, tens, units := n/100, (n/10)%10, n%10
	words := make([]string, 0, 4)

	if full || hundreds > 0 {
		words = append(words, vnDigits[hundreds], "trăm")
	}

	switch {
	case tens == 0:
		if units > 0 {
			if len(words) > 0 {
				words = append(words, "linh")
			}
			words = append(words, vnDigits[units])
		}
	case tens == 1:
		words = append(words, "mười")
		switch units {
		case 0:
		case 5:
			words = append(words, "lăm")
		default:
			words = append(words, vnDigits[units])
		}
	default:
		words = append(words, vnDigits[tens], "mươi")
		switch units {
		case 0:
		case 1:
			words = append(words, "mốt")
		case 5:
			words = append(words, "lăm")
		default:
			words = append(words, vnDigits[units])
		}
	}

	return strings.Join(words, " ")
}
