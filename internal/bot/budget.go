// internal/bot/budget.go
package bot

import (
	"regexp"
	"strconv"
	"strings"
)

var budgetRe = regexp.MustCompile(`(\d+)\s*(k|nghin|ngan|trieu|tr|m)?`)

var priceKeywords = []string{
	"gia", "tien", "tai chinh", "ngan sach",
	"tiet kiem", "re", "dat", "khoang", "tam",
	"duoi", "tren", "bao nhieu tien",
}

// ParseBudget extracts a VND budget from normalized text. Shorthand units
// are supported ("100k", "1tr", "2 trieu"); when several amounts appear,
// as in "50k-100k", the largest wins. Returns false when the text carries
// no digits at all.
func ParseBudget(norm string) (int, bool) {
	if !hasDigit(norm) {
		return 0, false
	}

	best := 0
	found := false
	for _, m := range budgetRe.FindAllStringSubmatch(norm, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		switch m[2] {
		case "k", "nghin", "ngan":
			n *= 1_000
		case "trieu", "tr", "m":
			n *= 1_000_000
		}
		if !found || n > best {
			best = n
		}
		found = true
	}
	return best, found
}

// isPriceQuestion reports whether normalized text asks about price or
// budget. It requires both a price keyword and a digit, so that "sách nào
// rẻ" alone does not trip the budget path.
func isPriceQuestion(norm string) bool {
	return containsAny(norm, priceKeywords) && hasDigit(norm)
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return r >= '0' && r <= '9' }) != -1
}

// FormatVND renders an amount with dot thousand separators and the đ
// suffix, e.g. 125000 becomes "125.000đ". Nil means the catalog has no
// usable price for the row.
func FormatVND(v *int) string {
	if v == nil {
		return "N/A"
	}
	return formatVNDInt(*v)
}

func formatVNDInt(v int) string {
	s := strconv.Itoa(v)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)

	out := strings.Join(parts, ".")
	if neg {
		out = "-" + out
	}
	return out + "đ"
}
