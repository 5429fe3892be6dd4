// internal/bot/budget_test.go
package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBudget(t *testing.T) {
	tests := []struct {
		name     string
		norm     string
		expected int
		found    bool
	}{
		{name: "k shorthand", norm: "tam 100k", expected: 100_000, found: true},
		{name: "nghin unit", norm: "khoang 150 nghin", expected: 150_000, found: true},
		{name: "ngan unit", norm: "duoi 80 ngan", expected: 80_000, found: true},
		{name: "trieu unit", norm: "tam 2 trieu", expected: 2_000_000, found: true},
		{name: "tr shorthand", norm: "1tr do lai", expected: 1_000_000, found: true},
		{name: "bare amount", norm: "duoi 200000", expected: 200_000, found: true},
		{name: "range takes the max", norm: "sach 50k 100k", expected: 100_000, found: true},
		{name: "mixed units take the max", norm: "tu 500k den 1 trieu", expected: 1_000_000, found: true},
		{name: "no digits", norm: "sach nao re", found: false},
		{name: "empty", norm: "", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseBudget(tt.norm)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestIsPriceQuestion(t *testing.T) {
	assert.True(t, isPriceQuestion(Normalize("sách tài chính tầm 100k")))
	assert.True(t, isPriceQuestion(Normalize("có cuốn nào dưới 200000 không")))
	// Keyword without digits is not a budget question.
	assert.False(t, isPriceQuestion(Normalize("sách nào rẻ nhất")))
	// Digits without a price keyword is not one either.
	assert.False(t, isPriceQuestion(Normalize("cho mình 3 cuốn trinh thám")))
}

func TestFormatVND(t *testing.T) {
	v := func(n int) *int { return &n }

	assert.Equal(t, "125.000đ", FormatVND(v(125000)))
	assert.Equal(t, "1.000.000đ", FormatVND(v(1000000)))
	assert.Equal(t, "900đ", FormatVND(v(900)))
	assert.Equal(t, "0đ", FormatVND(v(0)))
	assert.Equal(t, "N/A", FormatVND(nil))
}
