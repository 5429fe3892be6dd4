// internal/bot/normalize_test.go
package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "diacritics stripped", input: "Tóm tắt Nhà Giả Kim", expected: "tom tat nha gia kim"},
		{name: "dj folded to d", input: "Đắc Nhân Tâm giá bao nhiêu đồng", expected: "dac nhan tam gia bao nhieu dong"},
		{name: "punctuation becomes space", input: "sách 50k-100k, được không?", expected: "sach 50k 100k duoc khong"},
		{name: "whitespace collapsed", input: "  thể   loại \n kinh tế ", expected: "the loai kinh te"},
		{name: "empty", input: "", expected: ""},
		{name: "digits kept", input: "dưới 200000", expected: "duoi 200000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, got, Normalize(got), "normalization must be idempotent")
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, similarity("", ""))
	assert.Equal(t, 1.0, similarity("nha gia kim", "nha gia kim"))
	assert.Equal(t, 0.0, similarity("abc", "xyz"))
	// "bcd" matches on both sides: 2*3/(4+4).
	assert.InDelta(t, 0.75, similarity("abcd", "bcde"), 1e-9)
	assert.Greater(t, similarity("nha gia kim", "nha gia kim cua paulo"), 0.6)
}
