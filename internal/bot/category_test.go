// internal/bot/category_test.go
package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookbot/internal/models"
)

func testResolver(cats ...models.Category) *CategoryResolver {
	return NewCategoryResolver(&fakeStore{categories: cats}, 0.66)
}

func TestCategoryResolver_Substring(t *testing.T) {
	resolver := testResolver(
		models.Category{ID: 1, Name: "Văn học"},
		models.Category{ID: 2, Name: "Kinh tế"},
	)

	cat, err := resolver.Resolve(context.Background(), "cho mình vài cuốn kinh tế hay")
	require.NoError(t, err)
	require.NotNil(t, cat)
	assert.Equal(t, int64(2), cat.ID)
}

func TestCategoryResolver_SubstringIgnoresDiacritics(t *testing.T) {
	resolver := testResolver(models.Category{ID: 1, Name: "Thiếu nhi"})

	cat, err := resolver.Resolve(context.Background(), "sach thieu nhi con gi khong")
	require.NoError(t, err)
	require.NotNil(t, cat)
	assert.Equal(t, "Thiếu nhi", cat.Name)
}

func TestCategoryResolver_Fuzzy(t *testing.T) {
	resolver := testResolver(models.Category{ID: 4, Name: "Trinh thám"})

	// One rune off the category name still clears the 0.66 bar.
	cat, err := resolver.Resolve(context.Background(), "trinh thsm")
	require.NoError(t, err)
	require.NotNil(t, cat)
	assert.Equal(t, int64(4), cat.ID)
}

func TestCategoryResolver_Synonym(t *testing.T) {
	resolver := testResolver(
		models.Category{ID: 1, Name: "Văn học"},
		models.Category{ID: 5, Name: "Thiếu nhi"},
	)

	cat, err := resolver.Resolve(context.Background(), "truyện cho trẻ em có gì hay")
	require.NoError(t, err)
	require.NotNil(t, cat)
	assert.Equal(t, "Thiếu nhi", cat.Name)
}

func TestCategoryResolver_NoMatch(t *testing.T) {
	resolver := testResolver(models.Category{ID: 1, Name: "Văn học"})

	cat, err := resolver.Resolve(context.Background(), "máy pha cà phê loại nào ngon")
	require.NoError(t, err)
	assert.Nil(t, cat)
}

func TestCategoryResolver_EmptyInput(t *testing.T) {
	resolver := testResolver(models.Category{ID: 1, Name: "Văn học"})

	cat, err := resolver.Resolve(context.Background(), "  !!! ")
	require.NoError(t, err)
	assert.Nil(t, cat)
}

func TestSearchPatterns(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "filler words dropped",
			input:    "tóm tắt cuốn Đắc Nhân Tâm giúp mình nhé",
			expected: []string{"Đắc", "Nhân", "Tâm"},
		},
		{
			name:     "all filtered falls back to the whole message",
			input:    "tóm tắt sách",
			expected: []string{"tóm tắt sách"},
		},
		{
			name:     "single letters dropped",
			input:    "sách y học",
			expected: []string{"học"},
		},
		{
			name:     "empty input",
			input:    "   ",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, searchPatterns(tt.input))
		})
	}
}
