// internal/genai/json_test.go
package genai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		wantErr  bool
	}{
		{
			name:     "plain object",
			raw:      `{"bullets": ["a"]}`,
			expected: `{"bullets": ["a"]}`,
		},
		{
			name:     "fenced json block",
			raw:      "```json\n{\"bullets\": [\"a\"]}\n```",
			expected: `{"bullets": ["a"]}`,
		},
		{
			name:     "bare fence",
			raw:      "```\n{\"ok\": true}\n```",
			expected: `{"ok": true}`,
		},
		{
			name:     "prose around the object",
			raw:      `Here you go: {"bullets": ["a"]} hope that helps`,
			expected: `{"bullets": ["a"]}`,
		},
		{
			name:    "no object at all",
			raw:     "xin lỗi, mình không rõ",
			wantErr: true,
		},
		{
			name:    "empty input",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedOutput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseAndValidate_Bullets(t *testing.T) {
	var payload struct {
		Bullets []string `json:"bullets"`
	}

	err := ParseAndValidate("```json\n{\"bullets\": [\"một\", \"hai\"]}\n```", BulletsSchema, &payload)
	require.NoError(t, err)
	assert.Equal(t, []string{"một", "hai"}, payload.Bullets)
}

func TestParseAndValidate_RejectsWrongShape(t *testing.T) {
	var payload struct {
		Bullets []string `json:"bullets"`
	}

	tests := []struct {
		name string
		raw  string
	}{
		{name: "bullets not an array", raw: `{"bullets": "một"}`},
		{name: "empty bullets", raw: `{"bullets": []}`},
		{name: "missing bullets", raw: `{"summary": "một"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ParseAndValidate(tt.raw, BulletsSchema, &payload)
			assert.ErrorIs(t, err, ErrMalformedOutput)
		})
	}
}

func TestParseAndValidate_Recommendations(t *testing.T) {
	var payload struct {
		Recommendations []struct {
			Title   string `json:"title"`
			Author  string `json:"author"`
			Reason  string `json:"reason"`
			InStock bool   `json:"in_stock"`
		} `json:"recommendations"`
		FollowUp string `json:"follow_up"`
	}

	raw := `{"recommendations": [{"title": "Dế Mèn Phiêu Lưu Ký", "author": "Tô Hoài", "reason": "kinh điển thiếu nhi", "in_stock": true}], "follow_up": "Bạn thích thể loại nào?"}`
	err := ParseAndValidate(raw, RecommendationsSchema, &payload)
	require.NoError(t, err)
	require.Len(t, payload.Recommendations, 1)
	assert.Equal(t, "Dế Mèn Phiêu Lưu Ký", payload.Recommendations[0].Title)
	assert.True(t, payload.Recommendations[0].InStock)
	assert.Equal(t, "Bạn thích thể loại nào?", payload.FollowUp)
}

func TestDisabledGenerator(t *testing.T) {
	gen := NewDisabled()
	_, err := gen.Generate(context.Background(), "any prompt", GenerationConfig{Mode: "summary"})
	assert.True(t, errors.Is(err, ErrNotConfigured))
}
