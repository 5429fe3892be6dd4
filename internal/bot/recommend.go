// internal/bot/recommend.go
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookbot/internal/common/logger"
	"bookbot/internal/genai"
	"bookbot/internal/models"
)

const systemInstruction = "Bạn là BookBot tư vấn sách bằng tiếng Việt. " +
	"Trả lời ngắn gọn, lịch sự. Nếu không có dữ liệu trong kho thì nói thẳng là chưa có."

// Advisor handles every message no intent claimed: it asks the model for
// recommendations, grounded on a slice of the catalog so it cannot invent
// titles the shop does not carry.
type Advisor struct {
	store      CatalogStore
	gen        Generator
	sliceLimit int
	logger     logger.Logger
}

func NewAdvisor(store CatalogStore, gen Generator, sliceLimit int, log logger.Logger) *Advisor {
	return &Advisor{
		store:      store,
		gen:        gen,
		sliceLimit: sliceLimit,
		logger:     log.With(map[string]interface{}{"component": "advisor"}),
	}
}

// Advise produces the open-ended recommendation reply.
func (a *Advisor) Advise(ctx context.Context, userMsg string) (*models.ChatResponse, error) {
	slice, err := a.catalogSlice(ctx, userMsg)
	if err != nil {
		return nil, err
	}

	raw, err := a.gen.Generate(ctx, a.buildPrompt(userMsg, slice), genai.GenerationConfig{
		Temperature:     0.2,
		TopP:            0.8,
		MaxOutputTokens: 512,
		Mode:            "recommend",
	})
	if err != nil {
		if errors.Is(err, genai.ErrNotConfigured) {
			return &models.ChatResponse{
				Answer: "Tính năng tư vấn chưa được bật trên hệ thống. Bạn có thể hỏi về thể loại, số lượng hoặc tóm tắt sách nhé.",
			}, nil
		}
		a.logger.Warn("recommendation failed", map[string]interface{}{"error": err.Error()})
		return &models.ChatResponse{
			Answer: "Mình chưa thể tư vấn ngay lúc này. Bạn thử lại sau nhé.",
		}, nil
	}

	var payload struct {
		Recommendations []models.Recommendation `json:"recommendations"`
		FollowUp        string                  `json:"follow_up"`
	}
	if err := genai.ParseAndValidate(raw, genai.RecommendationsSchema, &payload); err != nil {
		// Best effort: pass the verbatim text through rather than fail.
		a.logger.Warn("recommendation output malformed", map[string]interface{}{"error": err.Error()})
		return &models.ChatResponse{Raw: raw}, nil
	}

	return &models.ChatResponse{
		Recommendations: payload.Recommendations,
		FollowUp:        payload.FollowUp,
	}, nil
}

// catalogSlice renders the grounding list: the books most relevant to the
// message, title with author and category only.
func (a *Advisor) catalogSlice(ctx context.Context, userMsg string) (string, error) {
	books, err := a.store.SearchBooks(ctx, []string{strings.TrimSpace(userMsg)}, a.sliceLimit)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(books))
	for _, b := range books {
		lines = append(lines, fmt.Sprintf("- %s — %s — %s", b.Name, b.DisplayAuthor(), b.CategoryName))
	}
	return strings.Join(lines, "\n"), nil
}

func (a *Advisor) buildPrompt(userMsg, slice string) string {
	if slice == "" {
		slice = "(trống)"
	}

	strictRules := "Quy tắc nghiêm ngặt:\n" +
		"• Chỉ được đề xuất từ 'Danh mục kho' cung cấp bên dưới.\n" +
		"• Nếu danh mục trống: recommendations = [] và trả về follow_up để hỏi thêm.\n" +
		"• Cấm bịa tên sách không có trong danh mục.\n" +
		"• Trả lời ngắn gọn: 1 câu tóm tắt + nhiều nhất 3 gợi ý.\n"

	style := "Phong cách: Nói thẳng trọng tâm, dùng gạch đầu dòng, ưu tiên sách trong kho."

	return fmt.Sprintf(`%s

%s
%s

Danh mục kho (top liên quan):
%s

Người dùng: %s

Trả JSON:
{
  "recommendations": [
    {"title": "...", "author": "...", "reason": "...", "in_stock": true}
  ],
  "follow_up": "Câu hỏi ngắn để hiểu rõ hơn (nếu cần)"
}`, systemInstruction, strictRules, style, slice, userMsg)
}
