// internal/bot/intents.go
package bot

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"bookbot/internal/models"
)

// An intentHandler inspects one message and either produces a full response
// or passes. raw is the user's original text, norm its normalized form.
// Returning (nil, nil) means "not my intent, try the next one".
type intentHandler interface {
	Name() string
	Handle(ctx context.Context, raw, norm string) (*models.ChatResponse, error)
}

var (
	summaryTriggers      = []string{"tom tat", "tong tat", "noi dung", "gioi thieu", "plot", "summary"}
	summaryTriggerRe     = regexp.MustCompile(`\b(tom tat|tong tat|noi dung|gioi thieu|plot|summary)\b`)
	countTriggers        = []string{"bao nhieu", "so luong", "tong", "co bao nhieu"}
	availabilityTriggers = []string{"dang co", "con hang", "trong thu vien", "co san"}
)

// ---------- summary ----------

type summaryIntent struct {
	store       CatalogStore
	summarizer  *Summarizer
	searchLimit int
	// cutoff is the similarity below which multiple candidates are shown
	// back to the user instead of summarizing a guess.
	cutoff float64
}

func (h *summaryIntent) Name() string { return "summary" }

func (h *summaryIntent) Handle(ctx context.Context, raw, norm string) (*models.ChatResponse, error) {
	if !containsAny(norm, summaryTriggers) {
		return nil, nil
	}

	books, err := h.store.SearchBooks(ctx, searchPatterns(raw), h.searchLimit)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return &models.ChatResponse{
			Answer: "Mình chưa tìm thấy tựa sách phù hợp để tóm tắt trong kho.",
		}, nil
	}

	// Score candidates against the message with the trigger words removed,
	// so "tóm tắt nhà giả kim" is compared as just "nha gia kim".
	cleaned := strings.TrimSpace(summaryTriggerRe.ReplaceAllString(norm, " "))

	var best *models.Book
	bestScore := -1.0
	for i := range books {
		name := Normalize(books[i].Name)
		score := 0.0
		if name != "" {
			score = similarity(cleaned, name)
		}
		if score > bestScore {
			best = &books[i]
			bestScore = score
		}
	}

	if len(books) > 1 && bestScore < h.cutoff {
		return &models.ChatResponse{
			Answer: "Mình tìm thấy vài tựa sách có thể trùng. Bạn muốn tóm tắt cuốn nào?",
			Books:  toBookInfos(books, false),
		}, nil
	}

	title := best.Name
	author := best.DisplayAuthor()
	desc := strings.TrimSpace(best.Description)

	bullets := h.summarizer.Summarize(ctx, *best)
	if len(bullets) == 0 {
		if desc == "" {
			return &models.ChatResponse{
				Answer: fmt.Sprintf("Chưa có dữ liệu để tóm tắt cho “%s”.", title),
			}, nil
		}
		return &models.ChatResponse{
			Answer: fmt.Sprintf("Mình chưa thể tóm tắt “%s” lúc này. Bạn thử lại sau nhé.", title),
		}, nil
	}

	answer := fmt.Sprintf("Tóm tắt nhanh cho “%s” của %s:\n- %s", title, author, strings.Join(bullets, "\n- "))
	if best.InStock() {
		answer += fmt.Sprintf("\nHiện trong kho còn khoảng %d bản.", best.Quantity)
	} else {
		answer += "\nHiện sách này đang hết hàng hoặc chưa có thông tin số lượng."
	}

	return &models.ChatResponse{
		Answer: answer,
		Summary: &models.SummaryPayload{
			Title:   title,
			Author:  author,
			Bullets: bullets,
			InStock: best.InStock(),
			Qty:     best.Quantity,
		},
	}, nil
}

// ---------- price / budget ----------

type priceIntent struct {
	store    CatalogStore
	resolver *CategoryResolver
	limit    int
}

func (h *priceIntent) Name() string { return "price" }

func (h *priceIntent) Handle(ctx context.Context, raw, norm string) (*models.ChatResponse, error) {
	budget, ok := ParseBudget(norm)
	if !ok || !isPriceQuestion(norm) {
		return nil, nil
	}

	cat, err := h.resolver.Resolve(ctx, raw)
	if err != nil {
		return nil, err
	}

	var catID *int64
	if cat != nil {
		catID = &cat.ID
	}

	books, err := h.store.BooksUnderPrice(ctx, budget, catID, h.limit)
	if err != nil {
		return nil, err
	}

	budgetDisplay := formatVNDInt(budget)
	if len(books) == 0 {
		if cat != nil {
			return &models.ChatResponse{
				Answer: fmt.Sprintf(
					"Với ngân sách khoảng %s, hiện chưa có sách thuộc thể loại %s phù hợp (theo dữ liệu giá).",
					budgetDisplay, cat.Name,
				),
			}, nil
		}
		return &models.ChatResponse{
			Answer: fmt.Sprintf(
				"Với ngân sách khoảng %s, mình chưa tìm được cuốn nào phù hợp trong kho (theo dữ liệu giá hiện tại).",
				budgetDisplay,
			),
		}, nil
	}

	infos := toBookInfos(books, true)

	lines := make([]string, 0, len(infos))
	for _, x := range infos {
		lines = append(lines, fmt.Sprintf("- %s — %s (~%s)", x.Title, x.Author, x.PriceDisplay))
	}

	var heading string
	if cat != nil {
		heading = fmt.Sprintf("Với ngân sách khoảng %s, sách thể loại %s trong kho phù hợp nhất là:", budgetDisplay, cat.Name)
	} else {
		heading = fmt.Sprintf("Với ngân sách khoảng %s, bạn có thể tham khảo một số sách sau:", budgetDisplay)
	}

	return &models.ChatResponse{
		Answer:        heading + "\n" + strings.Join(lines, "\n"),
		Books:         infos,
		Budget:        budget,
		BudgetDisplay: budgetDisplay,
		Filter:        "price_lte",
	}, nil
}

// ---------- inventory count ----------

type countIntent struct {
	store CatalogStore
}

func (h *countIntent) Name() string { return "count" }

func (h *countIntent) Handle(ctx context.Context, raw, norm string) (*models.ChatResponse, error) {
	if !containsAny(norm, countTriggers) {
		return nil, nil
	}
	if !strings.Contains(norm, "sach") && !strings.Contains(norm, "dau sach") {
		return nil, nil
	}

	stats, err := h.store.InventoryStats(ctx)
	if err != nil {
		return nil, err
	}

	return &models.ChatResponse{
		Answer: fmt.Sprintf(
			"Thư viện có %d đầu sách; %d đầu đang còn hàng (tổng số bản: %d).",
			stats.TotalTitles, stats.InStockTitles, stats.TotalCopies,
		),
		Data: &models.AggregateData{Inventory: stats},
	}, nil
}

// ---------- single category ----------

type categoryIntent struct {
	store    CatalogStore
	resolver *CategoryResolver
	limit    int
}

func (h *categoryIntent) Name() string { return "category" }

func (h *categoryIntent) Handle(ctx context.Context, raw, norm string) (*models.ChatResponse, error) {
	cat, err := h.resolver.Resolve(ctx, raw)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, nil
	}

	books, err := h.store.BooksInCategory(ctx, cat.ID, h.limit)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return &models.ChatResponse{
			Answer: fmt.Sprintf("Thể loại %s hiện chưa có sách còn hàng.", cat.Name),
		}, nil
	}

	return &models.ChatResponse{
		Answer: fmt.Sprintf("Sách thuộc thể loại %s đang có:", cat.Name),
		Books:  toBookInfos(books, false),
	}, nil
}

// ---------- category list ----------

type categoryListIntent struct {
	store CatalogStore
}

func (h *categoryListIntent) Name() string { return "category_list" }

func (h *categoryListIntent) Handle(ctx context.Context, raw, norm string) (*models.ChatResponse, error) {
	triggered := strings.Contains(norm, "the loai") ||
		strings.Contains(norm, "danh muc") ||
		strings.Contains(norm, "loai sach") ||
		(strings.Contains(norm, "loai") && strings.Contains(norm, "sach"))
	if !triggered {
		return nil, nil
	}

	counts, err := h.store.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}
	if len(counts) == 0 {
		return &models.ChatResponse{Answer: "Hệ thống chưa có dữ liệu thể loại."}, nil
	}

	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		parts = append(parts, fmt.Sprintf("%s (%d)", c.Category, c.Count))
	}

	return &models.ChatResponse{
		Answer: "Các thể loại hiện có: " + strings.Join(parts, ", "),
		Data:   &models.AggregateData{ByCategory: counts},
	}, nil
}

// ---------- availability ----------

type availabilityIntent struct {
	store CatalogStore
	limit int
}

func (h *availabilityIntent) Name() string { return "availability" }

func (h *availabilityIntent) Handle(ctx context.Context, raw, norm string) (*models.ChatResponse, error) {
	if !containsAny(norm, availabilityTriggers) {
		return nil, nil
	}

	books, err := h.store.TopInStock(ctx, h.limit)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return &models.ChatResponse{Answer: "Kho hiện chưa có sách nào còn hàng."}, nil
	}

	return &models.ChatResponse{
		Answer: fmt.Sprintf("Top %d sách đang còn hàng nhiều nhất:", len(books)),
		Books:  toBookInfos(books, false),
	}, nil
}

// toBookInfos converts catalog rows to the response payload. withPrice adds
// the VND display used by the budget answer.
func toBookInfos(books []models.Book, withPrice bool) []models.BookInfo {
	infos := make([]models.BookInfo, 0, len(books))
	for _, b := range books {
		info := models.BookInfo{
			Title:  b.Name,
			Author: b.DisplayAuthor(),
			Qty:    b.Quantity,
		}
		if withPrice {
			info.Price = b.Price
			info.PriceDisplay = FormatVND(b.Price)
		}
		infos = append(infos, info)
	}
	return infos
}
