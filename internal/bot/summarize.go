// internal/bot/summarize.go
package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
	"time"

	"bookbot/internal/common/logger"
	"bookbot/internal/common/metrics"
	"bookbot/internal/genai"
	"bookbot/internal/models"
)

const (
	// maxSourceChars bounds the description passed to the model.
	maxSourceChars = 4000
	// fallbackMaxWords caps each locally extracted bullet.
	fallbackMaxWords = 28
)

var sentenceBreakRe = regexp.MustCompile(`([.!?…])\s+|\n+`)

// splitSentences breaks Vietnamese prose on sentence-ending punctuation
// followed by whitespace, and on newlines. Fragments of one character or
// less are discarded.
func splitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	parts := sentenceBreakRe.Split(text, -1)
	marks := sentenceBreakRe.FindAllStringSubmatch(text, -1)

	var sents []string
	for i, p := range parts {
		// Reattach the punctuation the split consumed.
		if i < len(marks) && marks[i][1] != "" {
			p += marks[i][1]
		}
		p = strings.TrimSpace(p)
		if len([]rune(p)) > 1 {
			sents = append(sents, p)
		}
	}
	return sents
}

// fallbackBullets produces an extractive summary without any model: the
// first few sentences of the source, each shortened to a word cap.
func fallbackBullets(text string, maxBullets int) []string {
	sents := splitSentences(text)
	if len(sents) == 0 {
		return nil
	}
	if len(sents) > maxBullets {
		sents = sents[:maxBullets]
	}

	bullets := make([]string, 0, len(sents))
	for _, s := range sents {
		ws := strings.Fields(s)
		if len(ws) > fallbackMaxWords {
			s = strings.Join(ws[:fallbackMaxWords], " ") + "…"
		}
		bullets = append(bullets, s)
	}
	return bullets
}

// SummaryCache is the subset of the redis client the summarizer needs.
type SummaryCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// Summarizer turns a catalog book into summary bullets. Long descriptions
// are summarized grounded on the stored text; short ones let the model use
// its own knowledge of the title. Results are cached per book, and every
// model failure degrades to the extractive fallback.
type Summarizer struct {
	gen        Generator
	cache      SummaryCache
	cacheTTL   time.Duration
	minWords   int
	maxBullets int
	logger     logger.Logger
}

func NewSummarizer(gen Generator, cache SummaryCache, cacheTTL time.Duration, minWords, maxBullets int, log logger.Logger) *Summarizer {
	return &Summarizer{
		gen:        gen,
		cache:      cache,
		cacheTTL:   cacheTTL,
		minWords:   minWords,
		maxBullets: maxBullets,
		logger:     log.With(map[string]interface{}{"component": "summarizer"}),
	}
}

// Summarize returns the bullets for one book, consulting the cache first.
// An empty slice means no summary could be produced at all.
func (s *Summarizer) Summarize(ctx context.Context, book models.Book) []string {
	// The description hash keeps edited books from serving a stale summary
	// for the rest of the TTL.
	h := fnv.New32a()
	h.Write([]byte(book.Description))
	key := fmt.Sprintf("bookbot:summary:%d:%08x", book.ID, h.Sum32())

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			var bullets []string
			if json.Unmarshal([]byte(cached), &bullets) == nil && len(bullets) > 0 {
				metrics.SummaryCacheHits.WithLabelValues("hit").Inc()
				return bullets
			}
		}
		metrics.SummaryCacheHits.WithLabelValues("miss").Inc()
	}

	desc := strings.TrimSpace(book.Description)

	var bullets []string
	if len(strings.Fields(desc)) >= s.minWords {
		bullets = s.groundedBullets(ctx, desc)
	} else {
		bullets = s.openWorldBullets(ctx, book.Name, book.DisplayAuthor(), desc)
	}

	if s.cache != nil && len(bullets) > 0 {
		if encoded, err := json.Marshal(bullets); err == nil {
			if err := s.cache.Set(ctx, key, string(encoded), s.cacheTTL); err != nil {
				s.logger.Warn("summary cache write failed", map[string]interface{}{
					"book_id": book.ID,
					"error":   err.Error(),
				})
			}
		}
	}
	return bullets
}

// groundedBullets summarizes strictly from the stored description.
func (s *Summarizer) groundedBullets(ctx context.Context, source string) []string {
	source = truncateRunes(source, maxSourceChars)

	prompt := fmt.Sprintf(`Bạn là BookBot. Nhiệm vụ: TÓM TẮT NỘI DUNG SÁCH BẰNG TIẾNG VIỆT, HẠN CHẾ SPOILER.
Chỉ sử dụng đúng đoạn Nguồn bên dưới, nhưng được phép diễn giải, tách ý, nối câu
sao cho dễ hiểu hơn, KHÔNG thêm sự kiện mới không có trong Nguồn.

Yêu cầu:
- Viết 4–8 gạch đầu dòng.
- Mỗi gạch dài khoảng 1–3 câu, mô tả rõ một ý/chương/bài học quan trọng.
- Văn phong tự nhiên, dễ hiểu.

Nguồn:
"""%s"""

Trả JSON:
{ "bullets": ["...", "..."] }`, source)

	raw, err := s.gen.Generate(ctx, prompt, genai.GenerationConfig{
		Temperature:     0.3,
		TopP:            0.9,
		MaxOutputTokens: 896,
		Mode:            "summary",
	})
	if err != nil {
		s.logGenFailure("grounded summary failed", err)
		return fallbackBullets(source, s.maxBullets)
	}

	bullets := s.parseBullets(raw)
	if len(bullets) == 0 {
		return fallbackBullets(source, s.maxBullets)
	}
	return bullets
}

// openWorldBullets summarizes from title and author when the stored
// description is too thin to ground on.
func (s *Summarizer) openWorldBullets(ctx context.Context, title, author, descHint string) []string {
	fallbackSrc := descHint
	if fallbackSrc == "" {
		fallbackSrc = title
	}

	hint := descHint
	if hint == "" {
		hint = "(không có gợi ý trong kho)"
	}

	prompt := fmt.Sprintf(`Bạn là BookBot. Hãy tóm tắt tương đối chi tiết nội dung cuốn sách "%s" của %s bằng tiếng Việt.

Nếu bạn biết về cuốn sách này:
- Hãy dựa trên kiến thức của mình để mô tả các phần, ý tưởng, chương/bài học quan trọng.
Nếu bạn không chắc chắn:
- Hãy dựa trên gợi ý sau (nếu có): %s.

Yêu cầu:
- Viết 4–8 gạch đầu dòng.
- Mỗi gạch dài khoảng 1–3 câu, giúp người đọc hiểu được sách nói về điều gì, học được điều gì.
- Hạn chế tiết lộ toàn bộ kết thúc, nhưng có thể nói khái quát những bài học/chủ đề chính.

Trả JSON:
{ "bullets": ["...", "..."] }`, title, author, hint)

	raw, err := s.gen.Generate(ctx, prompt, genai.GenerationConfig{
		Temperature:     0.4,
		TopP:            0.9,
		MaxOutputTokens: 1024,
		Mode:            "open_world",
	})
	if err != nil {
		s.logGenFailure("open-world summary failed", err)
		return fallbackBullets(fallbackSrc, s.maxBullets)
	}

	bullets := s.parseBullets(raw)
	if len(bullets) == 0 {
		return fallbackBullets(fallbackSrc, s.maxBullets)
	}
	return bullets
}

func (s *Summarizer) parseBullets(raw string) []string {
	var payload struct {
		Bullets []string `json:"bullets"`
	}
	if err := genai.ParseAndValidate(raw, genai.BulletsSchema, &payload); err != nil {
		s.logger.Warn("summary output malformed", map[string]interface{}{"error": err.Error()})
		return nil
	}

	var bullets []string
	for _, b := range payload.Bullets {
		b = strings.TrimSpace(b)
		if b != "" {
			bullets = append(bullets, b)
		}
	}
	if len(bullets) > s.maxBullets {
		bullets = bullets[:s.maxBullets]
	}
	return bullets
}

func (s *Summarizer) logGenFailure(msg string, err error) {
	fields := map[string]interface{}{"error": err.Error()}
	if errors.Is(err, genai.ErrNotConfigured) {
		s.logger.Debug(msg, fields)
		return
	}
	s.logger.Warn(msg, fields)
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}
