// internal/bot/summarize_test.go
package bot

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookbot/internal/common/database"
	"bookbot/internal/common/logger"
	"bookbot/internal/genai"
	"bookbot/internal/models"
)

const longDescription = "Câu chuyện kể về Santiago, một chàng chăn cừu trẻ người Tây Ban Nha. " +
	"Cậu liên tục mơ thấy một kho báu được chôn giấu gần các kim tự tháp Ai Cập. " +
	"Trên hành trình đi tìm kho báu, cậu gặp nhiều người thầy và học được cách lắng nghe trái tim mình. " +
	"Cuốn sách nói về việc theo đuổi vận mệnh của mỗi người."

func newCacheForTest(t *testing.T) *database.RedisClient {
	t.Helper()
	mr := miniredis.RunT(t)
	return &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
}

func newTestSummarizer(gen Generator, cache SummaryCache) *Summarizer {
	return NewSummarizer(gen, cache, time.Hour, 25, 7, logger.NewNoOpLogger())
}

func TestSplitSentences(t *testing.T) {
	sents := splitSentences("Câu một. Câu hai! Câu ba?\nCâu bốn… hết")
	require.Len(t, sents, 5)
	assert.Equal(t, "Câu một.", sents[0])
	assert.Equal(t, "Câu hai!", sents[1])
	assert.Equal(t, "Câu ba?", sents[2])
	assert.Equal(t, "Câu bốn…", sents[3])
	assert.Equal(t, "hết", sents[4])
}

func TestSplitSentences_DropsFragments(t *testing.T) {
	assert.Nil(t, splitSentences(""))
	assert.Nil(t, splitSentences("   "))
	// Single-character fragments are noise, not sentences.
	sents := splitSentences("ờ\nĐược rồi.")
	require.Len(t, sents, 1)
	assert.Equal(t, "Được rồi.", sents[0])
}

func TestFallbackBullets(t *testing.T) {
	bullets := fallbackBullets(longDescription, 3)
	require.Len(t, bullets, 3)
	assert.Equal(t, "Câu chuyện kể về Santiago, một chàng chăn cừu trẻ người Tây Ban Nha.", bullets[0])
}

func TestFallbackBullets_CapsWords(t *testing.T) {
	long := strings.Repeat("từ ", 40) + "."
	bullets := fallbackBullets(long, 5)
	require.Len(t, bullets, 1)
	assert.Len(t, strings.Fields(bullets[0]), fallbackMaxWords)
	assert.True(t, strings.HasSuffix(bullets[0], "…"))
}

func TestSummarize_GroundedPath(t *testing.T) {
	gen := &fakeGen{response: `{"bullets": ["Santiago theo đuổi giấc mơ kho báu.", "Bài học về lắng nghe trái tim."]}`}
	s := newTestSummarizer(gen, nil)

	bullets := s.Summarize(context.Background(), models.Book{ID: 1, Name: "Nhà Giả Kim", Description: longDescription})
	require.Len(t, bullets, 2)

	// A long description must be summarized from the stored text only.
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Chỉ sử dụng đúng đoạn Nguồn bên dưới")
	assert.Contains(t, gen.prompts[0], "Santiago")
}

func TestSummarize_OpenWorldPath(t *testing.T) {
	gen := &fakeGen{response: `{"bullets": ["Một bài học về đối nhân xử thế."]}`}
	s := newTestSummarizer(gen, nil)

	bullets := s.Summarize(context.Background(), models.Book{
		ID:          2,
		Name:        "Đắc Nhân Tâm",
		Author:      "Dale Carnegie",
		Description: "Sách kỹ năng sống.",
	})
	require.Len(t, bullets, 1)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], `cuốn sách "Đắc Nhân Tâm" của Dale Carnegie`)
	assert.Contains(t, gen.prompts[0], "Sách kỹ năng sống.")
}

func TestSummarize_FallsBackWhenModelUnavailable(t *testing.T) {
	s := newTestSummarizer(genai.NewDisabled(), nil)

	bullets := s.Summarize(context.Background(), models.Book{ID: 3, Name: "Nhà Giả Kim", Description: longDescription})
	require.NotEmpty(t, bullets)
	assert.Contains(t, bullets[0], "Santiago")
}

func TestSummarize_FallsBackOnMalformedOutput(t *testing.T) {
	gen := &fakeGen{response: "đây không phải JSON"}
	s := newTestSummarizer(gen, nil)

	bullets := s.Summarize(context.Background(), models.Book{ID: 4, Name: "Nhà Giả Kim", Description: longDescription})
	assert.NotEmpty(t, bullets)
}

func TestSummarize_NoDescriptionNoModel(t *testing.T) {
	s := newTestSummarizer(genai.NewDisabled(), nil)

	// Only the title is available; the fallback shortens it to one bullet.
	bullets := s.Summarize(context.Background(), models.Book{ID: 5, Name: "Số Đỏ"})
	require.Len(t, bullets, 1)
	assert.Equal(t, "Số Đỏ", bullets[0])
}

func TestSummarize_CachesResult(t *testing.T) {
	cache := newCacheForTest(t)
	gen := &fakeGen{response: `{"bullets": ["Một ý chính."]}`}
	s := newTestSummarizer(gen, cache)

	book := models.Book{ID: 9, Name: "Đắc Nhân Tâm", Author: "Dale Carnegie"}

	first := s.Summarize(context.Background(), book)
	second := s.Summarize(context.Background(), book)

	assert.Equal(t, first, second)
	// Second call must be served from the cache, not the model.
	assert.Len(t, gen.prompts, 1)
}

func TestSummarize_CapsBullets(t *testing.T) {
	gen := &fakeGen{response: `{"bullets": ["1", "2", "3", "4", "5", "6", "7", "8", "9"]}`}
	s := newTestSummarizer(gen, nil)

	bullets := s.Summarize(context.Background(), models.Book{ID: 6, Name: "X", Description: longDescription})
	assert.Len(t, bullets, 7)
}
