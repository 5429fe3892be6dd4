// internal/bot/category.go
package bot

import (
	"context"
	"strings"

	"bookbot/internal/models"
)

// categorySynonyms maps normalized category names to normalized aliases
// shoppers actually type. Checked last, after substring and fuzzy matching.
var categorySynonyms = map[string][]string{
	"thieu nhi":           {"tre em", "nhi dong", "thieu nien", "mau giao", "hoat hinh"},
	"truyen tranh":        {"comic", "manga", "cartoon"},
	"van hoc":             {"tieu thuyet", "novel"},
	"khoa hoc vien tuong": {"sci fi", "science fiction"},
	"kinh te":             {"business", "lam giau", "quan tri"},
	"tam ly":              {"tam li", "tam ly", "psychology"},
}

// CategoryResolver matches free-form user text to a catalog category in
// three tiers: exact substring, fuzzy similarity, then the synonym table.
type CategoryResolver struct {
	store  CatalogStore
	cutoff float64
}

func NewCategoryResolver(store CatalogStore, fuzzyCutoff float64) *CategoryResolver {
	return &CategoryResolver{store: store, cutoff: fuzzyCutoff}
}

// Resolve returns the best-matching category or nil when nothing clears
// the bar. Categories arrive ordered by id, so ties always resolve to the
// oldest category.
func (r *CategoryResolver) Resolve(ctx context.Context, userText string) (*models.Category, error) {
	txt := Normalize(userText)
	if txt == "" {
		return nil, nil
	}

	cats, err := r.store.AllCategories(ctx)
	if err != nil {
		return nil, err
	}
	if len(cats) == 0 {
		return nil, nil
	}

	// Tier 1: category name appears verbatim in the message.
	for i := range cats {
		cn := Normalize(cats[i].Name)
		if cn != "" && strings.Contains(txt, cn) {
			return &cats[i], nil
		}
	}

	// Tier 2: fuzzy match of the whole message against each name.
	var best *models.Category
	bestScore := 0.0
	for i := range cats {
		cn := Normalize(cats[i].Name)
		if cn == "" {
			continue
		}
		if score := similarity(txt, cn); score >= r.cutoff && score > bestScore {
			best = &cats[i]
			bestScore = score
		}
	}
	if best != nil {
		return best, nil
	}

	// Tier 3: synonym table.
	for i := range cats {
		aliases, ok := categorySynonyms[Normalize(cats[i].Name)]
		if !ok {
			continue
		}
		for _, a := range aliases {
			if strings.Contains(txt, a) {
				return &cats[i], nil
			}
		}
	}

	return nil, nil
}
