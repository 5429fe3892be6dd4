// internal/models/response.go
package models

// BookInfo is the per-book payload attached to chat answers.
type BookInfo struct {
	Title        string `json:"title"`
	Author       string `json:"author"`
	Qty          int    `json:"qty"`
	Price        *int   `json:"price,omitempty"`
	PriceDisplay string `json:"price_display,omitempty"`
}

// InventoryStats carries the count-intent aggregates.
type InventoryStats struct {
	TotalTitles   int `json:"total_titles"`
	InStockTitles int `json:"in_stock_titles"`
	TotalCopies   int `json:"total_copies"`
}

// CategoryCount is one row of the per-category breakdown.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// AggregateData is the "data" member of a chat response. Exactly one of the
// groups is populated depending on the intent that produced it.
type AggregateData struct {
	Inventory  *InventoryStats `json:"inventory,omitempty"`
	ByCategory []CategoryCount `json:"by_category,omitempty"`
}

// SummaryPayload is the structured result of the summary intent.
type SummaryPayload struct {
	Title   string   `json:"title"`
	Author  string   `json:"author"`
	Bullets []string `json:"bullets"`
	InStock bool     `json:"in_stock"`
	Qty     int      `json:"qty"`
}

// Recommendation is one entry of the grounded recommendation reply.
type Recommendation struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Reason  string `json:"reason"`
	InStock bool   `json:"in_stock"`
}

// ChatResponse is the outbound boundary of the engine: a human-readable
// answer plus whichever structured payload the matched intent produced.
type ChatResponse struct {
	Answer string `json:"answer,omitempty"`

	Books   []BookInfo      `json:"books,omitempty"`
	Data    *AggregateData  `json:"data,omitempty"`
	Summary *SummaryPayload `json:"summary,omitempty"`

	Budget        int    `json:"budget,omitempty"`
	BudgetDisplay string `json:"budget_display,omitempty"`
	Filter        string `json:"filter,omitempty"`

	Recommendations []Recommendation `json:"recommendations,omitempty"`
	FollowUp        string           `json:"follow_up,omitempty"`
	// Raw carries the verbatim model text when the recommendation reply
	// could not be parsed as JSON. Best-effort beats total failure.
	Raw string `json:"raw,omitempty"`
}
