// internal/models/book.go
package models

// Book is a catalog row as read from the store. The engine never writes
// books; quantity and price arrive already NULL-coerced by the store layer.
type Book struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Author       string `json:"author,omitempty"`
	Description  string `json:"description,omitempty"`
	Quantity     int    `json:"quantity"`
	CategoryID   int64  `json:"category_id"`
	CategoryName string `json:"category_name,omitempty"`
	// Price is the sale price in VND. Nil when the store has no usable
	// price value for the row.
	Price *int `json:"price,omitempty"`
}

// Category is a catalog category.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DisplayAuthor returns the author or the "N/A" placeholder used in answers.
func (b Book) DisplayAuthor() string {
	if b.Author == "" {
		return "N/A"
	}
	return b.Author
}

// InStock reports whether at least one copy is on hand.
func (b Book) InStock() bool {
	return b.Quantity > 0
}
