// internal/catalog/store.go
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bookbot/internal/common/logger"
	"bookbot/internal/models"
)

var (
	ErrQueryFailed      = errors.New("QUERY_EXECUTION_FAILED")
	ErrCategoryNotFound = errors.New("CATEGORY_NOT_FOUND")
)

// Store is the read-only catalog collaborator backed by PostgreSQL. The
// engine only ever reads; writes belong to the shop backend.
type Store struct {
	db        *sql.DB
	priceExpr string
	qtyExpr   string
	logger    logger.Logger
}

// NewStore creates a catalog store. priceColumn is the configured products
// column holding the sale price; it has been validated against an allow-list
// by the config loader before it is interpolated here.
func NewStore(db *sql.DB, priceColumn string, log logger.Logger) *Store {
	// Legacy rows store prices as DECIMAL or as formatted strings like
	// "120.000", so the digits are extracted before casting.
	priceExpr := fmt.Sprintf(
		`NULLIF(regexp_replace(COALESCE(p.%s::text, ''), '[^0-9]', '', 'g'), '')::bigint`,
		priceColumn,
	)

	return &Store{
		db:        db,
		priceExpr: priceExpr,
		qtyExpr:   "COALESCE(p.quantity, 0)",
		logger:    log.With(map[string]interface{}{"component": "catalog"}),
	}
}

func (s *Store) bookSelect() string {
	return fmt.Sprintf(
		`SELECT p.id, p.name, COALESCE(p.author, ''), COALESCE(p.description, ''), %s, COALESCE(p.category_id, 0), COALESCE(c.name, ''), %s
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id`,
		s.qtyExpr, s.priceExpr,
	)
}

func (s *Store) scanBooks(rows *sql.Rows) ([]models.Book, error) {
	defer rows.Close()

	var books []models.Book
	for rows.Next() {
		var b models.Book
		var price sql.NullInt64
		if err := rows.Scan(&b.ID, &b.Name, &b.Author, &b.Description, &b.Quantity, &b.CategoryID, &b.CategoryName, &price); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", ErrQueryFailed, err)
		}
		if price.Valid {
			v := int(price.Int64)
			b.Price = &v
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	return books, nil
}

// AllCategories returns every category ordered by id, so that substring
// resolution has a deterministic iteration order.
func (s *Store) AllCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	defer rows.Close()

	var cats []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", ErrQueryFailed, err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	return cats, nil
}

// CategoryByID fetches a single category.
func (s *Store) CategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	var c models.Category
	err := s.db.QueryRowContext(ctx, `SELECT id, name FROM categories WHERE id = $1`, id).Scan(&c.ID, &c.Name)
	if err == sql.ErrNoRows {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	return &c, nil
}

// SearchBooks runs a bounded substring search. Each pattern is matched
// case-insensitively against title, author, description and category name;
// patterns are OR-ed so that a book matching any one of them qualifies.
// Results are ordered by id, which keeps ties deterministic.
func (s *Store) SearchBooks(ctx context.Context, patterns []string, limit int) ([]models.Book, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	var conds []string
	var args []interface{}
	for i, p := range patterns {
		like := "%" + p + "%"
		args = append(args, like)
		ph := fmt.Sprintf("$%d", i+1)
		conds = append(conds, fmt.Sprintf(
			"(p.name ILIKE %s OR p.author ILIKE %s OR p.description ILIKE %s OR c.name ILIKE %s)",
			ph, ph, ph, ph,
		))
	}
	args = append(args, limit)

	query := fmt.Sprintf(
		"%s WHERE %s ORDER BY p.id ASC LIMIT $%d",
		s.bookSelect(), strings.Join(conds, " OR "), len(patterns)+1,
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	return s.scanBooks(rows)
}

// BooksInCategory lists in-stock books of one category, most copies first.
func (s *Store) BooksInCategory(ctx context.Context, categoryID int64, limit int) ([]models.Book, error) {
	query := fmt.Sprintf(
		"%s WHERE p.category_id = $1 AND %s > 0 ORDER BY %s DESC, p.id ASC LIMIT $2",
		s.bookSelect(), s.qtyExpr, s.qtyExpr,
	)
	rows, err := s.db.QueryContext(ctx, query, categoryID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	return s.scanBooks(rows)
}

// BooksUnderPrice lists in-stock books priced at or under budget, cheapest
// first, optionally narrowed to one category. Books without a usable price
// count as price 0, mirroring the legacy shop behavior.
func (s *Store) BooksUnderPrice(ctx context.Context, budget int, categoryID *int64, limit int) ([]models.Book, error) {
	filter := fmt.Sprintf("%s > 0 AND COALESCE(%s, 0) <= $1", s.qtyExpr, s.priceExpr)
	args := []interface{}{budget}

	if categoryID != nil {
		filter += " AND p.category_id = $2"
		args = append(args, *categoryID)
	}
	args = append(args, limit)

	query := fmt.Sprintf(
		"%s WHERE %s ORDER BY COALESCE(%s, 0) ASC, p.id ASC LIMIT $%d",
		s.bookSelect(), filter, s.priceExpr, len(args),
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	return s.scanBooks(rows)
}

// TopInStock lists in-stock books ordered by descending quantity.
func (s *Store) TopInStock(ctx context.Context, limit int) ([]models.Book, error) {
	query := fmt.Sprintf(
		"%s WHERE %s > 0 ORDER BY %s DESC, p.id ASC LIMIT $1",
		s.bookSelect(), s.qtyExpr, s.qtyExpr,
	)
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	return s.scanBooks(rows)
}

// InventoryStats returns title count, in-stock title count and the summed
// copy count with NULL quantities coerced to zero.
func (s *Store) InventoryStats(ctx context.Context) (*models.InventoryStats, error) {
	query := fmt.Sprintf(
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE %s > 0), COALESCE(SUM(%s), 0) FROM products p`,
		s.qtyExpr, s.qtyExpr,
	)

	var stats models.InventoryStats
	err := s.db.QueryRowContext(ctx, query).Scan(&stats.TotalTitles, &stats.InStockTitles, &stats.TotalCopies)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	return &stats, nil
}

// CountByCategory returns the book count per category, alphabetically.
// The LEFT JOIN keeps categories with zero books in the result.
func (s *Store) CountByCategory(ctx context.Context) ([]models.CategoryCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.name, COUNT(p.id)
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		GROUP BY c.id, c.name
		ORDER BY c.name ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	defer rows.Close()

	var counts []models.CategoryCount
	for rows.Next() {
		var cc models.CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Count); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", ErrQueryFailed, err)
		}
		counts = append(counts, cc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	return counts, nil
}
