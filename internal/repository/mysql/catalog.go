package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/amiraesya/glowmart-golang/internal/models"
	"github.com/amiraesya/glowmart-golang/internal/repository"
)

// CatalogStore is the MySQL-backed product catalog.
type CatalogStore struct {
	db *sql.DB
}

func NewCatalogStore(db *sql.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

const productColumns = `
	id, name, slug, description, price, stock_quantity,
	category, skin_types, featured, image_url, created_at, updated_at`

// scanProduct scans one products row. skin_types is a JSON array column.
func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	var skinTypesJSON []byte
	var imageURL sql.NullString

	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.StockQuantity,
		&p.Category, &skinTypesJSON, &p.Featured, &imageURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(skinTypesJSON) > 0 {
		if err := json.Unmarshal(skinTypesJSON, &p.SkinTypes); err != nil {
			return nil, err
		}
	}
	if imageURL.Valid {
		p.ImageURL = &imageURL.String
	}
	return &p, nil
}

func (s *CatalogStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	query := "SELECT" + productColumns + " FROM products WHERE id = ?"
	p, err := scanProduct(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	return p, err
}

func (s *CatalogStore) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	query := "SELECT" + productColumns + " FROM products WHERE slug = ?"
	p, err := scanProduct(s.db.QueryRowContext(ctx, query, slug))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	return p, err
}

func (s *CatalogStore) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	var queryBuilder strings.Builder
	var args []any

	queryBuilder.WriteString("SELECT" + productColumns + " FROM products WHERE 1=1")

	if filter.Category != "" {
		queryBuilder.WriteString(" AND category = ?")
		args = append(args, filter.Category)
	}
	if filter.SkinType != "" {
		// skin_types is a JSON array of strings.
		queryBuilder.WriteString(" AND JSON_CONTAINS(skin_types, JSON_QUOTE(?))")
		args = append(args, string(filter.SkinType))
	}
	if filter.FeaturedOnly {
		queryBuilder.WriteString(" AND featured = TRUE")
	}
	if filter.Query != "" {
		queryBuilder.WriteString(" AND (name LIKE ? OR description LIKE ?)")
		searchTerm := "%" + filter.Query + "%"
		args = append(args, searchTerm, searchTerm)
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC, id")

	rows, err := s.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (s *CatalogStore) CreateProduct(ctx context.Context, p *models.Product) error {
	skinTypesJSON, err := json.Marshal(p.SkinTypes)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO products
			(id, name, slug, description, price, stock_quantity,
			 category, skin_types, featured, image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = s.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Slug, p.Description, p.Price, p.StockQuantity,
		p.Category, skinTypesJSON, p.Featured, p.ImageURL, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (s *CatalogStore) UpdateProduct(ctx context.Context, p *models.Product) error {
	skinTypesJSON, err := json.Marshal(p.SkinTypes)
	if err != nil {
		return err
	}

	query := `
		UPDATE products
		SET name = ?, slug = ?, description = ?, price = ?, stock_quantity = ?,
			category = ?, skin_types = ?, featured = ?, image_url = ?, updated_at = ?
		WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query,
		p.Name, p.Slug, p.Description, p.Price, p.StockQuantity,
		p.Category, skinTypesJSON, p.Featured, p.ImageURL, time.Now(), p.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *CatalogStore) DeleteProduct(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DecrementStock is the single conditional update that guards against
// overselling: the WHERE clause ensures the row is only touched when
// enough stock remains, so concurrent checkouts serialize on the row.
func (s *CatalogStore) DecrementStock(ctx context.Context, id string, qty int) error {
	query := `
		UPDATE products
		SET stock_quantity = stock_quantity - ?, updated_at = ?
		WHERE id = ? AND stock_quantity >= ?`

	result, err := s.db.ExecContext(ctx, query, qty, time.Now(), id, qty)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return repository.ErrStockConflict
	}
	return nil
}

func (s *CatalogStore) IncrementStock(ctx context.Context, id string, qty int) error {
	query := `
		UPDATE products
		SET stock_quantity = stock_quantity + ?, updated_at = ?
		WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, qty, time.Now(), id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
