// AngelaMos | 2026
// repository.go

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/souk-api/internal/core"
)

type Repository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, slugOrID string) (*Category, error)
	CountActiveProducts(ctx context.Context) (map[string]int, error)
	CreateCategory(ctx context.Context, category *Category) error

	ListProducts(ctx context.Context, filter ProductFilter) ([]Product, int, error)
	GetProductBySlug(ctx context.Context, slug string) (*Product, error)
	GetProductByID(ctx context.Context, id string) (*Product, error)
	RelatedProducts(ctx context.Context, categoryID, excludeID string, limit int) ([]Product, error)
	FeaturedProducts(ctx context.Context, limit int) ([]Product, error)
	DealProducts(ctx context.Context, limit int) ([]Product, error)
	CreateProduct(ctx context.Context, product *Product) error
	UpdateProduct(ctx context.Context, product *Product) error
}

const categoryColumns = `id, slug, name, name_en, description, image, icon, color,
		       sort_order, is_active, created_at`

const productColumns = `id, slug, name, name_en, description, short_description,
		       category_id, price, original_price, currency, images, thumbnail,
		       stock, sku, brand, tags, specifications, rating, review_count,
		       sold_count, is_featured, is_active, created_at, updated_at`

var sortColumns = map[string]string{
	SortCreatedAt: "created_at",
	SortPrice:     "price",
	SortRating:    "rating",
	SortSoldCount: "sold_count",
	SortName:      "name",
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) ListCategories(ctx context.Context) ([]Category, error) {
	query := `SELECT ` + categoryColumns + `
		FROM categories
		WHERE is_active
		ORDER BY sort_order, seq`

	var categories []Category
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return categories, nil
}

func (r *repository) GetCategory(
	ctx context.Context,
	slugOrID string,
) (*Category, error) {
	query := `SELECT ` + categoryColumns + `
		FROM categories
		WHERE is_active AND (slug = $1 OR id::text = $1)
		ORDER BY (slug = $1) DESC
		LIMIT 1`

	var category Category
	err := r.db.GetContext(ctx, &category, query, slugOrID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get category: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}

	return &category, nil
}

func (r *repository) CountActiveProducts(
	ctx context.Context,
) (map[string]int, error) {
	query := `
		SELECT category_id, COUNT(*) AS n
		FROM products
		WHERE is_active
		GROUP BY category_id`

	var rows []struct {
		CategoryID string `db:"category_id"`
		N          int    `db:"n"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.CategoryID] = row.N
	}

	return counts, nil
}

func (r *repository) CreateCategory(
	ctx context.Context,
	c *Category,
) error {
	query := `
		INSERT INTO categories (id, slug, name, name_en, description, image,
		                        icon, color, sort_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &c.CreatedAt, query,
		c.ID, c.Slug, c.Name, c.NameEn, c.Description, c.Image,
		c.Icon, c.Color, c.SortOrder, c.Active,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create category: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create category: %w", err)
	}

	return nil
}

func (r *repository) ListProducts(
	ctx context.Context,
	filter ProductFilter,
) ([]Product, int, error) {
	filter.Normalize()

	conditions := []string{"is_active"}
	var args []any
	argIdx := 1

	if filter.CategoryID != "" {
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", argIdx))
		args = append(args, filter.CategoryID)
		argIdx++
	}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf(`(
			name ILIKE $%[1]d OR name_en ILIKE $%[1]d OR description ILIKE $%[1]d
			OR EXISTS (SELECT 1 FROM jsonb_array_elements_text(tags) t
			           WHERE t ILIKE $%[1]d))`, argIdx))
		args = append(args, "%"+core.EscapeLike(filter.Search)+"%")
		argIdx++
	}

	if filter.MinPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price >= $%d", argIdx))
		args = append(args, *filter.MinPrice)
		argIdx++
	}

	if filter.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price <= $%d", argIdx))
		args = append(args, *filter.MaxPrice)
		argIdx++
	}

	if filter.Featured {
		conditions = append(conditions, "is_featured")
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM products WHERE " + whereClause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	direction := "DESC"
	if filter.Order == OrderAsc {
		direction = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE %s
		ORDER BY %s %s, seq
		LIMIT $%d OFFSET $%d`,
		productColumns, whereClause,
		sortColumns[filter.Sort], direction,
		argIdx, argIdx+1)

	args = append(args, filter.Limit, filter.Offset())

	var products []Product
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	return products, total, nil
}

func (r *repository) GetProductBySlug(
	ctx context.Context,
	slug string,
) (*Product, error) {
	return r.getProduct(ctx, "slug", slug)
}

func (r *repository) GetProductByID(
	ctx context.Context,
	id string,
) (*Product, error) {
	return r.getProduct(ctx, "id::text", id)
}

func (r *repository) getProduct(
	ctx context.Context,
	column, value string,
) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE ` + column + ` = $1`

	var product Product
	err := r.db.GetContext(ctx, &product, query, value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get product: %w", core.ErrProductNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	return &product, nil
}

func (r *repository) RelatedProducts(
	ctx context.Context,
	categoryID, excludeID string,
	limit int,
) ([]Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE is_active AND category_id = $1 AND id::text <> $2
		ORDER BY seq
		LIMIT $3`

	var products []Product
	if err := r.db.SelectContext(ctx, &products, query, categoryID, excludeID, limit); err != nil {
		return nil, fmt.Errorf("related products: %w", err)
	}

	return products, nil
}

func (r *repository) FeaturedProducts(
	ctx context.Context,
	limit int,
) ([]Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE is_active AND is_featured
		ORDER BY sold_count DESC, seq
		LIMIT $1`

	var products []Product
	if err := r.db.SelectContext(ctx, &products, query, limit); err != nil {
		return nil, fmt.Errorf("featured products: %w", err)
	}

	return products, nil
}

func (r *repository) DealProducts(
	ctx context.Context,
	limit int,
) ([]Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE is_active AND original_price IS NOT NULL AND original_price > price
		ORDER BY ROUND((original_price - price) / original_price * 100) DESC, seq
		LIMIT $1`

	var products []Product
	if err := r.db.SelectContext(ctx, &products, query, limit); err != nil {
		return nil, fmt.Errorf("deal products: %w", err)
	}

	return products, nil
}

func (r *repository) CreateProduct(ctx context.Context, p *Product) error {
	query := `
		INSERT INTO products (id, slug, name, name_en, description,
		                      short_description, category_id, price,
		                      original_price, currency, images, thumbnail, stock,
		                      sku, brand, tags, specifications, rating,
		                      review_count, sold_count, is_featured, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22)
		RETURNING created_at, updated_at`

	row := r.db.QueryRowxContext(ctx, query,
		p.ID, p.Slug, p.Name, p.NameEn, p.Description,
		p.ShortDescription, p.CategoryID, p.Price,
		p.OriginalPrice, p.Currency, p.Images, p.Thumbnail, p.Stock,
		p.SKU, p.Brand, p.Tags, p.Specifications, p.Rating,
		p.ReviewCount, p.SoldCount, p.Featured, p.Active,
	)
	if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create product: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create product: %w", err)
	}

	return nil
}

func (r *repository) UpdateProduct(ctx context.Context, p *Product) error {
	query := `
		UPDATE products
		SET name = $2, name_en = $3, description = $4, price = $5,
		    original_price = $6, stock = $7, thumbnail = $8,
		    is_featured = $9, is_active = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &p.UpdatedAt, query,
		p.ID, p.Name, p.NameEn, p.Description, p.Price,
		p.OriginalPrice, p.Stock, p.Thumbnail,
		p.Featured, p.Active,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update product: %w", core.ErrProductNotFound)
	}
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	return nil
}

// LockProduct loads a product row FOR UPDATE inside the caller's tx.
func LockProduct(ctx context.Context, db core.DBTX, id string) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id::text = $1 FOR UPDATE`

	var product Product
	err := db.GetContext(ctx, &product, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lock product: %w", core.ErrProductNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lock product: %w", err)
	}

	return &product, nil
}

// DecrementStock moves quantity from stock to sold_count. It fails with
// ErrInsufficientStock rather than drive stock negative.
func DecrementStock(ctx context.Context, db core.DBTX, id string, quantity int) error {
	query := `
		UPDATE products
		SET stock = stock - $2, sold_count = sold_count + $2, updated_at = NOW()
		WHERE id::text = $1 AND stock >= $2`

	result, err := db.ExecContext(ctx, query, id, quantity)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("decrement stock %s: %w", id, core.ErrInsufficientStock)
	}

	return nil
}
