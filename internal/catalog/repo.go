package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the requested catalog entity does not exist.
var ErrNotFound = errors.New("catalog: not found")

// Repo provides postgres-backed access to products, categories, and settings.
// Variants and gallery URLs are stored as jsonb columns so their order is
// preserved exactly as the admin arranged them.
type Repo struct {
	pool *pgxpool.Pool
}

// NewRepo constructs a Repo.
func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const productColumns = `id, category_id, name, price, description, image_url, gallery, size, variants`

// ListProducts returns all products, newest first.
func (r *Repo) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetProduct loads a single product by id.
func (r *Repo) GetProduct(ctx context.Context, id string) (Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

// CreateProduct inserts a product, assigning an id when absent.
func (r *Repo) CreateProduct(ctx context.Context, p Product) (Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	gallery, variants, err := encodeProductJSON(p)
	if err != nil {
		return Product{}, err
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO products (id, category_id, name, price, description, image_url, gallery, size, variants)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.CategoryID, p.Name, p.Price, p.Description, p.ImageURL, gallery, p.Size, variants)
	if err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

// UpdateProduct replaces the mutable fields of an existing product.
func (r *Repo) UpdateProduct(ctx context.Context, p Product) error {
	gallery, variants, err := encodeProductJSON(p)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE products
		 SET category_id = $2, name = $3, price = $4, description = $5,
		     image_url = $6, gallery = $7, size = $8, variants = $9, updated_at = now()
		 WHERE id = $1`,
		p.ID, p.CategoryID, p.Name, p.Price, p.Description, p.ImageURL, gallery, p.Size, variants)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProduct removes a product by id.
func (r *Repo) DeleteProduct(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListCategories returns categories in stable insertion order.
func (r *Repo) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, image_url FROM categories ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ImageURL); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CreateCategory inserts a category.
func (r *Repo) CreateCategory(ctx context.Context, c Category) (Category, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO categories (id, name, image_url) VALUES ($1, $2, $3)`,
		c.ID, c.Name, c.ImageURL)
	if err != nil {
		return Category{}, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

// UpdateCategory updates a category's fields.
func (r *Repo) UpdateCategory(ctx context.Context, c Category) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE categories SET name = $2, image_url = $3 WHERE id = $1`,
		c.ID, c.Name, c.ImageURL)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCategory removes a category by id.
func (r *Repo) DeleteCategory(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// settingsRowID pins all settings reads and writes to the single master row.
const settingsRowID = 1

// GetSettings loads the master settings row, falling back to defaults when
// the table is empty so the storefront keeps working on a fresh database.
func (r *Repo) GetSettings(ctx context.Context) (Settings, error) {
	var s Settings
	err := r.pool.QueryRow(ctx,
		`SELECT store_name, whatsapp_number, admin_password_hash, banner_url, banner_link,
		        logo_url, primary_color, secondary_color
		 FROM store_settings WHERE id = $1`, settingsRowID).
		Scan(&s.StoreName, &s.WhatsAppNumber, &s.AdminPasswordHash, &s.BannerURL,
			&s.BannerLink, &s.LogoURL, &s.PrimaryColor, &s.SecondaryColor)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DefaultSettings(), nil
		}
		return Settings{}, fmt.Errorf("get settings: %w", err)
	}
	return s, nil
}

// UpsertSettings writes the master settings row, creating it when absent.
func (r *Repo) UpsertSettings(ctx context.Context, s Settings) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO store_settings
		   (id, store_name, whatsapp_number, admin_password_hash, banner_url, banner_link,
		    logo_url, primary_color, secondary_color, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		 ON CONFLICT (id) DO UPDATE SET
		   store_name = EXCLUDED.store_name,
		   whatsapp_number = EXCLUDED.whatsapp_number,
		   admin_password_hash = EXCLUDED.admin_password_hash,
		   banner_url = EXCLUDED.banner_url,
		   banner_link = EXCLUDED.banner_link,
		   logo_url = EXCLUDED.logo_url,
		   primary_color = EXCLUDED.primary_color,
		   secondary_color = EXCLUDED.secondary_color,
		   updated_at = now()`,
		settingsRowID, s.StoreName, s.WhatsAppNumber, s.AdminPasswordHash, s.BannerURL,
		s.BannerLink, s.LogoURL, s.PrimaryColor, s.SecondaryColor)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}

func encodeProductJSON(p Product) (gallery, variants []byte, err error) {
	if p.Gallery == nil {
		p.Gallery = []string{}
	}
	if p.Variants == nil {
		p.Variants = []Variant{}
	}
	gallery, err = json.Marshal(p.Gallery)
	if err != nil {
		return nil, nil, fmt.Errorf("encode gallery: %w", err)
	}
	variants, err = json.Marshal(p.Variants)
	if err != nil {
		return nil, nil, fmt.Errorf("encode variants: %w", err)
	}
	return gallery, variants, nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var (
		p        Product
		gallery  []byte
		variants []byte
	)
	if err := row.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Price, &p.Description,
		&p.ImageURL, &gallery, &p.Size, &variants); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, err
		}
		return Product{}, fmt.Errorf("scan product: %w", err)
	}
	if len(gallery) > 0 {
		if err := json.Unmarshal(gallery, &p.Gallery); err != nil {
			return Product{}, fmt.Errorf("decode gallery: %w", err)
		}
	}
	if len(variants) > 0 {
		if err := json.Unmarshal(variants, &p.Variants); err != nil {
			return Product{}, fmt.Errorf("decode variants: %w", err)
		}
	}
	return p, nil
}
