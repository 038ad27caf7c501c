package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-loja/internal/common"
	"github.com/noah-isme/backend-loja/internal/money"
)

// Store defines the persistence operations the catalog service requires.
type Store interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id string) (Product, error)
	CreateProduct(ctx context.Context, p Product) (Product, error)
	UpdateProduct(ctx context.Context, p Product) error
	DeleteProduct(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, c Category) (Category, error)
	UpdateCategory(ctx context.Context, c Category) error
	DeleteCategory(ctx context.Context, id string) error
	GetSettings(ctx context.Context) (Settings, error)
	UpsertSettings(ctx context.Context, s Settings) error
}

// Service orchestrates catalog reads and admin writes with caching.
type Service struct {
	store    Store
	cache    *Cache
	validate *validator.Validate
	hash     func(string) (string, error)
	logger   zerolog.Logger
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Store Store
	Cache *Cache
	// HashPassword hashes a new admin password on settings updates.
	HashPassword func(string) (string, error)
	Logger       zerolog.Logger
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("catalog: store is required")
	}
	return &Service{
		store:    cfg.Store,
		cache:    cfg.Cache,
		validate: validator.New(),
		hash:     cfg.HashPassword,
		logger:   cfg.Logger,
	}, nil
}

// ProductInput captures the admin payload for creating or updating a product.
// Prices arrive as decimal strings and are converted to minor units once.
type ProductInput struct {
	CategoryID  string         `json:"categoryId" validate:"required"`
	Name        string         `json:"name" validate:"required,min=1,max=200"`
	Price       string         `json:"price" validate:"required"`
	Description string         `json:"description" validate:"max=4000"`
	ImageURL    string         `json:"imageUrl" validate:"omitempty,url"`
	Gallery     []string       `json:"gallery" validate:"dive,url"`
	Size        string         `json:"size" validate:"max=100"`
	Variants    []VariantInput `json:"variants" validate:"dive"`
}

// VariantInput captures one variant of a product payload.
type VariantInput struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Price       string `json:"price" validate:"required"`
	Description string `json:"description" validate:"max=4000"`
}

// CategoryInput captures the admin payload for categories.
type CategoryInput struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	ImageURL string `json:"imageUrl" validate:"omitempty,url"`
}

// SettingsInput captures the admin payload for the settings upsert. The
// password is optional: when present it replaces the stored hash.
type SettingsInput struct {
	StoreName      string `json:"storeName" validate:"required,min=1,max=200"`
	WhatsAppNumber string `json:"whatsappNumber" validate:"max=30"`
	AdminPassword  string `json:"adminPassword" validate:"omitempty,min=6"`
	BannerURL      string `json:"bannerUrl" validate:"omitempty,url"`
	BannerLink     string `json:"bannerLink" validate:"omitempty,url"`
	LogoURL        string `json:"logoUrl" validate:"omitempty,url"`
	PrimaryColor   string `json:"primaryColor" validate:"omitempty,hexcolor"`
	SecondaryColor string `json:"secondaryColor" validate:"omitempty,hexcolor"`
}

// ListProducts returns the product list, served from cache when possible.
func (s *Service) ListProducts(ctx context.Context) ([]Product, error) {
	var cached []Product
	if hit, err := s.cache.GetJSON(ctx, cacheKeyProducts, &cached); err == nil && hit {
		return cached, nil
	} else if err != nil {
		s.logger.Warn().Err(err).Msg("catalog cache read")
	}
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetJSON(ctx, cacheKeyProducts, products); err != nil {
		s.logger.Warn().Err(err).Msg("catalog cache write")
	}
	return products, nil
}

// GetProduct loads a single product.
func (s *Service) GetProduct(ctx context.Context, id string) (Product, error) {
	p, err := s.store.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Product{}, common.NewAppError("NOT_FOUND", "product not found", http.StatusNotFound, err)
		}
		return Product{}, err
	}
	return p, nil
}

// CreateProduct validates and stores a new product.
func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (Product, error) {
	p, err := s.productFromInput(in)
	if err != nil {
		return Product{}, err
	}
	created, err := s.store.CreateProduct(ctx, p)
	if err != nil {
		return Product{}, err
	}
	s.invalidate(ctx, cacheKeyProducts)
	return created, nil
}

// UpdateProduct validates and replaces an existing product.
func (s *Service) UpdateProduct(ctx context.Context, id string, in ProductInput) (Product, error) {
	p, err := s.productFromInput(in)
	if err != nil {
		return Product{}, err
	}
	p.ID = id
	if err := s.store.UpdateProduct(ctx, p); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Product{}, common.NewAppError("NOT_FOUND", "product not found", http.StatusNotFound, err)
		}
		return Product{}, err
	}
	s.invalidate(ctx, cacheKeyProducts)
	return p, nil
}

// DeleteProduct removes a product.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return common.NewAppError("NOT_FOUND", "product not found", http.StatusNotFound, err)
		}
		return err
	}
	s.invalidate(ctx, cacheKeyProducts)
	return nil
}

// ListCategories returns categories, served from cache when possible.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	var cached []Category
	if hit, err := s.cache.GetJSON(ctx, cacheKeyCategories, &cached); err == nil && hit {
		return cached, nil
	} else if err != nil {
		s.logger.Warn().Err(err).Msg("catalog cache read")
	}
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetJSON(ctx, cacheKeyCategories, categories); err != nil {
		s.logger.Warn().Err(err).Msg("catalog cache write")
	}
	return categories, nil
}

// CreateCategory validates and stores a category.
func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (Category, error) {
	if err := s.validate.Struct(in); err != nil {
		return Category{}, invalidInput(err)
	}
	created, err := s.store.CreateCategory(ctx, Category{Name: in.Name, ImageURL: in.ImageURL})
	if err != nil {
		return Category{}, err
	}
	s.invalidate(ctx, cacheKeyCategories)
	return created, nil
}

// UpdateCategory validates and replaces a category.
func (s *Service) UpdateCategory(ctx context.Context, id string, in CategoryInput) (Category, error) {
	if err := s.validate.Struct(in); err != nil {
		return Category{}, invalidInput(err)
	}
	c := Category{ID: id, Name: in.Name, ImageURL: in.ImageURL}
	if err := s.store.UpdateCategory(ctx, c); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Category{}, common.NewAppError("NOT_FOUND", "category not found", http.StatusNotFound, err)
		}
		return Category{}, err
	}
	s.invalidate(ctx, cacheKeyCategories)
	return c, nil
}

// DeleteCategory removes a category.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return common.NewAppError("NOT_FOUND", "category not found", http.StatusNotFound, err)
		}
		return err
	}
	s.invalidate(ctx, cacheKeyCategories)
	return nil
}

// settingsCacheEntry carries the settings row through the cache. Settings
// itself hides the password hash from JSON, so it cannot round-trip directly.
type settingsCacheEntry struct {
	Settings
	PasswordHash string `json:"passwordHash"`
}

// GetSettings returns the full settings row, cached. Callers exposing this to
// the storefront must use Settings.Public.
func (s *Service) GetSettings(ctx context.Context) (Settings, error) {
	var cached settingsCacheEntry
	if hit, err := s.cache.GetJSON(ctx, cacheKeySettings, &cached); err == nil && hit {
		cached.Settings.AdminPasswordHash = cached.PasswordHash
		return cached.Settings, nil
	} else if err != nil {
		s.logger.Warn().Err(err).Msg("settings cache read")
	}
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return Settings{}, err
	}
	entry := settingsCacheEntry{Settings: settings, PasswordHash: settings.AdminPasswordHash}
	if err := s.cache.SetJSON(ctx, cacheKeySettings, entry); err != nil {
		s.logger.Warn().Err(err).Msg("settings cache write")
	}
	return settings, nil
}

// UpdateSettings validates and upserts the master settings row. A new admin
// password, when supplied, is hashed before it is stored.
func (s *Service) UpdateSettings(ctx context.Context, in SettingsInput) (Settings, error) {
	if err := s.validate.Struct(in); err != nil {
		return Settings{}, invalidInput(err)
	}
	current, err := s.store.GetSettings(ctx)
	if err != nil {
		return Settings{}, err
	}
	next := Settings{
		StoreName:         in.StoreName,
		WhatsAppNumber:    strings.TrimSpace(in.WhatsAppNumber),
		AdminPasswordHash: current.AdminPasswordHash,
		BannerURL:         in.BannerURL,
		BannerLink:        in.BannerLink,
		LogoURL:           in.LogoURL,
		PrimaryColor:      in.PrimaryColor,
		SecondaryColor:    in.SecondaryColor,
	}
	if in.AdminPassword != "" {
		if s.hash == nil {
			return Settings{}, errors.New("catalog: password hasher not configured")
		}
		hashed, err := s.hash(in.AdminPassword)
		if err != nil {
			return Settings{}, fmt.Errorf("hash admin password: %w", err)
		}
		next.AdminPasswordHash = hashed
	}
	if err := s.store.UpsertSettings(ctx, next); err != nil {
		return Settings{}, err
	}
	s.invalidate(ctx, cacheKeySettings)
	return next, nil
}

func (s *Service) productFromInput(in ProductInput) (Product, error) {
	if err := s.validate.Struct(in); err != nil {
		return Product{}, invalidInput(err)
	}
	price, err := money.Parse(in.Price)
	if err != nil || price < 0 {
		return Product{}, common.NewAppError("VALIDATION", "invalid product price", http.StatusBadRequest, err)
	}
	p := Product{
		CategoryID:  in.CategoryID,
		Name:        in.Name,
		Price:       price,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Gallery:     in.Gallery,
		Size:        strings.TrimSpace(in.Size),
	}
	seen := map[string]struct{}{}
	for _, v := range in.Variants {
		vp, err := money.Parse(v.Price)
		if err != nil || vp < 0 {
			return Product{}, common.NewAppError("VALIDATION", fmt.Sprintf("invalid price for variant %q", v.Name), http.StatusBadRequest, err)
		}
		id := v.ID
		if id == "" {
			id = newVariantID()
		}
		if _, dup := seen[id]; dup {
			return Product{}, common.NewAppError("VALIDATION", fmt.Sprintf("duplicate variant id %q", id), http.StatusBadRequest, nil)
		}
		seen[id] = struct{}{}
		p.Variants = append(p.Variants, Variant{
			ID:          id,
			Name:        v.Name,
			Price:       vp,
			Description: v.Description,
		})
	}
	return p, nil
}

func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.logger.Warn().Err(err).Msg("catalog cache invalidate")
	}
}

func newVariantID() string {
	return uuid.NewString()
}

func invalidInput(err error) error {
	return common.NewAppError("VALIDATION", "invalid payload", http.StatusBadRequest, err)
}
