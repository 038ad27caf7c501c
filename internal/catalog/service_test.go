package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-loja/internal/common"
	"github.com/noah-isme/backend-loja/internal/money"
)

type stubStore struct {
	products   []Product
	categories []Category
	settings   Settings

	listProductCalls int
	settingsCalls    int
	created          []Product
	updatedSettings  *Settings
	settingsErr      error
}

func (s *stubStore) ListProducts(context.Context) ([]Product, error) {
	s.listProductCalls++
	return s.products, nil
}

func (s *stubStore) GetProduct(_ context.Context, id string) (Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (s *stubStore) CreateProduct(_ context.Context, p Product) (Product, error) {
	s.created = append(s.created, p)
	s.products = append(s.products, p)
	return p, nil
}

func (s *stubStore) UpdateProduct(_ context.Context, p Product) error {
	for i := range s.products {
		if s.products[i].ID == p.ID {
			s.products[i] = p
			return nil
		}
	}
	return ErrNotFound
}

func (s *stubStore) DeleteProduct(_ context.Context, id string) error {
	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *stubStore) ListCategories(context.Context) ([]Category, error) {
	return s.categories, nil
}

func (s *stubStore) CreateCategory(_ context.Context, c Category) (Category, error) {
	s.categories = append(s.categories, c)
	return c, nil
}

func (s *stubStore) UpdateCategory(_ context.Context, c Category) error {
	for i := range s.categories {
		if s.categories[i].ID == c.ID {
			s.categories[i] = c
			return nil
		}
	}
	return ErrNotFound
}

func (s *stubStore) DeleteCategory(_ context.Context, id string) error {
	for i := range s.categories {
		if s.categories[i].ID == id {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *stubStore) GetSettings(context.Context) (Settings, error) {
	s.settingsCalls++
	if s.settingsErr != nil {
		return Settings{}, s.settingsErr
	}
	return s.settings, nil
}

func (s *stubStore) UpsertSettings(_ context.Context, settings Settings) error {
	s.updatedSettings = &settings
	s.settings = settings
	return nil
}

func newCacheForTest(t *testing.T) *Cache {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute)
}

func newServiceForTest(t *testing.T, store *stubStore) *Service {
	t.Helper()
	svc, err := NewService(ServiceConfig{
		Store: store,
		Cache: newCacheForTest(t),
		HashPassword: func(p string) (string, error) {
			return "hashed:" + p, nil
		},
	})
	require.NoError(t, err)
	return svc
}

func TestListProductsServesSecondReadFromCache(t *testing.T) {
	store := &stubStore{products: []Product{{ID: "p1", Name: "Bolo", Price: money.MustParse("25.00")}}}
	svc := newServiceForTest(t, store)

	first, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, store.listProductCalls)
}

func TestCreateProductInvalidatesProductCache(t *testing.T) {
	store := &stubStore{}
	svc := newServiceForTest(t, store)

	_, err := svc.ListProducts(context.Background())
	require.NoError(t, err)

	created, err := svc.CreateProduct(context.Background(), ProductInput{
		CategoryID: "c1",
		Name:       "Bolo",
		Price:      "25.00",
		Size:       "Único",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, money.MustParse("25.00"), created.Price)

	listed, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, 2, store.listProductCalls)
}

func TestCreateProductRejectsBadPrice(t *testing.T) {
	svc := newServiceForTest(t, &stubStore{})

	_, err := svc.CreateProduct(context.Background(), ProductInput{
		CategoryID: "c1",
		Name:       "Bolo",
		Price:      "abc",
	})
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "VALIDATION", appErr.Code)
}

func TestCreateProductAssignsVariantIDs(t *testing.T) {
	svc := newServiceForTest(t, &stubStore{})

	created, err := svc.CreateProduct(context.Background(), ProductInput{
		CategoryID: "c1",
		Name:       "Camiseta",
		Price:      "0",
		Variants: []VariantInput{
			{Name: "P", Price: "45.00"},
			{Name: "G", Price: "49.90"},
		},
	})
	require.NoError(t, err)
	require.Len(t, created.Variants, 2)
	require.NotEmpty(t, created.Variants[0].ID)
	require.NotEqual(t, created.Variants[0].ID, created.Variants[1].ID)
	require.Equal(t, money.MustParse("49.90"), created.Variants[1].Price)
}

func TestCreateProductRejectsDuplicateVariantIDs(t *testing.T) {
	svc := newServiceForTest(t, &stubStore{})

	_, err := svc.CreateProduct(context.Background(), ProductInput{
		CategoryID: "c1",
		Name:       "Camiseta",
		Price:      "0",
		Variants: []VariantInput{
			{ID: "v1", Name: "P", Price: "45.00"},
			{ID: "v1", Name: "G", Price: "49.90"},
		},
	})
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "VALIDATION", appErr.Code)
}

func TestGetProductNotFound(t *testing.T) {
	svc := newServiceForTest(t, &stubStore{})

	_, err := svc.GetProduct(context.Background(), "missing")
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestUpdateSettingsKeepsHashWhenPasswordOmitted(t *testing.T) {
	store := &stubStore{settings: Settings{StoreName: "Loja", AdminPasswordHash: "existing"}}
	svc := newServiceForTest(t, store)

	updated, err := svc.UpdateSettings(context.Background(), SettingsInput{
		StoreName:      "Loja Nova",
		WhatsAppNumber: " 5511999999999 ",
	})
	require.NoError(t, err)
	require.Equal(t, "existing", updated.AdminPasswordHash)
	require.Equal(t, "5511999999999", updated.WhatsAppNumber)
	require.NotNil(t, store.updatedSettings)
}

func TestUpdateSettingsHashesNewPassword(t *testing.T) {
	store := &stubStore{settings: Settings{StoreName: "Loja", AdminPasswordHash: "existing"}}
	svc := newServiceForTest(t, store)

	updated, err := svc.UpdateSettings(context.Background(), SettingsInput{
		StoreName:     "Loja",
		AdminPassword: "segredo",
	})
	require.NoError(t, err)
	require.Equal(t, "hashed:segredo", updated.AdminPasswordHash)
}

func TestGetSettingsCachedAndInvalidatedOnUpdate(t *testing.T) {
	store := &stubStore{settings: Settings{StoreName: "Loja"}}
	svc := newServiceForTest(t, store)

	_, err := svc.GetSettings(context.Background())
	require.NoError(t, err)
	_, err = svc.GetSettings(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, store.settingsCalls)

	_, err = svc.UpdateSettings(context.Background(), SettingsInput{StoreName: "Loja Nova"})
	require.NoError(t, err)

	fresh, err := svc.GetSettings(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Loja Nova", fresh.StoreName)
}

func TestGetSettingsCacheKeepsPasswordHash(t *testing.T) {
	store := &stubStore{settings: Settings{StoreName: "Loja", AdminPasswordHash: "secret-hash"}}
	svc := newServiceForTest(t, store)

	_, err := svc.GetSettings(context.Background())
	require.NoError(t, err)

	cached, err := svc.GetSettings(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, store.settingsCalls)
	require.Equal(t, "secret-hash", cached.AdminPasswordHash)
}

func TestGetSettingsPropagatesStoreError(t *testing.T) {
	store := &stubStore{settingsErr: errors.New("db down")}
	svc := newServiceForTest(t, store)

	_, err := svc.GetSettings(context.Background())
	require.Error(t, err)
}
