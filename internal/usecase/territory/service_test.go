package territory

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/gofedgroup/sourcing/internal/domain"
	"github.com/gofedgroup/sourcing/internal/domain/criteria"
	"github.com/gofedgroup/sourcing/internal/domain/product"
	"github.com/gofedgroup/sourcing/internal/domain/search/filter"
	domterr "github.com/gofedgroup/sourcing/internal/domain/territory"
)

// --- Mocks ---

type mockConfigRepo struct {
	configs []domterr.BrandConfig
	err     error
	upserts []domterr.BrandConfig
	deleted []string
}

func (m *mockConfigRepo) UpsertBrandConfig(_ context.Context, cfg *domterr.BrandConfig) error {
	m.upserts = append(m.upserts, *cfg)
	return m.err
}

func (m *mockConfigRepo) GetBrandConfig(_ context.Context, brandName string) (domterr.BrandConfig, bool, error) {
	if m.err != nil {
		return domterr.BrandConfig{}, false, m.err
	}
	for _, c := range m.configs {
		if c.BrandName() == brandName {
			return c, true, nil
		}
	}
	return domterr.BrandConfig{}, false, nil
}

func (m *mockConfigRepo) AllBrandConfigs(_ context.Context) ([]domterr.BrandConfig, error) {
	return m.configs, m.err
}

func (m *mockConfigRepo) DeleteBrandConfig(_ context.Context, brandName string) error {
	m.deleted = append(m.deleted, brandName)
	return m.err
}

type mockTerritoryRepo struct {
	territories []domterr.Territory
	err         error
	upserts     []domterr.Territory
}

func (m *mockTerritoryRepo) UpsertTerritory(_ context.Context, t *domterr.Territory) error {
	m.upserts = append(m.upserts, *t)
	return m.err
}

func (m *mockTerritoryRepo) AllTerritories(_ context.Context) ([]domterr.Territory, error) {
	return m.territories, m.err
}

type mockCatalog struct {
	products   map[string][]product.Product
	err        error
	lastBrands []string
	upserts    []product.Product
}

func (m *mockCatalog) Get(_ context.Context, id string) (product.Product, error) {
	if m.err != nil {
		return product.Product{}, m.err
	}
	for _, ps := range m.products {
		for _, p := range ps {
			if p.ID() == id {
				return p, nil
			}
		}
	}
	return product.Product{}, domain.ErrProductNotFound
}

func (m *mockCatalog) FetchByBrands(_ context.Context, brands []string) ([]product.Product, error) {
	m.lastBrands = brands
	if m.err != nil {
		return nil, m.err
	}
	var out []product.Product
	for _, b := range brands {
		out = append(out, m.products[b]...)
	}
	return out, nil
}

func (m *mockCatalog) Upsert(_ context.Context, p *product.Product) error {
	m.upserts = append(m.upserts, *p)
	return m.err
}

func makeProduct(t *testing.T, id, brand string, keywords []string) product.Product {
	t.Helper()
	p, err := product.New(product.Fields{
		ID: id, ProductName: "Product " + id, BrandName: brand, Keywords: keywords,
	})
	if err != nil {
		t.Fatalf("product.New: %v", err)
	}
	return p
}

func mustConfig(t *testing.T, brand string, codes []string) domterr.BrandConfig {
	t.Helper()
	cfg, err := domterr.NewBrandConfig(brand, codes)
	if err != nil {
		t.Fatalf("NewBrandConfig: %v", err)
	}
	return cfg
}

// --- Tests ---

func TestBrandsForTerritory(t *testing.T) {
	configs := &mockConfigRepo{configs: []domterr.BrandConfig{
		mustConfig(t, "Acme", []string{"NY", "CA"}),
		mustConfig(t, "Globex", []string{"TX"}),
	}}
	svc := New(configs, &mockTerritoryRepo{}, &mockCatalog{}, &mockCatalog{}, nil)

	brands, err := svc.BrandsForTerritory(context.Background(), "ny")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(brands, []string{"Acme"}) {
		t.Errorf("brands = %v, want [Acme]", brands)
	}
}

func TestBrandsForTerritory_UnknownCode(t *testing.T) {
	configs := &mockConfigRepo{configs: []domterr.BrandConfig{
		mustConfig(t, "Acme", []string{"NY"}),
	}}
	svc := New(configs, &mockTerritoryRepo{}, &mockCatalog{}, &mockCatalog{}, nil)

	brands, err := svc.BrandsForTerritory(context.Background(), "ZZ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(brands) != 0 {
		t.Errorf("brands = %v, want empty for unknown territory", brands)
	}
}

func TestProductsForTerritory_AppliesFilter(t *testing.T) {
	configs := &mockConfigRepo{configs: []domterr.BrandConfig{
		mustConfig(t, "Acme", []string{"NY"}),
	}}
	catalog := &mockCatalog{products: map[string][]product.Product{
		"Acme": {
			makeProduct(t, "1", "Acme", []string{"Minimal"}),
			makeProduct(t, "2", "Acme", []string{"Industrial"}),
		},
	}}
	svc := New(configs, &mockTerritoryRepo{}, catalog, &mockCatalog{}, nil)

	c := criteria.New([]string{"Minimal"}, nil, nil, nil)
	products, err := svc.ProductsForTerritory(context.Background(), "NY", filter.Build(&c))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 1 || products[0].ID() != "1" {
		t.Errorf("products = %v, want [1]", products)
	}
}

func TestProductsForTerritory_NoBrandsSkipsCatalog(t *testing.T) {
	catalog := &mockCatalog{}
	svc := New(&mockConfigRepo{}, &mockTerritoryRepo{}, catalog, &mockCatalog{}, nil)

	products, err := svc.ProductsForTerritory(context.Background(), "ZZ", filter.Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if products != nil {
		t.Errorf("products = %v, want nil", products)
	}
	if catalog.lastBrands != nil {
		t.Error("catalog must not be queried when no brands cover the territory")
	}
}

func TestIsAvailable(t *testing.T) {
	configs := &mockConfigRepo{configs: []domterr.BrandConfig{
		mustConfig(t, "Acme", []string{"NY"}),
	}}
	catalog := &mockCatalog{products: map[string][]product.Product{
		"Acme":   {makeProduct(t, "prod-123", "Acme", nil)},
		"NoConf": {makeProduct(t, "prod-456", "NoConf", nil)},
	}}
	svc := New(configs, &mockTerritoryRepo{}, catalog, &mockCatalog{}, nil)

	ok, err := svc.IsAvailable(context.Background(), "prod-123", "ny")
	if err != nil || !ok {
		t.Errorf("IsAvailable(prod-123, ny) = %v, %v; want true", ok, err)
	}

	ok, err = svc.IsAvailable(context.Background(), "prod-123", "TX")
	if err != nil || ok {
		t.Errorf("IsAvailable(prod-123, TX) = %v, %v; want false", ok, err)
	}

	ok, err = svc.IsAvailable(context.Background(), "prod-456", "NY")
	if err != nil || ok {
		t.Errorf("unconfigured brand: IsAvailable = %v, %v; want false", ok, err)
	}
}

func TestIsAvailable_UnknownProduct(t *testing.T) {
	configs := &mockConfigRepo{configs: []domterr.BrandConfig{
		mustConfig(t, "Acme", []string{"NY"}),
	}}
	svc := New(configs, &mockTerritoryRepo{}, &mockCatalog{}, &mockCatalog{}, nil)

	ok, err := svc.IsAvailable(context.Background(), "missing", "NY")
	if err != nil {
		t.Fatalf("unknown product must not error: %v", err)
	}
	if ok {
		t.Error("unknown product must not be available")
	}
}

func TestSetBrandTerritories_Normalizes(t *testing.T) {
	configs := &mockConfigRepo{}
	svc := New(configs, &mockTerritoryRepo{}, &mockCatalog{}, &mockCatalog{}, nil)

	cfg, err := svc.SetBrandTerritories(context.Background(), "Acme", []string{"NY", "ny", "NY"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(cfg.Territories(), []string{"NY"}) {
		t.Errorf("Territories() = %v, want [NY]", cfg.Territories())
	}
	if len(configs.upserts) != 1 {
		t.Fatalf("expected 1 upsert, got %d", len(configs.upserts))
	}

	// Repeating the call with the same input leaves the stored state unchanged.
	again, err := svc.SetBrandTerritories(context.Background(), "Acme", []string{"NY", "ny", "NY"})
	if err != nil {
		t.Fatalf("unexpected error on repeat: %v", err)
	}
	if !reflect.DeepEqual(again.Territories(), []string{"NY"}) {
		t.Errorf("repeat Territories() = %v, want [NY]", again.Territories())
	}
	if len(configs.upserts) != 2 {
		t.Fatalf("expected 2 upserts, got %d", len(configs.upserts))
	}
	if !reflect.DeepEqual(configs.upserts[0].Territories(), configs.upserts[1].Territories()) {
		t.Errorf("stored state changed on repeat: %v vs %v",
			configs.upserts[0].Territories(), configs.upserts[1].Territories())
	}
}

func TestSyncProductTerritories(t *testing.T) {
	configs := &mockConfigRepo{configs: []domterr.BrandConfig{
		mustConfig(t, "Acme", []string{"NY", "CA"}),
	}}
	catalog := &mockCatalog{products: map[string][]product.Product{
		"Acme": {
			makeProduct(t, "1", "Acme", nil),
			makeProduct(t, "2", "Acme", nil),
		},
	}}
	writer := &mockCatalog{}
	svc := New(configs, &mockTerritoryRepo{}, catalog, writer, nil)

	updated, err := svc.SyncProductTerritories(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated != 2 {
		t.Errorf("updated = %d, want 2", updated)
	}
	for _, p := range writer.upserts {
		if !reflect.DeepEqual(p.AvailableTerritories(), []string{"NY", "CA"}) {
			t.Errorf("territories = %v, want [NY CA]", p.AvailableTerritories())
		}
	}
}

func TestListTerritories_ActiveSorted(t *testing.T) {
	repo := &mockTerritoryRepo{territories: []domterr.Territory{
		domterr.ReconstructTerritory("TX", "Texas", "South", true),
		domterr.ReconstructTerritory("XX", "Closed", "South", false),
		domterr.ReconstructTerritory("MA", "Massachusetts", "Northeast", true),
	}}
	svc := New(&mockConfigRepo{}, repo, &mockCatalog{}, &mockCatalog{}, nil)

	got, err := svc.ListTerritories(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 active territories, got %d", len(got))
	}
	if got[0].Code() != "MA" || got[1].Code() != "TX" {
		t.Errorf("order = [%s, %s], want [MA, TX]", got[0].Code(), got[1].Code())
	}
}

func TestBrandsForTerritory_StoreError(t *testing.T) {
	wantErr := errors.New("boom")
	svc := New(&mockConfigRepo{err: wantErr}, &mockTerritoryRepo{}, &mockCatalog{}, &mockCatalog{}, nil)

	_, err := svc.BrandsForTerritory(context.Background(), "NY")
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want wrapped store error", err)
	}
}
