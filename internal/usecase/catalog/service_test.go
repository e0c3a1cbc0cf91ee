package catalog

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/gofedgroup/sourcing/internal/domain"
	"github.com/gofedgroup/sourcing/internal/domain/product"
	domterr "github.com/gofedgroup/sourcing/internal/domain/territory"
)

// --- Mocks ---

type mockRepo struct {
	byID    map[string]product.Product
	upserts []product.Product
	deleted []string
	listed  []product.Product
	total   int
	err     error
}

func newMockRepo() *mockRepo {
	return &mockRepo{byID: make(map[string]product.Product)}
}

func (m *mockRepo) Upsert(_ context.Context, p *product.Product) error {
	if m.err != nil {
		return m.err
	}
	m.upserts = append(m.upserts, *p)
	m.byID[p.ID()] = *p
	return nil
}

func (m *mockRepo) Get(_ context.Context, id string) (product.Product, error) {
	if m.err != nil {
		return product.Product{}, m.err
	}
	p, ok := m.byID[id]
	if !ok {
		return product.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return m.err
}

func (m *mockRepo) List(_ context.Context, _, _ int) ([]product.Product, int, error) {
	return m.listed, m.total, m.err
}

type mockBrands struct {
	cfg   domterr.BrandConfig
	found bool
	err   error
}

func (m *mockBrands) GetBrandConfig(_ context.Context, _ string) (domterr.BrandConfig, bool, error) {
	return m.cfg, m.found, m.err
}

// --- Tests ---

func TestCreate_GeneratesIDAndTerritories(t *testing.T) {
	repo := newMockRepo()
	cfg, _ := domterr.NewBrandConfig("Acme", []string{"NY", "CA"})
	svc := New(repo, &mockBrands{cfg: cfg, found: true}, nil)

	p, err := svc.Create(context.Background(), product.Fields{
		ProductName: "Rug", BrandName: "Acme",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID() == "" {
		t.Error("expected generated ID")
	}
	if !reflect.DeepEqual(p.AvailableTerritories(), []string{"NY", "CA"}) {
		t.Errorf("territories = %v, want brand config applied", p.AvailableTerritories())
	}
	if len(repo.upserts) != 1 {
		t.Fatalf("expected 1 upsert, got %d", len(repo.upserts))
	}
}

func TestCreate_ExplicitTerritoriesWin(t *testing.T) {
	repo := newMockRepo()
	cfg, _ := domterr.NewBrandConfig("Acme", []string{"NY"})
	svc := New(repo, &mockBrands{cfg: cfg, found: true}, nil)

	p, err := svc.Create(context.Background(), product.Fields{
		ProductName: "Rug", BrandName: "Acme", AvailableTerritories: []string{"TX"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(p.AvailableTerritories(), []string{"TX"}) {
		t.Errorf("territories = %v, want explicit [TX]", p.AvailableTerritories())
	}
}

func TestCreate_InvalidFields(t *testing.T) {
	svc := New(newMockRepo(), &mockBrands{}, nil)

	_, err := svc.Create(context.Background(), product.Fields{BrandName: "Acme"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestUpdate_KeepsCreatedAt(t *testing.T) {
	repo := newMockRepo()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	existing, _ := product.New(product.Fields{
		ID: "p1", ProductName: "Rug", BrandName: "Acme", CreatedAt: created,
	})
	repo.byID["p1"] = existing
	svc := New(repo, &mockBrands{}, nil)

	updated, err := svc.Update(context.Background(), "p1", product.Fields{
		ProductName: "Rug v2", BrandName: "Acme",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ProductName() != "Rug v2" {
		t.Errorf("ProductName = %s", updated.ProductName())
	}
	if !updated.CreatedAt().Equal(created) {
		t.Errorf("CreatedAt = %v, want original %v", updated.CreatedAt(), created)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc := New(newMockRepo(), &mockBrands{}, nil)

	_, err := svc.Update(context.Background(), "missing", product.Fields{
		ProductName: "Rug", BrandName: "Acme",
	})
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("err = %v, want ErrProductNotFound", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, &mockBrands{}, nil)

	err := svc.Delete(context.Background(), "missing")
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("err = %v, want ErrProductNotFound", err)
	}
	if len(repo.deleted) != 0 {
		t.Error("delete must not reach the store for a missing product")
	}
}

func TestList_Pagination(t *testing.T) {
	repo := newMockRepo()
	repo.total = 101
	svc := New(repo, &mockBrands{}, nil)

	page, err := svc.List(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Page != 1 || page.Limit != defaultPageSize {
		t.Errorf("page/limit = %d/%d, want defaults applied", page.Page, page.Limit)
	}
	if page.Pages != 3 {
		t.Errorf("Pages = %d, want 3 for 101 items at %d per page", page.Pages, defaultPageSize)
	}

	page, err = svc.List(context.Background(), 1, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Limit != maxPageSize {
		t.Errorf("Limit = %d, want clamped to %d", page.Limit, maxPageSize)
	}
}
