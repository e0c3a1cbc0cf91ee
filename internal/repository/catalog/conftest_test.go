package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/gofedgroup/sourcing/internal/domain/product"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	getFn       func(ctx context.Context, key string) ([]byte, error)
	getMultiFn  func(ctx context.Context, keys []string) ([][]byte, error)
	setFn       func(ctx context.Context, key string, value []byte) error
	delFn       func(ctx context.Context, key string) error
	saddFn      func(ctx context.Context, key string, members ...string) error
	sremFn      func(ctx context.Context, key string, members ...string) error
	smembersFn  func(ctx context.Context, key string) ([]string, error)
	zaddFn      func(ctx context.Context, key string, score float64, member string) error
	zremFn      func(ctx context.Context, key string, member string) error
	zrevRangeFn func(ctx context.Context, key string, offset, count int) ([]string, error)
	zcardFn     func(ctx context.Context, key string) (int, error)
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, nil
}

func (m *mockStore) GetMulti(ctx context.Context, keys []string) ([][]byte, error) {
	if m.getMultiFn != nil {
		return m.getMultiFn(ctx, keys)
	}
	return nil, nil
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) SAdd(ctx context.Context, key string, members ...string) error {
	if m.saddFn != nil {
		return m.saddFn(ctx, key, members...)
	}
	return nil
}

func (m *mockStore) SRem(ctx context.Context, key string, members ...string) error {
	if m.sremFn != nil {
		return m.sremFn(ctx, key, members...)
	}
	return nil
}

func (m *mockStore) SMembers(ctx context.Context, key string) ([]string, error) {
	if m.smembersFn != nil {
		return m.smembersFn(ctx, key)
	}
	return nil, nil
}

func (m *mockStore) ZAdd(ctx context.Context, key string, score float64, member string) error {
	if m.zaddFn != nil {
		return m.zaddFn(ctx, key, score, member)
	}
	return nil
}

func (m *mockStore) ZRem(ctx context.Context, key string, member string) error {
	if m.zremFn != nil {
		return m.zremFn(ctx, key, member)
	}
	return nil
}

func (m *mockStore) ZRevRange(ctx context.Context, key string, offset, count int) ([]string, error) {
	if m.zrevRangeFn != nil {
		return m.zrevRangeFn(ctx, key, offset, count)
	}
	return nil, nil
}

func (m *mockStore) ZCard(ctx context.Context, key string) (int, error) {
	if m.zcardFn != nil {
		return m.zcardFn(ctx, key)
	}
	return 0, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, "")
	return repo, ms
}

func testProduct(t *testing.T, id, brand string) product.Product {
	t.Helper()
	return product.Reconstruct(product.Fields{
		ID:                   id,
		ProductName:          "Oak Veneer",
		BrandName:            brand,
		Application:          "Wallcovering",
		Keywords:             []string{"Minimal", "Textural"},
		ColorPalette:         []string{"Warm Neutrals"},
		AvailableTerritories: []string{"NY"},
		CreatedAt:            time.Unix(1700000000, 0).UTC(),
	})
}
