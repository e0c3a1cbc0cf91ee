// Package criteria persists saved search criteria records.
package criteria

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofedgroup/sourcing/internal/db"
	"github.com/gofedgroup/sourcing/internal/domain"
	domcrit "github.com/gofedgroup/sourcing/internal/domain/criteria"
)

// DefaultKeyPrefix namespaces all criteria keys.
const DefaultKeyPrefix = "sourcing:"

// store is the consumer interface for criteria persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}

// Repo stores saved search criteria as JSON values.
type Repo struct {
	store  store
	prefix string
}

// New creates a criteria repository.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// recordDTO is the stored JSON shape of a saved criteria record.
type recordDTO struct {
	ProjectName string      `json:"projectName,omitempty"`
	Email       string      `json:"email,omitempty"`
	Sectors     []string    `json:"sectors,omitempty"`
	Keywords    []string    `json:"keywords,omitempty"`
	BudgetTier  string      `json:"budgetTier,omitempty"`
	Territory   string      `json:"territory"`
	ImageURL    string      `json:"imageUrl,omitempty"`
	Combined    criteriaDTO `json:"combinedQuery"`
	CreatedAt   string      `json:"createdAt"`
}

type criteriaDTO struct {
	Keywords     []string `json:"keywords,omitempty"`
	ColorPalette []string `json:"colorPalette,omitempty"`
	Application  []string `json:"application,omitempty"`
	Performance  []string `json:"performance,omitempty"`
}

// Save persists a criteria record.
func (r *Repo) Save(ctx context.Context, rec *domcrit.Record) error {
	combined := rec.Combined()
	dto := recordDTO{
		ProjectName: rec.ProjectName(),
		Email:       rec.Email(),
		Sectors:     rec.Sectors(),
		Keywords:    rec.Keywords(),
		BudgetTier:  rec.BudgetTier(),
		Territory:   rec.Territory(),
		ImageURL:    rec.ImageURL(),
		Combined: criteriaDTO{
			Keywords:     combined.Keywords(),
			ColorPalette: combined.ColorPalette(),
			Application:  combined.Application(),
			Performance:  combined.Performance(),
		},
		CreatedAt: rec.CreatedAt().UTC().Format(time.RFC3339Nano),
	}
	data, err := json.Marshal(dto)
	if err != nil {
		return fmt.Errorf("marshal criteria %s: %w", rec.ID(), err)
	}
	if err := r.store.Set(ctx, r.key(rec.ID()), data); err != nil {
		return fmt.Errorf("set criteria %s: %w", rec.ID(), err)
	}
	return nil
}

// Get returns a saved criteria record by ID.
func (r *Repo) Get(ctx context.Context, id string) (domcrit.Record, error) {
	data, err := r.store.Get(ctx, r.key(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domcrit.Record{}, domain.ErrCriteriaNotFound
		}
		return domcrit.Record{}, fmt.Errorf("get criteria %s: %w", id, err)
	}

	var dto recordDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return domcrit.Record{}, fmt.Errorf("unmarshal criteria %s: %w", id, err)
	}

	createdAt, _ := time.Parse(time.RFC3339Nano, dto.CreatedAt)
	combined := domcrit.New(
		dto.Combined.Keywords, dto.Combined.ColorPalette,
		dto.Combined.Application, dto.Combined.Performance,
	)
	return domcrit.ReconstructRecord(
		id, dto.ProjectName, dto.Email, dto.Sectors, dto.Keywords,
		dto.BudgetTier, dto.Territory, dto.ImageURL, combined, createdAt,
	), nil
}

// Delete removes a saved criteria record.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, r.key(id)); err != nil {
		return fmt.Errorf("del criteria %s: %w", id, err)
	}
	return nil
}

func (r *Repo) key(id string) string { return r.prefix + "criteria:" + id }
