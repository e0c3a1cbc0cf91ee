package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofedgroup/sourcing/internal/domain"
	domcrit "github.com/gofedgroup/sourcing/internal/domain/criteria"
	"github.com/gofedgroup/sourcing/internal/domain/product"
	"github.com/gofedgroup/sourcing/internal/domain/search/filter"
	"github.com/gofedgroup/sourcing/internal/domain/search/scoring"
	"github.com/gofedgroup/sourcing/internal/repository/blob"
	"github.com/gofedgroup/sourcing/internal/transport/webhook"
	"github.com/gofedgroup/sourcing/internal/usecase/extraction"
)

// --- Mocks ---

type mockExtractor struct {
	criteria domcrit.Criteria
	err      error
	lastIn   extraction.Input
}

func (m *mockExtractor) Extract(_ context.Context, in extraction.Input) (domcrit.Criteria, error) {
	m.lastIn = in
	return m.criteria, m.err
}

type mockTerritory struct {
	products []product.Product
	err      error
	lastCode string
}

func (m *mockTerritory) ProductsForTerritory(
	_ context.Context, code string, _ filter.Filter,
) ([]product.Product, error) {
	m.lastCode = code
	return m.products, m.err
}

type mockBlobStore struct {
	uploadErr error
	uploaded  [][]byte
	deleted   []string
}

func (m *mockBlobStore) Upload(_ context.Context, data []byte, _ string) (blob.Blob, error) {
	if m.uploadErr != nil {
		return blob.Blob{}, m.uploadErr
	}
	m.uploaded = append(m.uploaded, data)
	return blob.Blob{Key: "blob-key", URL: "http://localhost/uploads/blob-key"}, nil
}

func (m *mockBlobStore) Delete(_ context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	return nil
}

type mockRecords struct {
	saveErr error
	saved   []domcrit.Record
	record  domcrit.Record
	getErr  error
}

func (m *mockRecords) Save(_ context.Context, rec *domcrit.Record) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, *rec)
	return nil
}

func (m *mockRecords) Get(_ context.Context, _ string) (domcrit.Record, error) {
	return m.record, m.getErr
}

type mockNotifier struct {
	enabled bool
	leads   chan webhook.Lead
	err     error
}

func newMockNotifier(enabled bool) *mockNotifier {
	return &mockNotifier{enabled: enabled, leads: make(chan webhook.Lead, 1)}
}

func (m *mockNotifier) Enabled() bool { return m.enabled }

func (m *mockNotifier) Notify(_ context.Context, lead webhook.Lead) error {
	m.leads <- lead
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

func defaultCriteria() domcrit.Criteria {
	return domcrit.New([]string{"Minimal"}, []string{"Cream"}, []string{"Carpet"}, nil)
}

func newService(
	ext *mockExtractor, terr *mockTerritory, blobs *mockBlobStore,
	records *mockRecords, notifier *mockNotifier, opts Options,
) *Service {
	var n Notifier
	if notifier != nil {
		n = notifier
	}
	return New(ext, terr, blobs, records, n, opts, nil)
}

// --- Tests ---

func TestSearch_TextOnly(t *testing.T) {
	ext := &mockExtractor{criteria: defaultCriteria()}
	terr := &mockTerritory{products: []product.Product{
		makeProduct(t, "1", "Acme", []string{"Minimal"}),
	}}
	blobs := &mockBlobStore{}
	records := &mockRecords{}
	svc := newService(ext, terr, blobs, records, nil, Options{})

	out, err := svc.Search(context.Background(), Input{
		Territory: "NY",
		Keywords:  "minimal, warm wood",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.CriteriaID == "" {
		t.Error("expected a criteria ID")
	}
	if out.Total != 1 {
		t.Errorf("Total = %d, want 1", out.Total)
	}
	if len(blobs.uploaded) != 0 {
		t.Error("no image must mean no blob upload")
	}
	if len(ext.lastIn.Keywords) != 2 {
		t.Errorf("normalized keywords = %v, want 2 entries", ext.lastIn.Keywords)
	}
	if terr.lastCode != "NY" {
		t.Errorf("territory code = %s, want NY", terr.lastCode)
	}
	if len(records.saved) != 1 {
		t.Fatalf("expected 1 saved record, got %d", len(records.saved))
	}
	if records.saved[0].Territory() != "NY" {
		t.Errorf("record territory = %s, want NY", records.saved[0].Territory())
	}
}

func TestSearch_ImageUploadAndCleanup(t *testing.T) {
	ext := &mockExtractor{criteria: defaultCriteria()}
	terr := &mockTerritory{}
	blobs := &mockBlobStore{}
	svc := newService(ext, terr, blobs, &mockRecords{}, nil, Options{})

	_, err := svc.Search(context.Background(), Input{
		Territory: "NY",
		Image:     []byte("fake image"),
		ImageName: "room.jpg",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(blobs.uploaded) != 1 {
		t.Fatalf("expected 1 upload, got %d", len(blobs.uploaded))
	}
	if len(blobs.deleted) != 1 || blobs.deleted[0] != "blob-key" {
		t.Errorf("deleted = %v, want [blob-key]", blobs.deleted)
	}
	if ext.lastIn.ImageURL != "http://localhost/uploads/blob-key" {
		t.Errorf("extractor image URL = %s", ext.lastIn.ImageURL)
	}
}

func TestSearch_CleanupOnExtractionFailure(t *testing.T) {
	ext := &mockExtractor{err: domain.NewUpstreamError(500, "boom")}
	blobs := &mockBlobStore{}
	svc := newService(ext, &mockTerritory{}, blobs, &mockRecords{}, nil, Options{})

	_, err := svc.Search(context.Background(), Input{
		Territory: "NY",
		Image:     []byte("fake image"),
	})
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("err = %v, want ErrUpstreamUnavailable", err)
	}
	if len(blobs.deleted) != 1 {
		t.Errorf("blob must be cleaned up on failure, deleted = %v", blobs.deleted)
	}
}

func TestSearch_ValidatesInput(t *testing.T) {
	svc := newService(&mockExtractor{}, &mockTerritory{}, &mockBlobStore{}, &mockRecords{}, nil, Options{})

	_, err := svc.Search(context.Background(), Input{Keywords: "minimal"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("missing territory: err = %v, want ErrInvalidInput", err)
	}

	_, err = svc.Search(context.Background(), Input{Territory: "NY"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("no image and no keywords: err = %v, want ErrInvalidInput", err)
	}
}

func TestSearch_ThresholdSortCapGroup(t *testing.T) {
	ext := &mockExtractor{criteria: domcrit.New(
		[]string{"Minimal", "Luxe"}, nil, nil, nil,
	)}
	terr := &mockTerritory{products: []product.Product{
		makeProduct(t, "low", "Acme", nil),                          // score 0, dropped
		makeProduct(t, "half", "Acme", []string{"Minimal"}),         // 0.175
		makeProduct(t, "full", "Globex", []string{"Minimal", "Luxe"}), // 0.35
		makeProduct(t, "half2", "Acme", []string{"Luxe"}),           // 0.175
	}}
	svc := newService(ext, terr, &mockBlobStore{}, &mockRecords{}, nil, Options{
		Weights:    scoring.DefaultWeights(),
		MinScore:   0.1,
		MaxResults: 2,
	})

	out, err := svc.Search(context.Background(), Input{Territory: "NY", Keywords: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Total != 2 {
		t.Fatalf("Total = %d, want 2 (capped)", out.Total)
	}
	if len(out.Groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(out.Groups))
	}
	// Best score first; its brand leads the grouping.
	if out.Groups[0].Brand != "Globex" {
		t.Errorf("first group = %s, want Globex", out.Groups[0].Brand)
	}
	if out.Groups[0].Products[0].Product().ID() != "full" {
		t.Errorf("top result = %s, want full", out.Groups[0].Products[0].Product().ID())
	}
	// Equal scores keep catalog order: "half" before "half2", and only one fits the cap.
	if out.Groups[1].Products[0].Product().ID() != "half" {
		t.Errorf("second result = %s, want half", out.Groups[1].Products[0].Product().ID())
	}
}

func TestSearch_ZeroOptionsApplyDefaultThreshold(t *testing.T) {
	// One of four criteria keywords matches: score 0.0875, below the
	// default 0.1 threshold.
	ext := &mockExtractor{criteria: domcrit.New(
		[]string{"Minimal", "Luxe", "Textural", "Organic"}, nil, nil, nil,
	)}
	terr := &mockTerritory{products: []product.Product{
		makeProduct(t, "faint", "Acme", []string{"Minimal"}),
	}}
	svc := newService(ext, terr, &mockBlobStore{}, &mockRecords{}, nil, Options{})

	out, err := svc.Search(context.Background(), Input{Territory: "NY", Keywords: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Total != 0 {
		t.Errorf("Total = %d, want 0 (weak match dropped by the default threshold)", out.Total)
	}
}

func TestSearch_WebhookFireAndForget(t *testing.T) {
	notifier := newMockNotifier(true)
	notifier.err = errors.New("delivery failed")
	ext := &mockExtractor{criteria: defaultCriteria()}
	svc := newService(ext, &mockTerritory{}, &mockBlobStore{}, &mockRecords{}, notifier, Options{})

	_, err := svc.Search(context.Background(), Input{
		Territory: "NY",
		Keywords:  "minimal",
		Email:     "designer@example.com",
	})
	if err != nil {
		t.Fatalf("webhook failure must not fail the search: %v", err)
	}

	select {
	case lead := <-notifier.leads:
		if lead.Email != "designer@example.com" {
			t.Errorf("lead email = %s", lead.Email)
		}
	case <-time.After(time.Second):
		t.Fatal("expected webhook notification")
	}
}

func TestSearch_NoWebhookWithoutEmail(t *testing.T) {
	notifier := newMockNotifier(true)
	ext := &mockExtractor{criteria: defaultCriteria()}
	svc := newService(ext, &mockTerritory{}, &mockBlobStore{}, &mockRecords{}, notifier, Options{})

	_, err := svc.Search(context.Background(), Input{Territory: "NY", Keywords: "minimal"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case <-notifier.leads:
		t.Fatal("no email means no lead notification")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSearchByCriteria(t *testing.T) {
	record := domcrit.ReconstructRecord(
		"crit-1", "Lobby Refresh", "a@b.c", []string{"Hospitality"}, []string{"minimal"},
		"mid", "NY", "", defaultCriteria(), time.Now(),
	)
	terr := &mockTerritory{products: []product.Product{
		makeProduct(t, "1", "Acme", []string{"Minimal"}),
	}}
	svc := newService(&mockExtractor{}, terr, &mockBlobStore{}, &mockRecords{record: record}, nil, Options{})

	out, err := svc.SearchByCriteria(context.Background(), "crit-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.CriteriaID != "crit-1" {
		t.Errorf("CriteriaID = %s, want crit-1", out.CriteriaID)
	}
	if terr.lastCode != "NY" {
		t.Errorf("territory = %s, want NY", terr.lastCode)
	}
	if out.Total != 1 {
		t.Errorf("Total = %d, want 1", out.Total)
	}
}

func TestSearchByCriteria_NotFound(t *testing.T) {
	records := &mockRecords{getErr: domain.ErrCriteriaNotFound}
	svc := newService(&mockExtractor{}, &mockTerritory{}, &mockBlobStore{}, records, nil, Options{})

	_, err := svc.SearchByCriteria(context.Background(), "missing")
	if !errors.Is(err, domain.ErrCriteriaNotFound) {
		t.Fatalf("err = %v, want ErrCriteriaNotFound", err)
	}
}
