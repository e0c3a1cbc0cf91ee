package criteria

import (
	"fmt"
	"time"
)

// Record is a saved search criteria document: the request metadata plus the
// combined criteria, persisted so a search can be re-run later.
type Record struct {
	id          string
	projectName string
	email       string
	sectors     []string
	keywords    []string
	budgetTier  string
	territory   string
	imageURL    string
	combined    Criteria
	createdAt   time.Time
}

// NewRecord validates and creates a Record.
func NewRecord(
	id, projectName, email string, sectors, keywords []string,
	budgetTier, territory, imageURL string, combined Criteria,
) (Record, error) {
	if id == "" {
		return Record{}, fmt.Errorf("record ID is required")
	}
	if territory == "" {
		return Record{}, fmt.Errorf("territory is required")
	}
	return Record{
		id:          id,
		projectName: projectName,
		email:       email,
		sectors:     cloneStrings(sectors),
		keywords:    cloneStrings(keywords),
		budgetTier:  budgetTier,
		territory:   territory,
		imageURL:    imageURL,
		combined:    combined,
		createdAt:   time.Now().UTC(),
	}, nil
}

// ReconstructRecord creates a Record without validation (storage hydration).
func ReconstructRecord(
	id, projectName, email string, sectors, keywords []string,
	budgetTier, territory, imageURL string, combined Criteria, createdAt time.Time,
) Record {
	return Record{
		id: id, projectName: projectName, email: email,
		sectors: sectors, keywords: keywords,
		budgetTier: budgetTier, territory: territory, imageURL: imageURL,
		combined: combined, createdAt: createdAt,
	}
}

// ID returns the record identifier.
func (r *Record) ID() string { return r.id }

// ProjectName returns the project the search belongs to.
func (r *Record) ProjectName() string { return r.projectName }

// Email returns the requester's email.
func (r *Record) Email() string { return r.email }

// Sectors returns the requester's sectors.
func (r *Record) Sectors() []string { return r.sectors }

// Keywords returns the raw user-supplied keywords.
func (r *Record) Keywords() []string { return r.keywords }

// BudgetTier returns the budget tier.
func (r *Record) BudgetTier() string { return r.budgetTier }

// Territory returns the territory code the search ran against.
func (r *Record) Territory() string { return r.territory }

// ImageURL returns the (possibly expired) reference image URL.
func (r *Record) ImageURL() string { return r.imageURL }

// Combined returns the merged criteria the search ran with.
func (r *Record) Combined() *Criteria { return &r.combined }

// CreatedAt returns the creation timestamp.
func (r *Record) CreatedAt() time.Time { return r.createdAt }
