package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedOutput signals that the extraction model returned unparseable output.
	ErrMalformedOutput = errors.New("malformed extraction output")
	// ErrIncompleteOutput signals that the extraction output is missing required fields.
	ErrIncompleteOutput = errors.New("incomplete extraction output")
	// ErrUpstreamUnavailable signals a transport or API failure of the extraction model.
	ErrUpstreamUnavailable = errors.New("extraction upstream unavailable")
	// ErrNonTaxonomyValue signals that extraction produced no usable taxonomy members
	// for a required category.
	ErrNonTaxonomyValue = errors.New("no taxonomy values extracted")

	// ErrStorageFailure signals a blob storage failure during orchestration.
	ErrStorageFailure = errors.New("blob storage failure")
	// ErrCatalogUnavailable signals a catalog store failure.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrProductNotFound signals a missing catalog item.
	ErrProductNotFound = errors.New("product not found")
	// ErrCriteriaNotFound signals a missing saved search criteria record.
	ErrCriteriaNotFound = errors.New("search criteria not found")
	// ErrBlobNotFound signals a missing or expired uploaded blob.
	ErrBlobNotFound = errors.New("blob not found")
	// ErrInvalidInput signals a validation failure on caller-supplied data.
	ErrInvalidInput = errors.New("invalid input")
)

// UpstreamError wraps ErrUpstreamUnavailable with the upstream HTTP status code
// when the extraction API reported one.
type UpstreamError struct {
	StatusCode int
	Detail     string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: status %d: %s", ErrUpstreamUnavailable.Error(), e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s: %s", ErrUpstreamUnavailable.Error(), e.Detail)
}

func (e *UpstreamError) Unwrap() error { return ErrUpstreamUnavailable }

// NewUpstreamError creates an upstream failure error carrying the API status code.
func NewUpstreamError(statusCode int, detail string) error {
	return &UpstreamError{StatusCode: statusCode, Detail: detail}
}
