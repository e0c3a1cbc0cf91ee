package extraction

import (
	"context"

	tropenai "github.com/gofedgroup/sourcing/internal/transport/openai"
)

// Extractor calls the vision/text model and returns unvalidated criteria.
type Extractor interface {
	Extract(ctx context.Context, imageURL string, form tropenai.Form) (tropenai.RawCriteria, error)
}
