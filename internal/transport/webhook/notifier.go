// Package webhook delivers search lead notifications to a marketing
// automation endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/gofedgroup/sourcing/internal/metrics"
)

// Lead is the payload posted on each completed search.
type Lead struct {
	Email       string   `json:"email"`
	ProjectName string   `json:"projectName"`
	Sector      []string `json:"sector"`
	BudgetTier  string   `json:"budgetTier,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
}

// Notifier posts leads to a configured webhook URL. A Notifier with an empty
// URL is valid and drops every notification.
type Notifier struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// New creates a Notifier. timeout bounds each delivery attempt.
func New(url string, timeout time.Duration, logger *zap.Logger) *Notifier {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Enabled reports whether a webhook URL is configured.
func (n *Notifier) Enabled() bool {
	return n.url != ""
}

// Notify delivers a lead. Failures are logged and returned but must never
// fail the search that triggered them; callers invoke this from a detached
// goroutine.
func (n *Notifier) Notify(ctx context.Context, lead Lead) error {
	if !n.Enabled() {
		metrics.WebhookDeliveriesTotal.WithLabelValues("skipped").Inc()
		return nil
	}

	body, err := json.Marshal(lead)
	if err != nil {
		metrics.WebhookDeliveriesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("marshal lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		metrics.WebhookDeliveriesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		metrics.WebhookDeliveriesTotal.WithLabelValues("error").Inc()
		n.logger.Warn("webhook delivery failed", zap.Error(err))
		return fmt.Errorf("deliver lead: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		metrics.WebhookDeliveriesTotal.WithLabelValues("error").Inc()
		n.logger.Warn("webhook rejected lead", zap.Int("status", resp.StatusCode))
		return fmt.Errorf("deliver lead: unexpected status %d", resp.StatusCode)
	}

	metrics.WebhookDeliveriesTotal.WithLabelValues("success").Inc()
	return nil
}
