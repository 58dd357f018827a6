// Package enrich calls an external analysis service to attach business
// context to catalog entries. Enrichment is best-effort: callers treat a
// failure here as non-fatal and keep the entry as scored.
package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/atelierhq/trend-cli/internal/config"
	"github.com/atelierhq/trend-cli/internal/model"
	"github.com/atelierhq/trend-cli/internal/resilience"
)

// Request is the payload sent to the enrichment service per entry.
type Request struct {
	Name        string  `json:"name"`
	Brand       string  `json:"brand,omitempty"`
	Category    string  `json:"category,omitempty"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
	Price       float64 `json:"price,omitempty"`
	Segment     string  `json:"segment,omitempty"`
}

type response struct {
	BusinessAnalysis    *string  `json:"business_analysis"`
	ComplexityScore     *float64 `json:"complexity_score"`
	SustainabilityScore *float64 `json:"sustainability_score"`
	VisualScore         *float64 `json:"visual_score"`
	DominantAttribute   *string  `json:"dominant_attribute"`
	Category            *string  `json:"category"`
	Brand               *string  `json:"brand"`
	Style               *string  `json:"style"`
}

// Client talks to the enrichment endpoint.
type Client struct {
	url        string
	httpClient *http.Client
	limiter    *rate.Limiter
	retry      resilience.RetryConfig
}

// New builds a Client from config. It returns nil when no endpoint is
// configured; a nil *Client is valid and reports Enabled() == false.
func New(cfg config.EnrichConfig) *Client {
	if cfg.URL == "" {
		return nil
	}

	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	rps := cfg.RequestsPerSec
	if rps <= 0 {
		rps = 2
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}

	return &Client{
		url:        cfg.URL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		retry: resilience.RetryConfig{
			MaxAttempts:    cfg.RetryAttempts + 1,
			InitialBackoff: time.Duration(cfg.RetryBackoffMs) * time.Millisecond,
			OnRetry:        resilience.RetryLogger("enrich", "analyze"),
		},
	}
}

// Enabled reports whether an enrichment endpoint is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.url != ""
}

// Enrich requests enrichment for one entry. Rate limiting and retries
// happen inside; the returned Enrichment may be empty when the service
// has nothing to add.
func (c *Client) Enrich(ctx context.Context, req Request) (model.Enrichment, error) {
	if !c.Enabled() {
		return model.Enrichment{}, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return model.Enrichment{}, eris.Wrap(err, "enrich: rate limit wait")
	}

	resp, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) (*response, error) {
		return c.post(ctx, req)
	})
	if err != nil {
		return model.Enrichment{}, err
	}

	enr := model.Enrichment{
		BusinessAnalysis:    resp.BusinessAnalysis,
		ComplexityScore:     resp.ComplexityScore,
		SustainabilityScore: resp.SustainabilityScore,
		VisualScore:         resp.VisualScore,
		DominantAttribute:   resp.DominantAttribute,
		Category:            resp.Category,
		Brand:               resp.Brand,
		Style:               resp.Style,
	}
	zap.L().Debug("enriched entry",
		zap.String("name", req.Name),
		zap.Bool("empty", enr.Empty()),
	)
	return enr, nil
}

func (c *Client) post(ctx context.Context, req Request) (*response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "enrich: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "enrich: build request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "enrich: do request")
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		err := eris.Errorf("enrich: unexpected status %d", httpResp.StatusCode)
		if resilience.IsTransientHTTPStatus(httpResp.StatusCode) {
			return nil, resilience.NewTransientError(err, httpResp.StatusCode)
		}
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return nil, eris.Wrap(err, "enrich: read response")
	}

	var resp response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, eris.Wrap(err, "enrich: decode response")
	}
	return &resp, nil
}
