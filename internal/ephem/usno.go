package ephem

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/litescript/ls-telescope/internal/astro"
)

const (
	// DefaultUSNOURL is the USNO celestial navigation endpoint.
	DefaultUSNOURL = "https://aa.usno.navy.mil/api/celnav"

	// DefaultTimeout for HTTP requests.
	DefaultTimeout = 30 * time.Second
)

// USNOProvider queries the US Naval Observatory celnav API.
type USNOProvider struct {
	client  *http.Client
	url     string
	timeout time.Duration
	now     func() time.Time
}

// USNOOption configures a USNOProvider.
type USNOOption func(*USNOProvider)

// WithURL sets a custom endpoint.
func WithURL(u string) USNOOption {
	return func(p *USNOProvider) {
		p.url = u
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) USNOOption {
	return func(p *USNOProvider) {
		p.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) USNOOption {
	return func(p *USNOProvider) {
		p.client = client
	}
}

// WithClock overrides the observation time source.
func WithClock(now func() time.Time) USNOOption {
	return func(p *USNOProvider) {
		p.now = now
	}
}

// NewUSNOProvider creates a new celnav client.
func NewUSNOProvider(opts ...USNOOption) *USNOProvider {
	p := &USNOProvider{
		url:     DefaultUSNOURL,
		timeout: DefaultTimeout,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.client == nil {
		p.client = &http.Client{
			Timeout: p.timeout,
		}
	}

	return p
}

// Name implements Provider.
func (p *USNOProvider) Name() string {
	return "USNO"
}

// Fetch implements Provider.
func (p *USNOProvider) Fetch(ctx context.Context, obs astro.Observer) ([]Entry, error) {
	now := p.now().UTC()

	params := url.Values{}
	params.Set("date", now.Format("2006-01-02"))
	params.Set("time", now.Format("15:04:05"))
	params.Set("coords", fmt.Sprintf("%.4f,%.4f", obs.LatDeg, obs.LonDeg))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "ls-telescope/1.0 (telescope simulator)")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("usno request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("usno returned status %d: %s", resp.StatusCode, string(body))
	}

	return parseCelnav(body)
}

// celnavResponse mirrors the parts of the celnav JSON we consume.
type celnavResponse struct {
	Properties *struct {
		Data []struct {
			Object  string `json:"object"`
			Almanac *struct {
				Dec *float64 `json:"dec"`
				GHA *float64 `json:"gha"`
				HC  *float64 `json:"hc"`
				ZN  *float64 `json:"zn"`
			} `json:"almanac_data"`
		} `json:"data"`
	} `json:"properties"`
}

// parseCelnav decodes a celnav response. Rows without almanac data are kept
// with nil angles so the catalog can count them as malformed.
func parseCelnav(body []byte) ([]Entry, error) {
	var resp celnavResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if resp.Properties == nil || resp.Properties.Data == nil {
		return nil, ErrNoData
	}

	entries := make([]Entry, 0, len(resp.Properties.Data))
	for _, row := range resp.Properties.Data {
		e := Entry{Object: row.Object}
		if a := row.Almanac; a != nil {
			e.Dec, e.GHA, e.HC, e.ZN = a.Dec, a.GHA, a.HC, a.ZN
		}
		entries = append(entries, e)
	}
	return entries, nil
}
