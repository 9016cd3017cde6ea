// Package feed fetches spots and the summit catalog from the SOTA API.
//
// Records are returned undecoded as model.RawRecord; numbers keep their
// literal text (json.Number) so the normalizer decides how to read them.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/roach88/sotastats/internal/metrics"
	"github.com/roach88/sotastats/internal/model"
)

// Config holds the client settings.
type Config struct {
	Server        string
	Association   string
	LookbackHours int
	UserAgent     string
	Timeout       time.Duration
	MaxRetries    int
	Backoff       time.Duration
}

// Client talks to the SOTA API.
type Client struct {
	cfg     Config
	http    *http.Client
	metrics *metrics.Collectors
}

// NewHTTPClient returns an http.Client with pooled connections and the given
// overall timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: tr}
}

// NewClient creates a client. m may be nil.
func NewClient(cfg Config, m *metrics.Collectors) *Client {
	cfg.Server = strings.TrimRight(cfg.Server, "/")
	return &Client{cfg: cfg, http: NewHTTPClient(cfg.Timeout), metrics: m}
}

// FetchSpots returns the spots posted in the configured lookback period,
// across all associations.
func (c *Client) FetchSpots(ctx context.Context) ([]model.RawRecord, error) {
	u := fmt.Sprintf("%s/api/spots/-%d/all", c.cfg.Server, c.cfg.LookbackHours)
	var spots []model.RawRecord
	if err := c.get(ctx, "spots", u, &spots); err != nil {
		return nil, fmt.Errorf("fetch spots: %w", err)
	}
	return spots, nil
}

type associationResponse struct {
	Regions []struct {
		RegionCode string `json:"regionCode"`
	} `json:"regions"`
}

type regionResponse struct {
	Summits []model.RawRecord `json:"summits"`
}

// FetchSummits returns the full summit catalog of the association, region by
// region. Any failing region fails the whole fetch.
func (c *Client) FetchSummits(ctx context.Context) ([]model.RawRecord, error) {
	assoc := url.PathEscape(c.cfg.Association)

	var ar associationResponse
	if err := c.get(ctx, "association", fmt.Sprintf("%s/api/associations/%s", c.cfg.Server, assoc), &ar); err != nil {
		return nil, fmt.Errorf("fetch association %s: %w", c.cfg.Association, err)
	}
	if len(ar.Regions) == 0 {
		return nil, fmt.Errorf("fetch association %s: no regions", c.cfg.Association)
	}

	var summits []model.RawRecord
	for _, r := range ar.Regions {
		var rr regionResponse
		u := fmt.Sprintf("%s/api/regions/%s/%s", c.cfg.Server, assoc, url.PathEscape(r.RegionCode))
		if err := c.get(ctx, "region", u, &rr); err != nil {
			return nil, fmt.Errorf("fetch region %s: %w", r.RegionCode, err)
		}
		slog.DebugContext(ctx, "region fetched", "region", r.RegionCode, "summits", len(rr.Summits))
		summits = append(summits, rr.Summits...)
	}
	return summits, nil
}

// get fetches u into out, retrying transient failures.
func (c *Client) get(ctx context.Context, endpoint, u string, out any) error {
	return Retry(ctx, c.cfg.MaxRetries+1, c.cfg.Backoff, 8*c.cfg.Backoff, func() error {
		err := c.getOnce(ctx, u, out)
		status := "ok"
		if err != nil {
			status = "error"
			slog.DebugContext(ctx, "feed request failed", "url", u, "error", err)
		}
		c.metrics.FeedRequest(endpoint, status)
		return err
	})
}

func (c *Client) getOnce(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Permanent(err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := &StatusError{Code: resp.StatusCode, Status: resp.Status}
		if !err.Temporary() {
			return Permanent(err)
		}
		return err
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

// StatusError is a non-2xx response.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return "unexpected status " + e.Status
}

// Temporary reports whether a retry may succeed.
func (e *StatusError) Temporary() bool {
	return e.Code >= 500 || e.Code == http.StatusTooManyRequests
}

// IsStatus reports whether err carries the given HTTP status code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
