// Package client is a typed HTTP client for the guard marketplace API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/protecthire/protecthire/internal/domain/booking"
	"github.com/protecthire/protecthire/internal/domain/guard"
)

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 64 << 10
)

// Client talks to one API server.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// New creates a client for baseURL, e.g. "http://localhost:9080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Filter mirrors the search query parameters. Zero values are omitted.
type Filter struct {
	Location           string
	Role               string
	Gender             string
	MaxHourlyRate      *float64
	MinRating          float64
	MinExperienceYears int
	Skills             []string
}

func (f Filter) values() url.Values {
	v := url.Values{}
	set := func(k, s string) {
		if s != "" {
			v.Set(k, s)
		}
	}
	set("location", f.Location)
	set("role", f.Role)
	set("gender", f.Gender)
	if f.MaxHourlyRate != nil {
		v.Set("max_hourly_rate", strconv.FormatFloat(*f.MaxHourlyRate, 'f', -1, 64))
	}
	if f.MinRating > 0 {
		v.Set("min_rating", strconv.FormatFloat(f.MinRating, 'f', -1, 64))
	}
	if f.MinExperienceYears > 0 {
		v.Set("min_experience_years", strconv.Itoa(f.MinExperienceYears))
	}
	if len(f.Skills) > 0 {
		v.Set("skills", strings.Join(f.Skills, ","))
	}
	return v
}

// SearchResult is the GET /guards response.
type SearchResult struct {
	Guards []guard.Profile `json:"guards"`
	Count  int             `json:"count"`
}

// EstimateResult is the GET /guards/{id}/estimate response.
type EstimateResult struct {
	GuardID   string            `json:"guard_id"`
	Available bool              `json:"available"`
	Window    *booking.Window   `json:"window,omitempty"`
	Estimate  *booking.Estimate `json:"estimate,omitempty"`
}

// BookingResult is the POST /bookings response.
type BookingResult struct {
	Reference string           `json:"reference"`
	Status    string           `json:"status"`
	Booking   booking.Request  `json:"booking"`
	Estimate  booking.Estimate `json:"estimate"`
}

// Search lists guards matching f.
func (c *Client) Search(ctx context.Context, f Filter) (SearchResult, error) {
	var out SearchResult
	_, err := c.do(ctx, http.MethodGet, "/guards", f.values(), nil, nil, &out)
	return out, err
}

// Guard fetches one profile.
func (c *Client) Guard(ctx context.Context, id string) (guard.Profile, error) {
	var out guard.Profile
	_, err := c.do(ctx, http.MethodGet, "/guards/"+url.PathEscape(id), nil, nil, nil, &out)
	return out, err
}

// Estimate prices a window for guard id. Empty times use the server defaults.
func (c *Client) Estimate(ctx context.Context, id, dateFrom, dateTo, startTime, endTime string) (EstimateResult, error) {
	q := url.Values{}
	for k, v := range map[string]string{
		"date_from":  dateFrom,
		"date_to":    dateTo,
		"start_time": startTime,
		"end_time":   endTime,
	} {
		if v != "" {
			q.Set(k, v)
		}
	}
	var out EstimateResult
	_, err := c.do(ctx, http.MethodGet, "/guards/"+url.PathEscape(id)+"/estimate", q, nil, nil, &out)
	return out, err
}

// Register creates a guard. A non-empty key is sent as the Idempotency-Key;
// replayed reports that the server returned an earlier result.
func (c *Client) Register(ctx context.Context, reg guard.Registration, key string) (p guard.Profile, replayed bool, err error) {
	var hdr http.Header
	if key != "" {
		hdr = http.Header{"Idempotency-Key": []string{key}}
	}
	resp, err := c.do(ctx, http.MethodPost, "/guards", nil, hdr, reg, &p)
	if err != nil {
		return guard.Profile{}, false, err
	}
	return p, resp.Get("Idempotent-Replayed") == "true", nil
}

// Book submits a booking request.
func (c *Client) Book(ctx context.Context, f booking.Form) (BookingResult, error) {
	var out BookingResult
	_, err := c.do(ctx, http.MethodPost, "/bookings", nil, nil, f, &out)
	return out, err
}

// Stats returns the server statistics as loosely typed JSON.
func (c *Client) Stats(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	_, err := c.do(ctx, http.MethodGet, "/stats", nil, nil, nil, &out)
	return out, err
}

// do sends one request and decodes a 2xx JSON body into out.
func (c *Client) do(ctx context.Context, method, path string, q url.Values, hdr http.Header, body, out any) (http.Header, error) {
	target := c.baseURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range hdr {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if json.Unmarshal(raw, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		apiErr.Status = resp.StatusCode
		return resp.Header, apiErr
	}

	if out == nil {
		return resp.Header, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.Header, fmt.Errorf("decode response: %w", err)
	}
	return resp.Header, nil
}
