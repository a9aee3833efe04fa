// Package worcs is a client for Michigan's Workers' Compensation Online
// Reporting and Compliance System (WORCS) insurance coverage search.
//
// One Lookup is one POST to GetInsuranceCoverage: no retries, no caching.
// Failures are logged and returned to the caller untouched.
package worcs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custompro98/doihaveworkerscomp/internal/config"
	"github.com/custompro98/doihaveworkerscomp/internal/coverage"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	// injuryDateLayout is MM/DD/YYYY.
	injuryDateLayout = "01/02/2006"

	pageSize = 15

	// maxResponseBytes caps how much of a reply is read into memory.
	maxResponseBytes = 4 << 20
)

var selectItemsPerPage = []int{10, 15, 20, 50, 100}

// Client issues coverage searches against the WORCS API.
type Client struct {
	httpClient     *http.Client
	endpoint       string
	acceptLanguage string
	now            func() time.Time
	logger         *zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithClock replaces time.Now as the source of the injury date.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// WithHTTPClient replaces the default instrumented *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a WORCS client from cfg.
//
// The default transport is wrapped with New Relic's round tripper so outbound
// calls show up as external segments of the inbound request's transaction.
func NewClient(cfg config.MichiganRegistryConfig, logger *zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: newrelic.NewRoundTripper(http.DefaultTransport),
		},
		endpoint:       cfg.Endpoint,
		acceptLanguage: cfg.AcceptLanguage,
		now:            time.Now,
		logger:         logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Endpoint returns the configured GetInsuranceCoverage URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// StatusError is returned when WORCS answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("worcs: unexpected status %d", e.StatusCode)
}

// filterCondition is one entry of the grid filter WORCS expects.
// Condition is null for everything except the employer name.
type filterCondition struct {
	DataIndx  string  `json:"dataIndx"`
	Condition *string `json:"condition"`
	Value     string  `json:"value"`
}

type sortField struct {
	DataIndx string `json:"dataIndx"`
	Dir      string `json:"dir"`
}

// searchRequest is the GetInsuranceCoverage body. Filter and Sort are
// JSON documents embedded as strings.
type searchRequest struct {
	SelectItemsPerPage []int  `json:"selectItemsPerPage"`
	PageSize           int    `json:"pageSize"`
	PageIndex          int    `json:"pageIndex"`
	TotalRecords       int    `json:"totalRecords"`
	Filter             string `json:"filter"`
	Sort               string `json:"sort"`
	Mode               string `json:"mode"`
	Data               []any  `json:"data"`
}

// Employer is one row of a WORCS search result.
type Employer struct {
	EmployerID   int    `json:"employerId"`
	EmployerName string `json:"employerName"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`
	OverallCount int    `json:"overallCount"`
}

// InsuranceCoverageResponse is the GetInsuranceCoverage reply.
type InsuranceCoverageResponse struct {
	Success bool `json:"success"`
	Result  struct {
		Data         []Employer `json:"data"`
		TotalRecords int        `json:"totalRecords"`
		CurrentPage  int        `json:"currentPage"`
	} `json:"result"`
	Errors     []string `json:"errors"`
	ErrorsHTML string   `json:"errorsHtml"`
}

// LookupResult converts the wire response into the coverage model.
func (r *InsuranceCoverageResponse) LookupResult() *coverage.LookupResult {
	records := make([]coverage.EmployerRecord, len(r.Result.Data))
	for i, e := range r.Result.Data {
		records[i] = coverage.EmployerRecord{
			EmployerID:   e.EmployerID,
			EmployerName: e.EmployerName,
			Address:      e.Address,
			City:         e.City,
			State:        e.State,
			ZipCode:      e.ZipCode,
			OverallCount: e.OverallCount,
		}
	}

	return &coverage.LookupResult{
		Success:      r.Success,
		Records:      records,
		TotalRecords: r.Result.TotalRecords,
		CurrentPage:  r.Result.CurrentPage,
		Errors:       r.Errors,
		ErrorsHTML:   r.ErrorsHTML,
	}
}

// Lookup implements coverage.Lookuper.
func (c *Client) Lookup(ctx context.Context, q coverage.Query) (*coverage.LookupResult, error) {
	resp, err := c.GetInsuranceCoverage(ctx, q.BusinessName, q.City)
	if err != nil {
		return nil, err
	}
	return resp.LookupResult(), nil
}

// GetInsuranceCoverage searches for an employer by exact (lowercased) name and
// city, with today's date as the injury date.
func (c *Client) GetInsuranceCoverage(ctx context.Context, businessName, city string) (*InsuranceCoverageResponse, error) {
	logger := c.loggerFor(ctx).With().
		Str("registry", "worcs").
		Str("endpoint", c.endpoint).
		Logger()

	body, err := c.searchBody(businessName, city)
	if err != nil {
		return nil, errors.Wrap(err, "worcs: failed to encode search request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "worcs: failed to build request")
	}

	req.Header.Set("Accept-Language", c.acceptLanguage)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error().Err(err).Msg("failed to make API call for MI")
		return nil, errors.Wrap(err, "worcs: request failed")
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		logger.Error().Err(err).Int("status", res.StatusCode).Msg("failed to read MI response")
		return nil, errors.Wrap(err, "worcs: failed to read response")
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		statusErr := &StatusError{StatusCode: res.StatusCode, Body: truncate(string(raw), 512)}
		logger.Error().Err(statusErr).Str("body", statusErr.Body).Msg("failed to make API call for MI")
		return nil, errors.WithStack(statusErr)
	}

	if err := validateResponse(raw); err != nil {
		logger.Error().Err(err).Msg("MI response failed validation")
		return nil, errors.WithStack(err)
	}

	var out InsuranceCoverageResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		logger.Error().Err(err).Msg("failed to decode MI response")
		return nil, errors.Wrap(err, "worcs: failed to decode response")
	}

	logger.Debug().
		Bool("success", out.Success).
		Int("total_records", out.Result.TotalRecords).
		Msg("MI coverage search completed")

	return &out, nil
}

// Ping checks that the WORCS host answers HTTP at all. Any status counts as
// reachable; only transport failures are reported.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.endpoint, nil)
	if err != nil {
		return errors.Wrap(err, "worcs: failed to build ping request")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "worcs: ping failed")
	}
	_, _ = io.Copy(io.Discard, res.Body)
	res.Body.Close()

	return nil
}

func (c *Client) searchBody(businessName, city string) ([]byte, error) {
	exactMatch := "Exact Match"

	filter, err := encodeJSON([]filterCondition{
		{DataIndx: "EmployerName", Condition: &exactMatch, Value: strings.ToLower(businessName)},
		{DataIndx: "City", Value: strings.ToLower(city)},
		{DataIndx: "InjuryDate", Value: c.now().Format(injuryDateLayout)},
	})
	if err != nil {
		return nil, err
	}

	sort, err := encodeJSON([]sortField{{DataIndx: "EmployerName"}})
	if err != nil {
		return nil, err
	}

	return encodeJSON(searchRequest{
		SelectItemsPerPage: selectItemsPerPage,
		PageSize:           pageSize,
		PageIndex:          0,
		TotalRecords:       0,
		Filter:             string(filter),
		Sort:               string(sort),
		Mode:               "OR",
		Data:               []any{},
	})
}

// encodeJSON marshals v without HTML escaping, so names like "Smith & Sons"
// reach WORCS verbatim.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// loggerFor prefers the request-scoped logger carried by ctx.
func (c *Client) loggerFor(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	if c.logger != nil {
		return c.logger
	}
	nop := zerolog.Nop()
	return &nop
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
