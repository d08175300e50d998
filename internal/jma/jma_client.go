package jma

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	// DefaultAreaURL is the area-metadata document
	DefaultAreaURL = "https://www.jma.go.jp/bosai/common/const/area.json"

	// DefaultForecastBaseURL is the directory holding <code>.json forecast documents
	DefaultForecastBaseURL = "https://www.jma.go.jp/bosai/forecast/data/forecast"

	// DefaultUserAgent identifies the client to JMA
	DefaultUserAgent = "JMATerminal/1.0 (github.com/ngmaloney/jma-terminal)"
)

const defaultTimeout = 30 * time.Second

// Options configures a Client. Zero values fall back to the JMA defaults.
type Options struct {
	AreaURL         string
	ForecastBaseURL string
	UserAgent       string
	Timeout         time.Duration
	AllowedCodes    []string
}

// Client implements AreaFetcher and ForecastFetcher against the JMA bosai API
type Client struct {
	client          *resty.Client
	areaURL         string
	forecastBaseURL string
	allowed         map[string]struct{}
}

// NewClient creates a new JMA client
func NewClient(opts Options) *Client {
	if opts.AreaURL == "" {
		opts.AreaURL = DefaultAreaURL
	}
	if opts.ForecastBaseURL == "" {
		opts.ForecastBaseURL = DefaultForecastBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	var allowed map[string]struct{}
	if opts.AllowedCodes != nil {
		allowed = codeSet(opts.AllowedCodes)
	}

	// No retries: a failed fetch is "no data" for the rest of the run.
	client := resty.New().
		SetHeader("User-Agent", opts.UserAgent).
		SetHeader("Accept", "application/json").
		SetTimeout(opts.Timeout).
		SetRetryCount(0)

	client.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		log.Printf("Fetching data from: %s", req.URL)
		return nil
	})

	return &Client{
		client:          client,
		areaURL:         opts.AreaURL,
		forecastBaseURL: strings.TrimRight(opts.ForecastBaseURL, "/"),
		allowed:         allowed,
	}
}

// Allowed reports whether the client will request a forecast for code
func (c *Client) Allowed(code string) bool {
	if c.allowed == nil {
		return IsAllowed(code)
	}
	_, ok := c.allowed[code]
	return ok
}

// AreaDocument retrieves the area-metadata document
func (c *Client) AreaDocument(ctx context.Context) (*AreaDocument, error) {
	body, err := c.get(ctx, c.areaURL)
	if err != nil {
		return nil, err
	}

	var doc AreaDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decoding area document: %w", err)
	}
	return &doc, nil
}

// Forecast retrieves the forecast document for code. Codes outside the
// allow-list fail with ErrInvalidAreaCode without touching the network.
func (c *Client) Forecast(ctx context.Context, code string) (ForecastDocument, error) {
	if !c.Allowed(code) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAreaCode, code)
	}

	body, err := c.get(ctx, c.ForecastURL(code))
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrNoData, code)
		}
		return nil, err
	}

	var doc ForecastDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decoding forecast for %s: %w", code, err)
	}
	return doc, nil
}

// ForecastURL returns the forecast document URL for code
func (c *Client) ForecastURL(code string) string {
	return fmt.Sprintf("%s/%s.json", c.forecastBaseURL, code)
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", url, err)
	}
	if !resp.IsSuccess() {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode()}
	}
	return resp.Body(), nil
}

// FetchWeatherData fetches the forecast for code and never fails: every error is
// logged and reported as a nil document.
func FetchWeatherData(ctx context.Context, fetcher ForecastFetcher, code string) ForecastDocument {
	doc, err := fetcher.Forecast(ctx, code)
	if err == nil {
		return doc
	}

	var statusErr *StatusError
	switch {
	case errors.Is(err, ErrInvalidAreaCode):
		log.Printf("Area code %s is not valid", code)
	case errors.Is(err, ErrNoData):
		log.Printf("No forecast data exists for area code %s", code)
	case errors.As(err, &statusErr):
		log.Printf("HTTP error occurred: %v", err)
	default:
		log.Printf("Error occurred fetching %s: %v", code, err)
	}
	return nil
}
