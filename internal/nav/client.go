// Package nav downloads mutual fund NAV history and keeps one workbook per fund.
package nav

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/ledgerlift/statex/internal/config"
)

// apiDate is the date layout of the NAV API.
const apiDate = "02-01-2006"

// StatusError is a non-2xx response from the NAV API.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Temporary reports whether a retry may succeed.
func (e *StatusError) Temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// Point is one published NAV.
type Point struct {
	Date time.Time
	NAV  decimal.Decimal
}

type schemeResponse struct {
	Status string `json:"status"`
	Data   []struct {
		Date string `json:"date"`
		NAV  string `json:"nav"`
	} `json:"data"`
}

// Client fetches scheme history from an mfapi.in compatible endpoint.
type Client struct {
	baseURL    string
	http       *http.Client
	timeout    time.Duration
	limiter    *rate.Limiter
	maxRetries uint64
	newBackOff func() backoff.BackOff
}

// NewClient builds a client from the nav config section.
func NewClient(cfg config.NAVConfig) *Client {
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		http:       &http.Client{},
		timeout:    cfg.Timeout,
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: uint64(max(cfg.MaxRetries, 0)),
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
	}
}

// History returns every NAV published for the AMFI scheme code, oldest first.
// Rows with unparseable dates or values are dropped. 429, 5xx and network
// errors are retried with exponential backoff.
func (c *Client) History(ctx context.Context, code string) ([]Point, error) {
	url := c.baseURL + "/" + code

	var body schemeResponse
	op := func() error {
		body = schemeResponse{}
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		err := c.get(ctx, url, &body)
		var se *StatusError
		if errors.As(err, &se) && !se.Temporary() {
			return backoff.Permanent(err)
		}
		return err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(op, b); err != nil {
		return nil, fmt.Errorf("fetching scheme %s: %w", code, err)
	}

	points := make([]Point, 0, len(body.Data))
	for _, d := range body.Data {
		t, err := time.Parse(apiDate, d.Date)
		if err != nil {
			continue
		}
		v, err := decimal.NewFromString(d.NAV)
		if err != nil {
			continue
		}
		points = append(points, Point{Date: t, NAV: v})
	}
	slices.SortStableFunc(points, func(a, b Point) int { return a.Date.Compare(b.Date) })
	return points, nil
}

func (c *Client) get(ctx context.Context, url string, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("building request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, URL: url}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return backoff.Permanent(fmt.Errorf("decoding response: %w", err))
	}
	return nil
}
