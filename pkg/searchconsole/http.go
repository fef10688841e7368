package searchconsole

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const pageSize = 25000 // API maximum rows per request

// Option configures the HTTP client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit overrides the default request rate limit.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

type httpClient struct {
	token   string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Search Console API source authenticated with a
// bearer token.
func NewClient(token string, opts ...Option) Source {
	c := &httpClient{
		token:   token,
		baseURL: "https://www.googleapis.com/webmasters/v3",
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(5), 5),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type queryPayload struct {
	StartDate  string   `json:"startDate"`
	EndDate    string   `json:"endDate"`
	Dimensions []string `json:"dimensions"`
	RowLimit   int      `json:"rowLimit"`
	StartRow   int      `json:"startRow"`
}

type queryResponse struct {
	Rows []struct {
		Keys        []string `json:"keys"`
		Clicks      float64  `json:"clicks"`
		Impressions float64  `json:"impressions"`
		CTR         float64  `json:"ctr"`
		Position    float64  `json:"position"`
	} `json:"rows"`
}

// Fetch pulls query-dimension rows for the site, paging through the API
// until the window is exhausted or the requested row limit is reached.
// Any failure is terminal: partial upstream data must not masquerade as a
// complete analysis.
func (c *httpClient) Fetch(ctx context.Context, req QueryRequest) ([]Row, error) {
	if req.SiteURL == "" {
		return nil, eris.New("searchconsole: site URL is required")
	}

	endpoint := fmt.Sprintf("%s/sites/%s/searchAnalytics/query",
		c.baseURL, url.PathEscape(req.SiteURL))

	var rows []Row
	startRow := 0
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "searchconsole: rate limit wait")
		}

		limit := pageSize
		if req.RowLimit > 0 && req.RowLimit-len(rows) < limit {
			limit = req.RowLimit - len(rows)
		}
		payload := queryPayload{
			StartDate:  req.StartDate.Format("2006-01-02"),
			EndDate:    req.EndDate.Format("2006-01-02"),
			Dimensions: []string{"query"},
			RowLimit:   limit,
			StartRow:   startRow,
		}

		page, err := c.queryPage(ctx, endpoint, payload)
		if err != nil {
			return nil, err
		}
		rows = append(rows, page...)

		if len(page) < limit || (req.RowLimit > 0 && len(rows) >= req.RowLimit) {
			return rows, nil
		}
		startRow += len(page)
	}
}

func (c *httpClient) queryPage(ctx context.Context, endpoint string, payload queryPayload) ([]Row, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, eris.Wrap(err, "searchconsole: marshal query")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "searchconsole: create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	respBody, statusCode, err := c.retryDo(ctx, req, body)
	if err != nil {
		return nil, eris.Wrap(err, "searchconsole: request failed")
	}
	if statusCode != http.StatusOK {
		return nil, eris.Errorf("searchconsole: unexpected status %d: %s", statusCode, string(respBody))
	}

	var result queryResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "searchconsole: unmarshal response")
	}

	rows := make([]Row, 0, len(result.Rows))
	for _, r := range result.Rows {
		query := ""
		if len(r.Keys) > 0 {
			query = r.Keys[0]
		}
		rows = append(rows, Row{
			Query:       query,
			Clicks:      int64(r.Clicks),
			Impressions: int64(r.Impressions),
			CTR:         r.CTR,
			Position:    r.Position,
		})
	}
	return rows, nil
}

// retryableStatusCode returns true if the HTTP status code should trigger a retry.
func retryableStatusCode(code int) bool {
	return code == http.StatusTooManyRequests ||
		code == http.StatusInternalServerError ||
		code == http.StatusBadGateway ||
		code == http.StatusServiceUnavailable
}

// retryDo executes an HTTP request with exponential backoff retries on
// transient failures (429, 500, 502, 503). Returns the response body and
// status code on success, or the last error after exhausting retries.
func (c *httpClient) retryDo(ctx context.Context, req *http.Request, reqBody []byte) ([]byte, int, error) {
	const maxAttempts = 3
	backoff := 1 * time.Second

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		retryReq := req.Clone(ctx)
		retryReq.Body = io.NopCloser(bytes.NewReader(reqBody))

		resp, err := c.http.Do(retryReq)
		if err != nil {
			lastErr = err
			if attempt < maxAttempts {
				select {
				case <-ctx.Done():
					return nil, 0, ctx.Err()
				case <-time.After(backoff):
				}
				backoff *= 2
				continue
			}
			return nil, 0, lastErr
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return nil, resp.StatusCode, eris.Wrap(readErr, "searchconsole: read response body")
		}

		if retryableStatusCode(resp.StatusCode) && attempt < maxAttempts {
			lastErr = eris.Errorf("searchconsole: status %d: %s", resp.StatusCode, string(body))
			select {
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			continue
		}

		return body, resp.StatusCode, nil
	}

	return nil, 0, lastErr
}
