// Package openlibrary is a small rate-limited client for the Open Library search API.
package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://openlibrary.org"

	searchFields   = "key,title,author_name,first_publish_year"
	requestTimeout = 15 * time.Second
)

// StatusError is returned for any non-200 answer.
type StatusError struct {
	Code       int
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("openlibrary: unexpected status code: %d", e.Code)
}

func (e *StatusError) temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= http.StatusInternalServerError
}

type Client struct {
	http       *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
}

type Option func(*Client)

// WithBaseURL points the client at another host, such as a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithBackoff sets the first retry delay; later retries double it.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) { c.backoff = d }
}

// NewClient allows at most rps requests per second and retries temporary failures maxRetries times.
func NewClient(userAgent string, rps int, maxRetries int, opts ...Option) *Client {
	c := &Client{
		http:       &http.Client{Timeout: requestTimeout},
		userAgent:  userAgent,
		baseURL:    DefaultBaseURL,
		limiter:    rate.NewLimiter(rate.Limit(max(rps, 1)), 1),
		maxRetries: max(maxRetries, 0),
		backoff:    time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type SearchDoc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorNames      []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
}

// SearchResponse matches search.json
type SearchResponse struct {
	NumFound int         `json:"numFound"`
	Docs     []SearchDoc `json:"docs"`
}

// SearchBooks lists up to limit works filed under subject.
func (c *Client) SearchBooks(ctx context.Context, subject string, limit int) (*SearchResponse, error) {
	q := url.Values{}
	q.Set("q", "subject:"+subject)
	q.Set("fields", searchFields)
	q.Set("limit", strconv.Itoa(limit))

	var res SearchResponse
	if err := c.getJSON(ctx, c.baseURL+"/search.json?"+q.Encode(), &res); err != nil {
		return nil, fmt.Errorf("search subject %q: %w", subject, err)
	}
	return &res, nil
}

func (c *Client) getJSON(ctx context.Context, target string, out any) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = c.limiter.Wait(ctx); err != nil {
			return err
		}
		if err = c.fetch(ctx, target, out); err == nil {
			return nil
		}

		var se *StatusError
		isStatus := errors.As(err, &se)
		if (isStatus && !se.temporary()) || ctx.Err() != nil {
			return err
		}
		if attempt == c.maxRetries {
			return fmt.Errorf("after %d retries: %w", c.maxRetries, err)
		}

		wait := c.backoff << attempt
		if isStatus && se.RetryAfter > wait {
			wait = se.RetryAfter
		}
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Client) fetch(ctx context.Context, target string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		se := &StatusError{Code: resp.StatusCode}
		if secs, perr := strconv.Atoi(resp.Header.Get("Retry-After")); perr == nil {
			se.RetryAfter = time.Duration(secs) * time.Second
		}
		return se
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
