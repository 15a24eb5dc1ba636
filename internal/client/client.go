// Package client talks to a running bookrest server over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bookrest/internal/book"
	"bookrest/internal/httpx"

	"golang.org/x/time/rate"
)

// APIError is a non-success response that the caller has to handle.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    []httpx.ErrorDetail
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
	}
	return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Message)
}

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
}

// New creates a client for the server at baseURL. rps <= 0 disables client
// side throttling.
func New(baseURL, userAgent string, rps float64, maxRetries int) *Client {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		userAgent:  userAgent,
		baseURL:    strings.TrimRight(baseURL, "/"),
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: maxRetries,
		backoff:    time.Second,
	}
}

func (c *Client) List(ctx context.Context) ([]book.Book, error) {
	var books []book.Book
	if err := c.do(ctx, http.MethodGet, "/books", nil, http.StatusOK, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// Get returns false when the server has no book with the given ISBN.
func (c *Client) Get(ctx context.Context, isbn string) (book.Book, bool, error) {
	var b book.Book
	err := c.do(ctx, http.MethodGet, "/books/"+url.PathEscape(isbn), nil, http.StatusOK, &b)
	if isStatus(err, http.StatusNotFound) {
		return book.Book{}, false, nil
	}
	if err != nil {
		return book.Book{}, false, err
	}
	return b, true, nil
}

// Insert returns false when the ISBN is already taken. Validation failures
// come back as *APIError.
func (c *Client) Insert(ctx context.Context, in book.Insert) (book.Book, bool, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return book.Book{}, false, err
	}

	var b book.Book
	err = c.do(ctx, http.MethodPost, "/books", body, http.StatusCreated, &b)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Code == "ALREADY_EXISTS" {
		return book.Book{}, false, nil
	}
	if err != nil {
		return book.Book{}, false, err
	}
	return b, true, nil
}

// Delete reports whether the book existed.
func (c *Client) Delete(ctx context.Context, isbn string) (bool, error) {
	err := c.do(ctx, http.MethodDelete, "/books/"+url.PathEscape(isbn), nil, http.StatusOK, nil)
	if isStatus(err, http.StatusNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, want int, target any) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// 1x, 2x, 4x...
			backoff := c.backoff * time.Duration(1<<uint(i-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		err := c.once(ctx, method, path, body, want, target)
		if err == nil {
			return nil
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode != http.StatusTooManyRequests && apiErr.StatusCode < 500 {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		lastErr = err
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) once(ctx context.Context, method, path string, body []byte, want int, target any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return decodeError(resp)
	}
	if target == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(target)
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var envelope httpx.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		apiErr.Details = envelope.Error.Details
	}
	return apiErr
}

func isStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}
