// Package aiclient calls the genai service to fill in product descriptions
// and categories. Calls block the product write that needs them and are
// retried under a backoff.Policy.
package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/backoff"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
)

// DefaultTimeout bounds one attempt.
const DefaultTimeout = 35 * time.Second

type Client struct {
	baseURL string
	timeout time.Duration
	policy  backoff.Policy
	http    *http.Client
	logger  logging.Logger
}

func New(baseURL string, timeout time.Duration, policy backoff.Policy, logger logging.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		policy:  policy,
		http:    &http.Client{},
		logger:  logger.With("module", "aiclient"),
	}
}

type descriptionRequest struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

type descriptionResponse struct {
	GeneratedDescription string `json:"generated_description"`
}

type categoryRequest struct {
	ProductName string `json:"product_name"`
	Description string `json:"description"`
}

type categoryResponse struct {
	SuggestedCategory string `json:"suggested_category"`
}

// GenerateDescription asks for a product description. It fails with
// common.ErrUpstream once every attempt has failed.
func (c *Client) GenerateDescription(ctx context.Context, name string, keywords []string) (string, error) {
	var out descriptionResponse
	err := c.call(ctx, "/generate/description", descriptionRequest{Name: name, Keywords: keywords}, &out, func() string {
		return out.GeneratedDescription
	})
	if err != nil {
		return "", err
	}
	return out.GeneratedDescription, nil
}

// GenerateCategory asks for a category of a described product.
func (c *Client) GenerateCategory(ctx context.Context, name, description string) (string, error) {
	var out categoryResponse
	err := c.call(ctx, "/generate/category", categoryRequest{ProductName: name, Description: description}, &out, func() string {
		return out.SuggestedCategory
	})
	if err != nil {
		return "", err
	}
	return out.SuggestedCategory, nil
}

var errEmptyResult = errors.New("empty generation result")

// statusError is a non-2xx answer from the genai service.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.code, e.body)
}

func (c *Client) call(ctx context.Context, path string, in any, out any, result func() string) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	err = c.policy.Do(ctx, func(ctx context.Context, attempt int) error {
		err := c.post(ctx, path, body, out)
		if err == nil && strings.TrimSpace(result()) == "" {
			err = errEmptyResult
		}
		if err != nil {
			c.logger.Warn(ctx, "generation attempt failed", "path", path, "attempt", attempt, "error", err)
		}
		return err
	})
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return err
	}
	c.logger.Error(ctx, "generation failed", "path", path, "error", err)
	return fmt.Errorf("%w: %s: %w", common.ErrUpstream, path, err)
}

func (c *Client) post(ctx context.Context, path string, body []byte, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(data))}
	}
	return json.Unmarshal(data, out)
}
