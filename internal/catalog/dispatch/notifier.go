package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/catalog/models"
)

// DefaultNotifyTimeout bounds one webhook call.
const DefaultNotifyTimeout = 10 * time.Second

// HTTPNotifier posts events to the alert service webhook.
type HTTPNotifier struct {
	url     string
	timeout time.Duration
	client  *http.Client
}

func NewHTTPNotifier(url string, timeout time.Duration) *HTTPNotifier {
	if timeout <= 0 {
		timeout = DefaultNotifyTimeout
	}
	return &HTTPNotifier{url: url, timeout: timeout, client: &http.Client{}}
}

func (n *HTTPNotifier) Notify(ctx context.Context, ev models.StockEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook: unexpected status %d", resp.StatusCode)
	}
	return nil
}
