package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

// Webhook delivers approval requests and notifications to an HTTP
// endpoint. The endpoint answers an approval POST with the decision JSON;
// transport errors are retried with exponential backoff until the request
// context expires.
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook creates a webhook notifier for the given base URL.
func NewWebhook(url string) *Webhook {
	return &Webhook{
		url: url,
		client: &http.Client{
			// Per-attempt cap; the overall wait is governed by ctx.
			Timeout: 30 * time.Second,
		},
	}
}

func (w *Webhook) RequestApproval(ctx context.Context, req Request) (Response, error) {
	var resp Response
	operation := func() error {
		r, err := w.post(ctx, w.url+"/approvals", req)
		if err != nil {
			return err
		}
		defer r.Body.Close()

		if r.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(r.Body, 512))
			return fmt.Errorf("approval endpoint returned %d: %s", r.StatusCode, body)
		}
		if err := json.NewDecoder(r.Body).Decode(&resp); err != nil {
			return fmt.Errorf("failed to decode approval response: %w", err)
		}
		if resp.Decision != DecisionAllow && resp.Decision != DecisionDeny {
			return backoff.Permanent(fmt.Errorf("unexpected decision %q", resp.Decision))
		}
		return nil
	}

	err := backoff.Retry(operation, backoff.WithContext(backoff.NewExponentialBackOff(), ctx))
	if err != nil {
		return Response{}, err
	}
	return resp, nil
}

func (w *Webhook) SendNotification(ctx context.Context, n Notification) error {
	r, err := w.post(ctx, w.url+"/notifications", n)
	if err != nil {
		log.Debug().Err(err).Str("kind", n.Kind).Msg("notification delivery failed")
		return err
	}
	r.Body.Close()
	return nil
}

func (w *Webhook) post(ctx context.Context, url string, payload any) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	return w.client.Do(httpReq)
}
