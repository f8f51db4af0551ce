package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/UPO33/MPMatch/internal/constants"

	"github.com/valyala/fasthttp"
)

type WebhookNotifier struct {
	url    string
	client *fasthttp.Client

	statsMu sync.RWMutex
	stats   DeliveryStats
}

type DeliveryStats struct {
	Sent       int       `json:"sent"`
	Failed     int       `json:"failed"`
	LastStatus int       `json:"last_status"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url: url,
		client: &fasthttp.Client{
			MaxConnsPerHost:     32,
			ReadTimeout:         constants.WebhookTimeout,
			WriteTimeout:        constants.WebhookTimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

func (w *WebhookNotifier) Stats() DeliveryStats {
	w.statsMu.RLock()
	defer w.statsMu.RUnlock()
	return w.stats
}

func (w *WebhookNotifier) record(status int, ok bool) {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()

	if ok {
		w.stats.Sent++
	} else {
		w.stats.Failed++
	}
	w.stats.LastStatus = status
	w.stats.UpdatedAt = time.Now()
}

func (w *WebhookNotifier) Notify(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event.Type, err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(w.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("X-MPMatch-Event", event.Type)
	req.SetBody(body)

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(constants.WebhookTimeout)
	}
	if err := w.client.DoDeadline(req, resp, deadline); err != nil {
		w.record(0, false)
		return fmt.Errorf("webhook delivery failed: %w", err)
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		w.record(status, false)
		return fmt.Errorf("webhook error: %d", status)
	}

	w.record(status, true)
	return nil
}
