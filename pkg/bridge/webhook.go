package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrymomot/pushkit/pkg/logger"
)

// WebhookBridge posts events as JSON to an application endpoint. Deliver
// only queues the event; a single worker posts queued events in order.
type WebhookBridge struct {
	endpoint   string
	client     *http.Client
	timeout    time.Duration
	maxRetries int
	backoff    Backoff
	headers    map[string]string
	queueSize  int
	logger     *slog.Logger

	queue   chan webhookJob
	mu      sync.RWMutex
	closed  bool
	done    chan struct{}
	stopped chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
}

type webhookJob struct {
	ctx context.Context
	ev  Event
}

// WebhookOption configures a WebhookBridge.
type WebhookOption func(*WebhookBridge)

// WithHTTPClient sets the client used for posting.
func WithHTTPClient(c *http.Client) WebhookOption {
	return func(w *WebhookBridge) {
		if c != nil {
			w.client = c
		}
	}
}

// WithTimeout bounds each attempt.
func WithTimeout(d time.Duration) WebhookOption {
	return func(w *WebhookBridge) {
		if d > 0 {
			w.timeout = d
		}
	}
}

// WithMaxRetries sets the number of retries after the first attempt.
func WithMaxRetries(n int) WebhookOption {
	return func(w *WebhookBridge) {
		if n >= 0 {
			w.maxRetries = n
		}
	}
}

// WithBackoff sets the wait between retries.
func WithBackoff(b Backoff) WebhookOption {
	return func(w *WebhookBridge) {
		if b != nil {
			w.backoff = b
		}
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) WebhookOption {
	return func(w *WebhookBridge) { w.headers[key] = value }
}

// WithQueueSize bounds the number of events waiting to be posted.
func WithQueueSize(n int) WebhookOption {
	return func(w *WebhookBridge) {
		if n > 0 {
			w.queueSize = n
		}
	}
}

// WithWebhookLogger sets the logger for failed attempts.
func WithWebhookLogger(l *slog.Logger) WebhookOption {
	return func(w *WebhookBridge) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWebhookBridge validates endpoint and starts the worker posting to it.
// Close stops the worker.
func NewWebhookBridge(endpoint string, opts ...WebhookOption) (*WebhookBridge, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, errors.Join(ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: only http and https are supported", ErrInvalidURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: host is required", ErrInvalidURL)
	}

	w := &WebhookBridge{
		endpoint:   endpoint,
		client:     &http.Client{},
		timeout:    10 * time.Second,
		maxRetries: 3,
		backoff:    ExponentialBackoff{JitterFactor: 0.1},
		headers:    make(map[string]string),
		queueSize:  64,
		logger:     logger.Discard(),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.queue = make(chan webhookJob, w.queueSize)
	w.ctx, w.cancel = context.WithCancel(context.Background())
	go w.run()
	return w, nil
}

// Ready reports whether the bridge still accepts events. Endpoint
// availability is discovered on delivery.
func (w *WebhookBridge) Ready() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return !w.closed
}

// Deliver queues ev for posting and returns without waiting for the
// endpoint. It fails when the bridge is closed or the queue is full.
func (w *WebhookBridge) Deliver(ctx context.Context, ev Event) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return ErrBridgeClosed
	}
	select {
	case w.queue <- webhookJob{ctx: context.WithoutCancel(ctx), ev: ev}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting events and waits for the queued ones to be posted.
// When ctx ends first, in-flight posts are cancelled and the rest dropped.
func (w *WebhookBridge) Close(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.done)
	}
	w.mu.Unlock()

	select {
	case <-w.stopped:
		return nil
	case <-ctx.Done():
		w.cancel()
		<-w.stopped
		return ctx.Err()
	}
}

func (w *WebhookBridge) run() {
	defer close(w.stopped)
	defer w.cancel()
	for {
		select {
		case job := <-w.queue:
			w.process(job)
		case <-w.done:
			for {
				select {
				case job := <-w.queue:
					w.process(job)
				default:
					return
				}
			}
		}
	}
}

func (w *WebhookBridge) process(job webhookJob) {
	ctx, cancel := context.WithCancel(job.ctx)
	defer cancel()
	stop := context.AfterFunc(w.ctx, cancel)
	defer stop()

	if err := w.Send(ctx, job.ev); err != nil {
		w.logger.LogAttrs(ctx, slog.LevelError, "bridge webhook delivery failed",
			logger.Component("bridge"),
			logger.EventType(string(job.ev.Kind)),
			logger.NotificationID(job.ev.NotificationID),
			logger.Error(err),
		)
	}
}

// Send posts ev and waits for the outcome, retrying network errors, 5xx and
// 408/425/429 responses.
func (w *WebhookBridge) Send(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return errors.Join(ErrPermanentFailure, err)
	}

	var lastErr error
	for attempt := 0; attempt <= w.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(w.backoff.NextInterval(attempt)):
			}
		}

		status, err := w.post(ctx, body)
		if err == nil {
			return nil
		}
		lastErr = err

		w.logger.LogAttrs(ctx, slog.LevelWarn, "bridge webhook attempt failed",
			logger.Component("bridge"),
			logger.EventType(string(ev.Kind)),
			logger.Attempt(attempt+1),
			slog.Int("status", status),
			logger.Error(err),
		)

		if permanent(status) {
			return errors.Join(ErrPermanentFailure, err)
		}
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrDeliveryFailed, w.maxRetries+1, lastErr)
}

func (w *WebhookBridge) post(ctx context.Context, body []byte) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "pushkit-bridge/1.0")
	for k, v := range w.headers {
		req.Header.Set(k, v)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return 0, errors.Join(ErrTemporaryFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}

	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	text := strings.ReplaceAll(strings.TrimSpace(string(msg)), "\n", " ")
	return resp.StatusCode, fmt.Errorf("endpoint returned status %d: %s", resp.StatusCode, text)
}

func permanent(status int) bool {
	if status < 400 || status >= 500 {
		return false
	}
	switch status {
	case http.StatusRequestTimeout, http.StatusTooEarly, http.StatusTooManyRequests:
		return false
	}
	return true
}
