package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"brandae-leads-api/internal/metrics"
)

// isoMillis matches the ISO-8601 form receivers already parse, e.g. 2024-01-15T10:30:00.000Z.
const isoMillis = "2006-01-02T15:04:05.000Z"

// Registry yields the endpoints that should receive a round.
type Registry interface {
	ListActive(ctx context.Context) ([]Endpoint, error)
}

// Options configures a Dispatcher.
type Options struct {
	// Secret enables the X-Webhook-Signature header. Empty sends no auth header.
	Secret string
	// Timeout bounds each POST. Zero means 10s.
	Timeout time.Duration
	// MaxConcurrency caps in-flight POSTs per round. Zero is unbounded.
	MaxConcurrency int
	// Client overrides the HTTP client, mainly for tests.
	Client *http.Client
	// Now overrides the payload clock.
	Now func() time.Time
}

// Dispatcher fans an Event out to every active endpoint, one POST each,
// concurrently. Delivery is best effort: failures are logged and reported,
// never retried and never returned as errors.
//
// In-flight requests belong to the Dispatcher rather than to the caller:
// cancelling the caller's context does not abort a round, Close does.
type Dispatcher struct {
	registry       Registry
	client         *http.Client
	secret         string
	maxConcurrency int
	now            func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(reg Registry, opts Options) *Dispatcher {
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		registry:       reg,
		client:         client,
		secret:         opts.Secret,
		maxConcurrency: opts.MaxConcurrency,
		now:            now,
		ctx:            ctx,
		cancel:         cancel,
	}
}

// Notify runs one round and waits for every attempt to settle.
func (d *Dispatcher) Notify(ctx context.Context, ev Event) Report {
	if !d.track() {
		log.Ctx(ctx).Warn().Str("event", ev.Type).Msg("Webhook dispatcher closed, round skipped")
		return Report{}
	}
	defer d.wg.Done()
	return d.round(ctx, ev)
}

// NotifyAsync starts a round on a tracked goroutine and returns immediately.
// Close waits for it.
func (d *Dispatcher) NotifyAsync(ctx context.Context, ev Event) {
	if !d.track() {
		log.Ctx(ctx).Warn().Str("event", ev.Type).Msg("Webhook dispatcher closed, round skipped")
		return
	}
	go func() {
		defer d.wg.Done()
		d.round(ctx, ev)
	}()
}

// Close cancels in-flight requests and waits for running rounds to return.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	d.cancel()
	d.wg.Wait()
	d.client.CloseIdleConnections()
}

func (d *Dispatcher) track() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false
	}
	d.wg.Add(1)
	return true
}

// roundContext keeps the caller's values (request-scoped logger) but takes
// cancellation from the dispatcher lifecycle only.
func (d *Dispatcher) roundContext(ctx context.Context) (context.Context, context.CancelFunc) {
	rctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(d.ctx, cancel)
	return rctx, func() {
		stop()
		cancel()
	}
}

func (d *Dispatcher) round(ctx context.Context, ev Event) Report {
	ctx, cancel := d.roundContext(ctx)
	defer cancel()
	logger := log.Ctx(ctx)

	endpoints, err := d.registry.ListActive(ctx)
	if err != nil {
		logger.Error().
			Err(err).
			Str("event", ev.Type).
			Msg("Failed to list active webhooks, dispatch skipped")
		return Report{RegistryErr: err}
	}
	if len(endpoints) == 0 {
		logger.Debug().
			Str("event", ev.Type).
			Msg("No active webhooks for event")
		return Report{}
	}

	logger.Info().
		Str("event", ev.Type).
		Int("webhook_count", len(endpoints)).
		Msg("Dispatching webhook event")

	deliveries := make([]Delivery, len(endpoints))
	var g errgroup.Group
	if d.maxConcurrency > 0 {
		g.SetLimit(d.maxConcurrency)
	}
	for i, ep := range endpoints {
		g.Go(func() error {
			deliveries[i] = d.deliver(ctx, ep, ev)
			return nil
		})
	}
	_ = g.Wait()

	rep := Report{Attempted: len(deliveries), Deliveries: deliveries}
	for _, dl := range deliveries {
		if dl.OK() {
			rep.Delivered++
		} else {
			rep.Failed++
		}
	}

	logger.Info().
		Str("event", ev.Type).
		Int("attempted", rep.Attempted).
		Int("delivered", rep.Delivered).
		Int("failed", rep.Failed).
		Msg("Webhook round settled")
	return rep
}

// BuildPayload is the body for one endpoint; only webhook_name differs between endpoints.
func (d *Dispatcher) BuildPayload(ep Endpoint, ev Event) Payload {
	return Payload{
		Type:        ev.Type,
		FormData:    ev.FormData,
		Timestamp:   d.now().UTC().Format(isoMillis),
		WebhookName: ep.Name,
		Source:      ev.Source,
	}
}

func (d *Dispatcher) deliver(ctx context.Context, ep Endpoint, ev Event) Delivery {
	logger := log.Ctx(ctx)
	out := Delivery{EndpointID: ep.ID, Name: ep.Name, URL: ep.URL}
	start := time.Now()

	err := d.post(ctx, ep, ev, &out)
	out.Duration = time.Since(start)

	status := "delivered"
	if err != nil {
		status = "failed"
		out.Error = err.Error()
		logger.Warn().
			Err(err).
			Str("webhook_name", ep.Name).
			Str("url", ep.URL).
			Str("event", ev.Type).
			Int("status", out.StatusCode).
			Msg("Webhook delivery failed")
	} else {
		logger.Info().
			Str("webhook_name", ep.Name).
			Str("url", ep.URL).
			Str("event", ev.Type).
			Int("status", out.StatusCode).
			Dur("duration_ms", out.Duration).
			Msg("Webhook delivered successfully")
	}

	metrics.WebhookDeliveries.WithLabelValues(ev.Type, status).Inc()
	metrics.WebhookLatency.WithLabelValues(ev.Type, status).Observe(float64(out.Duration.Milliseconds()))
	return out
}

func (d *Dispatcher) post(ctx context.Context, ep Endpoint, ev Event, out *Delivery) error {
	body, err := json.Marshal(d.BuildPayload(ep, ev))
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if d.secret != "" {
		req.Header.Set(SignatureHeader, Sign(d.secret, body))
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		_ = resp.Body.Close()
	}()

	out.StatusCode = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("non-2xx status %d", resp.StatusCode)
	}
	return nil
}
