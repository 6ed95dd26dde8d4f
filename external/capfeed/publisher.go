package capfeed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/gridironsim/capengine/internal/domain/txlog"
	"github.com/gridironsim/capengine/internal/platform/logging"
	"github.com/gridironsim/capengine/internal/platform/resilience"
)

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	Breaker resilience.CircuitBreakerConfig
}

// Publisher mirrors committed cap transactions to the league feed service.
// It implements usecase.FeedPublisher. Delivery is at-least-once; the feed
// deduplicates on the entry id carried in the Idempotency-Key header.
type Publisher struct {
	client  *http.Client
	baseURL string
	token   string
	breaker *resilience.CircuitBreaker
	logger  *logging.Logger
}

func NewPublisher(cfg Config, logger *logging.Logger) *Publisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}

	var breaker *resilience.CircuitBreaker
	if cfg.Breaker.Enabled {
		normalized := resilience.NormalizeCircuitBreakerConfig(cfg.Breaker)
		breaker = resilience.NewCircuitBreaker(
			normalized.FailureThreshold,
			normalized.OpenTimeout,
			normalized.HalfOpenMaxReq,
		)
	}

	return &Publisher{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:   strings.TrimSpace(cfg.Token),
		breaker: breaker,
		logger:  logger,
	}
}

type feedEntryPayload struct {
	ID               string        `json:"id"`
	DynastyID        string        `json:"dynastyId"`
	TeamID           string        `json:"teamId"`
	PlayerID         string        `json:"playerId,omitempty"`
	ContractID       string        `json:"contractId,omitempty"`
	Type             string        `json:"type"`
	Season           int           `json:"season"`
	Date             time.Time     `json:"date"`
	CapImpact        int64         `json:"capImpactCents"`
	FutureImpacts    map[int]int64 `json:"futureImpactsCents,omitempty"`
	CashImpact       int64         `json:"cashImpactCents"`
	DeadMoneyCreated int64         `json:"deadMoneyCreatedCents"`
	Description      string        `json:"description,omitempty"`
}

func (p *Publisher) PublishEntry(ctx context.Context, entry txlog.Entry) error {
	publishURL, err := validateHTTPBaseURL(p.baseURL)
	if err != nil {
		return fmt.Errorf("invalid CAP_FEED_BASE_URL: %w", err)
	}
	publishURL += "/v1/entries"

	if p.breaker != nil {
		if err := p.breaker.Allow(); err != nil {
			return fmt.Errorf("cap feed circuit open: %w", err)
		}
	}

	payload := feedEntryPayload{
		ID:               entry.ID,
		DynastyID:        entry.DynastyID,
		TeamID:           entry.TeamID,
		PlayerID:         entry.PlayerID,
		ContractID:       entry.ContractID,
		Type:             string(entry.Type),
		Season:           entry.Season,
		Date:             entry.Date,
		CapImpact:        int64(entry.CapImpact),
		CashImpact:       int64(entry.CashImpact),
		DeadMoneyCreated: int64(entry.DeadMoneyCreated),
		Description:      entry.Description,
	}
	if len(entry.FutureImpacts) > 0 {
		payload.FutureImpacts = make(map[int]int64, len(entry.FutureImpacts))
		for season, amount := range entry.FutureImpacts {
			payload.FutureImpacts[season] = int64(amount)
		}
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	body, err := sonic.Marshal(payload)
	if err != nil {
		p.recordFailure()
		return fmt.Errorf("marshal feed entry %s: %w", entry.ID, err)
	}
	if _, err := buf.Write(body); err != nil {
		p.recordFailure()
		return fmt.Errorf("buffer feed entry %s: %w", entry.ID, err)
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("capfeed.publish_url", publishURL),
			attribute.String("capfeed.entry_id", entry.ID),
			attribute.String("capfeed.entry_type", string(entry.Type)),
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, publishURL, bytes.NewReader(buf.Bytes()))
	if err != nil {
		p.recordFailure()
		return fmt.Errorf("create feed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", entry.ID)
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.recordFailure()
		return fmt.Errorf("publish feed entry %s: %w", entry.ID, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		p.recordFailure()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf(
			"publish feed entry %s status=%d body=%s",
			entry.ID,
			resp.StatusCode,
			strings.TrimSpace(string(raw)),
		)
	}

	p.recordSuccess()
	p.logger.InfoContext(ctx, "cap feed entry published",
		"entry_id", entry.ID,
		"type", string(entry.Type),
		"team_id", entry.TeamID,
	)
	return nil
}

func (p *Publisher) recordSuccess() {
	if p.breaker != nil {
		p.breaker.RecordSuccess()
	}
}

func (p *Publisher) recordFailure() {
	if p.breaker != nil {
		p.breaker.RecordFailure()
	}
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", fmt.Errorf("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", candidate, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", fmt.Errorf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}
