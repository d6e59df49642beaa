package api

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

	"github.com/damon-houk/finance-tracker/internal/domain/entity"
	"github.com/damon-houk/finance-tracker/internal/domain/service"
	"github.com/damon-houk/finance-tracker/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
)

const (
	readPath   = "/read.php"
	statsPath  = "/stats.php"
	createPath = "/create.php"
	updatePath = "/update.php"
	deletePath = "/delete.php"

	// maxBodyBytes bounds how much of a response is read before decoding
	maxBodyBytes = 4 << 20
)

// Envelope is the wrapper shared by every ledger service response
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// BreakerSettings configures when the client stops calling an unreachable service
type BreakerSettings struct {
	// MaxConsecutiveFailures transport failures in a row open the breaker
	MaxConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before letting a probe through
	OpenTimeout time.Duration
}

// DefaultBreakerSettings returns the settings used when none are given
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxConsecutiveFailures: 5,
		OpenTimeout:            30 * time.Second,
	}
}

// LedgerAPIClient implements service.LedgerAPI over HTTP+JSON.
// Requests are never retried; an open breaker fails calls immediately.
type LedgerAPIClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     logger.Logger
}

var _ service.LedgerAPI = (*LedgerAPIClient)(nil)

// NewLedgerAPIClient creates a new ledger service client
func NewLedgerAPIClient(baseURL string, httpClient *http.Client, settings BreakerSettings, log logger.Logger) *LedgerAPIClient {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 10 * time.Second,
		}
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	if settings.MaxConsecutiveFailures == 0 {
		settings.MaxConsecutiveFailures = DefaultBreakerSettings().MaxConsecutiveFailures
	}

	c := &LedgerAPIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     log,
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ledger-api",
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.MaxConsecutiveFailures
		},
		// A caller abandoning its request says nothing about the service's health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			c.logger.Warn("Ledger API circuit breaker state changed", map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
	})

	return c
}

// ListTransactions fetches the transactions selected by filter
func (c *LedgerAPIClient) ListTransactions(ctx context.Context, filter entity.Filter) ([]entity.Transaction, error) {
	if filter == "" {
		filter = entity.FilterAll
	}
	path := readPath + "?filter=" + url.QueryEscape(string(filter))

	var txs []entity.Transaction
	if err := c.do(ctx, "list transactions", http.MethodGet, path, nil, &txs); err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []entity.Transaction{}
	}
	return txs, nil
}

// GetStats fetches the aggregate totals
func (c *LedgerAPIClient) GetStats(ctx context.Context) (*entity.Stats, error) {
	var stats entity.Stats
	if err := c.do(ctx, "get stats", http.MethodGet, statsPath, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// CreateTransaction posts a new transaction; the ID assigned by the service is not returned
func (c *LedgerAPIClient) CreateTransaction(ctx context.Context, tx *entity.Transaction) error {
	body := *tx
	body.ID = ""
	return c.do(ctx, "create transaction", http.MethodPost, createPath, body, nil)
}

// UpdateTransaction posts the full record for replacement
func (c *LedgerAPIClient) UpdateTransaction(ctx context.Context, tx *entity.Transaction) error {
	if tx.ID == "" {
		return errors.New("update requires a transaction id")
	}
	return c.do(ctx, "update transaction", http.MethodPost, updatePath, tx, nil)
}

// DeleteTransaction posts the id of the record to remove
func (c *LedgerAPIClient) DeleteTransaction(ctx context.Context, id string) error {
	return c.do(ctx, "delete transaction", http.MethodPost, deletePath, map[string]string{"id": id}, nil)
}

// do performs a single request and unwraps the envelope into out
func (c *LedgerAPIClient) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	requestID := uuid.New().String()
	start := time.Now()

	c.logger.Debug("Ledger API request", map[string]interface{}{
		"request_id": requestID,
		"operation":  op,
		"method":     method,
		"path":       path,
	})

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.exchange(ctx, requestID, method, path, body)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("circuit breaker open: %w", err)
		}
		c.logger.Warn("Ledger API request failed", map[string]interface{}{
			"request_id":  requestID,
			"operation":   op,
			"duration_ms": time.Since(start).Milliseconds(),
			"error":       err.Error(),
		})
		return &service.TransportError{Op: op, Err: err}
	}

	env := result.(*Envelope)
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "request rejected by ledger service"
		}
		c.logger.Warn("Ledger API rejected request", map[string]interface{}{
			"request_id": requestID,
			"operation":  op,
			"message":    msg,
		})
		return &service.ServerError{Message: msg}
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &service.TransportError{Op: op, Err: fmt.Errorf("failed to decode response data: %w", err)}
		}
	}

	c.logger.Debug("Ledger API request completed", map[string]interface{}{
		"request_id":  requestID,
		"operation":   op,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

// exchange sends the request and decodes the envelope; every error it returns is a transport failure
func (c *LedgerAPIClient) exchange(ctx context.Context, requestID, method, path string, body interface{}) (*Envelope, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Debug("Error closing response body", map[string]interface{}{
				"request_id": requestID,
				"error":      closeErr.Error(),
			})
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var env struct {
		Success *bool           `json:"success"`
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("status %d: failed to decode envelope: %w", resp.StatusCode, err)
	}
	if env.Success == nil {
		return nil, fmt.Errorf("status %d: envelope has no success flag", resp.StatusCode)
	}

	// A rejection envelope is a valid answer whatever the status; a success flag on an error status is not
	if *env.Success && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return &Envelope{Success: *env.Success, Data: env.Data, Message: env.Message}, nil
}
