// Package ticketsource talks to the external ticketing platform's export
// API. Responses are cached on disk because exports are slow and the
// data only changes when staff process transfers.
package ticketsource

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/roomsvc/reservations-backend/internal/config"
	"github.com/roomsvc/reservations-backend/internal/ingest"
	"github.com/roomsvc/reservations-backend/internal/models"
)

// ErrAuth is returned when the ticket source rejects our API key.
var ErrAuth = errors.New("ticket source rejected the API key")

// SourceError wraps a failed export call.
type SourceError struct {
	StatusCode int
	Err        error
}

func (e *SourceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("ticket source export failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("ticket source export failed: %v", e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Filter narrows an export to tickets matching a product label.
type Filter struct {
	Label string `json:"label"`
}

// ExportOptions controls one export request.
type ExportOptions struct {
	Order   string
	Reverse bool
	Search  []Filter

	// ForceRefresh bypasses the cache for this call.
	ForceRefresh bool
}

// Client is an HTTP client for the ticket source export API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      *Cache
	logger     *logrus.Logger
}

// NewClient creates a ticket source client from configuration.
func NewClient(cfg config.TicketSourceConfig, logger *logrus.Logger) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache:  NewCache(cfg.CacheDir, cfg.CacheTTL),
		logger: logger,
	}
}

// ExportTickets fetches ticket records matching the given options, from
// cache when a fresh copy exists.
func (c *Client) ExportTickets(opts ExportOptions) ([]models.TicketRecord, error) {
	key := c.cache.Key(opts)

	if !opts.ForceRefresh {
		if body, ok := c.cache.Get(key); ok {
			c.logger.WithField("cache_key", key).Debug("Using cached ticket export")
			return ingest.ParseTicketsJSON(body)
		}
	}

	body, err := c.export(opts)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Put(key, body); err != nil {
		c.logger.WithError(err).Warn("Failed to cache ticket export")
	}

	return ingest.ParseTicketsJSON(body)
}

// CachedExport returns records from the cache only, without ever calling
// the ticket source. ok is false when no fresh cache entry exists.
func (c *Client) CachedExport(opts ExportOptions) ([]models.TicketRecord, bool, error) {
	body, ok := c.cache.Get(c.cache.Key(opts))
	if !ok {
		return nil, false, nil
	}

	records, err := ingest.ParseTicketsJSON(body)
	if err != nil {
		return nil, false, err
	}
	return records, true, nil
}

func (c *Client) export(opts ExportOptions) ([]byte, error) {
	payload, err := json.Marshal(struct {
		Order   string   `json:"order"`
		Reverse bool     `json:"reverse"`
		Search  []Filter `json:"search"`
	}{opts.Order, opts.Reverse, opts.Search})
	if err != nil {
		return nil, &SourceError{Err: err}
	}

	url := c.baseURL + "/api/tickets/export"
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, &SourceError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	c.logger.WithFields(logrus.Fields{
		"url":     url,
		"filters": len(opts.Search),
	}).Info("Requesting ticket export")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &SourceError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrAuth
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &SourceError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &SourceError{Err: err}
	}
	return body, nil
}
