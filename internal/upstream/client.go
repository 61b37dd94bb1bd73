package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"repasse/internal/cache"
	"repasse/internal/log"
)

const pagamentoPath = "/financiamento/pagamento"

// ErrEmptyPayload is returned when the upstream answers 200 OK with
// neither budget summaries nor payment records for the requested period.
var ErrEmptyPayload = errors.New("upstream returned no financing data for the requested period")

// ErrInvalidParams marks request-parameter failures so transports can
// map them to client errors.
var ErrInvalidParams = errors.New("invalid request parameters")

// Client talks to the national financing payment API.
type Client struct {
	baseURL string
	httpc   *http.Client
	retries int
	cache   *cache.LRUCache[FinancingData]
	logger  *log.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client, mostly for tests.
func WithHTTPClient(httpc *http.Client) ClientOption {
	return func(c *Client) { c.httpc = httpc }
}

// WithRetries sets how many times a request is retried on 429 and 5xx
// responses and on transport errors.
func WithRetries(n int) ClientOption {
	return func(c *Client) { c.retries = n }
}

// WithCache installs a response cache keyed by IBGE code and period.
func WithCache(lru *cache.LRUCache[FinancingData]) ClientOption {
	return func(c *Client) { c.cache = lru }
}

func NewClient(baseURL string, timeout time.Duration, logger *log.Logger, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
		retries: 3,
		logger:  logger.WithComponent("upstream"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ConsultFinancing fetches the financing payload for one municipality
// and one competência (AAAAMM). Responses are cached when a cache is
// configured.
func (c *Client) ConsultFinancing(ctx context.Context, codigoIBGE, competencia string) (FinancingData, error) {
	if err := ValidateParams(codigoIBGE, competencia); err != nil {
		return FinancingData{}, err
	}

	cacheKey := codigoIBGE + ":" + competencia
	if c.cache != nil {
		if data, ok := c.cache.Get(cacheKey); ok {
			c.logger.Debug("financing cache hit", "codigo_ibge", codigoIBGE, "competencia", competencia)
			return data, nil
		}
	}

	params := url.Values{}
	params.Set("unidadeGeografica", "MUNICIPIO")
	params.Set("coUf", codigoIBGE[:2])
	params.Set("coMunicipio", codigoIBGE[:6])
	params.Set("nuParcelaInicio", competencia)
	params.Set("nuParcelaFim", competencia)
	params.Set("tipoRelatorio", "COMPLETO")

	reqURL := c.baseURL + pagamentoPath + "?" + params.Encode()

	body, err := c.getWithRetry(ctx, reqURL)
	if err != nil {
		return FinancingData{}, err
	}

	var data FinancingData
	if err := json.Unmarshal(body, &data); err != nil {
		return FinancingData{}, fmt.Errorf("decoding financing payload: %w", err)
	}
	if len(data.ResumosPlanosOrcamentarios) == 0 && len(data.Pagamentos) == 0 {
		return FinancingData{}, ErrEmptyPayload
	}

	if c.cache != nil {
		c.cache.Set(cacheKey, data)
	}
	return data, nil
}

func (c *Client) getWithRetry(ctx context.Context, reqURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			c.logger.Warn("retrying upstream request", "attempt", attempt, "backoff", backoff, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("building upstream request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "repasse/1.0")

		resp, err := c.httpc.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("calling upstream: %w", err)
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			if readErr != nil {
				lastErr = fmt.Errorf("reading upstream response: %w", readErr)
				continue
			}
			return body, nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("upstream returned status %d", resp.StatusCode)
			continue
		default:
			return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
		}
	}
	return nil, fmt.Errorf("upstream request failed after %d attempts: %w", c.retries+1, lastErr)
}

// ValidateParams checks the IBGE code and competência formats before
// any network work happens.
func ValidateParams(codigoIBGE, competencia string) error {
	if len(codigoIBGE) < 6 || !allDigits(codigoIBGE) {
		return fmt.Errorf("%w: codigo IBGE must have at least 6 digits, got %q", ErrInvalidParams, codigoIBGE)
	}
	if len(competencia) != 6 || !allDigits(competencia) {
		return fmt.Errorf("%w: competencia must be in AAAAMM format, got %q", ErrInvalidParams, competencia)
	}
	return nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
