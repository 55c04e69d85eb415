package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/kalorikoll/backend/internal/domain"
	"golang.org/x/time/rate"
)

const maxAttempts = 3

// Client handles communication with the Open Food Facts product API
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	rateLimiter *rate.Limiter
	debug       bool
}

// ClientConfig holds configuration for the Open Food Facts client
type ClientConfig struct {
	BaseURL           string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerMinute int
}

// NewClient creates a new Open Food Facts client
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	// Open Food Facts asks for at most 100 product reads per minute
	perMinute := cfg.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = 60
	}
	limiter := rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 5)

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "Kalorikoll/1.0"
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     cfg.BaseURL,
		userAgent:   userAgent,
		rateLimiter: limiter,
	}
}

// SetDebug enables or disables debug logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns the wait before retrying after attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// GetProduct fetches a product by barcode. Unknown barcodes yield
// domain.ErrProductNotFound; transport and server failures are retried and
// then reported as domain.ErrLookupUnavailable.
func (c *Client) GetProduct(ctx context.Context, barcode string) (*domain.OFFProductResponse, error) {
	reqURL := fmt.Sprintf("%s/api/v0/product/%s.json", c.baseURL, barcode)
	if c.debug {
		log.Printf("[OFF] GetProduct %s", reqURL)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrLookupUnavailable, err)
		}

		resp, body, err := c.doRequest(ctx, reqURL)
		if err != nil {
			log.Printf("[OFF] Request error (attempt %d): %v", attempt, err)
			lastErr = err
			if !c.sleep(ctx, attempt) {
				break
			}
			continue
		}

		if resp.StatusCode == http.StatusNotFound {
			return nil, domain.ErrProductNotFound
		}
		if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
			log.Printf("[OFF] API error (attempt %d) - Status: %d", attempt, resp.StatusCode)
			lastErr = fmt.Errorf("%w: status %d", domain.ErrLookupUnavailable, resp.StatusCode)
			if !c.sleep(ctx, attempt) {
				break
			}
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: status %d", domain.ErrLookupUnavailable, resp.StatusCode)
		}

		var product domain.OFFProductResponse
		if err := json.Unmarshal(body, &product); err != nil {
			return nil, fmt.Errorf("%w: decode response: %v", domain.ErrLookupUnavailable, err)
		}
		if product.Status != 1 {
			if c.debug {
				log.Printf("[OFF] %s: %s", barcode, product.StatusVerbose)
			}
			return nil, domain.ErrProductNotFound
		}

		return &product, nil
	}

	log.Printf("[OFF] All retries failed for barcode %s", barcode)
	return nil, lastErr
}

// doRequest executes a GET and reads the whole body
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: create request: %v", domain.ErrLookupUnavailable, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrLookupUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read body: %v", domain.ErrLookupUnavailable, err)
	}
	return resp, body, nil
}

// sleep waits out the backoff unless it is the last attempt or ctx ends
func (c *Client) sleep(ctx context.Context, attempt int) bool {
	if attempt >= maxAttempts {
		return false
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(exponentialBackoff(attempt)):
		return true
	}
}
