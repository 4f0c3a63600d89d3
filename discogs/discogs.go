// Package discogs wraps the read endpoints of the Discogs API that this app
// uses: a user's collection listing, single-release detail, and marketplace
// pricing.
//
// Rate limiting follows Discogs' documented semantics: a 429 response is
// retried after the Retry-After header's wait (default 60s, clamped to
// 120s), up to 5 retries. Any other failure is logged and returned
// immediately; callers treat it as "no data for this call".
package discogs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/isAdamBailey/black-circles/limiter"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api.discogs.com"

	userAgent = "BlackCirclesApp/1.0 +https://github.com/isAdamBailey/black-circles"

	maxRetries        = 5
	defaultRetryAfter = 60 * time.Second
	maxRetryWait      = 120 * time.Second
	requestTimeout    = 30 * time.Second
)

// New creates a Discogs client. The token is optional; without one requests
// are unauthenticated and Discogs applies a lower rate limit.
func New(token string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		BaseURL:    DefaultBaseURL,
		HTTPClient: &http.Client{Timeout: requestTimeout},
		token:      token,
		log:        log,
		sleep:      limiter.Sleep,
	}
}

type Client struct {
	// BaseURL and HTTPClient may be replaced before first use.
	BaseURL    string
	HTTPClient *http.Client

	token string
	log   *zap.Logger
	sleep func(context.Context, time.Duration) error
}

// HasToken reports whether an API token is configured. Some endpoints
// (price suggestions) require one.
func (c *Client) HasToken() bool { return c.token != "" }

// GetCollectionPage fetches one page of the user's "all" collection folder,
// sorted by date added descending.
func (c *Client) GetCollectionPage(ctx context.Context, username string, page, perPage int) (*CollectionPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))
	query.Set("sort", "added")
	query.Set("sort_order", "desc")

	var result CollectionPage
	path := fmt.Sprintf("/users/%s/collection/folders/0/releases", url.PathEscape(username))
	if err := c.getJSON(ctx, path, query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetRelease fetches the full detail for one release.
func (c *Client) GetRelease(ctx context.Context, releaseID int64) (*ReleaseDetail, error) {
	var result ReleaseDetail
	if err := c.getJSON(ctx, fmt.Sprintf("/releases/%d", releaseID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetMarketStats fetches marketplace stats for a release: lowest listed
// price and copies for sale. Works without a token.
func (c *Client) GetMarketStats(ctx context.Context, releaseID int64, currency string) (*MarketStats, error) {
	query := url.Values{}
	query.Set("curr_abbr", currency)

	var result MarketStats
	if err := c.getJSON(ctx, fmt.Sprintf("/marketplace/stats/%d", releaseID), query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetPriceSuggestions fetches suggested prices per condition grade, like
// {"Mint (M)": {"currency": "USD", "value": 35.0}, ...}. The endpoint
// requires a token; without one the lookup is skipped, which is not an
// error.
func (c *Client) GetPriceSuggestions(ctx context.Context, releaseID int64) (map[string]Price, error) {
	if !c.HasToken() {
		return nil, nil
	}

	var result map[string]Price
	if err := c.getJSON(ctx, fmt.Sprintf("/marketplace/price_suggestions/%d", releaseID), nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return fmt.Errorf("request error for '%s': %w", path, err)
		}
		req.Header.Set("User-Agent", userAgent)
		if c.token != "" {
			req.Header.Set("Authorization", "Discogs token="+c.token)
		}

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			c.log.Error("discogs request failed",
				zap.String("path", path), zap.Error(err))
			return fmt.Errorf("error fetching '%s': %w", path, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < maxRetries {
			resp.Body.Close()
			wait := retryWait(resp.Header.Get("Retry-After"))
			c.log.Warn("discogs rate limited (429), waiting before retry",
				zap.String("path", path),
				zap.Duration("wait", wait),
				zap.Int("attempt", attempt+1))
			if err := c.sleep(ctx, wait); err != nil {
				return err
			}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			c.log.Error("discogs request failed",
				zap.String("path", path),
				zap.Int("status", resp.StatusCode),
				zap.ByteString("body", body))
			return fmt.Errorf("http status code %d from '%s'", resp.StatusCode, path)
		}

		dec := json.NewDecoder(resp.Body)
		err = dec.Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decode error from '%s': %w", path, err)
		}
		return nil
	}
}

func retryWait(retryAfter string) time.Duration {
	wait := defaultRetryAfter
	if seconds, err := strconv.ParseInt(retryAfter, 10, 64); err == nil && seconds > 0 {
		wait = time.Duration(seconds) * time.Second
	}
	if wait > maxRetryWait {
		wait = maxRetryWait
	}
	return wait
}
