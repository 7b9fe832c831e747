// Package branchclient resolves branch master data from the bank's
// branch-registry service over HTTP, with a cache in front so the posting
// path does not pay a network round trip per resolution.
package branchclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/fintracore/corebank/internal/domain"
	"github.com/fintracore/corebank/internal/usecase"
)

const defaultCacheTTL = 10 * time.Minute

// Client implements usecase.BranchService.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      usecase.Cache
	logger     zerolog.Logger
	cacheTTL   time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithCache puts a cache in front of the registry lookups.
func WithCache(cache usecase.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a branch registry client.
func New(baseURL string, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		logger:     logger,
		cacheTTL:   defaultCacheTTL,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// GetBranch fetches one branch by id. Unknown branches map to
// domain.ErrBranchNotFound; transient registry failures are retried with
// exponential backoff before giving up.
func (c *Client) GetBranch(ctx context.Context, id string) (*domain.Branch, error) {
	if branch, ok := c.cachedBranch(ctx, id); ok {
		return branch, nil
	}

	var branch *domain.Branch

	operation := func() error {
		b, err := c.fetchBranch(ctx, id)
		if err != nil {
			if err == domain.ErrBranchNotFound {
				return backoff.Permanent(err)
			}

			c.logger.Warn().Err(err).Str("branch_id", id).Msg("branch registry lookup failed, retrying")

			return err
		}

		branch = b

		return nil
	}

	bo := backoff.WithContext(backoff.NewExponentialBackOff(), ctx)
	if err := backoff.Retry(operation, backoff.WithMaxRetries(bo, 3)); err != nil {
		return nil, err
	}

	c.storeBranch(ctx, branch)

	return branch, nil
}

func (c *Client) fetchBranch(ctx context.Context, id string) (*domain.Branch, error) {
	url := fmt.Sprintf("%s/branches/%s", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, domain.ErrBranchNotFound
	default:
		return nil, fmt.Errorf("branch registry returned status %d", resp.StatusCode)
	}

	var branch domain.Branch
	if err := json.NewDecoder(resp.Body).Decode(&branch); err != nil {
		return nil, err
	}

	return &branch, nil
}

func (c *Client) cachedBranch(ctx context.Context, id string) (*domain.Branch, bool) {
	if c.cache == nil {
		return nil, false
	}

	raw, err := c.cache.Get(ctx, cacheKey(id))
	if err != nil {
		return nil, false
	}

	var branch domain.Branch
	if err := json.Unmarshal([]byte(raw), &branch); err != nil {
		return nil, false
	}

	return &branch, true
}

func (c *Client) storeBranch(ctx context.Context, branch *domain.Branch) {
	if c.cache == nil || branch == nil {
		return
	}

	raw, err := json.Marshal(branch)
	if err != nil {
		return
	}

	if err := c.cache.Set(ctx, cacheKey(branch.ID), string(raw), c.cacheTTL); err != nil {
		c.logger.Warn().Err(err).Str("branch_id", branch.ID).Msg("failed to cache branch")
	}
}

func cacheKey(id string) string {
	return "branch:" + id
}
