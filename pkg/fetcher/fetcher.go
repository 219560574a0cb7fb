package fetcher

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/rs/zerolog/log"
	"github.com/whensmy/whensmy/pkg/redis_client"
)

// ErrProviderUnavailable marks any failure to get usable data out of a live
// feed - transport errors, bad statuses and unparseable bodies all collapse
// into it, since the user-facing handling is the same.
var ErrProviderUnavailable = errors.New("live data provider unavailable")

// Client fetches feed documents over HTTP, optionally through a short-lived
// redis cache so a burst of requests for the same stop hits the provider once.
type Client struct {
	httpClient *http.Client
	userAgent  string

	cache    *cache.Cache[string]
	cacheTTL time.Duration
}

func NewClient(userAgent string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		userAgent:  userAgent,
	}
}

// EnableCache caches fetched bodies in redis, keyed by URL. Requires
// redis_client.Connect to have run.
func (c *Client) EnableCache(ttl time.Duration) {
	redisStore := redisstore.NewRedis(redis_client.Client, store.WithExpiration(ttl))

	c.cache = cache.New[string](redisStore)
	c.cacheTTL = ttl
}

func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, url); err == nil && cached != "" {
			return []byte(cached), nil
		}
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("User-Agent", c.userAgent)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProviderUnavailable, err.Error())
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d from %s", ErrProviderUnavailable, response.StatusCode, url)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProviderUnavailable, err.Error())
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, url, string(body)); err != nil {
			log.Debug().Err(err).Str("url", url).Msg("Failed to cache feed body")
		}
	}

	return body, nil
}

func (c *Client) GetJSON(ctx context.Context, url string, value any) error {
	body, err := c.Get(ctx, url)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, value); err != nil {
		return fmt.Errorf("%w: %s", ErrProviderUnavailable, err.Error())
	}
	return nil
}

func (c *Client) GetXML(ctx context.Context, url string, value any) error {
	body, err := c.Get(ctx, url)
	if err != nil {
		return err
	}

	if err := xml.Unmarshal(body, value); err != nil {
		return fmt.Errorf("%w: %s", ErrProviderUnavailable, err.Error())
	}
	return nil
}
