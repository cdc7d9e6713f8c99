package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// Client is the shared HTTP client for feed sources. When robots checking
// is enabled it consults each host's robots.txt once per session before
// allowing requests.
type Client struct {
	http        *http.Client
	userAgent   string
	checkRobots bool

	mu          sync.Mutex
	robotsCache map[string]*robotstxt.RobotsData
}

// NewClient creates a feed client with a tuned transport.
func NewClient(timeout time.Duration, userAgent string, checkRobots bool) *Client {
	return &Client{
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent:   userAgent,
		checkRobots: checkRobots,
		robotsCache: make(map[string]*robotstxt.RobotsData),
	}
}

// Get issues a GET against the feed endpoint, honoring robots.txt when
// enabled.
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse url: %w", err)
	}

	if c.checkRobots {
		allowed, err := c.allowed(ctx, u)
		if err == nil && !allowed {
			return nil, fmt.Errorf("robots.txt disallows %s", rawURL)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}
	return resp, nil
}

// allowed checks the host's robots.txt, fetching and caching it on first
// use. An unreachable or missing robots.txt allows everything.
func (c *Client) allowed(ctx context.Context, u *url.URL) (bool, error) {
	c.mu.Lock()
	robots, cached := c.robotsCache[u.Host]
	c.mu.Unlock()

	if !cached {
		robotsURL := fmt.Sprintf("%s://%s/robots.txt", u.Scheme, u.Host)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
		if err != nil {
			return true, err
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			return true, err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusOK {
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return true, err
			}
			robots, err = robotstxt.FromBytes(body)
			if err != nil {
				robots = nil
			}
		}

		c.mu.Lock()
		c.robotsCache[u.Host] = robots
		c.mu.Unlock()
	}

	if robots == nil {
		return true, nil
	}
	return robots.TestAgent(u.Path, c.userAgent), nil
}
