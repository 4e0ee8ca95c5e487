package emby

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/mmcdole/iplay/internal/domain"
	"github.com/mmcdole/iplay/internal/metrics"
	gobreaker "github.com/sony/gobreaker/v2"
)

var _ domain.RemoteClient = (*Client)(nil)

// Client is an Emby API handle bound to one user on one server
type Client struct {
	baseURL    string
	token      string
	userID     string
	identity   Identity
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
	breaker    *gobreaker.CircuitBreaker[[]byte]
	logger     *slog.Logger
}

// NewClient creates a client for baseURL authorized by token as userID
func NewClient(baseURL, token, userID string, opts ...Option) *Client {
	o := buildOptions(opts)
	baseURL = strings.TrimRight(baseURL, "/")
	logger := o.logger.With("component", "emby", "server", baseURL)

	return &Client{
		baseURL:    baseURL,
		token:      token,
		userID:     userID,
		identity:   o.identity,
		httpClient: o.httpClient,
		maxRetries: o.maxRetries,
		retryDelay: o.retryDelay,
		breaker:    newBreaker("emby:"+baseURL, logger),
		logger:     logger,
	}
}

// doRequest performs an authenticated request through the circuit breaker
func (c *Client) doRequest(ctx context.Context, route, path string, query url.Values) ([]byte, error) {
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.doRequestWithRetry(ctx, route, path, query)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.RemoteRequests.WithLabelValues(route, "rejected").Inc()
		return nil, domain.NewError(domain.KindNetwork, route, fmt.Errorf("%w: %w", domain.ErrServerOffline, err))
	}
	return body, err
}

// doRequestWithRetry retries 5xx responses with exponential backoff
func (c *Client) doRequestWithRetry(ctx context.Context, route, path string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + "/emby" + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt > 0 {
			delay := c.retryDelay * time.Duration(1<<(attempt-1))
			c.logger.Debug("retrying request", "attempt", attempt, "delay", delay, "route", route)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Emby-Token", c.token)
		req.Header.Set("X-Emby-Authorization", buildAuthHeader(c.identity, c.token))
		if c.identity.Language != "" {
			req.Header.Set("X-Emby-Language", c.identity.Language)
		}

		c.logger.Debug("emby request", "route", route, "url", reqURL, "attempt", attempt)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			metrics.RemoteRequests.WithLabelValues(route, "error").Inc()
			c.logger.Error("emby request failed", "route", route, "error", err)
			return nil, domain.NewError(domain.KindNetwork, route, fmt.Errorf("%w: %w", domain.ErrServerOffline, err))
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		metrics.RemoteRequests.WithLabelValues(route, strconv.Itoa(resp.StatusCode)).Inc()
		if err != nil {
			return nil, domain.NewError(domain.KindNetwork, route, fmt.Errorf("failed to read response: %w", err))
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return nil, domain.NewError(domain.KindAuth, route, domain.ErrAuthFailed)
		case resp.StatusCode == http.StatusNotFound:
			return nil, domain.NewError(domain.KindServer, route, domain.ErrNotFound)
		case resp.StatusCode >= 500:
			lastErr = domain.NewError(domain.KindServer, route, fmt.Errorf("server error: %d - %s", resp.StatusCode, string(body)))
			c.logger.Warn("emby server error, will retry",
				"status", resp.StatusCode,
				"attempt", attempt,
				"maxRetries", c.maxRetries,
				"path", path,
			)
			continue
		case resp.StatusCode != http.StatusOK:
			c.logger.Error("emby request error", "status", resp.StatusCode, "body", string(body))
			return nil, domain.NewError(domain.KindServer, route, fmt.Errorf("unexpected status code: %d", resp.StatusCode))
		}

		return body, nil
	}

	c.logger.Error("emby request failed after retries", "route", route, "path", path, "error", lastErr)
	return nil, lastErr
}

// getJSON fetches path and decodes the body into out
func (c *Client) getJSON(ctx context.Context, route, path string, query url.Values, out any) error {
	body, err := c.doRequest(ctx, route, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return domain.NewError(domain.KindParse, route, fmt.Errorf("failed to parse response: %w", err))
	}
	return nil
}

// GetView returns the user's top-level views
func (c *Client) GetView(ctx context.Context) ([]domain.Album, error) {
	var resp ItemsResponse
	path := fmt.Sprintf("/Users/%s/Views", c.userID)
	if err := c.getJSON(ctx, "views", path, nil, &resp); err != nil {
		return nil, err
	}
	return MapAlbums(resp.Items), nil
}

// GetActor returns the person record for id
func (c *Client) GetActor(ctx context.Context, id string) (*domain.PersonRecord, error) {
	var item Item
	path := fmt.Sprintf("/Users/%s/Items/%s", c.userID, url.PathEscape(id))
	if err := c.getJSON(ctx, "person", path, nil, &item); err != nil {
		return nil, err
	}
	return mapPerson(item), nil
}

// GetItems returns every item matching filter in one unpaged request
func (c *Client) GetItems(ctx context.Context, filter domain.ItemFilter) ([]domain.MediaItem, error) {
	query := url.Values{}
	if len(filter.PersonIDs) > 0 {
		query.Set("PersonIds", strings.Join(filter.PersonIDs, ","))
	}
	if len(filter.IncludeItemTypes) > 0 {
		query.Set("IncludeItemTypes", strings.Join(filter.IncludeItemTypes, ","))
	}
	if filter.Recursive {
		query.Set("Recursive", "true")
	}
	query.Set("Fields", "Overview,ProductionYear")
	query.Set("SortBy", "SortName")
	query.Set("SortOrder", "Ascending")

	var resp ItemsResponse
	path := fmt.Sprintf("/Users/%s/Items", c.userID)
	if err := c.getJSON(ctx, "items", path, query, &resp); err != nil {
		return nil, err
	}
	return MapMediaItems(resp.Items), nil
}

// GetLatestMedia returns the newest items of an album
func (c *Client) GetLatestMedia(ctx context.Context, albumID string) ([]domain.MediaItem, error) {
	query := url.Values{}
	query.Set("ParentId", albumID)
	query.Set("Fields", "Overview,ProductionYear")

	var items []Item
	path := fmt.Sprintf("/Users/%s/Items/Latest", c.userID)
	if err := c.getJSON(ctx, "latest", path, query, &items); err != nil {
		return nil, err
	}
	return MapMediaItems(items), nil
}

// GetAlbum returns the view record for albumID
func (c *Client) GetAlbum(ctx context.Context, albumID string) (*domain.Album, error) {
	var item Item
	path := fmt.Sprintf("/Users/%s/Items/%s", c.userID, url.PathEscape(albumID))
	if err := c.getJSON(ctx, "album", path, nil, &item); err != nil {
		return nil, err
	}
	album := mapAlbum(item)
	return &album, nil
}

// GetCollection returns one server-sized page of an album's items
func (c *Client) GetCollection(ctx context.Context, albumID, itemType string, startIndex int) (*domain.ItemPage, error) {
	query := url.Values{}
	query.Set("ParentId", albumID)
	query.Set("IncludeItemTypes", itemType)
	query.Set("Recursive", "true")
	query.Set("Fields", "Overview,ProductionYear,CommunityRating")
	query.Set("StartIndex", strconv.Itoa(startIndex))
	query.Set("SortBy", "SortName")
	query.Set("SortOrder", "Ascending")

	var resp ItemsResponse
	path := fmt.Sprintf("/Users/%s/Items", c.userID)
	if err := c.getJSON(ctx, "collection", path, query, &resp); err != nil {
		return nil, err
	}
	return &domain.ItemPage{
		Items:            MapMediaItems(resp.Items),
		TotalRecordCount: resp.TotalRecordCount,
	}, nil
}

// GetPlaybackInfo returns playable sources for itemID
func (c *Client) GetPlaybackInfo(ctx context.Context, itemID string, opts domain.PlaybackOptions) (*domain.PlaybackInfo, error) {
	query := url.Values{}
	query.Set("UserId", c.userID)
	if opts.MaxStreamingBitrate > 0 {
		query.Set("MaxStreamingBitrate", strconv.Itoa(opts.MaxStreamingBitrate))
	}

	var resp PlaybackInfoResponse
	path := fmt.Sprintf("/Items/%s/PlaybackInfo", url.PathEscape(itemID))
	if err := c.getJSON(ctx, "playback", path, query, &resp); err != nil {
		return nil, err
	}
	return mapPlaybackInfo(resp), nil
}

// ImageURL builds the artwork URL for an item. Returns "" without an id.
func (c *Client) ImageURL(id, tag string, kind domain.ImageKind) string {
	if id == "" {
		return ""
	}
	u := fmt.Sprintf("%s/emby/Items/%s/Images/%s", c.baseURL, url.PathEscape(id), kind)
	if tag != "" {
		u += "?tag=" + url.QueryEscape(tag)
	}
	return u
}
