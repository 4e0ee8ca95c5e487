package emby

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/mmcdole/iplay/internal/domain"
	"github.com/mmcdole/iplay/internal/metrics"
)

// Login authenticates username/password against endpoint.
// Failures are *domain.Error values tagged with domain.OpLogin and keep the cause.
func (c *Connector) Login(ctx context.Context, username, password string, endpoint domain.Endpoint) (*domain.AuthResult, error) {
	authURL := endpoint.BaseURL() + "/emby/Users/AuthenticateByName"

	form := url.Values{}
	form.Set("Username", username)
	form.Set("Pw", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, domain.NewError(domain.KindNetwork, domain.OpLogin, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Emby-Authorization", buildAuthHeader(c.opts.identity, "")) // No token yet
	if c.opts.identity.Language != "" {
		req.Header.Set("X-Emby-Language", c.opts.identity.Language)
	}

	resp, err := c.opts.httpClient.Do(req)
	if err != nil {
		metrics.RemoteRequests.WithLabelValues(domain.OpLogin, "error").Inc()
		c.logger.Error("emby auth request failed", "server", endpoint.BaseURL(), "error", err)
		return nil, domain.NewError(domain.KindNetwork, domain.OpLogin, fmt.Errorf("%w: %w", domain.ErrServerOffline, err))
	}
	defer resp.Body.Close()
	metrics.RemoteRequests.WithLabelValues(domain.OpLogin, strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewError(domain.KindNetwork, domain.OpLogin, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, domain.NewError(domain.KindAuth, domain.OpLogin, domain.ErrAuthFailed)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("emby auth error", "status", resp.StatusCode, "body", string(body))
		return nil, domain.NewError(domain.KindServer, domain.OpLogin, fmt.Errorf("authentication failed with status %d", resp.StatusCode))
	}

	var result domain.AuthResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, domain.NewError(domain.KindParse, domain.OpLogin, fmt.Errorf("failed to parse auth response: %w", err))
	}
	if result.ServerID == "" {
		result.ServerID = result.User.ServerID
	}
	if result.ServerID == "" || result.AccessToken == "" {
		return nil, domain.NewError(domain.KindParse, domain.OpLogin, fmt.Errorf("auth response missing ServerId or AccessToken"))
	}

	return &result, nil
}

// buildAuthHeader constructs the X-Emby-Authorization header
func buildAuthHeader(id Identity, token string) string {
	parts := []string{
		fmt.Sprintf(`MediaBrowser Client="%s"`, id.Client),
		fmt.Sprintf(`Device="%s"`, id.Device),
		fmt.Sprintf(`DeviceId="%s"`, id.DeviceID),
		fmt.Sprintf(`Version="%s"`, id.Version),
	}

	if token != "" {
		parts = append(parts, fmt.Sprintf(`Token="%s"`, token))
	}

	return strings.Join(parts, ", ")
}
