package emby

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/mmcdole/iplay/internal/domain"
)

const probeTimeout = 10 * time.Second

// ServerInfo is the unauthenticated /System/Info/Public response
type ServerInfo struct {
	ID          string `json:"Id"`
	ServerName  string `json:"ServerName"`
	ProductName string `json:"ProductName,omitempty"`
	Version     string `json:"Version"`
}

// Probe checks that endpoint answers like an Emby server before credentials are sent
func (c *Connector) Probe(ctx context.Context, endpoint domain.Endpoint) (*ServerInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	infoURL := endpoint.BaseURL() + "/emby/System/Info/Public"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, infoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.opts.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewError(domain.KindNetwork, "probe", fmt.Errorf("%w: %w", domain.ErrServerOffline, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewError(domain.KindServer, "probe", fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewError(domain.KindNetwork, "probe", fmt.Errorf("failed to read response: %w", err))
	}

	var info ServerInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, domain.NewError(domain.KindParse, "probe", fmt.Errorf("failed to parse server info: %w", err))
	}
	if info.ID == "" {
		return nil, domain.NewError(domain.KindParse, "probe", fmt.Errorf("not an Emby server: missing Id"))
	}

	c.logger.Debug("probed server", "server", endpoint.BaseURL(), "name", info.ServerName, "version", info.Version)
	return &info, nil
}
