package emby

import (
	"log/slog"

	"github.com/mmcdole/iplay/internal/domain"
)

var _ domain.Connector = (*Connector)(nil)

// Connector logs in to Emby servers and binds clients to sites
type Connector struct {
	opts    options
	options []Option
	logger  *slog.Logger
}

// NewConnector creates a connector; opts apply to every bound client
func NewConnector(opts ...Option) *Connector {
	o := buildOptions(opts)
	return &Connector{
		opts:    o,
		options: opts,
		logger:  o.logger.With("component", "emby"),
	}
}

// Bind returns a client authorized as the site's user
func (c *Connector) Bind(site domain.Site) domain.RemoteClient {
	c.logger.Debug("binding client", "siteID", site.ID, "server", site.Server.BaseURL())
	return NewClient(site.Server.BaseURL(), site.User.AccessToken, site.User.User.ID, c.options...)
}
