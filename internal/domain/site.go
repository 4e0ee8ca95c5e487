package domain

import (
	"fmt"
	"strings"
)

// SiteStatus is the lifecycle state of a site as seen by the session
type SiteStatus string

const (
	SiteIdle    SiteStatus = "idle"
	SiteLoading SiteStatus = "loading"
	SiteError   SiteStatus = "error"
)

// Endpoint describes where an Emby server lives
type Endpoint struct {
	Protocol string `json:"protocol"` // "http" or "https"
	Host     string `json:"host"`
	Port     int    `json:"port,omitempty"`
	Path     string `json:"path,omitempty"` // Optional reverse-proxy prefix
}

// BaseURL returns the server root URL without a trailing slash
func (e Endpoint) BaseURL() string {
	protocol := e.Protocol
	if protocol == "" {
		protocol = "http"
	}

	host := e.Host
	if e.Port > 0 {
		host = fmt.Sprintf("%s:%d", e.Host, e.Port)
	}

	path := strings.Trim(e.Path, "/")
	if path == "" {
		return fmt.Sprintf("%s://%s", protocol, host)
	}
	return fmt.Sprintf("%s://%s/%s", protocol, host, path)
}

// UserInfo is the user record embedded in an authentication response
type UserInfo struct {
	ID       string `json:"Id"`
	Name     string `json:"Name"`
	ServerID string `json:"ServerId,omitempty"`
}

// AuthResult is the body returned by a successful AuthenticateByName call.
// It is persisted verbatim inside Site so a restored session can rebind.
type AuthResult struct {
	User        UserInfo `json:"User"`
	AccessToken string   `json:"AccessToken"`
	ServerID    string   `json:"ServerId"`
}

// Site is one authenticated connection to a media server
type Site struct {
	ID     string     `json:"id"` // Server-assigned (ServerId)
	User   AuthResult `json:"user"`
	Server Endpoint   `json:"server"`
	Status SiteStatus `json:"status"`
}

// DisplayName returns a short human label for the site
func (s Site) DisplayName() string {
	if s.User.User.Name == "" {
		return s.Server.Host
	}
	return fmt.Sprintf("%s@%s", s.User.User.Name, s.Server.Host)
}
