// Package session tracks the active site, the known sites, and their persistence.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/goccy/go-json"
	"github.com/mmcdole/iplay/internal/domain"
)

// Persistence keys
const (
	KeySite  = "@site"
	KeySites = "@sites"
)

// Binding is a snapshot of the active site's client and generation.
// Generation changes every time the active site changes.
type Binding struct {
	SiteID     string
	Client     domain.RemoteClient
	Generation uint64
}

// Reasons carried by a Change
const (
	ReasonLogin   = "login"
	ReasonSwitch  = "switch"
	ReasonRestore = "restore"
	ReasonUpdate  = "update"
)

// Change describes one active-site transition
type Change struct {
	Reason     string
	Prev       *domain.Site // nil when no site was active
	Next       domain.Site
	Generation uint64
}

// Option configures a Store
type Option func(*Store)

// WithChangeHook registers fn to run on every active-site transition.
// fn runs while the store is locked and must not call back into it.
func WithChangeHook(fn func(Change)) Option {
	return func(s *Store) { s.onChange = fn }
}

// Store owns the active site, its bound client, and the known sites
type Store struct {
	mu         sync.RWMutex
	active     *domain.Site
	client     domain.RemoteClient
	sites      []domain.Site
	generation uint64

	kv        domain.KeyValueStore
	connector domain.Connector
	onChange  func(Change)
	logger    *slog.Logger
}

// New creates a session store
func New(kv domain.KeyValueStore, connector domain.Connector, logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		kv:        kv,
		connector: connector,
		logger:    logger.With("component", "session"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore reinstates the persisted active site.
// A missing or unreadable record is not an error: it returns (nil, nil) and leaves state untouched.
func (s *Store) Restore(ctx context.Context) (*domain.Site, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if sites, err := s.loadSites(); err != nil {
		s.logger.Warn("failed to load known sites", "error", err)
	} else if sites != nil {
		s.mu.Lock()
		s.sites = sites
		s.mu.Unlock()
	}

	raw, ok, err := s.kv.Get(KeySite)
	if err != nil {
		s.logger.Warn("failed to read saved site", "error", err)
		return nil, nil
	}
	if !ok {
		s.logger.Debug("no saved site")
		return nil, nil
	}

	var site domain.Site
	if err := json.Unmarshal([]byte(raw), &site); err != nil {
		s.logger.Warn("saved site is malformed", "error", err)
		return nil, nil
	}
	if site.ID == "" {
		s.logger.Warn("saved site has no id")
		return nil, nil
	}
	site.Status = domain.SiteIdle

	s.mu.Lock()
	s.install(ReasonRestore, site)
	s.mu.Unlock()

	s.logger.Info("restored site", "siteID", site.ID, "server", site.Server.BaseURL())
	return &site, nil
}

// Authenticate logs in and makes the resulting site active.
// While the login is pending the current active site shows SiteLoading; on failure it shows SiteError.
func (s *Store) Authenticate(ctx context.Context, username, password string, endpoint domain.Endpoint) (*domain.Site, error) {
	s.setActiveStatus(domain.SiteLoading)

	result, err := s.connector.Login(ctx, username, password, endpoint)
	if err != nil {
		s.logger.Error("login failed", "server", endpoint.BaseURL(), "user", username, "error", err)
		s.setActiveStatus(domain.SiteError)
		var de *domain.Error
		if !errors.As(err, &de) {
			err = domain.NewError(domain.KindUnknown, domain.OpLogin, err)
		}
		return nil, err
	}

	site := domain.Site{
		ID:     result.ServerID,
		User:   *result,
		Server: endpoint,
		Status: domain.SiteIdle,
	}

	if err := s.persistSite(site); err != nil {
		s.logger.Error("failed to persist site", "siteID", site.ID, "error", err)
	}

	s.mu.Lock()
	s.mergeSite(site)
	sites := s.snapshotSites()
	s.install(ReasonLogin, site)
	s.mu.Unlock()

	if err := s.persistSites(sites); err != nil {
		s.logger.Error("failed to persist known sites", "error", err)
	}

	s.logger.Info("logged in", "siteID", site.ID, "user", result.User.Name)
	return &site, nil
}

// SwitchTo makes a known site active. An unknown id returns (nil, nil) and changes nothing.
func (s *Store) SwitchTo(ctx context.Context, siteID string) (*domain.Site, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	site, ok := s.findSite(siteID)
	s.mu.RUnlock()
	if !ok {
		s.logger.Debug("switch to unknown site ignored", "siteID", siteID)
		return nil, nil
	}

	if err := s.persistSite(site); err != nil {
		return nil, fmt.Errorf("persist site: %w", err)
	}

	s.mu.Lock()
	s.install(ReasonSwitch, site)
	s.mu.Unlock()

	s.logger.Info("switched site", "siteID", site.ID)
	return &site, nil
}

// Remove drops a site from the known sites and reports whether it was there.
// The active site is not affected.
func (s *Store) Remove(siteID string) (bool, error) {
	s.mu.Lock()
	kept := s.sites[:0:0]
	for _, site := range s.sites {
		if site.ID != siteID {
			kept = append(kept, site)
		}
	}
	removed := len(kept) != len(s.sites)
	s.sites = kept
	sites := s.snapshotSites()
	s.mu.Unlock()

	if !removed {
		return false, nil
	}
	s.logger.Info("removed site", "siteID", siteID)
	return true, s.persistSites(sites)
}

// UpdateActive replaces the active site. A different id rebinds the client and starts a new generation.
func (s *Store) UpdateActive(site domain.Site) error {
	if err := s.persistSite(site); err != nil {
		return fmt.Errorf("persist site: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil && s.active.ID == site.ID {
		s.active = &site
		s.client = s.connector.Bind(site)
		s.replaceSite(site)
		return nil
	}
	s.replaceSite(site)
	s.install(ReasonUpdate, site)
	return nil
}

// PatchActive merges the non-zero fields of patch into the active site and its known-sites entry
func (s *Store) PatchActive(patch domain.Site) error {
	s.mu.Lock()
	if s.active == nil {
		s.mu.Unlock()
		return domain.ErrNoActiveSite
	}

	site := *s.active
	rebind := false
	if patch.Status != "" {
		site.Status = patch.Status
	}
	if patch.User.AccessToken != "" {
		site.User = patch.User
		rebind = true
	}
	if patch.Server.Host != "" {
		site.Server = patch.Server
		rebind = true
	}

	s.active = &site
	if rebind {
		s.client = s.connector.Bind(site)
	}
	s.replaceSite(site)
	sites := s.snapshotSites()
	s.mu.Unlock()

	if err := s.persistSite(site); err != nil {
		return fmt.Errorf("persist site: %w", err)
	}
	return s.persistSites(sites)
}

// Active returns a copy of the active site, or nil
func (s *Store) Active() *domain.Site {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil {
		return nil
	}
	site := *s.active
	return &site
}

// Sites returns a copy of the known sites
func (s *Store) Sites() []domain.Site {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotSites()
}

// Client returns the client bound to the active site
func (s *Store) Client() (domain.RemoteClient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.client == nil {
		return nil, domain.ErrNoActiveSite
	}
	return s.client, nil
}

// Binding returns the active client together with the current generation
func (s *Store) Binding() (Binding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.client == nil || s.active == nil {
		return Binding{Generation: s.generation}, domain.ErrNoActiveSite
	}
	return Binding{SiteID: s.active.ID, Client: s.client, Generation: s.generation}, nil
}

// Generation returns the current generation counter
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// install makes site active with a fresh client and starts a new generation. Caller holds mu.
func (s *Store) install(reason string, site domain.Site) {
	prev := s.active
	s.active = &site
	s.client = s.connector.Bind(site)
	s.generation++
	if s.onChange != nil {
		s.onChange(Change{Reason: reason, Prev: prev, Next: site, Generation: s.generation})
	}
}

// mergeSite replaces the entry with the same id or appends. Caller holds mu.
func (s *Store) mergeSite(site domain.Site) {
	if !s.replaceSite(site) {
		s.sites = append(s.sites, site)
	}
}

// replaceSite overwrites the entry with the same id. Caller holds mu.
func (s *Store) replaceSite(site domain.Site) bool {
	for i := range s.sites {
		if s.sites[i].ID == site.ID {
			s.sites[i] = site
			return true
		}
	}
	return false
}

func (s *Store) findSite(id string) (domain.Site, bool) {
	for _, site := range s.sites {
		if site.ID == id {
			return site, true
		}
	}
	return domain.Site{}, false
}

func (s *Store) snapshotSites() []domain.Site {
	out := make([]domain.Site, len(s.sites))
	copy(out, s.sites)
	return out
}

func (s *Store) setActiveStatus(status domain.SiteStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return
	}
	site := *s.active
	site.Status = status
	s.active = &site
}

func (s *Store) persistSite(site domain.Site) error {
	site.Status = domain.SiteIdle
	data, err := json.Marshal(site)
	if err != nil {
		return fmt.Errorf("encode site: %w", err)
	}
	return s.kv.Set(KeySite, string(data))
}

func (s *Store) persistSites(sites []domain.Site) error {
	data, err := json.Marshal(sites)
	if err != nil {
		return fmt.Errorf("encode sites: %w", err)
	}
	return s.kv.Set(KeySites, string(data))
}

func (s *Store) loadSites() ([]domain.Site, error) {
	raw, ok, err := s.kv.Get(KeySites)
	if err != nil || !ok {
		return nil, err
	}
	var sites []domain.Site
	if err := json.Unmarshal([]byte(raw), &sites); err != nil {
		return nil, fmt.Errorf("decode sites: %w", err)
	}
	return sites, nil
}
