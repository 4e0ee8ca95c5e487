package session

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/iplay/internal/domain"
)

// Lookup resolves a user-typed query to a known site.
// An exact id wins; otherwise the closest fuzzy match on "user@host" or id.
func (s *Store) Lookup(query string) (domain.Site, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if site, ok := s.findSite(query); ok {
		return site, true
	}
	if query == "" || len(s.sites) == 0 {
		return domain.Site{}, false
	}

	targets := make([]string, 0, len(s.sites)*2)
	owner := make(map[string]int, len(s.sites)*2)
	for i, site := range s.sites {
		for _, t := range []string{strings.ToLower(site.DisplayName()), strings.ToLower(site.ID)} {
			if _, dup := owner[t]; !dup {
				owner[t] = i
				targets = append(targets, t)
			}
		}
	}

	matches := fuzzy.RankFindFold(query, targets)
	if len(matches) == 0 {
		return domain.Site{}, false
	}
	sort.Sort(matches)

	return s.sites[owner[matches[0].Target]], true
}
