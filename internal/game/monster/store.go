package monster

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// TemplateStore serves monster templates by name, re-reading the template
// directory when the cached set is older than the configured TTL. External
// edits to template files are picked up without a restart.
//
// All methods are safe for concurrent use.
type TemplateStore struct {
	dir string
	ttl time.Duration

	mu       sync.Mutex
	byName   map[string]*Template // lowercased name → template
	loadedAt time.Time
	now      func() time.Time
}

// NewTemplateStore creates a TemplateStore reading from dir with the given
// cache lifetime. A ttl of zero re-reads on every lookup.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a store with the initial template set loaded, or an
// error if the first read fails.
func NewTemplateStore(dir string, ttl time.Duration) (*TemplateStore, error) {
	s := &TemplateStore{
		dir: dir,
		ttl: ttl,
		now: time.Now,
	}
	if err := s.refresh(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the template whose name matches (case-insensitive), refreshing
// the cache first if it has expired. A failed refresh keeps serving the
// previous template set.
//
// Postcondition: Returns (template, true) if found, or (nil, false) otherwise.
func (s *TemplateStore) Get(name string) (*Template, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.now().Sub(s.loadedAt) >= s.ttl {
		// Stale cache is better than no templates mid-combat.
		_ = s.refreshLocked()
	}

	tmpl, ok := s.byName[strings.ToLower(name)]
	return tmpl, ok
}

// All returns a snapshot of every cached template.
//
// Postcondition: Returns a non-nil slice (may be empty).
func (s *TemplateStore) All() []*Template {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Template, 0, len(s.byName))
	for _, tmpl := range s.byName {
		out = append(out, tmpl)
	}
	return out
}

func (s *TemplateStore) refresh() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked()
}

func (s *TemplateStore) refreshLocked() error {
	templates, err := LoadTemplates(s.dir)
	if err != nil {
		return fmt.Errorf("refreshing monster templates: %w", err)
	}

	byName := make(map[string]*Template, len(templates))
	for _, tmpl := range templates {
		key := strings.ToLower(tmpl.Name)
		if _, exists := byName[key]; exists {
			return fmt.Errorf("duplicate monster template name %q", tmpl.Name)
		}
		byName[key] = tmpl
	}

	s.byName = byName
	s.loadedAt = s.now()
	return nil
}
