package settings

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"academy-manager/internal/localstore"
)

const (
	keyChecklist       = "settings_checklist"
	keyActions         = "settings_action_options"
	keyContactStatuses = "settings_contact_status_options"
	keyRegStatuses     = "settings_reg_status_options"
)

// Service owns the global checklist and the editable dropdown option lists.
// Writes are validated against the current set; historical values referencing
// removed entries stay untouched on the records that carry them.
type Service struct {
	mu              sync.RWMutex
	store           *localstore.Store
	checklist       []ChecklistItem
	actions         []Option
	contactStatuses []Option
	regStatuses     []Option
}

func NewService(store *localstore.Store) *Service {
	s := &Service{
		store:           store,
		checklist:       defaultChecklist(),
		actions:         defaultActionOptions(),
		contactStatuses: defaultContactStatusOptions(),
		regStatuses:     defaultRegStatusOptions(),
	}

	load := func(key string, dst interface{}) {
		if _, err := store.Get(key, dst); err != nil {
			log.Printf("settings: load %s failed, keeping defaults: %v", key, err)
		}
	}
	load(keyChecklist, &s.checklist)
	load(keyActions, &s.actions)
	load(keyContactStatuses, &s.contactStatuses)
	load(keyRegStatuses, &s.regStatuses)

	return s
}

func (s *Service) Checklist() []ChecklistItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ChecklistItem, len(s.checklist))
	copy(out, s.checklist)
	return out
}

func (s *Service) SetChecklist(items []ChecklistItem) error {
	seen := map[string]bool{}
	for _, it := range items {
		if strings.TrimSpace(it.ID) == "" || strings.TrimSpace(it.Label) == "" {
			return fmt.Errorf("%w: checklist items require id and label", ErrBadRequest)
		}
		if seen[it.ID] {
			return fmt.Errorf("%w: duplicate checklist item id %q", ErrBadRequest, it.ID)
		}
		seen[it.ID] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.checklist = items
	return s.store.Put(keyChecklist, items)
}

// Options returns the named option list, or ErrNotFound for an unknown list.
func (s *Service) Options(list string) ([]Option, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var src []Option
	switch list {
	case ListActions:
		src = s.actions
	case ListContactStatuses:
		src = s.contactStatuses
	case ListRegStatuses:
		src = s.regStatuses
	default:
		return nil, fmt.Errorf("%w: unknown option list %q", ErrNotFound, list)
	}

	out := make([]Option, len(src))
	copy(out, src)
	return out, nil
}

func (s *Service) SetOptions(list string, opts []Option) error {
	seen := map[string]bool{}
	for _, o := range opts {
		if strings.TrimSpace(o.Key) == "" || strings.TrimSpace(o.Label) == "" {
			return fmt.Errorf("%w: options require key and label", ErrBadRequest)
		}
		if seen[o.Key] {
			return fmt.Errorf("%w: duplicate option key %q", ErrBadRequest, o.Key)
		}
		seen[o.Key] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch list {
	case ListActions:
		s.actions = opts
		return s.store.Put(keyActions, opts)
	case ListContactStatuses:
		s.contactStatuses = opts
		return s.store.Put(keyContactStatuses, opts)
	case ListRegStatuses:
		s.regStatuses = opts
		return s.store.Put(keyRegStatuses, opts)
	}
	return fmt.Errorf("%w: unknown option list %q", ErrNotFound, list)
}

// ValidRegStatus reports whether key is in the current registration status
// list. Only enforced when writing an assignment; reads tolerate orphans.
func (s *Service) ValidRegStatus(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.regStatuses {
		if o.Key == key {
			return true
		}
	}
	return false
}
