package ads

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"academy-manager/internal/localstore"
)

const storeKey = "ad_campaigns"

// Service owns the campaign collection.
type Service struct {
	mu    sync.RWMutex
	store *localstore.Store
	items []Campaign
}

func NewService(store *localstore.Store) *Service {
	s := &Service{store: store, items: []Campaign{}}
	if _, err := store.Get(storeKey, &s.items); err != nil {
		log.Printf("campaigns: load failed, starting empty: %v", err)
	}
	return s
}

func (s *Service) persist() {
	if err := s.store.Put(storeKey, s.items); err != nil {
		log.Printf("campaigns: persist failed: %v", err)
	}
}

func (s *Service) All() []Campaign {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Campaign, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Service) Get(id string) (*Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.items {
		if c.ID == id {
			cc := c
			return &cc, nil
		}
	}
	return nil, fmt.Errorf("%w: campaign %s", ErrNotFound, id)
}

func (s *Service) Create(in CreateCampaignInput) (*Campaign, error) {
	in.Trim()
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrBadRequest)
	}
	if in.Budget < 0 {
		return nil, fmt.Errorf("%w: budget cannot be negative", ErrBadRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := Campaign{
		ID:         uuid.NewString(),
		Name:       in.Name,
		Platform:   in.Platform,
		TrainingID: in.TrainingID,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		Budget:     in.Budget,
		Status:     StatusActive,
		Notes:      in.Notes,
	}
	s.items = append(s.items, c)
	s.persist()
	return &c, nil
}

func (s *Service) Update(id string, in UpdateCampaignInput) (*Campaign, error) {
	if in.Status != nil && !IsValidStatus(*in.Status) {
		return nil, fmt.Errorf("%w: invalid campaign status %q", ErrBadRequest, *in.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.items {
		if s.items[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: campaign %s", ErrNotFound, id)
	}
	c := &s.items[idx]

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrBadRequest)
		}
		c.Name = name
	}
	if in.Platform != nil {
		c.Platform = *in.Platform
	}
	if in.TrainingID != nil {
		c.TrainingID = *in.TrainingID
	}
	if in.StartDate != nil {
		c.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		c.EndDate = *in.EndDate
	}
	if in.Budget != nil {
		if *in.Budget < 0 {
			return nil, fmt.Errorf("%w: budget cannot be negative", ErrBadRequest)
		}
		c.Budget = *in.Budget
	}
	if in.Spend != nil {
		if *in.Spend < 0 {
			return nil, fmt.Errorf("%w: spend cannot be negative", ErrBadRequest)
		}
		c.Spend = *in.Spend
	}
	if in.Impressions != nil {
		c.Impressions = *in.Impressions
	}
	if in.Clicks != nil {
		c.Clicks = *in.Clicks
	}
	if in.Leads != nil {
		c.Leads = *in.Leads
	}
	if in.Status != nil {
		c.Status = *in.Status
	}
	if in.Notes != nil {
		c.Notes = *in.Notes
	}

	s.persist()
	cc := *c
	return &cc, nil
}

func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			s.persist()
			return nil
		}
	}
	return fmt.Errorf("%w: campaign %s", ErrNotFound, id)
}

// MetricsFor derives the performance figures for one campaign.
func (s *Service) MetricsFor(id string) (*Metrics, error) {
	c, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	m := ComputeMetrics(*c)
	return &m, nil
}

// ComputeMetrics is pure; zero counters never divide by zero.
func ComputeMetrics(c Campaign) Metrics {
	m := Metrics{CampaignID: c.ID}
	m.CostPerLead = c.Spend / float64(max(c.Leads, 1))
	m.ConversionRate = float64(c.Leads) / float64(max(c.Clicks, 1)) * 100
	m.ClickThrough = float64(c.Clicks) / float64(max(c.Impressions, 1)) * 100
	if c.Budget > 0 {
		m.BudgetUsed = c.Spend / c.Budget * 100
	}
	return m
}
