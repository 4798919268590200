package training

import (
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"academy-manager/internal/localstore"
)

const storeKey = "trainings"

// Service owns the in-memory training collection. The local store is the
// durable copy; it is loaded once at startup and rewritten after every
// mutation.
type Service struct {
	mu    sync.RWMutex
	store *localstore.Store
	items []Training
}

func NewService(store *localstore.Store) *Service {
	s := &Service{store: store, items: []Training{}}
	if _, err := store.Get(storeKey, &s.items); err != nil {
		log.Printf("trainings: load failed, starting empty: %v", err)
	}
	return s
}

// All returns a copy of the full collection in insertion order.
func (s *Service) All() []Training {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Training, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Service) Get(id string) (*Training, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.items {
		if t.ID == id {
			c := t
			return &c, nil
		}
	}
	return nil, fmt.Errorf("%w: training %s", ErrNotFound, id)
}

func (s *Service) Create(in CreateTrainingInput) (*Training, error) {
	in.Trim()
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrBadRequest)
	}
	status := in.Status
	if status == "" {
		status = StatusPlanning
	}
	if !IsValidStatus(status) {
		return nil, fmt.Errorf("%w: invalid status %q", ErrBadRequest, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if in.ParentTrainingID != "" && s.indexOf(in.ParentTrainingID) < 0 {
		return nil, fmt.Errorf("%w: parent training %s does not exist", ErrBadRequest, in.ParentTrainingID)
	}

	t := Training{
		ID:               uuid.NewString(),
		ParentTrainingID: in.ParentTrainingID,
		Title:            in.Title,
		Description:      in.Description,
		Content:          in.Content,
		InstructorIDs:    in.InstructorIDs,
		StartDate:        in.StartDate,
		EndDate:          in.EndDate,
		Schedule:         in.Schedule,
		Price:            in.Price,
		EarlyBirdPrice:   in.EarlyBirdPrice,
		SpecialPrice:     in.SpecialPrice,
		Quota:            in.Quota,
		Status:           status,
		Location:         in.Location,
		Tasks:            []Task{},
	}
	if t.InstructorIDs == nil {
		t.InstructorIDs = []string{}
	}
	if t.Schedule == nil {
		t.Schedule = []ScheduleDay{}
	}
	for i := range t.Schedule {
		if t.Schedule[i].ID == "" {
			t.Schedule[i].ID = uuid.NewString()
		}
	}
	if in.Goals != nil {
		t.Goals = *in.Goals
	}

	s.items = append(s.items, t)
	if err := s.persist(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Service) Update(id string, in UpdateTrainingInput) (*Training, error) {
	in.Trim()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: training %s", ErrNotFound, id)
	}
	t := s.items[idx]

	if in.ParentTrainingID != nil {
		if err := s.checkParent(id, *in.ParentTrainingID); err != nil {
			return nil, err
		}
		t.ParentTrainingID = *in.ParentTrainingID
	}
	if in.Title != nil {
		if *in.Title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrBadRequest)
		}
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Content != nil {
		t.Content = *in.Content
	}
	if in.InstructorIDs != nil {
		t.InstructorIDs = *in.InstructorIDs
	}
	if in.StartDate != nil {
		t.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		t.EndDate = *in.EndDate
	}
	if in.Schedule != nil {
		sched := *in.Schedule
		for i := range sched {
			if sched[i].ID == "" {
				sched[i].ID = uuid.NewString()
			}
		}
		t.Schedule = sched
	}
	if in.Price != nil {
		t.Price = *in.Price
	}
	if in.EarlyBirdPrice != nil {
		t.EarlyBirdPrice = *in.EarlyBirdPrice
	}
	if in.SpecialPrice != nil {
		t.SpecialPrice = *in.SpecialPrice
	}
	if in.Quota != nil {
		t.Quota = *in.Quota
	}
	if in.Status != nil {
		if !IsValidStatus(*in.Status) {
			return nil, fmt.Errorf("%w: invalid status %q", ErrBadRequest, *in.Status)
		}
		t.Status = *in.Status
	}
	if in.Location != nil {
		t.Location = *in.Location
	}
	if in.Goals != nil {
		t.Goals = *in.Goals
	}

	s.items[idx] = t
	if err := s.persist(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Service) AddTask(id, title string) (*Training, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: task title is required", ErrBadRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: training %s", ErrNotFound, id)
	}
	s.items[idx].Tasks = append(s.items[idx].Tasks, Task{ID: uuid.NewString(), Title: title})
	if err := s.persist(); err != nil {
		return nil, err
	}
	t := s.items[idx]
	return &t, nil
}

func (s *Service) ToggleTask(id, taskID string) (*Training, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: training %s", ErrNotFound, id)
	}
	for i := range s.items[idx].Tasks {
		if s.items[idx].Tasks[i].ID == taskID {
			s.items[idx].Tasks[i].IsCompleted = !s.items[idx].Tasks[i].IsCompleted
			if err := s.persist(); err != nil {
				return nil, err
			}
			t := s.items[idx]
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: task %s", ErrNotFound, taskID)
}

func (s *Service) RemoveTask(id, taskID string) (*Training, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: training %s", ErrNotFound, id)
	}
	tasks := s.items[idx].Tasks
	for i := range tasks {
		if tasks[i].ID == taskID {
			s.items[idx].Tasks = append(tasks[:i:i], tasks[i+1:]...)
			if err := s.persist(); err != nil {
				return nil, err
			}
			t := s.items[idx]
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: task %s", ErrNotFound, taskID)
}

// checkParent validates a re-parent: the parent must exist and moving under
// it must not create a cycle. Caller holds the lock.
func (s *Service) checkParent(id, parentID string) error {
	if parentID == "" {
		return nil
	}
	if parentID == id {
		return fmt.Errorf("%w: training cannot be its own parent", ErrBadRequest)
	}
	if s.indexOf(parentID) < 0 {
		return fmt.Errorf("%w: parent training %s does not exist", ErrBadRequest, parentID)
	}

	byID := make(map[string]string, len(s.items))
	for _, t := range s.items {
		byID[t.ID] = t.ParentTrainingID
	}
	seen := map[string]bool{}
	for cur := parentID; cur != "" && !seen[cur]; cur = byID[cur] {
		if cur == id {
			return fmt.Errorf("%w: parent change would create a cycle", ErrBadRequest)
		}
		seen[cur] = true
	}
	return nil
}

func (s *Service) indexOf(id string) int {
	for i, t := range s.items {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) persist() error {
	if err := s.store.Put(storeKey, s.items); err != nil {
		return fmt.Errorf("trainings: persist: %w", err)
	}
	return nil
}
