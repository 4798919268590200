package instructor

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"academy-manager/internal/localstore"
)

const (
	keyInstructors = "instructors"
	keyCandidates  = "candidates"
)

// Service owns the instructor roster and the hiring pipeline. Both
// collections live in the local store and are rewritten on every mutation.
type Service struct {
	mu          sync.RWMutex
	store       *localstore.Store
	instructors []Instructor
	candidates  []Candidate
}

func NewService(store *localstore.Store) *Service {
	s := &Service{store: store, instructors: []Instructor{}, candidates: []Candidate{}}
	if _, err := store.Get(keyInstructors, &s.instructors); err != nil {
		log.Printf("instructors: load failed, starting empty: %v", err)
	}
	if _, err := store.Get(keyCandidates, &s.candidates); err != nil {
		log.Printf("candidates: load failed, starting empty: %v", err)
	}
	return s
}

func (s *Service) persistInstructors() {
	if err := s.store.Put(keyInstructors, s.instructors); err != nil {
		log.Printf("instructors: persist failed: %v", err)
	}
}

func (s *Service) persistCandidates() {
	if err := s.store.Put(keyCandidates, s.candidates); err != nil {
		log.Printf("candidates: persist failed: %v", err)
	}
}

func (s *Service) All() []Instructor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Instructor, len(s.instructors))
	copy(out, s.instructors)
	return out
}

func (s *Service) Get(id string) (*Instructor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, i := range s.instructors {
		if i.ID == id {
			c := i
			return &c, nil
		}
	}
	return nil, fmt.Errorf("%w: instructor %s", ErrNotFound, id)
}

func (s *Service) Create(in CreateInstructorInput) (*Instructor, error) {
	in.Trim()
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrBadRequest)
	}
	if in.DefaultCommissionRate < 0 || in.DefaultCommissionRate > 100 {
		return nil, fmt.Errorf("%w: commission rate must be between 0 and 100", ErrBadRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := Instructor{
		ID:                    uuid.NewString(),
		Name:                  in.Name,
		Title:                 in.Title,
		Phone:                 in.Phone,
		Email:                 in.Email,
		Specialty:             in.Specialty,
		DefaultCommissionRate: in.DefaultCommissionRate,
	}
	s.instructors = append(s.instructors, i)
	s.persistInstructors()
	return &i, nil
}

func (s *Service) Update(id string, in UpdateInstructorInput) (*Instructor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfInstructor(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: instructor %s", ErrNotFound, id)
	}
	i := &s.instructors[idx]

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrBadRequest)
		}
		i.Name = name
	}
	if in.Title != nil {
		i.Title = strings.TrimSpace(*in.Title)
	}
	if in.Phone != nil {
		i.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Email != nil {
		i.Email = strings.TrimSpace(*in.Email)
	}
	if in.Specialty != nil {
		i.Specialty = strings.TrimSpace(*in.Specialty)
	}
	if in.DefaultCommissionRate != nil {
		if *in.DefaultCommissionRate < 0 || *in.DefaultCommissionRate > 100 {
			return nil, fmt.Errorf("%w: commission rate must be between 0 and 100", ErrBadRequest)
		}
		i.DefaultCommissionRate = *in.DefaultCommissionRate
	}

	s.persistInstructors()
	c := *i
	return &c, nil
}

// SetResume replaces the instructor's structured CV.
func (s *Service) SetResume(id string, r Resume) (*Instructor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfInstructor(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: instructor %s", ErrNotFound, id)
	}
	s.instructors[idx].Resume = &r
	s.persistInstructors()
	c := s.instructors[idx]
	return &c, nil
}

func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfInstructor(id)
	if idx < 0 {
		return fmt.Errorf("%w: instructor %s", ErrNotFound, id)
	}
	s.instructors = append(s.instructors[:idx:idx], s.instructors[idx+1:]...)
	s.persistInstructors()
	return nil
}

func (s *Service) Candidates() []Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Candidate, len(s.candidates))
	copy(out, s.candidates)
	return out
}

func (s *Service) GetCandidate(id string) (*Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.candidates {
		if c.ID == id {
			cc := c
			return &cc, nil
		}
	}
	return nil, fmt.Errorf("%w: candidate %s", ErrNotFound, id)
}

func (s *Service) CreateCandidate(in CreateCandidateInput) (*Candidate, error) {
	in.Trim()
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrBadRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := Candidate{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Phone:     in.Phone,
		Email:     in.Email,
		Specialty: in.Specialty,
		Source:    in.Source,
		Status:    CandidateNew,
		Notes:     []CandidateNote{},
	}
	s.candidates = append(s.candidates, c)
	s.persistCandidates()
	return &c, nil
}

func (s *Service) SetCandidateStatus(id string, status CandidateStatus) (*Candidate, error) {
	if !IsValidCandidateStatus(status) {
		return nil, fmt.Errorf("%w: invalid candidate status %q", ErrBadRequest, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfCandidate(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: candidate %s", ErrNotFound, id)
	}
	s.candidates[idx].Status = status
	s.persistCandidates()
	c := s.candidates[idx]
	return &c, nil
}

// AddCandidateNote prepends a note; the log stays newest-first.
func (s *Service) AddCandidateNote(id, note string) (*Candidate, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, fmt.Errorf("%w: note is required", ErrBadRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfCandidate(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: candidate %s", ErrNotFound, id)
	}
	entry := CandidateNote{
		ID:   uuid.NewString(),
		Date: time.Now().UTC().Format(time.RFC3339),
		Note: note,
	}
	s.candidates[idx].Notes = append([]CandidateNote{entry}, s.candidates[idx].Notes...)
	s.persistCandidates()
	c := s.candidates[idx]
	return &c, nil
}

func (s *Service) SetCandidateResume(id string, r Resume) (*Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfCandidate(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: candidate %s", ErrNotFound, id)
	}
	s.candidates[idx].Resume = &r
	s.persistCandidates()
	c := s.candidates[idx]
	return &c, nil
}

// Promote turns an agreed candidate into an instructor. The candidate record
// stays, marked with the new instructor id; promoting twice is a conflict.
func (s *Service) Promote(id string, defaultCommissionRate float64) (*Instructor, error) {
	if defaultCommissionRate < 0 || defaultCommissionRate > 100 {
		return nil, fmt.Errorf("%w: commission rate must be between 0 and 100", ErrBadRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfCandidate(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: candidate %s", ErrNotFound, id)
	}
	c := &s.candidates[idx]
	if c.InstructorID != "" {
		return nil, fmt.Errorf("%w: candidate %s already promoted", ErrConflict, id)
	}

	i := Instructor{
		ID:                    uuid.NewString(),
		Name:                  c.Name,
		Phone:                 c.Phone,
		Email:                 c.Email,
		Specialty:             c.Specialty,
		DefaultCommissionRate: defaultCommissionRate,
		Resume:                c.Resume,
	}
	s.instructors = append(s.instructors, i)
	c.Status = CandidateAgreed
	c.InstructorID = i.ID
	s.persistInstructors()
	s.persistCandidates()
	return &i, nil
}

func (s *Service) indexOfInstructor(id string) int {
	for i := range s.instructors {
		if s.instructors[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) indexOfCandidate(id string) int {
	for i := range s.candidates {
		if s.candidates[i].ID == id {
			return i
		}
	}
	return -1
}
