package participant

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"academy-manager/internal/domain/settings"
	"academy-manager/internal/utils"
)

// Store is the slice of the remote participant store the service writes
// through. *Repo implements it; tests swap in an in-memory fake.
type Store interface {
	Create(ctx context.Context, p Participant) (*Participant, error)
	Set(ctx context.Context, id string, p Participant) error
	Delete(ctx context.Context, id string) error
}

// Service coordinates the remote store and the local snapshot cache. Every
// mutation is optimistic: the cache is marked pending, the store call is
// issued, and the local copy applied on success.
type Service struct {
	repo     Store
	cache    *Cache
	settings *settings.Service
}

func NewService(repo Store, cache *Cache, settingsSvc *settings.Service) *Service {
	return &Service{repo: repo, cache: cache, settings: settingsSvc}
}

func (s *Service) Cache() *Cache {
	return s.cache
}

// View names accepted by List.
const (
	ViewAll        = ""
	ViewLeads      = "leads"
	ViewFuture     = "future"
	ViewRegistered = "registered"
)

type ListFilter struct {
	View       string
	TrainingID string
	Search     string
}

// List filters the cached collection. Search matches name, email and phone.
func (s *Service) List(f ListFilter) ([]Participant, error) {
	switch f.View {
	case ViewAll, ViewLeads, ViewFuture, ViewRegistered:
	default:
		return nil, fmt.Errorf("%w: unknown view %q", ErrBadRequest, f.View)
	}

	q := utils.Fold(f.Search)
	out := []Participant{}
	for _, p := range s.cache.All() {
		if q != "" &&
			!strings.Contains(utils.Fold(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Email), q) &&
			!strings.Contains(p.Phone, q) {
			continue
		}
		switch f.View {
		case ViewLeads:
			if !IsLead(p) {
				continue
			}
		case ViewFuture:
			if !InFutureView(p) {
				continue
			}
		case ViewRegistered:
			if !InRegisteredView(p) {
				continue
			}
		}
		if f.TrainingID != "" {
			if _, ok := p.AssignmentFor(f.TrainingID); !ok {
				continue
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Service) Get(id string) (*Participant, error) {
	p, ok := s.cache.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: participant %s", ErrNotFound, id)
	}
	return &p, nil
}

func (s *Service) Create(ctx context.Context, in CreateParticipantInput) (*Participant, error) {
	in.Trim()
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrBadRequest)
	}

	p := Participant{
		Name:           in.Name,
		Phone:          in.Phone,
		Email:          in.Email,
		NationalID:     in.NationalID,
		Notes:          in.Notes,
		Assignments:    []TrainingAssignment{},
		InteractionLog: []InteractionLog{},
		Documents:      []Document{},
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	s.cache.BeginWrite(created.ID)
	s.cache.SetLocal(*created)
	s.cache.EndWrite(created.ID)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateParticipantInput) (*Participant, error) {
	in.Trim()
	return s.mutate(ctx, id, func(p *Participant) error {
		if in.Name != nil {
			if *in.Name == "" {
				return fmt.Errorf("%w: name cannot be empty", ErrBadRequest)
			}
			p.Name = *in.Name
		}
		if in.Phone != nil {
			p.Phone = *in.Phone
		}
		if in.Email != nil {
			p.Email = *in.Email
		}
		if in.NationalID != nil {
			p.NationalID = *in.NationalID
		}
		if in.Notes != nil {
			p.Notes = *in.Notes
		}
		if in.CrmStatus != nil {
			p.CrmStatus = *in.CrmStatus
		}
		if in.NextContactDate != nil {
			p.NextContactDate = *in.NextContactDate
		}
		return nil
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, ok := s.cache.Get(id); !ok {
		return fmt.Errorf("%w: participant %s", ErrNotFound, id)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.DeleteLocal(id)
	return nil
}

// AddAssignment attaches a training to the participant. The regStatus key is
// validated against the configured option list; one assignment per training.
func (s *Service) AddAssignment(ctx context.Context, id string, in AssignmentInput) (*Participant, error) {
	in.TrainingID = strings.TrimSpace(in.TrainingID)
	if in.TrainingID == "" {
		return nil, fmt.Errorf("%w: trainingId is required", ErrBadRequest)
	}
	if in.RegStatus == "" {
		in.RegStatus = settings.RegStatusUndecided
	}
	if !s.settings.ValidRegStatus(in.RegStatus) {
		return nil, fmt.Errorf("%w: unknown registration status %q", ErrBadRequest, in.RegStatus)
	}
	if in.PaymentStatus == "" {
		in.PaymentStatus = PaymentPending
	}
	if !IsValidPaymentStatus(in.PaymentStatus) {
		return nil, fmt.Errorf("%w: invalid payment status %q", ErrBadRequest, in.PaymentStatus)
	}
	if in.RegistrationDate == "" {
		in.RegistrationDate = time.Now().UTC().Format(time.RFC3339)
	}

	return s.mutate(ctx, id, func(p *Participant) error {
		if _, exists := p.AssignmentFor(in.TrainingID); exists {
			return fmt.Errorf("%w: participant already assigned to training %s", ErrConflict, in.TrainingID)
		}
		p.Assignments = append(p.Assignments, TrainingAssignment{
			TrainingID:        in.TrainingID,
			RegStatus:         in.RegStatus,
			PaymentStatus:     in.PaymentStatus,
			RegistrationDate:  in.RegistrationDate,
			Discount:          in.Discount,
			ParticipationType: in.ParticipationType,
			Payments:          []PaymentRecord{},
			Attendance:        map[string]bool{},
			ChecklistState:    map[string]bool{},
		})
		return nil
	})
}

func (s *Service) UpdateAssignment(ctx context.Context, id, trainingID string, in UpdateAssignmentInput) (*Participant, error) {
	if in.RegStatus != nil && !s.settings.ValidRegStatus(*in.RegStatus) {
		return nil, fmt.Errorf("%w: unknown registration status %q", ErrBadRequest, *in.RegStatus)
	}
	if in.PaymentStatus != nil && !IsValidPaymentStatus(*in.PaymentStatus) {
		return nil, fmt.Errorf("%w: invalid payment status %q", ErrBadRequest, *in.PaymentStatus)
	}

	return s.mutate(ctx, id, func(p *Participant) error {
		a, ok := p.AssignmentFor(trainingID)
		if !ok {
			return fmt.Errorf("%w: no assignment for training %s", ErrNotFound, trainingID)
		}
		if in.RegStatus != nil {
			a.RegStatus = *in.RegStatus
		}
		if in.PaymentStatus != nil {
			a.PaymentStatus = *in.PaymentStatus
		}
		if in.Discount != nil {
			a.Discount = *in.Discount
		}
		if in.ParticipationType != nil {
			a.ParticipationType = *in.ParticipationType
		}
		if in.NextAction != nil {
			a.NextAction = *in.NextAction
		}
		if in.CurrentContactStatus != nil {
			a.CurrentContactStatus = *in.CurrentContactStatus
		}
		return nil
	})
}

// RecordPayment appends a payment to the assignment. Payments are
// append-only; corrections are new records.
func (s *Service) RecordPayment(ctx context.Context, id, trainingID string, in PaymentInput) (*Participant, error) {
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrBadRequest)
	}
	if in.Method == "" {
		in.Method = MethodTransfer
	}
	if !IsValidPaymentMethod(in.Method) {
		return nil, fmt.Errorf("%w: invalid payment method %q", ErrBadRequest, in.Method)
	}
	if in.Date == "" {
		in.Date = time.Now().UTC().Format(time.RFC3339)
	}

	return s.mutate(ctx, id, func(p *Participant) error {
		a, ok := p.AssignmentFor(trainingID)
		if !ok {
			return fmt.Errorf("%w: no assignment for training %s", ErrNotFound, trainingID)
		}
		a.Payments = append(a.Payments, PaymentRecord{
			ID:          uuid.NewString(),
			Amount:      in.Amount,
			Method:      in.Method,
			Date:        in.Date,
			Description: in.Description,
			ReceiptURL:  in.ReceiptURL,
		})
		return nil
	})
}

// SetAttendance flips the attended flag for one schedule day. The day ID is
// not validated against the training's current schedule; stale keys are
// ignored by display logic.
func (s *Service) SetAttendance(ctx context.Context, id, trainingID, dayID string, attended bool) (*Participant, error) {
	return s.mutate(ctx, id, func(p *Participant) error {
		a, ok := p.AssignmentFor(trainingID)
		if !ok {
			return fmt.Errorf("%w: no assignment for training %s", ErrNotFound, trainingID)
		}
		if a.Attendance == nil {
			a.Attendance = map[string]bool{}
		}
		a.Attendance[dayID] = attended
		return nil
	})
}

func (s *Service) SetChecklistItem(ctx context.Context, id, trainingID, itemID string, checked bool) (*Participant, error) {
	return s.mutate(ctx, id, func(p *Participant) error {
		a, ok := p.AssignmentFor(trainingID)
		if !ok {
			return fmt.Errorf("%w: no assignment for training %s", ErrNotFound, trainingID)
		}
		if a.ChecklistState == nil {
			a.ChecklistState = map[string]bool{}
		}
		a.ChecklistState[itemID] = checked
		return nil
	})
}

// AddInteraction prepends a touchpoint; the log stays newest-first.
func (s *Service) AddInteraction(ctx context.Context, id string, in InteractionInput) (*Participant, error) {
	if in.Note == "" {
		return nil, fmt.Errorf("%w: note is required", ErrBadRequest)
	}
	if in.Type == "" {
		in.Type = InteractionNote
	}

	entry := InteractionLog{
		ID:          uuid.NewString(),
		Date:        time.Now().UTC().Format(time.RFC3339),
		Type:        in.Type,
		Note:        in.Note,
		PerformedBy: in.PerformedBy,
	}
	return s.mutate(ctx, id, func(p *Participant) error {
		p.InteractionLog = append([]InteractionLog{entry}, p.InteractionLog...)
		return nil
	})
}

func (s *Service) AddDocument(ctx context.Context, id string, doc Document) (*Participant, error) {
	if doc.Name == "" || doc.URL == "" {
		return nil, fmt.Errorf("%w: document name and url are required", ErrBadRequest)
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.UploadDate == "" {
		doc.UploadDate = time.Now().UTC().Format(time.RFC3339)
	}
	if doc.Type == "" {
		doc.Type = DocOther
	}
	return s.mutate(ctx, id, func(p *Participant) error {
		p.Documents = append(p.Documents, doc)
		return nil
	})
}

func (s *Service) RemoveDocument(ctx context.Context, id, docID string) (*Participant, error) {
	return s.mutate(ctx, id, func(p *Participant) error {
		for i, d := range p.Documents {
			if d.ID == docID {
				p.Documents = append(p.Documents[:i:i], p.Documents[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: document %s", ErrNotFound, docID)
	})
}

// mutate applies fn to a private copy of the record and pushes the result to
// the store. The cache only sees the new state after the write succeeds; the
// pending mark shields it from stale snapshots until the write propagates.
func (s *Service) mutate(ctx context.Context, id string, fn func(*Participant) error) (*Participant, error) {
	p, ok := s.cache.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: participant %s", ErrNotFound, id)
	}
	// Work on a deep copy: fn reaches into assignments through pointers, and
	// the cached record must stay untouched if the store write fails.
	p = p.Clone()
	if err := fn(&p); err != nil {
		return nil, err
	}

	s.cache.BeginWrite(id)
	if err := s.repo.Set(ctx, id, p); err != nil {
		s.cache.AbortWrite(id)
		return nil, err
	}
	s.cache.SetLocal(p)
	s.cache.EndWrite(id)
	return &p, nil
}

// ImportRow is one row of a bulk spreadsheet import, already header-matched.
type ImportRow struct {
	Name       string
	Phone      string
	Email      string
	TrainingID string
}

type ImportReport struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// Import creates participants one row at a time. A failing row is logged and
// skipped; the loop always runs to the end.
func (s *Service) Import(ctx context.Context, rows []ImportRow) ImportReport {
	var rep ImportReport
	for i, row := range rows {
		if strings.TrimSpace(row.Name) == "" {
			rep.Skipped++
			rep.Errors = append(rep.Errors, fmt.Sprintf("row %d: missing name", i+1))
			continue
		}

		created, err := s.Create(ctx, CreateParticipantInput{
			Name:  row.Name,
			Phone: row.Phone,
			Email: row.Email,
		})
		if err != nil {
			log.Printf("import: row %d (%s) failed: %v", i+1, row.Name, err)
			rep.Skipped++
			rep.Errors = append(rep.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}

		if row.TrainingID != "" {
			if _, err := s.AddAssignment(ctx, created.ID, AssignmentInput{
				TrainingID: row.TrainingID,
				RegStatus:  settings.RegStatusWillRegister,
			}); err != nil {
				log.Printf("import: row %d assignment failed: %v", i+1, err)
				rep.Errors = append(rep.Errors, fmt.Sprintf("row %d: assignment: %v", i+1, err))
			}
		}
		rep.Created++
	}
	return rep
}
