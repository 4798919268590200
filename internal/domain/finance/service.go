package finance

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"academy-manager/internal/domain/instructor"
	"academy-manager/internal/domain/participant"
	"academy-manager/internal/domain/training"
	"academy-manager/internal/localstore"
)

const storeKey = "training_expenses"

type TrainingSource interface {
	All() []training.Training
	Get(id string) (*training.Training, error)
}

type ParticipantSource interface {
	All() []participant.Participant
}

type InstructorSource interface {
	All() []instructor.Instructor
}

// Service assembles financial reports from the live collections and owns the
// per-training expense configuration.
type Service struct {
	mu          sync.RWMutex
	store       *localstore.Store
	expenses    map[string]Expense
	trainings   TrainingSource
	parts       ParticipantSource
	instructors InstructorSource
}

func NewService(store *localstore.Store, trainings TrainingSource, parts ParticipantSource, instructors InstructorSource) *Service {
	s := &Service{
		store:       store,
		expenses:    map[string]Expense{},
		trainings:   trainings,
		parts:       parts,
		instructors: instructors,
	}
	if _, err := store.Get(storeKey, &s.expenses); err != nil {
		log.Printf("finance: load expenses failed, starting empty: %v", err)
	}
	return s
}

// Expense returns the stored report configuration for a training, or the
// defaults when none was saved yet.
func (s *Service) Expense(trainingID string) Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.expenses[trainingID]; ok {
		return e
	}
	return Expense{
		TrainingID:         trainingID,
		InstructorExpenses: []ExpenseLine{},
		CustomExpenses:     []ExpenseLine{},
		ShareRatio:         DefaultShareRatio,
	}
}

func (s *Service) SetExpense(e Expense) (Expense, error) {
	if e.TrainingID == "" {
		return Expense{}, fmt.Errorf("%w: trainingId is required", ErrBadRequest)
	}
	if _, err := s.trainings.Get(e.TrainingID); err != nil {
		return Expense{}, fmt.Errorf("%w: training %s", ErrNotFound, e.TrainingID)
	}
	if e.ShareRatio < 0 || e.ShareRatio > 100 {
		return Expense{}, fmt.Errorf("%w: share ratio must be between 0 and 100", ErrBadRequest)
	}
	if e.ShareRatio == 0 {
		e.ShareRatio = DefaultShareRatio
	}
	var err error
	if e.InstructorExpenses, err = normalizeLines(e.InstructorExpenses); err != nil {
		return Expense{}, err
	}
	if e.CustomExpenses, err = normalizeLines(e.CustomExpenses); err != nil {
		return Expense{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses[e.TrainingID] = e
	if err := s.store.Put(storeKey, s.expenses); err != nil {
		log.Printf("finance: persist expenses failed: %v", err)
	}
	return e, nil
}

func normalizeLines(lines []ExpenseLine) ([]ExpenseLine, error) {
	if lines == nil {
		return []ExpenseLine{}, nil
	}
	for i := range lines {
		lines[i].Label = strings.TrimSpace(lines[i].Label)
		if lines[i].Label == "" {
			return nil, fmt.Errorf("%w: expense line label is required", ErrBadRequest)
		}
		if lines[i].Amount < 0 {
			return nil, fmt.Errorf("%w: expense amount cannot be negative", ErrBadRequest)
		}
		if lines[i].ID == "" {
			lines[i].ID = uuid.NewString()
		}
	}
	return lines, nil
}

// Report builds the full payout report for one training: both gross figures,
// the deduction waterfall against collected gross, and the revenue split of
// what remains.
func (s *Service) Report(trainingID string) (*InstructorReport, error) {
	t, err := s.trainings.Get(trainingID)
	if err != nil {
		return nil, err
	}

	ps := s.parts.All()
	e := s.Expense(trainingID)

	rep := InstructorReport{
		TrainingID:     t.ID,
		TrainingTitle:  t.Title,
		Headcount:      Headcount(t.ID, ps),
		ProjectedGross: ProjectedGross(*t, ps),
		CollectedGross: CollectedGross(t.ID, ps),
	}

	rate := float64(0)
	if ins, ok := InstructorFor(*t, s.instructors.All()); ok {
		rep.InstructorID = ins.ID
		rep.InstructorName = ins.Name
		rate = ins.DefaultCommissionRate
	}

	rep.Waterfall = ComputeWaterfall(WaterfallInput{
		Gross:            rep.CollectedGross,
		ApplyVAT:         e.ApplyVAT,
		ApplyWithholding: e.ApplyWithholding,
		ExtraExpenses:    SumLines(e.InstructorExpenses),
		CommissionRate:   rate,
	})
	rep.CustomExpenses = SumLines(e.CustomExpenses)
	rep.NetProfit = NetProfit(rep.Waterfall, rep.CustomExpenses)
	rep.Split = RevenueShare(rep.NetProfit, e.ShareRatio)
	return &rep, nil
}

// Split recomputes just the revenue share with an ad-hoc ratio, leaving the
// stored configuration untouched.
func (s *Service) Split(trainingID string, ratio float64) (*Share, error) {
	if ratio < 0 || ratio > 100 {
		return nil, fmt.Errorf("%w: share ratio must be between 0 and 100", ErrBadRequest)
	}
	rep, err := s.Report(trainingID)
	if err != nil {
		return nil, err
	}
	sh := RevenueShare(rep.NetProfit, ratio)
	return &sh, nil
}

// Summary is the company-wide view: projected and collected totals, total
// configured expenses and the per-training collected breakdown.
func (s *Service) Summary() Summary {
	ps := s.parts.All()
	ts := s.trainings.All()

	sum := Summary{ByTraining: map[string]float64{}}
	priceByID := map[string]float64{}
	for _, t := range ts {
		priceByID[t.ID] = t.Price
	}

	for _, p := range ps {
		for _, a := range p.Assignments {
			collected := a.CollectedAmount()
			sum.CollectedTotal += collected
			sum.ByTraining[a.TrainingID] += collected
			if price, ok := priceByID[a.TrainingID]; ok {
				sum.ProjectedGross += price
				outstanding := price - a.Discount - collected
				if outstanding > 0 && a.PaymentStatus != participant.PaymentRefunded {
					sum.ParticipantDebt += outstanding
				}
			}
		}
	}

	s.mu.RLock()
	for _, e := range s.expenses {
		sum.TotalExpenses += SumLines(e.InstructorExpenses) + SumLines(e.CustomExpenses)
	}
	s.mu.RUnlock()
	return sum
}
