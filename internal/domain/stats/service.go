package stats

import (
	"academy-manager/internal/domain/finance"
	"academy-manager/internal/domain/participant"
	"academy-manager/internal/domain/training"
)

type TrainingSource interface {
	All() []training.Training
}

type ParticipantSource interface {
	All() []participant.Participant
}

// Dashboard is the landing-page snapshot, recomputed on every read.
type Dashboard struct {
	ActiveTrainings    int                `json:"activeTrainings"`
	TotalParticipants  int                `json:"totalParticipants"`
	RegisteredCount    int                `json:"registeredCount"`
	LeadCount          int                `json:"leadCount"`
	FollowUpCount      int                `json:"followUpCount"`
	CollectedTotal     float64            `json:"collectedTotal"`
	RevenueByTraining  map[string]float64 `json:"revenueByTraining"`
	StatusDistribution map[string]int     `json:"statusDistribution"` // regStatus key -> count
}

// Service derives dashboard figures from the live collections. It holds no
// state of its own.
type Service struct {
	trainings TrainingSource
	parts     ParticipantSource
}

func NewService(trainings TrainingSource, parts ParticipantSource) *Service {
	return &Service{trainings: trainings, parts: parts}
}

// Dashboard assembles the overview. Activity excludes folders: only priced
// trainings that are neither completed nor cancelled count.
func (s *Service) Dashboard() Dashboard {
	d := Dashboard{
		RevenueByTraining:  map[string]float64{},
		StatusDistribution: map[string]int{},
	}

	for _, t := range s.trainings.All() {
		if t.Price > 0 && t.Status != training.StatusCompleted && t.Status != training.StatusCancelled {
			d.ActiveTrainings++
		}
	}

	ps := s.parts.All()
	d.TotalParticipants = len(ps)
	for _, p := range ps {
		if participant.IsLead(p) {
			d.LeadCount++
		}
		if participant.InRegisteredView(p) {
			d.RegisteredCount++
		}
		if participant.HasFollowUp(p) {
			d.FollowUpCount++
		}
		for _, a := range p.Assignments {
			d.RevenueByTraining[a.TrainingID] += a.CollectedAmount()
			if a.RegStatus != "" {
				d.StatusDistribution[a.RegStatus]++
			}
		}
	}
	d.CollectedTotal = finance.CollectedTotal(ps)

	return d
}
