package alerts

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"academy-manager/internal/ai"
	"academy-manager/internal/domain/participant"
	"academy-manager/internal/domain/training"
	"academy-manager/internal/utils"
)

// upcomingWindow is how far ahead an unfinished task is worth shouting about.
const upcomingWindow = 3 * 24 * time.Hour

type TrainingSource interface {
	All() []training.Training
}

type ParticipantSource interface {
	All() []participant.Participant
}

// PaymentAlert flags an assignment whose pending payment went stale.
type PaymentAlert struct {
	ParticipantID   string  `json:"participantId"`
	ParticipantName string  `json:"participantName"`
	TrainingID      string  `json:"trainingId"`
	DaysOverdue     int     `json:"daysOverdue"`
	Outstanding     float64 `json:"outstanding"`
}

// TaskAlert flags an open task on a training that starts soon.
type TaskAlert struct {
	TrainingID    string `json:"trainingId"`
	TrainingTitle string `json:"trainingTitle"`
	TaskID        string `json:"taskId"`
	TaskTitle     string `json:"taskTitle"`
	StartDate     string `json:"startDate"`
}

// Service derives alert lists on every read; nothing is stored or scheduled.
type Service struct {
	trainings TrainingSource
	parts     ParticipantSource
	oracle    ai.Oracle
}

func NewService(trainings TrainingSource, parts ParticipantSource, oracle ai.Oracle) *Service {
	return &Service{trainings: trainings, parts: parts, oracle: oracle}
}

// OverduePayments lists assignments pending for more than a week.
func (s *Service) OverduePayments(now time.Time) []PaymentAlert {
	priceByID := map[string]float64{}
	for _, t := range s.trainings.All() {
		priceByID[t.ID] = t.Price
	}

	out := []PaymentAlert{}
	for _, p := range s.parts.All() {
		for _, a := range p.Assignments {
			if !participant.IsOverdue(a, now) {
				continue
			}
			reg, err := utils.ParseTime(a.RegistrationDate)
			if err != nil {
				continue
			}
			alert := PaymentAlert{
				ParticipantID:   p.ID,
				ParticipantName: p.Name,
				TrainingID:      a.TrainingID,
				DaysOverdue:     int(now.Sub(reg).Hours() / 24),
			}
			if price, ok := priceByID[a.TrainingID]; ok {
				alert.Outstanding = price - a.Discount - a.CollectedAmount()
			}
			out = append(out, alert)
		}
	}
	return out
}

// OverdueTasks lists unfinished tasks on trainings starting inside the
// warning window, or already started.
func (s *Service) OverdueTasks(now time.Time) []TaskAlert {
	out := []TaskAlert{}
	for _, t := range s.trainings.All() {
		if t.StartDate == "" || len(t.Tasks) == 0 {
			continue
		}
		start, err := utils.ParseTime(t.StartDate)
		if err != nil {
			continue
		}
		if start.After(now.Add(upcomingWindow)) {
			continue
		}
		for _, task := range t.Tasks {
			if task.IsCompleted {
				continue
			}
			out = append(out, TaskAlert{
				TrainingID:    t.ID,
				TrainingTitle: t.Title,
				TaskID:        task.ID,
				TaskTitle:     task.Title,
				StartDate:     t.StartDate,
			})
		}
	}
	return out
}

// RiskWarnings asks the model to read the current numbers. A failing oracle
// degrades to an empty list; the alert view never errors out.
func (s *Service) RiskWarnings(ctx context.Context, now time.Time) []ai.Warning {
	payload := struct {
		OverduePayments []PaymentAlert `json:"overduePayments"`
		OverdueTasks    []TaskAlert    `json:"overdueTasks"`
		Participants    int            `json:"participants"`
		Trainings       int            `json:"trainings"`
	}{
		OverduePayments: s.OverduePayments(now),
		OverdueTasks:    s.OverdueTasks(now),
		Participants:    len(s.parts.All()),
		Trainings:       len(s.trainings.All()),
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return []ai.Warning{}
	}
	warnings, err := s.oracle.RiskWarnings(ctx, string(raw))
	if err != nil {
		log.Printf("alerts: risk analysis failed: %v", err)
		return []ai.Warning{}
	}
	return warnings
}
