package documents

import (
	"context"
	"fmt"
	"log"
	"time"

	"academy-manager/internal/ai"
	"academy-manager/internal/domain/participant"
	"academy-manager/internal/domain/training"
)

type TrainingSource interface {
	Get(id string) (*training.Training, error)
}

type ParticipantWriter interface {
	List(f participant.ListFilter) ([]participant.Participant, error)
	AddDocument(ctx context.Context, id string, doc participant.Document) (*participant.Participant, error)
}

// CertificateResult reports one participant's outcome in a batch run.
type CertificateResult struct {
	ParticipantID   string `json:"participantId"`
	ParticipantName string `json:"participantName"`
	DocumentID      string `json:"documentId,omitempty"`
	Error           string `json:"error,omitempty"`
}

// BatchReport summarizes a certificate run.
type BatchReport struct {
	Generated int                 `json:"generated"`
	Failed    int                 `json:"failed"`
	Results   []CertificateResult `json:"results"`
}

// TrainingDocument is a participant document joined with its owner, for the
// per-training document listing.
type TrainingDocument struct {
	ParticipantID   string               `json:"participantId"`
	ParticipantName string               `json:"participantName"`
	Document        participant.Document `json:"document"`
}

// Service generates certificates and lists documents per training.
type Service struct {
	oracle    ai.Oracle
	trainings TrainingSource
	parts     ParticipantWriter
}

func NewService(oracle ai.Oracle, trainings TrainingSource, parts ParticipantWriter) *Service {
	return &Service{oracle: oracle, trainings: trainings, parts: parts}
}

// GenerateCertificates runs through the training's registered participants
// one at a time: render the template with the participant's name, attach the
// result as a certificate document. A failure on one participant is recorded
// and the loop moves on.
func (s *Service) GenerateCertificates(ctx context.Context, trainingID, templateB64 string) (*BatchReport, error) {
	t, err := s.trainings.Get(trainingID)
	if err != nil {
		return nil, err
	}
	if templateB64 == "" {
		return nil, fmt.Errorf("certificate template is required")
	}

	ps, err := s.parts.List(participant.ListFilter{View: participant.ViewRegistered, TrainingID: trainingID})
	if err != nil {
		return nil, err
	}

	rep := &BatchReport{Results: []CertificateResult{}}
	for _, p := range ps {
		res := CertificateResult{ParticipantID: p.ID, ParticipantName: p.Name}

		img, err := s.oracle.CertificateImage(ctx, templateB64, p.Name)
		if err != nil {
			log.Printf("certificates: %s (%s) failed: %v", p.Name, p.ID, err)
			res.Error = err.Error()
			rep.Failed++
			rep.Results = append(rep.Results, res)
			continue
		}

		doc := participant.Document{
			Name:       fmt.Sprintf("%s - %s Certificate", p.Name, t.Title),
			URL:        "data:image/png;base64," + img,
			UploadDate: time.Now().UTC().Format(time.RFC3339),
			Type:       participant.DocCertificate,
		}
		updated, err := s.parts.AddDocument(ctx, p.ID, doc)
		if err != nil {
			log.Printf("certificates: attach to %s failed: %v", p.ID, err)
			res.Error = err.Error()
			rep.Failed++
			rep.Results = append(rep.Results, res)
			continue
		}
		if n := len(updated.Documents); n > 0 {
			res.DocumentID = updated.Documents[n-1].ID
		}
		rep.Generated++
		rep.Results = append(rep.Results, res)
	}
	return rep, nil
}

// ByTraining lists every document held by participants assigned to the
// training.
func (s *Service) ByTraining(trainingID string) ([]TrainingDocument, error) {
	ps, err := s.parts.List(participant.ListFilter{TrainingID: trainingID})
	if err != nil {
		return nil, err
	}

	out := []TrainingDocument{}
	for _, p := range ps {
		for _, d := range p.Documents {
			out = append(out, TrainingDocument{
				ParticipantID:   p.ID,
				ParticipantName: p.Name,
				Document:        d,
			})
		}
	}
	return out, nil
}
