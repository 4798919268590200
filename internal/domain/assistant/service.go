package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"academy-manager/internal/ai"
	"academy-manager/internal/domain/ads"
	"academy-manager/internal/domain/finance"
	"academy-manager/internal/domain/instructor"
	"academy-manager/internal/domain/participant"
	"academy-manager/internal/domain/training"
)

const (
	instructorsStartMarker = "---INSTRUCTORS_JSON_START---"
	instructorsEndMarker   = "---INSTRUCTORS_JSON_END---"

	fallbackAnswer = "The assistant is unavailable right now, please try again."
)

type TrainingSource interface {
	All() []training.Training
	Get(id string) (*training.Training, error)
}

type ParticipantSource interface {
	All() []participant.Participant
}

type CampaignSource interface {
	All() []ads.Campaign
}

// SuggestedInstructor is one name the model proposes for a planned training.
type SuggestedInstructor struct {
	Name      string `json:"name"`
	Title     string `json:"title,omitempty"`
	Specialty string `json:"specialty,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// TrainingPlan is the generated curriculum plus the extracted suggestions.
type TrainingPlan struct {
	Text        string                `json:"text"`
	Instructors []SuggestedInstructor `json:"instructors"`
}

// Service fronts the model for conversational and generative features. Every
// call degrades to a neutral answer when the oracle fails; nothing here ever
// blocks a screen on a model outage.
type Service struct {
	oracle      ai.Oracle
	trainings   TrainingSource
	parts       ParticipantSource
	campaigns   CampaignSource
	instructors *instructor.Service
}

func NewService(oracle ai.Oracle, trainings TrainingSource, parts ParticipantSource, campaigns CampaignSource, instructors *instructor.Service) *Service {
	return &Service{
		oracle:      oracle,
		trainings:   trainings,
		parts:       parts,
		campaigns:   campaigns,
		instructors: instructors,
	}
}

// contextJSON summarizes the company state handed to the model as grounding.
func (s *Service) contextJSON() string {
	ps := s.parts.All()
	ts := s.trainings.All()

	summary := struct {
		Trainings         int                `json:"trainings"`
		ActiveTrainings   int                `json:"activeTrainings"`
		Participants      int                `json:"participants"`
		CollectedTotal    float64            `json:"collectedTotal"`
		RevenueByTraining map[string]float64 `json:"revenueByTraining"`
		Campaigns         int                `json:"campaigns"`
	}{
		Trainings:         len(ts),
		Participants:      len(ps),
		CollectedTotal:    finance.CollectedTotal(ps),
		RevenueByTraining: map[string]float64{},
		Campaigns:         len(s.campaigns.All()),
	}
	for _, t := range ts {
		if t.Price > 0 && t.Status != training.StatusCompleted && t.Status != training.StatusCancelled {
			summary.ActiveTrainings++
		}
	}
	for _, t := range ts {
		if g := finance.CollectedGross(t.ID, ps); g > 0 {
			summary.RevenueByTraining[t.Title] = g
		}
	}

	raw, err := json.Marshal(summary)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

// Ask answers a free-form question grounded on the current numbers.
func (s *Service) Ask(ctx context.Context, prompt string, thinking bool) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return fallbackAnswer
	}

	system := "You are the academy back-office assistant. Company data: " + s.contextJSON() +
		". Answer in the professional register of the psychology training sector."
	out, err := s.oracle.Generate(ctx, prompt, ai.GenerateOptions{System: system, Thinking: thinking})
	if err != nil || out == "" {
		log.Printf("assistant: ask failed: %v", err)
		return fallbackAnswer
	}
	return out
}

// GenerateTrainingPlan produces a curriculum draft and mines the trailing
// marker block for instructor suggestions. A malformed or missing block
// yields the plain text with no suggestions.
func (s *Service) GenerateTrainingPlan(ctx context.Context, title, briefContent, preferences string) (*TrainingPlan, error) {
	prompt := fmt.Sprintf(`You are an expert curriculum designer for psychology trainings.
Create a professional curriculum and find real, verifiable instructors for it.
Training title: %s
Brief content: %s
Preferences / target audience: %s

Structure the answer in two parts:
A) the curriculum, module by module
B) suggested instructors, appended at the very end exactly as:
%s
[{"name": "...", "title": "...", "specialty": "...", "email": "...", "phone": "..."}]
%s`, title, briefContent, preferences, instructorsStartMarker, instructorsEndMarker)

	out, err := s.oracle.Generate(ctx, prompt, ai.GenerateOptions{Thinking: true})
	if err != nil {
		log.Printf("assistant: plan generation failed: %v", err)
		return &TrainingPlan{Text: "The training plan could not be generated right now.", Instructors: []SuggestedInstructor{}}, nil
	}

	plan := &TrainingPlan{Instructors: []SuggestedInstructor{}}
	plan.Text, plan.Instructors = ExtractInstructors(out)
	return plan, nil
}

// ExtractInstructors splits the marker block off the generated text. The
// block is removed from the returned text whether or not its JSON parses.
func ExtractInstructors(text string) (string, []SuggestedInstructor) {
	suggestions := []SuggestedInstructor{}

	start := strings.Index(text, instructorsStartMarker)
	if start < 0 {
		return strings.TrimSpace(text), suggestions
	}
	rest := text[start+len(instructorsStartMarker):]
	end := strings.Index(rest, instructorsEndMarker)
	if end < 0 {
		return strings.TrimSpace(text[:start]), suggestions
	}

	payload := strings.TrimSpace(rest[:end])
	if err := json.Unmarshal([]byte(payload), &suggestions); err != nil {
		log.Printf("assistant: unusable instructor block: %v", err)
		suggestions = []SuggestedInstructor{}
	}

	clean := text[:start] + rest[end+len(instructorsEndMarker):]
	return strings.TrimSpace(clean), suggestions
}

// AddSuggestedToCandidates feeds accepted suggestions into the hiring
// pipeline, one at a time; a failing row is skipped.
func (s *Service) AddSuggestedToCandidates(suggestions []SuggestedInstructor) []instructor.Candidate {
	added := []instructor.Candidate{}
	for _, sg := range suggestions {
		c, err := s.instructors.CreateCandidate(instructor.CreateCandidateInput{
			Name:      sg.Name,
			Phone:     sg.Phone,
			Email:     sg.Email,
			Specialty: sg.Specialty,
			Source:    "ai_suggestion",
		})
		if err != nil {
			log.Printf("assistant: candidate %q skipped: %v", sg.Name, err)
			continue
		}
		added = append(added, *c)
	}
	return added
}

// AnalyzeGoals reviews a training's goal sheet against its content.
func (s *Service) AnalyzeGoals(ctx context.Context, trainingID string) (string, error) {
	t, err := s.trainings.Get(trainingID)
	if err != nil {
		return "", err
	}

	goals, err := json.Marshal(t.Goals)
	if err != nil {
		goals = []byte("{}")
	}
	prompt := fmt.Sprintf("Training: %s, content: %s, goals: %s. Analyze whether these goals are realistic and how to reach them.",
		t.Title, t.Content, goals)

	out, oerr := s.oracle.Generate(ctx, prompt, ai.GenerateOptions{Thinking: true})
	if oerr != nil || out == "" {
		log.Printf("assistant: goal analysis failed: %v", oerr)
		return fallbackAnswer, nil
	}
	return out, nil
}

// ParseResume extracts structured resume fields from an uploaded document.
// Unlike the other assistant calls this one does not degrade: the caller
// needs the data or nothing.
func (s *Service) ParseResume(ctx context.Context, docB64, mimeType string) (instructor.Resume, error) {
	data, err := s.oracle.ParseResume(ctx, docB64, mimeType)
	if err != nil {
		return instructor.Resume{}, err
	}
	out := instructor.Resume{
		Summary:   data.Summary,
		Skills:    data.Skills,
		Languages: data.Languages,
	}
	for _, e := range data.Experiences {
		out.Experiences = append(out.Experiences, instructor.Experience{
			Company: e.Company,
			Role:    e.Title,
			Period:  e.Dates,
			Details: e.Description,
		})
	}
	for _, e := range data.Educations {
		out.Educations = append(out.Educations, instructor.Education{
			School: e.School,
			Degree: e.Degree,
			Year:   e.Dates,
		})
	}
	return out, nil
}

// AnalyzeCampaigns reviews ad performance across all campaigns.
func (s *Service) AnalyzeCampaigns(ctx context.Context) string {
	cs := s.campaigns.All()
	type row struct {
		ads.Campaign
		Metrics ads.Metrics `json:"metrics"`
	}
	rows := make([]row, 0, len(cs))
	for _, c := range cs {
		rows = append(rows, row{Campaign: c, Metrics: ads.ComputeMetrics(c)})
	}

	raw, err := json.Marshal(rows)
	if err != nil {
		return fallbackAnswer
	}
	out, err := s.oracle.Generate(ctx, "Analyze this ad campaign performance data and suggest concrete optimizations: "+string(raw), ai.GenerateOptions{})
	if err != nil || out == "" {
		log.Printf("assistant: campaign analysis failed: %v", err)
		return fallbackAnswer
	}
	return out
}
