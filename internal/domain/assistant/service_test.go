package assistant

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academy-manager/internal/ai"
	"academy-manager/internal/domain/ads"
	"academy-manager/internal/domain/instructor"
	"academy-manager/internal/domain/participant"
	"academy-manager/internal/domain/training"
	"academy-manager/internal/localstore"
)

type fakeOracle struct {
	reply      string
	err        error
	lastPrompt string
	lastSystem string
}

func (f *fakeOracle) Generate(_ context.Context, prompt string, opts ai.GenerateOptions) (string, error) {
	f.lastPrompt = prompt
	f.lastSystem = opts.System
	return f.reply, f.err
}

func (f *fakeOracle) RiskWarnings(context.Context, string) ([]ai.Warning, error) {
	return nil, nil
}

func (f *fakeOracle) CertificateImage(context.Context, string, string) (string, error) {
	return "", nil
}

func (f *fakeOracle) ParseResume(context.Context, string, string) (*ai.ResumeData, error) {
	return nil, nil
}

type fakeTrainings struct{ ts []training.Training }

func (f *fakeTrainings) All() []training.Training { return f.ts }
func (f *fakeTrainings) Get(id string) (*training.Training, error) {
	for _, t := range f.ts {
		if t.ID == id {
			tt := t
			return &tt, nil
		}
	}
	return nil, fmt.Errorf("training %s not found", id)
}

type fakeParts struct{ ps []participant.Participant }

func (f *fakeParts) All() []participant.Participant { return f.ps }

type fakeCampaigns struct{ cs []ads.Campaign }

func (f *fakeCampaigns) All() []ads.Campaign { return f.cs }

func newFixture(t *testing.T, oracle ai.Oracle) (*Service, *instructor.Service) {
	t.Helper()
	store, err := localstore.Open(t.TempDir())
	require.NoError(t, err)
	instructors := instructor.NewService(store)

	trainings := &fakeTrainings{ts: []training.Training{
		{ID: "t1", Title: "Trauma Therapy", Price: 4500, Status: training.StatusRegistrationOpen,
			Content: "EMDR basics", Goals: training.Goals{TargetParticipants: 30}},
	}}
	parts := &fakeParts{ps: []participant.Participant{
		{Name: "Ada", Assignments: []participant.TrainingAssignment{{
			TrainingID: "t1",
			Payments:   []participant.PaymentRecord{{Amount: 4500}},
		}}},
	}}
	return NewService(oracle, trainings, parts, &fakeCampaigns{}, instructors), instructors
}

func TestAskGroundsOnCompanyData(t *testing.T) {
	oracle := &fakeOracle{reply: "Revenue is 4500."}
	svc, _ := newFixture(t, oracle)

	out := svc.Ask(context.Background(), "how much did we collect?", false)
	assert.Equal(t, "Revenue is 4500.", out)
	assert.Contains(t, oracle.lastSystem, `"collectedTotal":4500`)
	assert.Contains(t, oracle.lastSystem, `"Trauma Therapy":4500`)
}

func TestAskDegradesOnFailure(t *testing.T) {
	svc, _ := newFixture(t, &fakeOracle{err: fmt.Errorf("down")})
	out := svc.Ask(context.Background(), "anything", false)
	assert.Equal(t, fallbackAnswer, out)
}

func TestExtractInstructors(t *testing.T) {
	text := `Module 1: foundations.
Module 2: practice.
---INSTRUCTORS_JSON_START---
[{"name": "Dr. Leyla Arslan", "title": "Prof.", "specialty": "EMDR"}]
---INSTRUCTORS_JSON_END---`

	clean, sugg := ExtractInstructors(text)
	assert.NotContains(t, clean, "INSTRUCTORS_JSON")
	assert.Contains(t, clean, "Module 2: practice.")
	require.Len(t, sugg, 1)
	assert.Equal(t, "Dr. Leyla Arslan", sugg[0].Name)
}

func TestExtractInstructorsMissingOrBrokenBlock(t *testing.T) {
	clean, sugg := ExtractInstructors("just a plan, no block")
	assert.Equal(t, "just a plan, no block", clean)
	assert.Empty(t, sugg)

	clean, sugg = ExtractInstructors("plan\n---INSTRUCTORS_JSON_START---\nnot json\n---INSTRUCTORS_JSON_END---")
	assert.Equal(t, "plan", clean)
	assert.Empty(t, sugg)

	// start marker without end: drop the tail
	clean, sugg = ExtractInstructors("plan\n---INSTRUCTORS_JSON_START---\n[{]")
	assert.Equal(t, "plan", clean)
	assert.Empty(t, sugg)
}

func TestGenerateTrainingPlan(t *testing.T) {
	oracle := &fakeOracle{reply: `The plan.
---INSTRUCTORS_JSON_START---
[{"name": "Mert Aydın", "specialty": "CBT", "email": "mert@example.com"}]
---INSTRUCTORS_JSON_END---`}
	svc, _ := newFixture(t, oracle)

	plan, err := svc.GenerateTrainingPlan(context.Background(), "CBT Bootcamp", "basics", "clinicians")
	require.NoError(t, err)
	assert.Equal(t, "The plan.", plan.Text)
	require.Len(t, plan.Instructors, 1)
	assert.Contains(t, oracle.lastPrompt, "CBT Bootcamp")
}

func TestGenerateTrainingPlanDegrades(t *testing.T) {
	svc, _ := newFixture(t, &fakeOracle{err: fmt.Errorf("down")})
	plan, err := svc.GenerateTrainingPlan(context.Background(), "X", "", "")
	require.NoError(t, err)
	assert.NotEmpty(t, plan.Text)
	assert.Empty(t, plan.Instructors)
}

func TestAddSuggestedToCandidates(t *testing.T) {
	svc, instructors := newFixture(t, &fakeOracle{})

	added := svc.AddSuggestedToCandidates([]SuggestedInstructor{
		{Name: "Mert Aydın", Specialty: "CBT"},
		{Name: ""}, // invalid, skipped
		{Name: "Leyla Arslan"},
	})

	assert.Len(t, added, 2)
	cs := instructors.Candidates()
	require.Len(t, cs, 2)
	assert.Equal(t, "ai_suggestion", cs[0].Source)
	assert.Equal(t, instructor.CandidateNew, cs[0].Status)
}

func TestAnalyzeGoals(t *testing.T) {
	oracle := &fakeOracle{reply: "Realistic given last cohort."}
	svc, _ := newFixture(t, oracle)

	out, err := svc.AnalyzeGoals(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "Realistic given last cohort.", out)
	assert.Contains(t, oracle.lastPrompt, "Trauma Therapy")
	assert.Contains(t, oracle.lastPrompt, `"targetParticipants":30`)

	_, err = svc.AnalyzeGoals(context.Background(), "ghost")
	assert.Error(t, err)
}
