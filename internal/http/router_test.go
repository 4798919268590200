package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"academy-manager/internal/ai"
	"academy-manager/internal/config"
	"academy-manager/internal/domain/ads"
	"academy-manager/internal/domain/alerts"
	"academy-manager/internal/domain/assistant"
	"academy-manager/internal/domain/documents"
	"academy-manager/internal/domain/finance"
	"academy-manager/internal/domain/instructor"
	"academy-manager/internal/domain/participant"
	"academy-manager/internal/domain/settings"
	"academy-manager/internal/domain/stats"
	"academy-manager/internal/domain/training"
	"academy-manager/internal/localstore"
	"academy-manager/internal/middleware"
)

type memStore struct {
	byID   map[string]participant.Participant
	nextID int
}

func (m *memStore) Create(_ context.Context, p participant.Participant) (*participant.Participant, error) {
	m.nextID++
	p.ID = fmt.Sprintf("p%d", m.nextID)
	m.byID[p.ID] = p
	return &p, nil
}

func (m *memStore) Set(_ context.Context, id string, p participant.Participant) error {
	m.byID[id] = p
	return nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

type stubOracle struct{}

func (stubOracle) Generate(context.Context, string, ai.GenerateOptions) (string, error) {
	return "ok", nil
}

func (stubOracle) RiskWarnings(context.Context, string) ([]ai.Warning, error) {
	return nil, nil
}

func (stubOracle) CertificateImage(context.Context, string, string) (string, error) {
	return "", nil
}

func (stubOracle) ParseResume(context.Context, string, string) (*ai.ResumeData, error) {
	return &ai.ResumeData{}, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := localstore.Open(t.TempDir())
	require.NoError(t, err)

	settingsSvc := settings.NewService(store)
	trainSvc := training.NewService(store)
	instSvc := instructor.NewService(store)
	adsSvc := ads.NewService(store)

	cache := participant.NewCache()
	partSvc := participant.NewService(&memStore{byID: map[string]participant.Participant{}}, cache, settingsSvc)

	oracle := stubOracle{}
	cfg := config.Config{Users: []config.User{
		{ID: "u1", Name: "Admin", Email: "admin@academy.local", Password: "secret", Role: "ADMIN"},
		{ID: "u2", Name: "Desk", Email: "desk@academy.local", Password: "secret", Role: "STAFF"},
	}}

	srv := httptest.NewServer(NewRouter(RouterDeps{
		Cfg:            cfg,
		Sessions:       middleware.NewSessions(cfg.Users),
		TrainingSvc:    trainSvc,
		ParticipantSvc: partSvc,
		InstructorSvc:  instSvc,
		SettingsSvc:    settingsSvc,
		FinanceSvc:     finance.NewService(store, trainSvc, cache, instSvc),
		AdsSvc:         adsSvc,
		StatsSvc:       stats.NewService(trainSvc, cache),
		AlertsSvc:      alerts.NewService(trainSvc, cache, oracle),
		AssistantSvc:   assistant.NewService(oracle, trainSvc, cache, adsSvc, instSvc),
		DocumentsSvc:   documents.NewService(oracle, trainSvc, partSvc),
	}))
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func login(t *testing.T, srv *httptest.Server, email string) string {
	t.Helper()
	resp, out := call(t, srv, "POST", "/v1/auth/login", "", map[string]string{"email": email, "password": "secret"})
	require.Equal(t, 200, resp.StatusCode)
	return out["token"].(string)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp, out := call(t, srv, "GET", "/healthz", "", nil)
	require.Equal(t, 200, resp.StatusCode)
	require.Equal(t, true, out["ok"])
}

func TestRoutesRequireAuth(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := call(t, srv, "GET", "/v1/trainings", "", nil)
	require.Equal(t, 401, resp.StatusCode)

	resp, _ = call(t, srv, "POST", "/v1/auth/login", "", map[string]string{"email": "admin@academy.local", "password": "nope"})
	require.Equal(t, 401, resp.StatusCode)
}

func TestTrainingToReportFlow(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv, "admin@academy.local")

	resp, tr := call(t, srv, "POST", "/v1/trainings", token, map[string]any{
		"title": "EMDR Level 1", "price": 4000, "status": "registration_open",
	})
	require.Equal(t, 201, resp.StatusCode)
	trainingID := tr["id"].(string)

	resp, p := call(t, srv, "POST", "/v1/participants", token, map[string]any{"name": "Ada Kaya"})
	require.Equal(t, 201, resp.StatusCode)
	participantID := p["id"].(string)

	resp, _ = call(t, srv, "POST", "/v1/participants/"+participantID+"/assignments", token, map[string]any{
		"trainingId": trainingID, "regStatus": "registered",
	})
	require.Equal(t, 201, resp.StatusCode)

	resp, _ = call(t, srv, "POST", "/v1/participants/"+participantID+"/assignments/"+trainingID+"/payments", token, map[string]any{
		"amount": 2500, "method": "transfer",
	})
	require.Equal(t, 201, resp.StatusCode)

	resp, report := call(t, srv, "GET", "/v1/trainings/"+trainingID+"/report", token, nil)
	require.Equal(t, 200, resp.StatusCode)
	require.Equal(t, 4000.0, report["projectedGross"])
	require.Equal(t, 2500.0, report["collectedGross"])

	// a second assignment to a missing training must not work
	resp, _ = call(t, srv, "POST", "/v1/participants/"+participantID+"/assignments", token, map[string]any{
		"trainingId": "nope", "regStatus": "registered",
	})
	require.Equal(t, 400, resp.StatusCode)
}

func TestExpensesNeedManagerRole(t *testing.T) {
	srv := newTestServer(t)
	admin := login(t, srv, "admin@academy.local")
	staff := login(t, srv, "desk@academy.local")

	resp, tr := call(t, srv, "POST", "/v1/trainings", admin, map[string]any{"title": "Schema Therapy", "price": 5000})
	require.Equal(t, 201, resp.StatusCode)
	id := tr["id"].(string)

	body := map[string]any{"applyVat": true, "customExpenses": []map[string]any{{"label": "Venue", "amount": 800}}}
	resp, _ = call(t, srv, "PUT", "/v1/trainings/"+id+"/expenses", staff, body)
	require.Equal(t, 403, resp.StatusCode)

	resp, _ = call(t, srv, "PUT", "/v1/trainings/"+id+"/expenses", admin, body)
	require.Equal(t, 200, resp.StatusCode)
}

func TestUnknownViewRejected(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv, "admin@academy.local")

	resp, _ := call(t, srv, "GET", "/v1/trainings?view=bogus", token, nil)
	require.Equal(t, 400, resp.StatusCode)
}
