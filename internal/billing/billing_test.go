package billing

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v78"

	"academy-manager/internal/domain/participant"
	"academy-manager/internal/domain/training"
)

type fakeTrainings struct{ ts []training.Training }

func (f *fakeTrainings) Get(id string) (*training.Training, error) {
	for _, t := range f.ts {
		if t.ID == id {
			tt := t
			return &tt, nil
		}
	}
	return nil, fmt.Errorf("training %s not found", id)
}

type fakeParts struct {
	ps       []participant.Participant
	recorded []participant.PaymentInput
}

func (f *fakeParts) Get(id string) (*participant.Participant, error) {
	for _, p := range f.ps {
		if p.ID == id {
			pp := p
			return &pp, nil
		}
	}
	return nil, fmt.Errorf("participant %s not found", id)
}

func (f *fakeParts) RecordPayment(_ context.Context, id, trainingID string, in participant.PaymentInput) (*participant.Participant, error) {
	f.recorded = append(f.recorded, in)
	return &participant.Participant{ID: id}, nil
}

// sign produces a Stripe-Signature header for the payload.
func sign(secret string, payload []byte, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("%d", ts.Unix())))
	mac.Write([]byte("."))
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func TestWebhookNotConfigured(t *testing.T) {
	svc := NewService(Config{}, &fakeTrainings{}, &fakeParts{})
	rec := httptest.NewRecorder()
	svc.HandleWebhook(rec, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{}")))
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	svc := NewService(Config{WebhookSecret: "whsec_test"}, &fakeTrainings{}, &fakeParts{})

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"type":"checkout.session.completed"}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")
	rec := httptest.NewRecorder()
	svc.HandleWebhook(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookRecordsOnlinePayment(t *testing.T) {
	parts := &fakeParts{}
	svc := NewService(Config{WebhookSecret: "whsec_test"}, &fakeTrainings{}, parts)

	payload := []byte(fmt.Sprintf(`{
		"id": "evt_1",
		"api_version": %q,
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_test_1",
			"amount_total": 450000,
			"metadata": {"participantId": "p1", "trainingId": "t1"}
		}}
	}`, stripe.APIVersion))

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(string(payload)))
	req.Header.Set("Stripe-Signature", sign("whsec_test", payload, time.Now()))
	rec := httptest.NewRecorder()
	svc.HandleWebhook(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, parts.recorded, 1)
	assert.InDelta(t, 4500, parts.recorded[0].Amount, 0.001)
	assert.Equal(t, participant.MethodOnline, parts.recorded[0].Method)
	assert.Contains(t, parts.recorded[0].Description, "cs_test_1")
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	parts := &fakeParts{}
	svc := NewService(Config{WebhookSecret: "whsec_test"}, &fakeTrainings{}, parts)

	payload := []byte(fmt.Sprintf(`{"id": "evt_2", "api_version": %q, "type": "invoice.payment_succeeded", "data": {"object": {}}}`, stripe.APIVersion))
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(string(payload)))
	req.Header.Set("Stripe-Signature", sign("whsec_test", payload, time.Now()))
	rec := httptest.NewRecorder()
	svc.HandleWebhook(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, parts.recorded)
}

func TestCreateCheckoutValidation(t *testing.T) {
	trainings := &fakeTrainings{ts: []training.Training{{ID: "t1", Title: "EMDR", Price: 4500}}}
	parts := &fakeParts{ps: []participant.Participant{
		{ID: "p1", Name: "Ada"},
		{ID: "p2", Name: "Paid", Assignments: []participant.TrainingAssignment{{
			TrainingID: "t1",
			Payments:   []participant.PaymentRecord{{Amount: 4500}},
		}}},
	}}
	svc := NewService(Config{SecretKey: "sk_test"}, trainings, parts)
	require.True(t, svc.Enabled())

	// no assignment for the training
	_, _, err := svc.CreateCheckout(context.Background(), "p1", "t1")
	assert.Error(t, err)

	// balance already settled
	_, _, err = svc.CreateCheckout(context.Background(), "p2", "t1")
	assert.Error(t, err)

	_, _, err = svc.CreateCheckout(context.Background(), "ghost", "t1")
	assert.Error(t, err)
}
