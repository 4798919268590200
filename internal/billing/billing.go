package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/checkout/session"
	"github.com/stripe/stripe-go/v78/webhook"

	"academy-manager/internal/domain/participant"
	"academy-manager/internal/domain/training"
)

// Config carries the Stripe credentials. Empty SecretKey disables the whole
// feature; handlers answer 501.
type Config struct {
	SecretKey     string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
}

type TrainingSource interface {
	Get(id string) (*training.Training, error)
}

type PaymentRecorder interface {
	Get(id string) (*participant.Participant, error)
	RecordPayment(ctx context.Context, id, trainingID string, in participant.PaymentInput) (*participant.Participant, error)
}

// Service creates checkout sessions for training fees and turns completed
// sessions into payment records via the webhook.
type Service struct {
	cfg       Config
	trainings TrainingSource
	parts     PaymentRecorder
}

func NewService(cfg Config, trainings TrainingSource, parts PaymentRecorder) *Service {
	if cfg.SecretKey != "" {
		stripe.Key = cfg.SecretKey
	}
	return &Service{cfg: cfg, trainings: trainings, parts: parts}
}

func (s *Service) Enabled() bool {
	return s.cfg.SecretKey != ""
}

// CreateCheckout opens a one-off payment session for the participant's
// training fee. The ids travel in the session metadata and come back on the
// webhook.
func (s *Service) CreateCheckout(ctx context.Context, participantID, trainingID string) (string, string, error) {
	p, err := s.parts.Get(participantID)
	if err != nil {
		return "", "", err
	}
	t, err := s.trainings.Get(trainingID)
	if err != nil {
		return "", "", err
	}
	a, ok := p.AssignmentFor(trainingID)
	if !ok {
		return "", "", fmt.Errorf("participant %s has no assignment for training %s", participantID, trainingID)
	}

	amount := t.Price - a.Discount - a.CollectedAmount()
	if amount <= 0 {
		return "", "", fmt.Errorf("nothing left to collect for this assignment")
	}

	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(s.cfg.SuccessURL),
		CancelURL:  stripe.String(s.cfg.CancelURL),
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String("try"),
					UnitAmount: stripe.Int64(int64(amount * 100)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(t.Title),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			"participantId": participantID,
			"trainingId":    trainingID,
		},
	}
	if p.Email != "" {
		params.CustomerEmail = stripe.String(p.Email)
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		return "", "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.ID, sess.URL, nil
}

// HandleWebhook verifies and processes Stripe events. Only
// checkout.session.completed matters here; everything else is acknowledged
// and ignored.
func (s *Service) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	if s.cfg.WebhookSecret == "" {
		http.Error(w, "stripe webhook not configured", http.StatusNotImplemented)
		return
	}

	const maxBodyBytes = int64(65536)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("webhook: error reading request body: %v", err)
		http.Error(w, "error reading request body", http.StatusServiceUnavailable)
		return
	}

	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), s.cfg.WebhookSecret)
	if err != nil {
		log.Printf("webhook: signature verification failed: %v", err)
		http.Error(w, "signature verification failed", http.StatusBadRequest)
		return
	}

	log.Printf("webhook: received event type=%s id=%s", event.Type, event.ID)

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			log.Printf("webhook: error parsing checkout session: %v", err)
			http.Error(w, "error parsing webhook JSON", http.StatusBadRequest)
			return
		}
		if err := s.handleCheckoutCompleted(r.Context(), &sess); err != nil {
			// acknowledge anyway to stop Stripe retrying a permanently bad event
			log.Printf("webhook: error handling checkout completed: %v", err)
		}
	default:
		log.Printf("webhook: unhandled event type: %s", event.Type)
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"received": true}`))
}

func (s *Service) handleCheckoutCompleted(ctx context.Context, sess *stripe.CheckoutSession) error {
	participantID := sess.Metadata["participantId"]
	trainingID := sess.Metadata["trainingId"]
	if participantID == "" || trainingID == "" {
		return fmt.Errorf("missing participantId/trainingId in metadata")
	}

	amount := float64(sess.AmountTotal) / 100
	if amount <= 0 {
		return fmt.Errorf("session %s has no amount", sess.ID)
	}

	_, err := s.parts.RecordPayment(ctx, participantID, trainingID, participant.PaymentInput{
		Amount:      amount,
		Method:      participant.MethodOnline,
		Description: "Stripe checkout " + sess.ID,
	})
	if err != nil {
		return fmt.Errorf("record payment: %w", err)
	}
	log.Printf("webhook: recorded online payment participant=%s training=%s amount=%.2f", participantID, trainingID, amount)
	return nil
}
