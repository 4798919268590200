package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"academy-manager/internal/ai"
	"academy-manager/internal/billing"
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
	"academy-manager/internal/firebase"
	"academy-manager/internal/handlers"
	apihttp "academy-manager/internal/http"
	"academy-manager/internal/localstore"
	"academy-manager/internal/middleware"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	app, err := firebase.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("firebase app init failed: %v", err)
	}

	fs, err := firebase.NewFirestore(ctx, app)
	if err != nil {
		log.Fatalf("firestore init failed: %v", err)
	}
	defer fs.Close()

	store, err := localstore.Open(cfg.DataDir)
	if err != nil {
		log.Fatalf("localstore init failed: %v", err)
	}

	// Services backed by the local store
	settingsSvc := settings.NewService(store)
	trainSvc := training.NewService(store)
	instSvc := instructor.NewService(store)
	adsSvc := ads.NewService(store)

	// Participants live in Firestore; the cache mirrors the collection so
	// reads and the derived views stay local.
	partRepo := participant.NewRepo(fs.Client)
	cache := participant.NewCache()
	partSvc := participant.NewService(partRepo, cache, settingsSvc)

	subCtx, stopSub := context.WithCancel(ctx)
	defer stopSub()
	go func() {
		if err := partRepo.Subscribe(subCtx, cache.ApplySnapshot); err != nil && subCtx.Err() == nil {
			log.Printf("participant snapshot stream stopped: %v", err)
		}
	}()

	oracle := ai.NewGemini(cfg.GeminiAPIKey)

	financeSvc := finance.NewService(store, trainSvc, cache, instSvc)
	statsSvc := stats.NewService(trainSvc, cache)
	alertsSvc := alerts.NewService(trainSvc, cache, oracle)
	assistantSvc := assistant.NewService(oracle, trainSvc, cache, adsSvc, instSvc)
	documentsSvc := documents.NewService(oracle, trainSvc, partSvc)

	var billingSvc *billing.Service
	if cfg.StripeSecretKey != "" {
		billingSvc = billing.NewService(billing.Config{
			SecretKey:     cfg.StripeSecretKey,
			WebhookSecret: cfg.StripeWebhookSecret,
			SuccessURL:    os.Getenv("CHECKOUT_SUCCESS_URL"),
			CancelURL:     os.Getenv("CHECKOUT_CANCEL_URL"),
		}, trainSvc, partSvc)
		log.Println("Stripe billing initialized")
	} else {
		log.Println("STRIPE_SECRET_KEY not set, online payments disabled")
	}

	router := apihttp.NewRouter(apihttp.RouterDeps{
		Cfg:            cfg,
		Sessions:       middleware.NewSessions(cfg.Users),
		TrainingSvc:    trainSvc,
		ParticipantSvc: partSvc,
		InstructorSvc:  instSvc,
		SettingsSvc:    settingsSvc,
		FinanceSvc:     financeSvc,
		AdsSvc:         adsSvc,
		StatsSvc:       statsSvc,
		AlertsSvc:      alertsSvc,
		AssistantSvc:   assistantSvc,
		DocumentsSvc:   documentsSvc,
		BillingSvc:     billingSvc,
		Uploads:        handlers.NewUploads(cfg),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// graceful shutdown
	go func() {
		log.Printf("API listening on :%s (project=%s)", cfg.Port, cfg.ProjectID)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 2)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Println("shutting down...")
	stopSub()
	_ = srv.Shutdown(ctxShutdown)
}
