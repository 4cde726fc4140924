package main

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/guillaumedeshayes/twilio-messaging-controler/internal/config"
	"github.com/guillaumedeshayes/twilio-messaging-controler/internal/db"
	"github.com/guillaumedeshayes/twilio-messaging-controler/internal/handler"
	"github.com/guillaumedeshayes/twilio-messaging-controler/internal/logger"
	"github.com/guillaumedeshayes/twilio-messaging-controler/internal/repository"
	"github.com/guillaumedeshayes/twilio-messaging-controler/internal/service"
	"github.com/guillaumedeshayes/twilio-messaging-controler/internal/twilio"
)

func main() {
	log := logger.NewJSONLogger()

	if err := godotenv.Load(); err != nil {
		log.Warn("no .env file found, relying on OS environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	conn, err := db.Connect(cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	twilioClient := twilio.NewClient(cfg)

	verificationRepo := &repository.VerificationRepository{DB: conn}
	campaignRepo := &repository.CampaignRepository{DB: conn}
	brandRepo := &repository.BrandRepository{DB: conn}
	customerRepo := &repository.CustomerRepository{DB: conn}
	messageRepo := &repository.OutboundMessageRepository{DB: conn}

	verificationService := &service.VerificationService{
		Verifications: verificationRepo,
		Verify:        twilioClient,
		Logger:        log,
	}

	// The delivery callback URL is only attached outside development.
	callbackBase := ""
	if !cfg.IsDevelopment() {
		callbackBase = cfg.PublicBaseURL
	}

	campaignService := &service.CampaignService{
		Campaigns:          campaignRepo,
		Brands:             brandRepo,
		Customers:          customerRepo,
		Messages:           messageRepo,
		Messenger:          twilioClient,
		Logger:             log,
		StatusCallbackBase: callbackBase,
		SendConcurrency:    cfg.SendConcurrency,
	}

	verificationHandler := &handler.VerificationHandler{Service: verificationService}
	campaignHandler := &handler.CampaignHandler{Service: campaignService}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/sms/verification/send", verificationHandler.SendToken)
	r.Post("/sms/verification/check", verificationHandler.CheckToken)
	r.Get("/sms/verification/status", verificationHandler.Status)

	r.Post("/sms/campaigns/{brandID}", campaignHandler.Create)
	r.Get("/sms/campaigns", campaignHandler.List)
	r.Post("/sms/twilio/status-callback/{campaignID}/{customerID}", campaignHandler.StatusCallback)

	addr := ":" + cfg.ServerPort
	log.Info("server running", "addr", addr, "env", cfg.AppEnv)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
