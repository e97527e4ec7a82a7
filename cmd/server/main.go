// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/spsmiles/outreach-backend/internal/config"
	"github.com/spsmiles/outreach-backend/internal/db"
	"github.com/spsmiles/outreach-backend/internal/generation"
	"github.com/spsmiles/outreach-backend/internal/guard"
	"github.com/spsmiles/outreach-backend/internal/handler"
	"github.com/spsmiles/outreach-backend/internal/intent"
	"github.com/spsmiles/outreach-backend/internal/queue"
	"github.com/spsmiles/outreach-backend/internal/repository"
	"github.com/spsmiles/outreach-backend/internal/service"
	"github.com/spsmiles/outreach-backend/internal/transport"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("[Server] no .env file found, relying on OS environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Server] failed to load config: %v", err)
	}

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("[Server] failed to connect to DB: %v", err)
	}
	defer conn.Close()

	orgRepo := &repository.OrganizationRepository{DB: conn}
	schoolRepo := &repository.SchoolRepository{DB: conn}
	contactRepo := &repository.ContactRepository{DB: conn}
	campaignRepo := &repository.CampaignRepository{DB: conn}
	emailRepo := &repository.EmailRepository{DB: conn}
	suppressionRepo := &repository.SuppressionRepository{DB: conn}

	// Daily counter: Redis when configured, in-process otherwise.
	var counter guard.DailyCounter
	if cfg.Redis.Addr != "" {
		redisCounter, err := guard.NewRedisCounterFromURL("redis://" + cfg.Redis.Addr)
		if err != nil {
			log.Fatalf("[Server] failed to connect to Redis: %v", err)
		}
		counter = redisCounter
		log.Println("[Server] using Redis send counter at", cfg.Redis.Addr)
	} else {
		counter = guard.NewMemoryCounter()
		log.Println("[Server] REDIS_ADDR unset, using in-process send counter")
	}
	sendGuard := guard.New(suppressionRepo, counter)

	// Generation: Bedrock when enabled, deterministic fallback otherwise.
	var gen generation.Generator
	if !cfg.Bedrock.Disabled {
		bedrock, err := generation.NewBedrockGenerator(context.Background(), cfg.Bedrock.Region, cfg.Bedrock.ModelID)
		if err != nil {
			log.Println("[Server] Bedrock unavailable, drafts will use the fallback template:", err)
		} else {
			gen = bedrock
		}
	}
	drafter := generation.NewDrafter(gen, cfg.Outreach.CurrencySymbol, cfg.Outreach.SenderName, cfg.Outreach.SenderEmail)
	classifier := intent.NewClassifier(gen)

	// Queue: AMQP when a broker is configured, in-process otherwise. The
	// in-process queue delivers via the mock transport right here.
	var q queue.Queue
	if cfg.AMQP.URL != "" {
		amqpQueue, err := queue.NewAMQPQueue(cfg.AMQP.URL)
		if err != nil {
			log.Fatalf("[Server] failed to connect to AMQP broker: %v", err)
		}
		defer amqpQueue.Close()
		q = amqpQueue
		log.Println("[Server] publishing deliveries to AMQP")
	} else {
		memQueue := queue.NewInMemoryQueue()
		queue.StartDeliverySubscriber(memQueue, emailRepo, contactRepo, &transport.MockSender{})
		q = memQueue
		log.Println("[Server] AMQP_URL unset, delivering in process")
	}

	outreachService := service.NewOutreachService(
		orgRepo, schoolRepo, contactRepo, campaignRepo, emailRepo,
		sendGuard, drafter, classifier, q,
	)
	campaignService := &service.CampaignService{
		CampaignRepo: campaignRepo,
		EmailRepo:    emailRepo,
	}
	directoryService := &service.DirectoryService{
		SchoolRepo:  schoolRepo,
		ContactRepo: contactRepo,
	}
	analyticsService := &service.AnalyticsService{
		SchoolRepo:   schoolRepo,
		ContactRepo:  contactRepo,
		CampaignRepo: campaignRepo,
		EmailRepo:    emailRepo,
	}

	schoolHandler := &handler.SchoolHandler{Directory: directoryService}
	campaignHandler := &handler.CampaignHandler{Service: campaignService}
	emailHandler := &handler.EmailHandler{Outreach: outreachService}
	analyticsHandler := &handler.AnalyticsHandler{
		Analytics:    analyticsService,
		Suppressions: suppressionRepo,
	}

	r := chi.NewRouter()

	// School and contact routes
	r.Post("/schools", schoolHandler.CreateSchool)
	r.Get("/schools", schoolHandler.ListSchools)
	r.Get("/schools/{id}", schoolHandler.GetSchool)
	r.Post("/schools/{id}/contacts", schoolHandler.CreateContact)
	r.Get("/schools/{id}/contacts", schoolHandler.ListContacts)

	// Campaign routes
	r.Post("/campaigns", campaignHandler.CreateCampaign)
	r.Get("/campaigns", campaignHandler.ListCampaigns)
	r.Get("/campaigns/{id}", campaignHandler.GetCampaign)
	r.Post("/campaigns/{id}/pause", campaignHandler.PauseCampaign)

	// Email lifecycle routes
	r.Post("/emails/generate", emailHandler.GenerateDraft)
	r.Get("/emails/{id}", emailHandler.GetEmail)
	r.Post("/emails/{id}/send", emailHandler.Send)
	r.Post("/emails/{id}/reply", emailHandler.Reply)
	r.Post("/emails/{id}/stale", emailHandler.MarkStale)
	r.Post("/emails/{id}/follow-up", emailHandler.FollowUp)
	r.Post("/emails/sweep-stale", emailHandler.SweepStale)

	// Analytics routes
	r.Get("/analytics/dashboard", analyticsHandler.Dashboard)
	r.Get("/do-not-contact", analyticsHandler.ListDoNotContact)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	log.Println("[Server] listening on", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}
