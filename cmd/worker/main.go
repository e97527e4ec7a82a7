// cmd/worker/main.go
package main

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/streadway/amqp"

	"github.com/spsmiles/outreach-backend/internal/config"
	"github.com/spsmiles/outreach-backend/internal/db"
	"github.com/spsmiles/outreach-backend/internal/queue"
	"github.com/spsmiles/outreach-backend/internal/repository"
	"github.com/spsmiles/outreach-backend/internal/service"
	"github.com/spsmiles/outreach-backend/internal/transport"
)

// staleSweepInterval paces the periodic follow-up window sweep.
const staleSweepInterval = 15 * time.Minute

// maxDeliveryRetries bounds how often a failing delivery is requeued
// before the job is dropped.
const maxDeliveryRetries = 3

// deliveryRetryCount reads the x-retry-count header, tolerating the
// integer types AMQP clients encode it as.
func deliveryRetryCount(headers amqp.Table) int {
	switch v := headers["x-retry-count"].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	default:
		return 0
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[Worker] no .env file found, relying on OS environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Worker] failed to load config: %v", err)
	}
	if cfg.AMQP.URL == "" {
		log.Fatal("[Worker] AMQP_URL is required for the delivery worker")
	}

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		log.Fatal("[Worker] failed to connect to DB:", err)
	}
	defer conn.Close()

	orgRepo := &repository.OrganizationRepository{DB: conn}
	schoolRepo := &repository.SchoolRepository{DB: conn}
	contactRepo := &repository.ContactRepository{DB: conn}
	campaignRepo := &repository.CampaignRepository{DB: conn}
	emailRepo := &repository.EmailRepository{DB: conn}
	sender := &transport.MockSender{}

	amqpConn, err := amqp.Dial(cfg.AMQP.URL)
	if err != nil {
		log.Fatal("[Worker] failed to connect to RabbitMQ:", err)
	}
	defer amqpConn.Close()

	ch, err := amqpConn.Channel()
	if err != nil {
		log.Fatal("[Worker] failed to open a channel:", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		queue.TopicDeliveries,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		log.Fatal("[Worker] failed to declare queue:", err)
	}

	msgs, err := ch.Consume(
		q.Name,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Fatal("[Worker] failed to register consumer:", err)
	}

	// The worker also owns the periodic stale sweep; only the timing
	// lives here, the transition rules stay in the orchestrator.
	outreachService := service.NewOutreachService(
		orgRepo, schoolRepo, contactRepo, campaignRepo, emailRepo,
		nil, nil, nil, nil,
	)
	go runStaleSweep(outreachService)

	go func() {
		for d := range msgs {
			var job queue.DeliveryJob
			if err := json.Unmarshal(d.Body, &job); err != nil {
				log.Println("[Worker] invalid job:", err)
				d.Ack(false)
				continue
			}

			err := queue.ProcessDelivery(context.Background(), job.EmailID, emailRepo, contactRepo, sender)
			if err != nil {
				log.Println("[Worker] delivery failed:", err)
				retries := deliveryRetryCount(d.Headers)
				if retries < maxDeliveryRetries {
					// Republish with the incremented counter; a bare
					// requeue would keep the old header and retry
					// forever.
					pubErr := ch.Publish("", q.Name, false, false, amqp.Publishing{
						ContentType: "application/json",
						Body:        d.Body,
						Headers:     amqp.Table{"x-retry-count": int32(retries + 1)},
					})
					if pubErr != nil {
						log.Println("[Worker] failed to requeue delivery:", pubErr)
						d.Nack(false, true)
						continue
					}
				} else {
					log.Printf("[Worker] delivery permanently failed after %d retries: %v", retries, err)
				}
			}

			d.Ack(false)
		}
	}()

	log.Println("[Worker] running, waiting for delivery jobs...")
	forever := make(chan bool)
	<-forever
}

func runStaleSweep(svc *service.OutreachService) {
	ticker := time.NewTicker(staleSweepInterval)
	defer ticker.Stop()
	for range ticker.C {
		moved, err := svc.SweepStale(context.Background())
		if err != nil {
			log.Println("[Worker] stale sweep failed:", err)
			continue
		}
		if moved > 0 {
			log.Printf("[Worker] marked %d emails stale", moved)
		}
	}
}
