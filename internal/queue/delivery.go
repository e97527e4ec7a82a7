// internal/queue/delivery.go
package queue

import (
	"context"
	"log"

	appErrors "github.com/spsmiles/outreach-backend/internal/errors"
	"github.com/spsmiles/outreach-backend/internal/repository"
	"github.com/spsmiles/outreach-backend/internal/transport"
)

// ProcessDelivery hands one recorded email to the transport. Delivery
// failures are persisted on the email but never touch its lifecycle
// status; the returned error drives queue retry.
func ProcessDelivery(
	ctx context.Context,
	emailID string,
	emails repository.EmailRepositoryInterface,
	contacts repository.ContactRepositoryInterface,
	sender transport.Sender,
) error {
	email, err := emails.GetByID(ctx, emailID)
	if err != nil {
		if appErrors.IsNotFound(err) {
			log.Println("[Delivery] email not found, dropping job:", emailID)
			return nil // no retry
		}
		return err
	}

	contact, err := contacts.GetByID(ctx, email.ContactID)
	if err != nil {
		return err
	}

	if err := sender.Send(ctx, contact.Email, email.Subject, email.Body); err != nil {
		log.Println("[Delivery] send failed for email", emailID, ":", err)
		email.DeliveryFailed = true
		email.DeliveryError = err.Error()
		if updErr := emails.Update(ctx, email); updErr != nil {
			log.Println("[Delivery] failed to record delivery error:", updErr)
		}
		return err // triggers retry in queue
	}

	email.DeliveryFailed = false
	email.DeliveryError = ""
	if err := emails.Update(ctx, email); err != nil {
		log.Println("[Delivery] failed to clear delivery error:", err)
		return err
	}

	log.Println("[Delivery] delivered email:", emailID)
	return nil
}

// StartDeliverySubscriber wires ProcessDelivery onto an in-process queue.
// Deployments with a broker run the worker binary instead.
func StartDeliverySubscriber(
	q Queue,
	emails repository.EmailRepositoryInterface,
	contacts repository.ContactRepositoryInterface,
	sender transport.Sender,
) {
	go func() {
		err := q.Subscribe(TopicDeliveries, func(payload any) error {
			job, ok := payload.(DeliveryJob)
			if !ok {
				log.Printf("[Delivery] invalid payload type %T, dropping", payload)
				return nil // no retry
			}
			return ProcessDelivery(context.Background(), job.EmailID, emails, contacts, sender)
		})
		if err != nil {
			log.Println("[Delivery] failed to start subscriber:", err)
		}
	}()
}
