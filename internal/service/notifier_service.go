package service

import (
	"context"

	"hybrid-chatbot-be/internal/pkg/logger"
	"hybrid-chatbot-be/internal/pkg/mailer"
	"hybrid-chatbot-be/pkg/events"
	pktNats "hybrid-chatbot-be/pkg/nats"
)

type INotifierService interface {
	Start() error
}

// notifierService listens for completed intakes on the event bus and mails
// a summary to the configured recipient. It runs detached from the request
// path so a slow SMTP server never delays a chat turn.
type notifierService struct {
	subscriber *pktNats.Subscriber
	mailer     mailer.IEmailService
	recipient  string
	log        logger.ILogger
}

func NewNotifierService(
	subscriber *pktNats.Subscriber,
	emailService mailer.IEmailService,
	recipient string,
	log logger.ILogger,
) INotifierService {
	return &notifierService{
		subscriber: subscriber,
		mailer:     emailService,
		recipient:  recipient,
		log:        log,
	}
}

func (s *notifierService) Start() error {
	if s.recipient == "" {
		s.log.Info("notifier", "No notify recipient configured, intake emails disabled", nil)
		return nil
	}

	subject := "events." + events.IntakeCompleted
	return s.subscriber.Subscribe(subject, "intake-notifier", s.handleIntakeCompleted)
}

func (s *notifierService) handleIntakeCompleted(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	sessionID, _ := payload["session_id"].(string)

	answers := make(map[string]string)
	for k, v := range payload {
		if k == "session_id" {
			continue
		}
		if str, ok := v.(string); ok {
			answers[k] = str
		}
	}

	if err := s.mailer.SendIntakeSummary(s.recipient, sessionID, answers); err != nil {
		s.log.Error("notifier", "Failed to send intake summary", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return err
	}

	s.log.Info("notifier", "Intake summary sent", map[string]interface{}{
		"session_id": sessionID,
	})
	return nil
}
