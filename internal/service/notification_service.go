package service

import (
	"context"
	"strings"

	"ai-crm-be/internal/pkg/logger"
	"ai-crm-be/internal/websocket"
	"ai-crm-be/pkg/events"
	pkgnats "ai-crm-be/pkg/nats"
)

// NotificationService bridges the NATS event stream into the websocket hub so
// dashboards update live when deals move or signals change.
type NotificationService struct {
	subscriber *pkgnats.Subscriber
	hub        *websocket.Hub
	logger     logger.ILogger
}

func NewNotificationService(subscriber *pkgnats.Subscriber, hub *websocket.Hub, log logger.ILogger) *NotificationService {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &NotificationService{
		subscriber: subscriber,
		hub:        hub,
		logger:     log,
	}
}

// Start subscribes to all CRM subjects with a durable consumer. Call from a
// goroutine; delivery runs on the NATS consumer's own goroutines.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("crm.>", "crm-notifier", s.handleEvent)
	if err != nil {
		s.logger.Error("notification_service", "failed to subscribe to CRM events", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *NotificationService) handleEvent(_ context.Context, event events.Event) error {
	// The subject arrives as "crm.deal_stage_changed"; clients get the bare
	// event code back.
	code := strings.ToUpper(strings.TrimPrefix(event.EventType(), "crm."))

	s.hub.Broadcast(websocket.Notification{
		Type:       code,
		Data:       event.Payload(),
		OccurredAt: event.Timestamp(),
	})
	return nil
}
