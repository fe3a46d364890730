package events

import "time"

// Event codes carried on the bus. Subscribers filter on these.
const (
	TypeContactCreated    = "CONTACT_CREATED"
	TypeDealStageChanged  = "DEAL_STAGE_CHANGED"
	TypeDealSignalUpdated = "DEAL_SIGNAL_UPDATED"
	TypeActivityLogged    = "ACTIVITY_LOGGED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "DEAL_STAGE_CHANGED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation used by all publishers.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func NewDealStageChanged(dealId, fromStage, toStage string) BaseEvent {
	return BaseEvent{
		Type: TypeDealStageChanged,
		Data: map[string]interface{}{
			"deal_id":    dealId,
			"from_stage": fromStage,
			"to_stage":   toStage,
		},
		OccurredAt: time.Now(),
	}
}

func NewDealSignalUpdated(dealId, signal string) BaseEvent {
	return BaseEvent{
		Type: TypeDealSignalUpdated,
		Data: map[string]interface{}{
			"deal_id": dealId,
			"signal":  signal,
		},
		OccurredAt: time.Now(),
	}
}

func NewActivityLogged(activityId, activityType string, dealId *string) BaseEvent {
	data := map[string]interface{}{
		"activity_id": activityId,
		"type":        activityType,
	}
	if dealId != nil {
		data["deal_id"] = *dealId
	}
	return BaseEvent{
		Type:       TypeActivityLogged,
		Data:       data,
		OccurredAt: time.Now(),
	}
}

func NewContactCreated(contactId string) BaseEvent {
	return BaseEvent{
		Type:       TypeContactCreated,
		Data:       map[string]interface{}{"contact_id": contactId},
		OccurredAt: time.Now(),
	}
}
