// Package realtime implements the portal push channel: one logical
// connection per signed-in identity, registered by identity id and
// subscribed to a fixed set of event types. Redis pub/sub carries the
// events between instances; in-process subscribers receive them in
// transport order.
package realtime

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// EventType tags the realtime event union.
type EventType string

const (
	// EventReceiveMessage carries one chat message to its recipient.
	EventReceiveMessage EventType = "receive_message"
	// EventAdminAlert carries a free-text alert from an administrator.
	EventAdminAlert EventType = "admin_alert"
	// EventBroadcastAlert announces a broadcast to its recipient list.
	EventBroadcastAlert EventType = "broadcast_alert"
	// EventPermissionsUpdated reports a permission/role/active change for
	// one identity.
	EventPermissionsUpdated EventType = "permissions_updated"
)

// EventTypes lists the subscribable event types.
func EventTypes() []EventType {
	return []EventType{
		EventReceiveMessage,
		EventAdminAlert,
		EventBroadcastAlert,
		EventPermissionsUpdated,
	}
}

// MessagePayload is the receive_message payload.
type MessagePayload struct {
	ID         string `json:"id"`
	SenderID   string `json:"senderId"`
	SenderRole string `json:"senderRole"`
	Content    string `json:"content"`
}

// AlertPayload is the admin_alert payload.
type AlertPayload struct {
	Message string `json:"message"`
}

// BroadcastPayload is the broadcast_alert payload.
type BroadcastPayload struct {
	Title      string   `json:"title"`
	Recipients []string `json:"recipients"`
}

// PermissionsPayload is the permissions_updated payload. It names the
// affected identity; sessions belonging to anyone else ignore it.
type PermissionsPayload struct {
	EmployeeID  string   `json:"employeeId"`
	Permissions []string `json:"permissions"`
	Role        string   `json:"role"`
	Active      bool     `json:"active"`
}

// Event is the tagged union delivered over the channel. Exactly one payload
// field matching the type tag is set.
type Event struct {
	Type        EventType           `json:"type"`
	Message     *MessagePayload     `json:"message,omitempty"`
	Alert       *AlertPayload       `json:"alert,omitempty"`
	Broadcast   *BroadcastPayload   `json:"broadcast,omitempty"`
	Permissions *PermissionsPayload `json:"permissions,omitempty"`
}

// NewMessageEvent builds a receive_message event.
func NewMessageEvent(p MessagePayload) Event {
	return Event{Type: EventReceiveMessage, Message: &p}
}

// NewAdminAlertEvent builds an admin_alert event.
func NewAdminAlertEvent(message string) Event {
	return Event{Type: EventAdminAlert, Alert: &AlertPayload{Message: message}}
}

// NewBroadcastEvent builds a broadcast_alert event.
func NewBroadcastEvent(title string, recipients []string) Event {
	return Event{Type: EventBroadcastAlert, Broadcast: &BroadcastPayload{Title: title, Recipients: recipients}}
}

// NewPermissionsEvent builds a permissions_updated event.
func NewPermissionsEvent(p PermissionsPayload) Event {
	return Event{Type: EventPermissionsUpdated, Permissions: &p}
}

// Valid checks that the type tag is known and the matching payload is set.
func (e Event) Valid() bool {
	switch e.Type {
	case EventReceiveMessage:
		return e.Message != nil
	case EventAdminAlert:
		return e.Alert != nil
	case EventBroadcastAlert:
		return e.Broadcast != nil
	case EventPermissionsUpdated:
		return e.Permissions != nil
	default:
		return false
	}
}

// Encode serialises the event for the wire.
func (e Event) Encode() ([]byte, error) {
	if !e.Valid() {
		return nil, errors.Wrap(ErrInvalidEvent, string(e.Type))
	}

	out, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode event")
	}

	return out, nil
}

// DecodeEvent parses a wire payload. Unknown tags and tag/payload
// mismatches return an error, never a panic.
func DecodeEvent(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, errors.Wrap(err, "failed to decode event")
	}

	if !e.Valid() {
		return Event{}, errors.Wrap(ErrInvalidEvent, string(e.Type))
	}

	return e, nil
}
