package contract

import "notebook/internal/domain/events"

const EventPing events.Type = "ping"
const EventAck events.Type = "ACK"
const EventSessionExpired events.Type = "SESSION_EXPIRED"

// IncomingSocketMessage is used for messages we receive from the users.
type IncomingSocketMessage struct {
	Type events.Type `json:"type"`
}

// OutgoingSocketMessage is what we send to the Client
type OutgoingSocketMessage struct {
	Type events.Type `json:"type"`
	Data interface{} `json:"data,omitempty"`
}
