package domain

import "time"

type EventType string

const (
	EventMatched  EventType = "matched"
	EventVerified EventType = "verified"
	EventReset    EventType = "reset"
	EventDelayed  EventType = "delay_matching"
	EventDeleted  EventType = "deleted"
	EventRepaired EventType = "repaired"
)

// Event tells a participant's dashboard that its record changed.
type Event struct {
	Type          EventType `json:"type"`
	ParticipantID string    `json:"participantId"`
	At            time.Time `json:"at"`
}
