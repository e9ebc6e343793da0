package session

import "time"

// CreateRequest defines payload for starting a new conversation.
type CreateRequest struct {
	ParticipantName string `json:"participant_name"`
	BirthDate       string `json:"birth_date"`
	VoiceID         string `json:"voice_id"`
}

// CreateResponse returns the room descriptor and credential the client needs
// to attach its audio transport.
type CreateResponse struct {
	ConversationID  string    `json:"conversation_id"`
	RoomURL         string    `json:"room_url"`
	Token           string    `json:"token"`
	Status          Status    `json:"status"`
	ParticipantName string    `json:"participant_name,omitempty"`
	VoiceID         string    `json:"voice_id,omitempty"`
	StartedAt       time.Time `json:"started_at"`
	InactivityTTLMS int64     `json:"inactivity_ttl_ms"`
}
