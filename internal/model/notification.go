package model

import "time"

// Notification is a server-pushed alert delivered over the realtime channel.
type Notification struct {
	Id        string                 `json:"_id,omitempty"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}
