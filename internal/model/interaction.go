package model

import "time"

type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformYouTube   Platform = "youtube"
	PlatformGoogle    Platform = "google"
	PlatformWhatsApp  Platform = "whatsapp"
)

type InteractionType string

const (
	InteractionTypeComment InteractionType = "comment"
	InteractionTypeDM      InteractionType = "dm"
	InteractionTypeReview  InteractionType = "review"
	InteractionTypeMention InteractionType = "mention"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

type InteractionStatus string

const (
	InteractionStatusUnread   InteractionStatus = "unread"
	InteractionStatusRead     InteractionStatus = "read"
	InteractionStatusReplied  InteractionStatus = "replied"
	InteractionStatusAssigned InteractionStatus = "assigned"
	InteractionStatusResolved InteractionStatus = "resolved"
)

type Author struct {
	Name   string `json:"name"`
	Handle string `json:"handle,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// Interaction is a single inbound engagement (comment, DM, review or mention)
// as reported by the backend. Uniqueness key is Id.
type Interaction struct {
	Id           string            `json:"_id"`
	Organization string            `json:"organization"`
	Platform     Platform          `json:"platform"`
	Type         InteractionType   `json:"type"`
	Content      string            `json:"content"`
	Author       Author            `json:"author"`
	Sentiment    Sentiment         `json:"sentiment"`
	Status       InteractionStatus `json:"status"`
	AssignedTo   string            `json:"assignedTo,omitempty"`
	Labels       []string          `json:"labels,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// InboxStats are the aggregate counters behind the dashboard tiles.
type InboxStats struct {
	Total       int               `json:"total"`
	Unread      int               `json:"unread"`
	Replied     int               `json:"replied"`
	Resolved    int               `json:"resolved"`
	BySentiment map[Sentiment]int `json:"bySentiment,omitempty"`
	ByPlatform  map[Platform]int  `json:"byPlatform,omitempty"`
}
