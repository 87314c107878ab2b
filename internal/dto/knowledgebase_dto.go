package dto

import "github.com/Mohd-umair/repmeup-frontend/internal/model"

// KnowledgeListData is the payload of GET /knowledge-base.
type KnowledgeListData struct {
	Entries    []model.KnowledgeEntry `json:"entries"`
	Pagination Pagination             `json:"pagination"`
}

type CreateManualRequest struct {
	Title          string   `json:"title" validate:"required"`
	Content        string   `json:"content" validate:"required"`
	Category       string   `json:"category" validate:"required"`
	Tags           []string `json:"tags,omitempty"`
	Priority       int      `json:"priority,omitempty" validate:"omitempty,min=0,max=10"`
	TrainingWeight float64  `json:"trainingWeight,omitempty" validate:"omitempty,min=0,max=1"`
}

type CreateFromURLRequest struct {
	URL      string `json:"url" validate:"required,url"`
	Category string `json:"category" validate:"required"`
}

type UpdateKnowledgeRequest struct {
	Title          string   `json:"title,omitempty"`
	Content        string   `json:"content,omitempty"`
	Category       string   `json:"category,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Priority       *int     `json:"priority,omitempty" validate:"omitempty,min=0,max=10"`
	TrainingWeight *float64 `json:"trainingWeight,omitempty" validate:"omitempty,min=0,max=1"`
	IsActive       *bool    `json:"isActive,omitempty"`
}
