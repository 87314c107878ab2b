package dto

import "github.com/Mohd-umair/repmeup-frontend/internal/model"

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// InteractionListData is the payload of GET /inbox.
type InteractionListData struct {
	Interactions []model.Interaction `json:"interactions"`
	Pagination   Pagination          `json:"pagination"`
}

type ReplyRequest struct {
	Content     string `json:"content" validate:"required"`
	UseTemplate bool   `json:"useTemplate,omitempty"`
	TemplateId  string `json:"templateId,omitempty"`
}

type AssignRequest struct {
	UserId string `json:"userId" validate:"required"`
	Reason string `json:"reason,omitempty"`
}

type AddLabelRequest struct {
	LabelId string `json:"labelId" validate:"required"`
}

type AddNoteRequest struct {
	Note      string `json:"note" validate:"required"`
	IsPrivate bool   `json:"isPrivate"`
}

type UpdateStatusRequest struct {
	Status model.InteractionStatus `json:"status" validate:"required,oneof=unread read replied assigned resolved"`
}
