package dto

import (
	"time"

	"github.com/google/uuid"
)

// EmitRequest never carries a recipient; it is derived from the session and the related entity.
type EmitRequest struct {
	EventKind string `json:"event_kind" binding:"required,oneof=post_created comment_received question_posted answer_received"`
	RelatedID string `json:"related_id" binding:"required,uuid"`
}

type EmitResponse struct {
	Message string `json:"message"`
}

type NotificationResponse struct {
	ID        uuid.UUID `json:"id"`
	EventKind string    `json:"event_kind"`
	Message   string    `json:"message"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}
