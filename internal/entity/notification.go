package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationEventKind string

const (
	EventQuestionPosted  NotificationEventKind = "question_posted"
	EventPostCreated     NotificationEventKind = "post_created"
	EventAnswerReceived  NotificationEventKind = "answer_received"
	EventCommentReceived NotificationEventKind = "comment_received"
)

// Notification is create-only. Exactly one of RelatedPostID / RelatedQuestionID is set.
// The related ids carry no foreign key: a notification may outlive, or predate, its subject.
type Notification struct {
	ID                uuid.UUID             `gorm:"type:uuid;primaryKey" json:"id"`
	RecipientID       uuid.UUID             `gorm:"type:uuid;not null;index" json:"recipient_id"`
	EventKind         NotificationEventKind `gorm:"size:32;not null" json:"event_kind"`
	RelatedPostID     *uuid.UUID            `gorm:"type:uuid" json:"related_post_id,omitempty"`
	RelatedQuestionID *uuid.UUID            `gorm:"type:uuid" json:"related_question_id,omitempty"`
	RelatedSlug       string                `gorm:"size:255" json:"related_slug"`
	Message           string                `gorm:"type:text;not null;check:chk_notifications_message,message <> ''" json:"message"`
	CreatedAt         time.Time             `gorm:"not null;index" json:"created_at"`
}

func (n *Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID, err = uuid.NewV7()
	}
	return
}
