package service

import (
	"anoa.com/qaforum/internal/entity"
	"anoa.com/qaforum/pkg/apperror"
)

// ComposeMessage renders the fixed template for kind. An empty title leaves the fragment empty.
func ComposeMessage(kind entity.NotificationEventKind, title string) (string, error) {
	switch kind {
	case entity.EventPostCreated:
		return "Your post has been successfully created!", nil
	case entity.EventCommentReceived:
		return "Someone has commented on your post: " + title, nil
	case entity.EventQuestionPosted:
		return "Your question has been successfully posted!", nil
	case entity.EventAnswerReceived:
		return "Someone has answered your question: " + title, nil
	default:
		return "", apperror.Validation("unknown event kind %q", kind)
	}
}

// ParseEventKind accepts the four known event kinds.
func ParseEventKind(s string) (entity.NotificationEventKind, error) {
	kind := entity.NotificationEventKind(s)
	if _, err := ComposeMessage(kind, ""); err != nil {
		return "", err
	}
	return kind, nil
}

// aboutPost reports whether kind links to a post rather than a question.
func aboutPost(kind entity.NotificationEventKind) bool {
	return kind == entity.EventPostCreated || kind == entity.EventCommentReceived
}

// toAuthor reports whether kind is delivered to the related entity's author instead of the actor.
func toAuthor(kind entity.NotificationEventKind) bool {
	return kind == entity.EventCommentReceived || kind == entity.EventAnswerReceived
}
