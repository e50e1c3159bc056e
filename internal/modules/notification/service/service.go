package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"anoa.com/qaforum/internal/entity"
	notifDto "anoa.com/qaforum/internal/modules/notification/dto"
	notifRepo "anoa.com/qaforum/internal/modules/notification/repository"
	"anoa.com/qaforum/pkg/apperror"
	"anoa.com/qaforum/pkg/identity"
	"anoa.com/qaforum/pkg/metrics"
)

// RelatedLookup resolves the post or question a notification points at.
// Both methods return apperror.ErrNotFound when the entity does not exist.
type RelatedLookup interface {
	FindPostByID(ctx context.Context, id uuid.UUID) (*entity.Post, error)
	FindQuestionByID(ctx context.Context, id uuid.UUID) (*entity.Question, error)
}

// Event is one content-creation event addressed to RecipientID.
type Event struct {
	RecipientID uuid.UUID
	Kind        entity.NotificationEventKind
	RelatedID   uuid.UUID
}

type NotificationService interface {
	// Emit persists exactly one notification and returns its message.
	Emit(ctx context.Context, caller identity.Identity, event Event) (string, error)
	// Notify derives the recipient for kind and emits. Self kinds go to the caller,
	// received kinds to the author of the related entity, or to the caller when that
	// entity no longer exists.
	Notify(ctx context.Context, caller identity.Identity, kind string, relatedID uuid.UUID) (string, error)
	List(ctx context.Context, caller identity.Identity) ([]notifDto.NotificationResponse, error)
	Clear(ctx context.Context, caller identity.Identity) error
}

type notificationService struct {
	repo    notifRepo.NotificationRepository
	related RelatedLookup
	clock   clockwork.Clock
	metrics *metrics.NotificationMetrics
	logger  *zap.Logger
}

func NewNotificationService(repo notifRepo.NotificationRepository, related RelatedLookup, clock clockwork.Clock, m *metrics.NotificationMetrics, logger *zap.Logger) NotificationService {
	return &notificationService{
		repo:    repo,
		related: related,
		clock:   clock,
		metrics: m,
		logger:  logger,
	}
}

type subject struct {
	title    string
	slug     string
	authorID uuid.UUID
}

func (s *notificationService) lookup(ctx context.Context, kind entity.NotificationEventKind, id uuid.UUID) (*subject, error) {
	if aboutPost(kind) {
		post, err := s.related.FindPostByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &subject{title: post.Title, slug: post.Slug, authorID: post.AuthorID}, nil
	}

	question, err := s.related.FindQuestionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &subject{title: question.Title, slug: question.Slug, authorID: question.AuthorID}, nil
}

func (s *notificationService) Emit(ctx context.Context, caller identity.Identity, event Event) (string, error) {
	if err := caller.Require(); err != nil {
		return "", err
	}
	if event.RecipientID == uuid.Nil {
		return "", apperror.Validation("recipient is required")
	}
	if event.RelatedID == uuid.Nil {
		return "", apperror.Validation("related_id is required")
	}

	// Unknown kinds are rejected before the lookup so nothing is written.
	if _, err := ComposeMessage(event.Kind, ""); err != nil {
		return "", err
	}

	var title, slug string
	subj, err := s.lookup(ctx, event.Kind, event.RelatedID)
	switch {
	case err == nil:
		title, slug = subj.title, subj.slug
	case errors.Is(err, apperror.ErrNotFound):
		s.logger.Warn("notification subject not found, emitting without title",
			zap.String("event_kind", string(event.Kind)),
			zap.String("related_id", event.RelatedID.String()),
		)
	default:
		return "", err
	}

	message, err := ComposeMessage(event.Kind, title)
	if err != nil {
		return "", err
	}

	notification := &entity.Notification{
		RecipientID: event.RecipientID,
		EventKind:   event.Kind,
		RelatedSlug: slug,
		Message:     message,
		CreatedAt:   s.clock.Now().UTC(),
	}
	related := event.RelatedID
	if aboutPost(event.Kind) {
		notification.RelatedPostID = &related
	} else {
		notification.RelatedQuestionID = &related
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		return "", err
	}

	if s.metrics != nil {
		s.metrics.Emitted.WithLabelValues(string(event.Kind)).Inc()
	}
	return message, nil
}

func (s *notificationService) Notify(ctx context.Context, caller identity.Identity, kind string, relatedID uuid.UUID) (string, error) {
	if err := caller.Require(); err != nil {
		return "", err
	}

	eventKind, err := ParseEventKind(kind)
	if err != nil {
		return "", err
	}

	// A received kind whose subject is gone cannot name its author; it falls back to the
	// caller and Emit writes the empty-title message.
	recipient := caller.UserID
	if toAuthor(eventKind) {
		subj, err := s.lookup(ctx, eventKind, relatedID)
		switch {
		case err == nil:
			recipient = subj.authorID
		case !errors.Is(err, apperror.ErrNotFound):
			return "", err
		}
	}

	return s.Emit(ctx, caller, Event{RecipientID: recipient, Kind: eventKind, RelatedID: relatedID})
}

func (s *notificationService) List(ctx context.Context, caller identity.Identity) ([]notifDto.NotificationResponse, error) {
	if err := caller.Require(); err != nil {
		return nil, err
	}

	notifications, err := s.repo.ListByRecipient(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	result := make([]notifDto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		result = append(result, notifDto.NotificationResponse{
			ID:        n.ID,
			EventKind: string(n.EventKind),
			Message:   n.Message,
			Slug:      n.RelatedSlug,
			CreatedAt: n.CreatedAt,
		})
	}
	return result, nil
}

func (s *notificationService) Clear(ctx context.Context, caller identity.Identity) error {
	if err := caller.Require(); err != nil {
		return err
	}

	removed, err := s.repo.DeleteByRecipient(ctx, caller.UserID)
	if err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.Cleared.Add(float64(removed))
	}
	s.logger.Debug("notifications cleared", zap.String("recipient_id", caller.UserID.String()), zap.Int64("removed", removed))
	return nil
}
