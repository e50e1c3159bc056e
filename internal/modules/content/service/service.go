package service

import (
	"context"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"anoa.com/qaforum/internal/entity"
	contentDto "anoa.com/qaforum/internal/modules/content/dto"
	contentRepo "anoa.com/qaforum/internal/modules/content/repository"
	notification "anoa.com/qaforum/internal/modules/notification/service"
	search "anoa.com/qaforum/internal/modules/search/service"
	"anoa.com/qaforum/pkg/apperror"
	"anoa.com/qaforum/pkg/identity"
)

type Service interface {
	CreatePost(ctx context.Context, caller identity.Identity, req contentDto.CreatePostRequest) (*contentDto.PostResponse, error)
	CreateQuestion(ctx context.Context, caller identity.Identity, req contentDto.CreateQuestionRequest) (*contentDto.QuestionResponse, error)
	AddComment(ctx context.Context, caller identity.Identity, postSlug string, req contentDto.ReplyRequest) (*contentDto.ReplyResponse, error)
	AddAnswer(ctx context.Context, caller identity.Identity, questionSlug string, req contentDto.ReplyRequest) (*contentDto.ReplyResponse, error)
	GetPost(ctx context.Context, slug string) (*contentDto.PostResponse, error)
	GetQuestion(ctx context.Context, slug string) (*contentDto.QuestionResponse, error)
	ListTags(ctx context.Context) ([]contentDto.TagResponse, error)
}

type service struct {
	repo          contentRepo.Repository
	notifications notification.NotificationService
	indexer       search.Indexer
	sanitizer     *bluemonday.Policy
	logger        *zap.Logger
}

func NewService(repo contentRepo.Repository, notifications notification.NotificationService, indexer search.Indexer, logger *zap.Logger) Service {
	return &service{
		repo:          repo,
		notifications: notifications,
		indexer:       indexer,
		sanitizer:     bluemonday.UGCPolicy(),
		logger:        logger,
	}
}

func (s *service) sanitizeBody(field, body string) (string, error) {
	clean := strings.TrimSpace(s.sanitizer.Sanitize(body))
	if clean == "" {
		return "", apperror.Validation("%s must not be empty", field)
	}
	return clean, nil
}

func cleanTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", apperror.Validation("title must not be empty")
	}
	return title, nil
}

// emitAfterWrite reports a notification failure without failing the content write.
func (s *service) emitAfterWrite(ctx context.Context, caller identity.Identity, event notification.Event) {
	if _, err := s.notifications.Emit(ctx, caller, event); err != nil {
		s.logger.Warn("notification emit failed",
			zap.String("event_kind", string(event.Kind)),
			zap.String("related_id", event.RelatedID.String()),
			zap.Error(err),
		)
	}
}

func (s *service) CreatePost(ctx context.Context, caller identity.Identity, req contentDto.CreatePostRequest) (*contentDto.PostResponse, error) {
	if err := caller.Require(); err != nil {
		return nil, err
	}

	title, err := cleanTitle(req.Title)
	if err != nil {
		return nil, err
	}
	description, err := s.sanitizeBody("description", req.Description)
	if err != nil {
		return nil, err
	}

	post := &entity.Post{
		AuthorID:    caller.UserID,
		Title:       title,
		Slug:        generateSlug(title, "post"),
		Description: description,
	}
	if err := s.repo.CreatePost(ctx, post, normalizeTags(req.Tags)); err != nil {
		return nil, err
	}

	if err := s.indexer.IndexPost(ctx, post); err != nil {
		s.logger.Warn("failed to index post", zap.String("post_id", post.ID.String()), zap.Error(err))
	}
	s.emitAfterWrite(ctx, caller, notification.Event{
		RecipientID: caller.UserID,
		Kind:        entity.EventPostCreated,
		RelatedID:   post.ID,
	})

	resp := buildPostResponse(post)
	resp.Author.ID = caller.UserID
	return resp, nil
}

func (s *service) CreateQuestion(ctx context.Context, caller identity.Identity, req contentDto.CreateQuestionRequest) (*contentDto.QuestionResponse, error) {
	if err := caller.Require(); err != nil {
		return nil, err
	}

	title, err := cleanTitle(req.Title)
	if err != nil {
		return nil, err
	}
	content, err := s.sanitizeBody("content", req.Content)
	if err != nil {
		return nil, err
	}

	question := &entity.Question{
		AuthorID: caller.UserID,
		Title:    title,
		Slug:     generateSlug(title, "question"),
		Content:  content,
	}
	if err := s.repo.CreateQuestion(ctx, question, normalizeTags(req.Tags)); err != nil {
		return nil, err
	}

	if err := s.indexer.IndexQuestion(ctx, question); err != nil {
		s.logger.Warn("failed to index question", zap.String("question_id", question.ID.String()), zap.Error(err))
	}
	s.emitAfterWrite(ctx, caller, notification.Event{
		RecipientID: caller.UserID,
		Kind:        entity.EventQuestionPosted,
		RelatedID:   question.ID,
	})

	resp := buildQuestionResponse(question)
	resp.Author.ID = caller.UserID
	return resp, nil
}

// AddComment stores the comment and notifies the post author concurrently. Neither write
// waits for or rolls back the other; only the comment error reaches the caller.
func (s *service) AddComment(ctx context.Context, caller identity.Identity, postSlug string, req contentDto.ReplyRequest) (*contentDto.ReplyResponse, error) {
	if err := caller.Require(); err != nil {
		return nil, err
	}

	content, err := s.sanitizeBody("content", req.Content)
	if err != nil {
		return nil, err
	}

	post, err := s.repo.FindPostBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}

	comment := &entity.Comment{PostID: post.ID, AuthorID: caller.UserID, Content: content}

	var g errgroup.Group
	g.Go(func() error {
		return s.repo.CreateComment(ctx, comment)
	})
	g.Go(func() error {
		s.emitAfterWrite(ctx, caller, notification.Event{
			RecipientID: post.AuthorID,
			Kind:        entity.EventCommentReceived,
			RelatedID:   post.ID,
		})
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp := buildComment(*comment)
	resp.Author.ID = caller.UserID
	return &resp, nil
}

func (s *service) AddAnswer(ctx context.Context, caller identity.Identity, questionSlug string, req contentDto.ReplyRequest) (*contentDto.ReplyResponse, error) {
	if err := caller.Require(); err != nil {
		return nil, err
	}

	content, err := s.sanitizeBody("content", req.Content)
	if err != nil {
		return nil, err
	}

	question, err := s.repo.FindQuestionBySlug(ctx, questionSlug)
	if err != nil {
		return nil, err
	}

	answer := &entity.Answer{QuestionID: question.ID, AuthorID: caller.UserID, Content: content}

	var g errgroup.Group
	g.Go(func() error {
		return s.repo.CreateAnswer(ctx, answer)
	})
	g.Go(func() error {
		s.emitAfterWrite(ctx, caller, notification.Event{
			RecipientID: question.AuthorID,
			Kind:        entity.EventAnswerReceived,
			RelatedID:   question.ID,
		})
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp := buildAnswer(*answer)
	resp.Author.ID = caller.UserID
	return &resp, nil
}

func (s *service) GetPost(ctx context.Context, slug string) (*contentDto.PostResponse, error) {
	post, err := s.repo.FindPostBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return buildPostResponse(post), nil
}

func (s *service) GetQuestion(ctx context.Context, slug string) (*contentDto.QuestionResponse, error) {
	question, err := s.repo.FindQuestionBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return buildQuestionResponse(question), nil
}

func (s *service) ListTags(ctx context.Context) ([]contentDto.TagResponse, error) {
	tags, err := s.repo.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]contentDto.TagResponse, 0, len(tags))
	for _, t := range tags {
		result = append(result, contentDto.TagResponse{ID: t.ID, Name: t.Name})
	}
	return result, nil
}
