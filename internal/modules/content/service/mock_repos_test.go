package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"anoa.com/qaforum/internal/entity"
	notifDto "anoa.com/qaforum/internal/modules/notification/dto"
	notification "anoa.com/qaforum/internal/modules/notification/service"
	searchDto "anoa.com/qaforum/internal/modules/search/dto"
	"anoa.com/qaforum/pkg/apperror"
	"anoa.com/qaforum/pkg/identity"
)

type mockRepo struct {
	mu         sync.Mutex
	posts      map[string]*entity.Post
	questions  map[string]*entity.Question
	comments   []entity.Comment
	answers    []entity.Answer
	lastTags   []string
	createErr  error
	commentErr error
}

func newMockRepo() *mockRepo {
	return &mockRepo{posts: map[string]*entity.Post{}, questions: map[string]*entity.Question{}}
}

func (m *mockRepo) CreatePost(_ context.Context, post *entity.Post, tags []string) error {
	if m.createErr != nil {
		return apperror.Storage(m.createErr)
	}
	post.ID = uuid.New()
	for _, t := range tags {
		post.Tags = append(post.Tags, entity.Tag{ID: uuid.New(), Name: t})
	}
	m.lastTags = tags
	m.posts[post.Slug] = post
	return nil
}

func (m *mockRepo) CreateQuestion(_ context.Context, question *entity.Question, tags []string) error {
	if m.createErr != nil {
		return apperror.Storage(m.createErr)
	}
	question.ID = uuid.New()
	m.lastTags = tags
	m.questions[question.Slug] = question
	return nil
}

func (m *mockRepo) CreateComment(_ context.Context, comment *entity.Comment) error {
	if m.commentErr != nil {
		return apperror.Storage(m.commentErr)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	comment.ID = uuid.New()
	m.comments = append(m.comments, *comment)
	return nil
}

func (m *mockRepo) CreateAnswer(_ context.Context, answer *entity.Answer) error {
	if m.commentErr != nil {
		return apperror.Storage(m.commentErr)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	answer.ID = uuid.New()
	m.answers = append(m.answers, *answer)
	return nil
}

func (m *mockRepo) FindPostBySlug(_ context.Context, slug string) (*entity.Post, error) {
	if p, ok := m.posts[slug]; ok {
		return p, nil
	}
	return nil, apperror.ErrNotFound
}

func (m *mockRepo) FindQuestionBySlug(_ context.Context, slug string) (*entity.Question, error) {
	if q, ok := m.questions[slug]; ok {
		return q, nil
	}
	return nil, apperror.ErrNotFound
}

func (m *mockRepo) FindPostByID(_ context.Context, id uuid.UUID) (*entity.Post, error) {
	for _, p := range m.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, apperror.ErrNotFound
}

func (m *mockRepo) FindQuestionByID(_ context.Context, id uuid.UUID) (*entity.Question, error) {
	for _, q := range m.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return nil, apperror.ErrNotFound
}

func (m *mockRepo) TargetExists(_ context.Context, _ entity.VoteTargetKind, _ uuid.UUID) (bool, error) {
	return false, nil
}

func (m *mockRepo) ListTags(_ context.Context) ([]entity.Tag, error) {
	return []entity.Tag{{ID: uuid.New(), Name: "go"}}, nil
}

type mockNotifications struct {
	mu     sync.Mutex
	events []notification.Event
	err    error
}

func (m *mockNotifications) Emit(_ context.Context, _ identity.Identity, event notification.Event) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	if m.err != nil {
		return "", m.err
	}
	return "ok", nil
}

func (m *mockNotifications) Notify(context.Context, identity.Identity, string, uuid.UUID) (string, error) {
	return "", nil
}

func (m *mockNotifications) List(context.Context, identity.Identity) ([]notifDto.NotificationResponse, error) {
	return nil, nil
}

func (m *mockNotifications) Clear(context.Context, identity.Identity) error { return nil }

type mockIndexer struct {
	posts     int
	questions int
	err       error
}

func (m *mockIndexer) IndexPost(context.Context, *entity.Post) error {
	m.posts++
	return m.err
}

func (m *mockIndexer) IndexQuestion(context.Context, *entity.Question) error {
	m.questions++
	return m.err
}

func (m *mockIndexer) Search(context.Context, string, int) (*searchDto.SearchResponse, error) {
	return &searchDto.SearchResponse{}, nil
}

