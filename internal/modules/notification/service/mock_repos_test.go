package service

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"anoa.com/qaforum/internal/entity"
	"anoa.com/qaforum/pkg/apperror"
)

type mockNotificationRepo struct {
	mu        sync.Mutex
	rows      []entity.Notification
	createErr error
}

func (m *mockNotificationRepo) Create(_ context.Context, n *entity.Notification) error {
	if m.createErr != nil {
		return apperror.Storage(m.createErr)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	m.rows = append(m.rows, *n)
	return nil
}

func (m *mockNotificationRepo) ListByRecipient(_ context.Context, recipientID uuid.UUID) ([]entity.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Notification
	for _, n := range m.rows {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockNotificationRepo) DeleteByRecipient(_ context.Context, recipientID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.rows[:0]
	var removed int64
	for _, n := range m.rows {
		if n.RecipientID == recipientID {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	m.rows = kept
	return removed, nil
}

type mockRelatedLookup struct {
	posts     map[uuid.UUID]*entity.Post
	questions map[uuid.UUID]*entity.Question
	err       error
}

func (m *mockRelatedLookup) FindPostByID(_ context.Context, id uuid.UUID) (*entity.Post, error) {
	if m.err != nil {
		return nil, m.err
	}
	if p, ok := m.posts[id]; ok {
		return p, nil
	}
	return nil, apperror.NotFound("post")
}

func (m *mockRelatedLookup) FindQuestionByID(_ context.Context, id uuid.UUID) (*entity.Question, error) {
	if m.err != nil {
		return nil, m.err
	}
	if q, ok := m.questions[id]; ok {
		return q, nil
	}
	return nil, apperror.NotFound("question")
}
