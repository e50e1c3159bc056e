package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"anoa.com/qaforum/internal/entity"
	"anoa.com/qaforum/internal/modules/vote"
	voteRepo "anoa.com/qaforum/internal/modules/vote/repository"
	"anoa.com/qaforum/pkg/apperror"
)

// mockVoteRepo keeps votes in a map and applies the same state machine as the SQL repository.
type mockVoteRepo struct {
	mu       sync.Mutex
	votes    map[voteRepo.Key]entity.Vote
	applyErr error
	calls    int
	byParent []entity.Vote
	// afterCount runs once CountByTarget has read the rows, outside the lock.
	afterCount func()
}

func newMockVoteRepo() *mockVoteRepo {
	return &mockVoteRepo{votes: make(map[voteRepo.Key]entity.Vote)}
}

func (m *mockVoteRepo) Apply(_ context.Context, key voteRepo.Key, kind entity.VoteTargetKind, requested vote.Value) (vote.Transition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.applyErr != nil {
		return vote.TransitionNoop, apperror.Storage(m.applyErr)
	}

	current := vote.ValueNone
	if v, ok := m.votes[key]; ok {
		current = vote.Value(v.Value)
	}

	transition := vote.Resolve(current, requested)
	switch transition {
	case vote.TransitionCreate, vote.TransitionUpdate:
		m.votes[key] = entity.Vote{VoterID: key.VoterID, TargetID: key.TargetID, TargetKind: kind, Value: int8(requested)}
	case vote.TransitionDelete:
		delete(m.votes, key)
	}
	return transition, nil
}

func (m *mockVoteRepo) Find(_ context.Context, key voteRepo.Key) (*entity.Vote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.votes[key]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (m *mockVoteRepo) FindByParent(_ context.Context, voterID uuid.UUID, _ string, _ string) ([]entity.Vote, error) {
	var out []entity.Vote
	for _, v := range m.byParent {
		if v.VoterID == voterID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *mockVoteRepo) CountByTarget(_ context.Context, targetID uuid.UUID) (int64, int64, error) {
	up, down := m.count(targetID)
	if m.afterCount != nil {
		m.afterCount()
	}
	return up, down, nil
}

func (m *mockVoteRepo) count(targetID uuid.UUID) (int64, int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var up, down int64
	for _, v := range m.votes {
		if v.TargetID != targetID {
			continue
		}
		switch vote.Value(v.Value) {
		case vote.ValueUp:
			up++
		case vote.ValueDown:
			down++
		}
	}
	return up, down
}

type mockTargetFinder struct {
	existing map[uuid.UUID]entity.VoteTargetKind
	err      error
}

func (m *mockTargetFinder) TargetExists(_ context.Context, kind entity.VoteTargetKind, id uuid.UUID) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	k, ok := m.existing[id]
	return ok && k == kind, nil
}

var errDBDown = errors.New("connection refused")
