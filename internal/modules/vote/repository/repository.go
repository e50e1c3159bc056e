package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"anoa.com/qaforum/internal/entity"
	"anoa.com/qaforum/internal/modules/vote"
	"anoa.com/qaforum/pkg/apperror"
)

// Key is the composite identity of a vote row.
type Key struct {
	VoterID  uuid.UUID
	TargetID uuid.UUID
}

type VoteRepository interface {
	// Apply moves the row for key to the requested value in a single transaction and
	// reports which write happened.
	Apply(ctx context.Context, key Key, kind entity.VoteTargetKind, requested vote.Value) (vote.Transition, error)
	Find(ctx context.Context, key Key) (*entity.Vote, error)
	FindByParent(ctx context.Context, voterID uuid.UUID, parentKind string, slug string) ([]entity.Vote, error)
	CountByTarget(ctx context.Context, targetID uuid.UUID) (up int64, down int64, err error)
}

type voteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) Apply(ctx context.Context, key Key, kind entity.VoteTargetKind, requested vote.Value) (vote.Transition, error) {
	transition := vote.TransitionNoop

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Find with a slice avoids gorm's "record not found" log noise.
		var existing []entity.Vote
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("voter_id = ? AND target_id = ?", key.VoterID, key.TargetID).
			Limit(1).
			Find(&existing).Error; err != nil {
			return err
		}

		current := vote.ValueNone
		if len(existing) > 0 {
			current = vote.Value(existing[0].Value)
		}

		transition = vote.Resolve(current, requested)

		switch transition {
		case vote.TransitionCreate, vote.TransitionUpdate:
			// Concurrent first votes both miss the locking read; the unique index
			// turns the second insert into an update.
			row := &entity.Vote{
				VoterID:    key.VoterID,
				TargetID:   key.TargetID,
				TargetKind: kind,
				Value:      int8(requested),
			}
			return tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "voter_id"}, {Name: "target_id"}},
				DoUpdates: clause.Assignments(map[string]any{
					"value":      int8(requested),
					"updated_at": time.Now(),
				}),
			}).Create(row).Error
		case vote.TransitionDelete:
			return tx.Where("voter_id = ? AND target_id = ?", key.VoterID, key.TargetID).
				Delete(&entity.Vote{}).Error
		}
		return nil
	})
	if err != nil {
		return vote.TransitionNoop, apperror.Storage(err)
	}

	return transition, nil
}

func (r *voteRepository) Find(ctx context.Context, key Key) (*entity.Vote, error) {
	var votes []entity.Vote
	if err := r.db.WithContext(ctx).
		Where("voter_id = ? AND target_id = ?", key.VoterID, key.TargetID).
		Limit(1).
		Find(&votes).Error; err != nil {
		return nil, apperror.Storage(err)
	}
	if len(votes) == 0 {
		return nil, nil
	}
	return &votes[0], nil
}

func (r *voteRepository) FindByParent(ctx context.Context, voterID uuid.UUID, parentKind string, slug string) ([]entity.Vote, error) {
	db := r.db.WithContext(ctx)

	var (
		targets *gorm.DB
		kind    entity.VoteTargetKind
	)
	switch parentKind {
	case "post":
		kind = entity.VoteTargetComment
		targets = db.Model(&entity.Comment{}).
			Select("comments.id").
			Joins("JOIN posts ON posts.id = comments.post_id").
			Where("posts.slug = ?", slug)
	case "question":
		kind = entity.VoteTargetAnswer
		targets = db.Model(&entity.Answer{}).
			Select("answers.id").
			Joins("JOIN questions ON questions.id = answers.question_id").
			Where("questions.slug = ?", slug)
	default:
		return nil, apperror.Validation("parent_kind must be one of post, question, got %q", parentKind)
	}

	var votes []entity.Vote
	if err := db.
		Where("voter_id = ? AND target_kind = ? AND target_id IN (?)", voterID, kind, targets).
		Order("created_at asc").
		Find(&votes).Error; err != nil {
		return nil, apperror.Storage(err)
	}
	return votes, nil
}

func (r *voteRepository) CountByTarget(ctx context.Context, targetID uuid.UUID) (int64, int64, error) {
	type result struct {
		Value int8
		Count int64
	}
	var results []result

	if err := r.db.WithContext(ctx).
		Model(&entity.Vote{}).
		Select("value, count(*) as count").
		Where("target_id = ?", targetID).
		Group("value").
		Scan(&results).Error; err != nil {
		return 0, 0, apperror.Storage(err)
	}

	var up, down int64
	for _, res := range results {
		switch vote.Value(res.Value) {
		case vote.ValueUp:
			up = res.Count
		case vote.ValueDown:
			down = res.Count
		}
	}
	return up, down, nil
}
