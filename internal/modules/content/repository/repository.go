package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"anoa.com/qaforum/internal/entity"
	"anoa.com/qaforum/pkg/apperror"
)

type Repository interface {
	CreatePost(ctx context.Context, post *entity.Post, tags []string) error
	CreateQuestion(ctx context.Context, question *entity.Question, tags []string) error
	CreateComment(ctx context.Context, comment *entity.Comment) error
	CreateAnswer(ctx context.Context, answer *entity.Answer) error
	FindPostBySlug(ctx context.Context, slug string) (*entity.Post, error)
	FindQuestionBySlug(ctx context.Context, slug string) (*entity.Question, error)
	FindPostByID(ctx context.Context, id uuid.UUID) (*entity.Post, error)
	FindQuestionByID(ctx context.Context, id uuid.UUID) (*entity.Question, error)
	TargetExists(ctx context.Context, kind entity.VoteTargetKind, id uuid.UUID) (bool, error)
	ListTags(ctx context.Context) ([]entity.Tag, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// upsertTags makes sure every name exists and returns the rows in no particular order.
func upsertTags(tx *gorm.DB, names []string) ([]entity.Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}

	rows := make([]entity.Tag, 0, len(names))
	for _, name := range names {
		rows = append(rows, entity.Tag{Name: name})
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&rows).Error; err != nil {
		return nil, err
	}

	var tags []entity.Tag
	if err := tx.Where("name IN ?", names).Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *repository) CreatePost(ctx context.Context, post *entity.Post, tags []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := upsertTags(tx, tags)
		if err != nil {
			return err
		}
		post.Tags = rows
		return tx.Omit("Author", "Tags.*").Create(post).Error
	})
	return apperror.Storage(err)
}

func (r *repository) CreateQuestion(ctx context.Context, question *entity.Question, tags []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := upsertTags(tx, tags)
		if err != nil {
			return err
		}
		question.Tags = rows
		return tx.Omit("Author", "Tags.*").Create(question).Error
	})
	return apperror.Storage(err)
}

func (r *repository) CreateComment(ctx context.Context, comment *entity.Comment) error {
	return apperror.Storage(r.db.WithContext(ctx).Omit("Author", "Post").Create(comment).Error)
}

func (r *repository) CreateAnswer(ctx context.Context, answer *entity.Answer) error {
	return apperror.Storage(r.db.WithContext(ctx).Omit("Author", "Question").Create(answer).Error)
}

func (r *repository) FindPostBySlug(ctx context.Context, slug string) (*entity.Post, error) {
	var post entity.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Comments.Author").
		Where("slug = ?", slug).
		First(&post).Error; err != nil {
		return nil, apperror.Storage(err)
	}
	return &post, nil
}

func (r *repository) FindQuestionBySlug(ctx context.Context, slug string) (*entity.Question, error) {
	var question entity.Question
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Answers.Author").
		Where("slug = ?", slug).
		First(&question).Error; err != nil {
		return nil, apperror.Storage(err)
	}
	return &question, nil
}

func (r *repository) FindPostByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	var post entity.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, apperror.Storage(err)
	}
	return &post, nil
}

func (r *repository) FindQuestionByID(ctx context.Context, id uuid.UUID) (*entity.Question, error) {
	var question entity.Question
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&question).Error; err != nil {
		return nil, apperror.Storage(err)
	}
	return &question, nil
}

func (r *repository) TargetExists(ctx context.Context, kind entity.VoteTargetKind, id uuid.UUID) (bool, error) {
	var model any
	switch kind {
	case entity.VoteTargetComment:
		model = &entity.Comment{}
	case entity.VoteTargetAnswer:
		model = &entity.Answer{}
	default:
		return false, apperror.Validation("unknown target kind %q", kind)
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, apperror.Storage(err)
	}
	return count > 0, nil
}

func (r *repository) ListTags(ctx context.Context) ([]entity.Tag, error) {
	var tags []entity.Tag
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, apperror.Storage(err)
	}
	return tags, nil
}
