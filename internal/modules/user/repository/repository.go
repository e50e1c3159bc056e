package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"anoa.com/qaforum/internal/entity"
	"anoa.com/qaforum/pkg/apperror"
)

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	UpdateBio(ctx context.Context, id uuid.UUID, bio string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, apperror.Storage(err)
	}
	return &user, nil
}

func (r *userRepository) UpdateBio(ctx context.Context, id uuid.UUID, bio string) error {
	res := r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).Update("bio", bio)
	if res.Error != nil {
		return apperror.Storage(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("user")
	}
	return nil
}
