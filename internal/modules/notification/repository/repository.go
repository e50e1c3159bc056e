package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"anoa.com/qaforum/internal/entity"
	"anoa.com/qaforum/pkg/apperror"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	ListByRecipient(ctx context.Context, recipientID uuid.UUID) ([]entity.Notification, error)
	DeleteByRecipient(ctx context.Context, recipientID uuid.UUID) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	return apperror.Storage(r.db.WithContext(ctx).Create(notification).Error)
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID) ([]entity.Notification, error) {
	var notifications []entity.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at desc, id desc").
		Find(&notifications).Error
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return notifications, nil
}

func (r *notificationRepository) DeleteByRecipient(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Delete(&entity.Notification{})
	if res.Error != nil {
		return 0, apperror.Storage(res.Error)
	}
	return res.RowsAffected, nil
}
