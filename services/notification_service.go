package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/vee4group/order-tracker-api/errs"
	"github.com/vee4group/order-tracker-api/models"
)

// NotificationService reads and read-marks a user's in-app notifications.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, user models.User) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", user.ID).
		Order("created_at DESC, id DESC").
		Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead marks one notification as read. Marking an already read
// notification succeeds without writing.
func (s *NotificationService) MarkRead(ctx context.Context, user models.User, id uint) (*models.Notification, error) {
	db := s.db.WithContext(ctx)

	var n models.Notification
	if err := db.First(&n, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFoundError("Notification", id)
		}
		return nil, fmt.Errorf("load notification: %w", err)
	}
	if n.UserID != user.ID {
		return nil, errs.NewAuthorizationError("Not authorized to access this notification")
	}
	if n.IsRead {
		return &n, nil
	}

	if err := db.Model(&n).Update("is_read", true).Error; err != nil {
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	return &n, nil
}

// MarkAllRead marks every unread notification of the user and returns how many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, user models.User) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", user.ID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("mark notifications read: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// UnreadCount returns the number of unread notifications for the user.
func (s *NotificationService) UnreadCount(ctx context.Context, user models.User) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", user.ID, false).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count notifications: %w", err)
	}
	return count, nil
}
