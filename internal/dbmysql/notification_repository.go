package dbmysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/AmnezziaCS/FitConnect/internal/common"
)

// NotificationRepository persists notification records. ByUserID returns
// the rows unsorted: the backing store the original ran on could not
// combine the user filter with a server-side order, so ordering is an
// explicit second step owned by the service.
type NotificationRepository interface {
	Create(ctx context.Context, notification *Notification) error
	ByID(ctx context.Context, id string) (*Notification, error)
	ByUserID(ctx context.Context, userID string) ([]*Notification, error)
	Unread(ctx context.Context, userID string) ([]*Notification, error)
	ScheduledDue(ctx context.Context, before time.Time) ([]*Notification, error)
	UpdateStatus(ctx context.Context, id, status string) error
	MarkRead(ctx context.Context, id, userID string) error
	Delete(ctx context.Context, id, userID string) error
	UnreadCount(ctx context.Context, userID string) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *Notification) error {
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %v: %w", err, common.ErrTransient)
	}
	return nil
}

func (r *notificationRepository) ByID(ctx context.Context, id string) (*Notification, error) {
	var notification Notification
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("notification %s: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return &notification, nil
}

func (r *notificationRepository) ByUserID(ctx context.Context, userID string) ([]*Notification, error) {
	var notifications []*Notification
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to get user notifications: %w", err)
	}
	return notifications, nil
}

func (r *notificationRepository) Unread(ctx context.Context, userID string) ([]*Notification, error) {
	var notifications []*Notification
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND `read` = ?", userID, false).
		Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to get unread notifications: %w", err)
	}
	return notifications, nil
}

func (r *notificationRepository) ScheduledDue(ctx context.Context, before time.Time) ([]*Notification, error) {
	var notifications []*Notification
	err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_at IS NOT NULL AND scheduled_at <= ?",
			string(common.StatusScheduled), before).
		Order("scheduled_at ASC").
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get scheduled notifications: %w", err)
	}
	return notifications, nil
}

func (r *notificationRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update notification status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("notification %s: %w", id, common.ErrNotFound)
	}
	return nil
}

// MarkRead is monotonic: the read flag only moves false to true, and
// re-marking an already-read notification is a no-op, not an error.
func (r *notificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ? AND user_id = ? AND `read` = ?", id, userID, false).
		Updates(map[string]interface{}{
			"read":    true,
			"read_at": &now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification as read: %w", result.Error)
	}
	return nil
}

func (r *notificationRepository) Delete(ctx context.Context, id, userID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&Notification{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete notification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("notification %s: %w", id, common.ErrNotFound)
	}
	return nil
}

func (r *notificationRepository) UnreadCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND `read` = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to get unread count: %w", err)
	}
	return count, nil
}
