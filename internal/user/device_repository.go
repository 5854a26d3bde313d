package user

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/AmnezziaCS/FitConnect/internal/dbmysql"
)

type DeviceRepository interface {
	CreateOrUpdate(ctx context.Context, userID, deviceToken, platform string) error
	ActiveByUserID(ctx context.Context, userID string) ([]*dbmysql.Device, error)
	UpdateTokenStatus(ctx context.Context, token string, isActive bool) error
	DeleteToken(ctx context.Context, token string) error
}

type deviceRepository struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) DeviceRepository {
	return &deviceRepository{db: db}
}

func (r *deviceRepository) CreateOrUpdate(ctx context.Context, userID, deviceToken, platform string) error {
	device := &dbmysql.Device{
		DeviceToken:  deviceToken,
		UserID:       userID,
		Platform:     platform,
		RegisteredAt: time.Now(),
		LastActive:   time.Now(),
	}

	if err := r.db.WithContext(ctx).Save(device).Error; err != nil {
		return fmt.Errorf("failed to create/update device: %w", err)
	}
	return nil
}

// ActiveByUserID returns devices seen in the last 30 days. Tokens marked
// inactive are pushed outside the window rather than deleted.
func (r *deviceRepository) ActiveByUserID(ctx context.Context, userID string) ([]*dbmysql.Device, error) {
	var devices []*dbmysql.Device
	cutoffTime := time.Now().AddDate(0, 0, -30)

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND last_active > ?", userID, cutoffTime).
		Order("last_active DESC").
		Find(&devices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get active devices: %w", err)
	}
	return devices, nil
}

func (r *deviceRepository) UpdateTokenStatus(ctx context.Context, token string, isActive bool) error {
	lastActive := time.Now()
	if !isActive {
		lastActive = lastActive.AddDate(-1, 0, 0)
	}

	result := r.db.WithContext(ctx).
		Model(&dbmysql.Device{}).
		Where("device_token = ?", token).
		Update("last_active", lastActive)
	if result.Error != nil {
		return fmt.Errorf("failed to update token status: %w", result.Error)
	}
	return nil
}

func (r *deviceRepository) DeleteToken(ctx context.Context, token string) error {
	result := r.db.WithContext(ctx).Delete(&dbmysql.Device{}, "device_token = ?", token)
	if result.Error != nil {
		return fmt.Errorf("failed to delete device token: %w", result.Error)
	}
	return nil
}
