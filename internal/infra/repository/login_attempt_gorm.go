package repository

import (
	"context"
	"errors"
	"time"

	"restaurant-api/internal/domain/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoginAttemptGormRepository struct {
	db *gorm.DB
}

func NewLoginAttemptGormRepository(db *gorm.DB) *LoginAttemptGormRepository {
	return &LoginAttemptGormRepository{db: db}
}

// INSERT ... ON CONFLICT DO UPDATE の1文で加算する（読んでから書かない）
func (r *LoginAttemptGormRepository) RegisterFailure(ctx context.Context, key string, now time.Time, window time.Duration) (int, error) {
	now = now.UTC()
	cutoff := now.Add(-window)

	row := model.LoginAttempt{Key: key, Failures: 1, WindowStart: now, UpdatedAt: now}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "attempt_key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"failures":     gorm.Expr("CASE WHEN login_attempts.window_start <= ? THEN 1 ELSE login_attempts.failures + 1 END", cutoff),
			"window_start": gorm.Expr("CASE WHEN login_attempts.window_start <= ? THEN ? ELSE login_attempts.window_start END", cutoff, now),
			"updated_at":   now,
		}),
	}).Create(&row).Error
	if err != nil {
		return 0, err
	}

	var got model.LoginAttempt
	if err := r.db.WithContext(ctx).Where("attempt_key = ?", key).First(&got).Error; err != nil {
		return 0, err
	}
	return got.Failures, nil
}

func (r *LoginAttemptGormRepository) Failures(ctx context.Context, key string, now time.Time, window time.Duration) (int, error) {
	var got model.LoginAttempt
	err := r.db.WithContext(ctx).Where("attempt_key = ?", key).First(&got).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	// ウィンドウ切れは0扱い
	if !got.WindowStart.After(now.UTC().Add(-window)) {
		return 0, nil
	}
	return got.Failures, nil
}

func (r *LoginAttemptGormRepository) Reset(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("attempt_key = ?", key).Delete(&model.LoginAttempt{}).Error
}
