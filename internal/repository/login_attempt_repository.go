package repository

import (
	"context"
	"time"
)

// ログイン失敗カウンタ（固定ウィンドウ）
type LoginAttemptRepository interface {
	// 失敗を1回記録してウィンドウ内の累計を返す。ウィンドウ切れなら1から数え直す
	RegisterFailure(ctx context.Context, key string, now time.Time, window time.Duration) (int, error)
	// ウィンドウ内の失敗回数
	Failures(ctx context.Context, key string, now time.Time, window time.Duration) (int, error)
	Reset(ctx context.Context, key string) error
}
