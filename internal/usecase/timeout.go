package usecase

import (
	"context"
	"time"
)

// 設定が無いときのストア呼び出し上限
const defaultStoreTimeout = 5 * time.Second

// WithStoreTimeout はカタログ・テーブル・注文ストアへの呼び出しに上限をつける。
// 超えたら storeError で UPSTREAM_UNAVAILABLE になる。
func WithStoreTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = defaultStoreTimeout
	}
	return context.WithTimeout(ctx, d)
}
