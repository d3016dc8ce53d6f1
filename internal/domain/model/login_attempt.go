package model

import "time"

// ログイン失敗回数（キー単位の固定ウィンドウ）。
// DBに置くので再起動・複数インスタンスでも共有される。
type LoginAttempt struct {
	Key         string    `gorm:"column:attempt_key;type:varchar(320);primaryKey"`
	Failures    int       `gorm:"not null;default:0"`
	WindowStart time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}
