package repository

import (
	"context"
	"time"

	"restaurant-api/internal/domain/model"
)

// 保存・取得を約束。見つからないときは (nil, nil)
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// 最終ログイン日時の更新
	TouchLastLogin(ctx context.Context, userID int64, at time.Time) error
}

// 管理画面の一覧条件
type UserListQuery struct {
	Page  int
	Limit int
	Role  *model.Role
	Q     string
}

// 管理者によるユーザー更新。nilの項目は変更しない
type UserUpdate struct {
	Name         *string
	Role         *model.Role
	IsActive     *bool
	PasswordHash *string
	// trueならtoken_versionを+1（既存のJWTを無効にする）
	RevokeTokens bool
}

// 管理者向け。見つからないときは ErrNotFound
type UserAdminRepository interface {
	List(ctx context.Context, q UserListQuery) ([]model.User, int64, error)
	Update(ctx context.Context, userID int64, u UserUpdate) error
}
