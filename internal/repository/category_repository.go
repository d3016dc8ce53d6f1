package repository

import (
	"context"

	"restaurant-api/internal/domain/model"
)

// カテゴリの部分更新。nilの項目は変更しない
type CategoryUpdate struct {
	Name        *string
	Description *string
	Active      *bool
}

type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id int64) (model.Category, error)

	// 名前が重複したら ErrDuplicate
	Create(ctx context.Context, c model.Category) (model.Category, error)
	Update(ctx context.Context, id int64, u CategoryUpdate) error
	Delete(ctx context.Context, id int64) error

	// 削除前の参照チェック用
	CountProducts(ctx context.Context, id int64) (int64, error)
}
