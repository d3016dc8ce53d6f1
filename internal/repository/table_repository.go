package repository

import (
	"context"

	"restaurant-api/internal/domain/model"
)

// テーブルの部分更新。nilの項目は変更しない
type TableUpdate struct {
	Status   *model.TableStatus
	Location *string
}

type TableRepository interface {
	FindByID(ctx context.Context, tableID int64) (model.Table, error)
	// 番号順。statusがnilなら全件
	List(ctx context.Context, status *model.TableStatus) ([]model.Table, error)

	// 番号が重複したら ErrDuplicate
	Create(ctx context.Context, t model.Table) (model.Table, error)
	Update(ctx context.Context, tableID int64, u TableUpdate) error
	Delete(ctx context.Context, tableID int64) error
}
