package repository

import (
	"context"
	"errors"

	"restaurant-api/internal/domain/model"
	repo "restaurant-api/internal/repository"

	"gorm.io/gorm"
)

type TableGormRepository struct {
	db *gorm.DB
}

func NewTableGormRepository(db *gorm.DB) *TableGormRepository {
	return &TableGormRepository{db: db}
}

func (r *TableGormRepository) FindByID(ctx context.Context, tableID int64) (model.Table, error) {
	var t model.Table
	err := r.db.WithContext(ctx).Where("id = ?", tableID).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Table{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Table{}, err
	}
	return t, nil
}

func (r *TableGormRepository) List(ctx context.Context, status *model.TableStatus) ([]model.Table, error) {
	q := r.db.WithContext(ctx).Model(&model.Table{})
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var tables []model.Table
	if err := q.Order("number ASC").Find(&tables).Error; err != nil {
		return []model.Table{}, err
	}
	return tables, nil
}

func (r *TableGormRepository) Create(ctx context.Context, t model.Table) (model.Table, error) {
	err := r.db.WithContext(ctx).Create(&t).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return model.Table{}, repo.ErrDuplicate
	}
	if err != nil {
		return model.Table{}, err
	}
	return t, nil
}

func (r *TableGormRepository) Update(ctx context.Context, tableID int64, u repo.TableUpdate) error {
	fields := map[string]interface{}{}
	if u.Status != nil {
		fields["status"] = *u.Status
	}
	if u.Location != nil {
		fields["location"] = *u.Location
	}
	if len(fields) == 0 {
		// 何も変えない場合も存在チェックはする
		_, err := r.FindByID(ctx, tableID)
		return err
	}

	res := r.db.WithContext(ctx).Model(&model.Table{}).Where("id = ?", tableID).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *TableGormRepository) Delete(ctx context.Context, tableID int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", tableID).Delete(&model.Table{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
