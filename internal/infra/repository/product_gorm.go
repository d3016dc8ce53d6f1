package repository

import (
	"context"
	"errors"
	"strings"

	"restaurant-api/internal/domain/model"
	repo "restaurant-api/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 1クエリでまとめて取得（明細ごとに引かない）
func (r *ProductGormRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}
	var products []model.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// IDで商品を取得
func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// 販売中の商品一覧。qは名前の部分一致
func (r *ProductGormRepository) ListAvailable(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	return r.list(ctx, q, true)
}

func (r *ProductGormRepository) ListAll(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	return r.list(ctx, q, false)
}

func (r *ProductGormRepository) list(ctx context.Context, q repo.ProductListQuery, onlyAvailable bool) ([]model.Product, int64, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	tx := r.db.WithContext(ctx).Model(&model.Product{})
	if onlyAvailable {
		tx = tx.Where("available = ?", true)
	}
	if kw := strings.TrimSpace(q.Q); kw != "" {
		tx = tx.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(kw)+"%")
	}
	if q.CategoryID != nil {
		tx = tx.Where("category_id = ?", *q.CategoryID)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return []model.Product{}, 0, err
	}

	var products []model.Product
	if err := tx.Order("name ASC").Order("id ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&products).Error; err != nil {
		return []model.Product{}, 0, err
	}
	return products, total, nil
}

// Create は商品を作成。available=false はdefault:trueに潰されるので後から書く
func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	available := p.Available
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		if !available {
			if err := tx.Model(&model.Product{}).Where("id = ?", p.ID).Update("available", false).Error; err != nil {
				return err
			}
			p.Available = false
		}
		return nil
	})
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"name":        p.Name,
			"description": p.Description,
			"price":       p.Price,
			"available":   p.Available,
			"category_id": p.CategoryID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 販売可否の切り替え（注文の価格計算にそのまま効く）
func (r *ProductGormRepository) SetAvailable(ctx context.Context, id int64, available bool) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		Update("available", available)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 論理削除。過去の注文明細は商品名を持っているので影響しない
func (r *ProductGormRepository) SoftDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
