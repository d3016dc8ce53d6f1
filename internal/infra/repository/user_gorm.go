package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"restaurant-api/internal/domain/model"
	domainrepo "restaurant-api/internal/repository"

	"gorm.io/gorm"
)

type userGormRepository struct {
	db *gorm.DB
}

// DI
// main.goでこれをnewしてusecaseに注入します。
func NewUserGormRepository(db *gorm.DB) domainrepo.UserRepository {
	return &userGormRepository{db: db}
}

// 管理画面向けの一覧・更新
func NewUserAdminGormRepository(db *gorm.DB) domainrepo.UserAdminRepository {
	return &userGormRepository{db: db}
}

// Create はユーザーを新規作成。メール重複は ErrDuplicate
func (r *userGormRepository) Create(ctx context.Context, user *model.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainrepo.ErrDuplicate
	}
	return err
}

// emailでユーザーを1件取得
func (r *userGormRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User

	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&u).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &u, nil
}

// IDでユーザーを1件取得
func (r *userGormRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&u).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &u, nil
}

func (r *userGormRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// List はID順。qは名前かメールの部分一致
func (r *userGormRepository) List(ctx context.Context, q domainrepo.UserListQuery) ([]model.User, int64, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	tx := r.db.WithContext(ctx).Model(&model.User{})
	if q.Role != nil {
		tx = tx.Where("role = ?", *q.Role)
	}
	if kw := strings.ToLower(strings.TrimSpace(q.Q)); kw != "" {
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", "%"+kw+"%", "%"+kw+"%")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return []model.User{}, 0, err
	}

	var users []model.User
	if err := tx.Order("id ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error; err != nil {
		return []model.User{}, 0, err
	}
	return users, total, nil
}

func (r *userGormRepository) Update(ctx context.Context, userID int64, u domainrepo.UserUpdate) error {
	fields := map[string]interface{}{}
	if u.Name != nil {
		fields["name"] = *u.Name
	}
	if u.Role != nil {
		fields["role"] = *u.Role
	}
	if u.IsActive != nil {
		fields["is_active"] = *u.IsActive
	}
	if u.PasswordHash != nil {
		fields["password_hash"] = *u.PasswordHash
	}
	if u.RevokeTokens {
		fields["token_version"] = gorm.Expr("token_version + 1")
	}
	if len(fields) == 0 {
		existing, err := r.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if existing == nil {
			return domainrepo.ErrNotFound
		}
		return nil
	}

	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainrepo.ErrNotFound
	}
	return nil
}
