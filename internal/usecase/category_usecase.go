package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"restaurant-api/internal/domain/model"
	repo "restaurant-api/internal/repository"

	"go.uber.org/zap"
)

const (
	minCategoryNameLength = 3
	maxCategoryNameLength = 50
	maxCategoryDescLength = 255
)

type CategoryUsecase struct {
	categoryRepo repo.CategoryRepository
	timeout      time.Duration
	logger       *zap.Logger
}

func NewCategoryUsecase(categoryRepo repo.CategoryRepository, timeout time.Duration, logger *zap.Logger) *CategoryUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryUsecase{categoryRepo: categoryRepo, timeout: timeout, logger: logger}
}

// 公開一覧は有効なカテゴリだけ
func (u *CategoryUsecase) ListCategories(ctx context.Context, includeInactive bool) ([]model.Category, error) {
	ctx, cancel := WithStoreTimeout(ctx, u.timeout)
	defer cancel()

	all, err := u.categoryRepo.List(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	out := make([]model.Category, 0, len(all))
	for _, c := range all {
		if c.Active || includeInactive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (u *CategoryUsecase) GetCategory(ctx context.Context, id int64) (model.Category, error) {
	if id <= 0 {
		return model.Category{}, NewValidationError("invalid category id")
	}

	ctx, cancel := WithStoreTimeout(ctx, u.timeout)
	defer cancel()

	c, err := u.categoryRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, NewNotFoundError("category not found")
	}
	if err != nil {
		return model.Category{}, storeError(err)
	}
	return c, nil
}

type CategoryInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

func (u *CategoryUsecase) CreateCategory(ctx context.Context, adminUserID int64, in CategoryInput) (model.Category, error) {
	if adminUserID <= 0 {
		return model.Category{}, NewUnauthorizedError("unauthorized")
	}
	if in.Name == nil {
		return model.Category{}, NewValidationError("name is required")
	}
	name, err := validateCategoryName(*in.Name)
	if err != nil {
		return model.Category{}, err
	}
	c := model.Category{Name: name, Active: true}
	if in.Description != nil {
		desc, err := validateCategoryDescription(*in.Description)
		if err != nil {
			return model.Category{}, err
		}
		c.Description = desc
	}
	if in.Active != nil {
		c.Active = *in.Active
	}

	ctx, cancel := WithStoreTimeout(ctx, u.timeout)
	defer cancel()

	created, err := u.categoryRepo.Create(ctx, c)
	if errors.Is(err, repo.ErrDuplicate) {
		return model.Category{}, NewConflictError("category name already exists")
	}
	if err != nil {
		return model.Category{}, storeError(err)
	}
	u.logger.Info("category created", zap.Int64("category_id", created.ID), zap.Int64("admin_id", adminUserID))
	return created, nil
}

func (u *CategoryUsecase) UpdateCategory(ctx context.Context, adminUserID, id int64, in CategoryInput) (model.Category, error) {
	if adminUserID <= 0 {
		return model.Category{}, NewUnauthorizedError("unauthorized")
	}
	if id <= 0 {
		return model.Category{}, NewValidationError("invalid category id")
	}

	var upd repo.CategoryUpdate
	if in.Name != nil {
		name, err := validateCategoryName(*in.Name)
		if err != nil {
			return model.Category{}, err
		}
		upd.Name = &name
	}
	if in.Description != nil {
		desc, err := validateCategoryDescription(*in.Description)
		if err != nil {
			return model.Category{}, err
		}
		upd.Description = &desc
	}
	upd.Active = in.Active

	ctx, cancel := WithStoreTimeout(ctx, u.timeout)
	defer cancel()

	err := u.categoryRepo.Update(ctx, id, upd)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return model.Category{}, NewNotFoundError("category not found")
	case errors.Is(err, repo.ErrDuplicate):
		return model.Category{}, NewConflictError("category name already exists")
	case err != nil:
		return model.Category{}, storeError(err)
	}

	c, err := u.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return model.Category{}, storeError(err)
	}
	u.logger.Info("category updated", zap.Int64("category_id", id), zap.Int64("admin_id", adminUserID))
	return c, nil
}

// 商品が残っているカテゴリは消さない
func (u *CategoryUsecase) DeleteCategory(ctx context.Context, adminUserID, id int64) error {
	if adminUserID <= 0 {
		return NewUnauthorizedError("unauthorized")
	}
	if id <= 0 {
		return NewValidationError("invalid category id")
	}

	ctx, cancel := WithStoreTimeout(ctx, u.timeout)
	defer cancel()

	n, err := u.categoryRepo.CountProducts(ctx, id)
	if err != nil {
		return storeError(err)
	}
	if n > 0 {
		return NewConflictError("category has products")
	}
	if err := u.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("category not found")
		}
		return storeError(err)
	}
	u.logger.Info("category deleted", zap.Int64("category_id", id), zap.Int64("admin_id", adminUserID))
	return nil
}

func validateCategoryName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if n := len([]rune(name)); n < minCategoryNameLength || n > maxCategoryNameLength {
		return "", NewValidationError("name must be 3-50 characters")
	}
	return name, nil
}

func validateCategoryDescription(raw string) (string, error) {
	desc := strings.TrimSpace(raw)
	if len([]rune(desc)) > maxCategoryDescLength {
		return "", NewValidationError("description too long")
	}
	return desc, nil
}
