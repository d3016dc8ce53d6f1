package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant-api/internal/domain/model"
	repo "restaurant-api/internal/repository"

	"go.uber.org/zap"
)

const maxProductNameLength = 255

// メニュー（公開）と商品管理（admin）
type ProductUsecase struct {
	productRepo  repo.ProductRepository
	categoryRepo repo.CategoryRepository
	timeout      time.Duration
	logger       *zap.Logger
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	categoryRepo repo.CategoryRepository,
	timeout time.Duration,
	logger *zap.Logger,
) *ProductUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductUsecase{productRepo: productRepo, categoryRepo: categoryRepo, timeout: timeout, logger: logger}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page       int
	Limit      int
	Q          string
	CategoryID *int64
}

type ProductListOutput struct {
	Items      []model.Product `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

func (u *ProductUsecase) ListMenu(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	return u.list(ctx, in, u.productRepo.ListAvailable)
}

// 管理画面用。販売停止中も返す
func (u *ProductUsecase) AdminListProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	return u.list(ctx, in, u.productRepo.ListAll)
}

func (u *ProductUsecase) list(
	ctx context.Context,
	in ListProductsInput,
	find func(context.Context, repo.ProductListQuery) ([]model.Product, int64, error),
) (ProductListOutput, error) {
	page, limit, err := NormalizePaging(in.Page, in.Limit)
	if err != nil {
		return ProductListOutput{}, err
	}
	q := strings.TrimSpace(in.Q)
	if len(q) > 100 {
		return ProductListOutput{}, NewValidationError("q too long")
	}
	if in.CategoryID != nil && *in.CategoryID <= 0 {
		return ProductListOutput{}, NewValidationError("invalid category_id")
	}

	ctx, cancel := WithStoreTimeout(ctx, u.timeout)
	defer cancel()

	items, total, err := find(ctx, repo.ProductListQuery{
		Page:       page,
		Limit:      limit,
		Q:          q,
		CategoryID: in.CategoryID,
	})
	if err != nil {
		return ProductListOutput{}, storeError(err)
	}
	if items == nil {
		items = []model.Product{}
	}

	return ProductListOutput{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: TotalPages(total, limit),
	}, nil
}

// 販売停止中の商品は見せない
func (u *ProductUsecase) GetProduct(ctx context.Context, productID int64) (model.Product, error) {
	p, err := u.findProduct(ctx, productID)
	if err != nil {
		return model.Product{}, err
	}
	if !p.Available {
		return model.Product{}, NewNotFoundError("product not found")
	}
	return p, nil
}

type AdminCreateProductInput struct {
	Name        string
	Description string
	Price       float64
	CategoryID  int64
	// 省略時は販売中
	Available *bool
}

func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, adminUserID int64, in AdminCreateProductInput) (model.Product, error) {
	if adminUserID <= 0 {
		return model.Product{}, NewUnauthorizedError("unauthorized")
	}
	name, err := validateProductName(in.Name)
	if err != nil {
		return model.Product{}, err
	}
	if err := validateProductPrice(in.Price); err != nil {
		return model.Product{}, err
	}
	if in.CategoryID <= 0 {
		return model.Product{}, NewValidationError("category_id is required")
	}

	ctx, cancel := WithStoreTimeout(ctx, u.timeout)
	defer cancel()

	if err := u.ensureCategory(ctx, in.CategoryID); err != nil {
		return model.Product{}, err
	}

	available := true
	if in.Available != nil {
		available = *in.Available
	}
	categoryID := in.CategoryID
	p, err := u.productRepo.Create(ctx, model.Product{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Price:       roundMoney(in.Price),
		Available:   available,
		CategoryID:  &categoryID,
	})
	if err != nil {
		return model.Product{}, storeError(err)
	}

	u.logger.Info("product created", zap.Int64("product_id", p.ID), zap.Int64("admin_id", adminUserID))
	return p, nil
}

// 部分更新。nilの項目は今の値のまま
type AdminUpdateProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	CategoryID  *int64
	Available   *bool
}

func (u *ProductUsecase) AdminUpdateProduct(ctx context.Context, adminUserID int64, productID int64, in AdminUpdateProductInput) (model.Product, error) {
	if adminUserID <= 0 {
		return model.Product{}, NewUnauthorizedError("unauthorized")
	}

	ctx, cancel := WithStoreTimeout(ctx, u.timeout)
	defer cancel()

	p, err := u.findProduct(ctx, productID)
	if err != nil {
		return model.Product{}, err
	}

	if in.Name != nil {
		name, err := validateProductName(*in.Name)
		if err != nil {
			return model.Product{}, err
		}
		p.Name = name
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		if err := validateProductPrice(*in.Price); err != nil {
			return model.Product{}, err
		}
		p.Price = roundMoney(*in.Price)
	}
	if in.CategoryID != nil {
		if *in.CategoryID <= 0 {
			return model.Product{}, NewValidationError("invalid category_id")
		}
		if err := u.ensureCategory(ctx, *in.CategoryID); err != nil {
			return model.Product{}, err
		}
		categoryID := *in.CategoryID
		p.CategoryID = &categoryID
	}
	if in.Available != nil {
		p.Available = *in.Available
	}

	if err := u.productRepo.Update(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, NewNotFoundError("product not found")
		}
		return model.Product{}, storeError(err)
	}

	u.logger.Info("product updated", zap.Int64("product_id", p.ID), zap.Int64("admin_id", adminUserID))
	return p, nil
}

// 販売停止にすると以降の注文はvalidationエラーになる
func (u *ProductUsecase) SetAvailability(ctx context.Context, actor Actor, productID int64, available bool) error {
	if !actor.IsStaff() {
		return NewForbiddenError("forbidden")
	}
	if productID <= 0 {
		return NewValidationError("invalid product id")
	}

	ctx, cancel := WithStoreTimeout(ctx, u.timeout)
	defer cancel()

	if err := u.productRepo.SetAvailable(ctx, productID, available); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("product not found")
		}
		return storeError(err)
	}
	u.logger.Info("product availability changed",
		zap.Int64("product_id", productID),
		zap.Bool("available", available),
		zap.Int64("user_id", actor.UserID),
	)
	return nil
}

func (u *ProductUsecase) AdminDeleteProduct(ctx context.Context, adminUserID int64, productID int64) error {
	if adminUserID <= 0 {
		return NewUnauthorizedError("unauthorized")
	}
	if productID <= 0 {
		return NewValidationError("invalid product id")
	}

	ctx, cancel := WithStoreTimeout(ctx, u.timeout)
	defer cancel()

	if err := u.productRepo.SoftDelete(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("product not found")
		}
		return storeError(err)
	}
	u.logger.Info("product deleted", zap.Int64("product_id", productID), zap.Int64("admin_id", adminUserID))
	return nil
}

func (u *ProductUsecase) findProduct(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewValidationError("invalid product id")
	}

	ctx, cancel := WithStoreTimeout(ctx, u.timeout)
	defer cancel()

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewNotFoundError("product not found")
	}
	if err != nil {
		return model.Product{}, storeError(err)
	}
	return p, nil
}

func (u *ProductUsecase) ensureCategory(ctx context.Context, categoryID int64) error {
	if _, err := u.categoryRepo.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewValidationError(fmt.Sprintf("category not found: %d", categoryID))
		}
		return storeError(err)
	}
	return nil
}

func validateProductName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", NewValidationError("name is required")
	}
	if len(name) > maxProductNameLength {
		return "", NewValidationError("name too long")
	}
	return name, nil
}

func validateProductPrice(price float64) error {
	if !(price > 0) {
		return NewValidationError("price must be greater than 0")
	}
	return nil
}
