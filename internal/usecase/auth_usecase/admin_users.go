package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"restaurant-api/internal/domain/model"
	"restaurant-api/internal/repository"
	"restaurant-api/internal/usecase"
	"restaurant-api/internal/validator"

	"go.uber.org/zap"
)

// 管理者によるユーザー管理（スタッフ作成・権限変更・停止・強制ログアウト）
type AdminUserUsecase struct {
	userRepo  repository.UserRepository
	adminRepo repository.UserAdminRepository
	hasher    PasswordHasher
	timeout   time.Duration
	logger    *zap.Logger
}

func NewAdminUserUsecase(
	userRepo repository.UserRepository,
	adminRepo repository.UserAdminRepository,
	hasher PasswordHasher,
	timeout time.Duration,
	logger *zap.Logger,
) *AdminUserUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminUserUsecase{userRepo: userRepo, adminRepo: adminRepo, hasher: hasher, timeout: timeout, logger: logger}
}

type AdminListUsersInput struct {
	Page  int
	Limit int
	Role  string
	Q     string
}

type UserListOutput struct {
	Items      []UserDTO `json:"items"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"total_pages"`
}

func (u *AdminUserUsecase) List(ctx context.Context, in AdminListUsersInput) (UserListOutput, error) {
	page, limit, err := usecase.NormalizePaging(in.Page, in.Limit)
	if err != nil {
		return UserListOutput{}, err
	}
	q := repository.UserListQuery{Page: page, Limit: limit, Q: strings.TrimSpace(in.Q)}
	if strings.TrimSpace(in.Role) != "" {
		role, err := parseRole(in.Role)
		if err != nil {
			return UserListOutput{}, err
		}
		q.Role = &role
	}

	ctx, cancel := usecase.WithStoreTimeout(ctx, u.timeout)
	defer cancel()

	users, total, err := u.adminRepo.List(ctx, q)
	if err != nil {
		return UserListOutput{}, usecase.AsHTTPError(err)
	}
	items := make([]UserDTO, 0, len(users))
	for i := range users {
		items = append(items, toUserDTO(&users[i]))
	}
	return UserListOutput{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: usecase.TotalPages(total, limit),
	}, nil
}

type AdminCreateUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// スタッフ・管理者アカウントの発行。roleの省略はSTAFF
func (u *AdminUserUsecase) CreateUser(ctx context.Context, adminUserID int64, in AdminCreateUserInput) (UserDTO, error) {
	if adminUserID <= 0 {
		return UserDTO{}, usecase.NewUnauthorizedError("unauthorized")
	}
	name := strings.TrimSpace(in.Name)
	email := validator.NormalizeEmail(in.Email)
	if err := validator.ValidateRegister(name, email, in.Password); err != nil {
		return UserDTO{}, err
	}
	role := model.RoleStaff
	if strings.TrimSpace(in.Role) != "" {
		r, err := parseRole(in.Role)
		if err != nil {
			return UserDTO{}, err
		}
		role = r
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return UserDTO{}, usecase.NewInternalError(err)
	}

	ctx, cancel := usecase.WithStoreTimeout(ctx, u.timeout)
	defer cancel()

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
		IsActive:     true,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return UserDTO{}, usecase.NewConflictError("email already exists")
		}
		return UserDTO{}, usecase.AsHTTPError(err)
	}

	u.logger.Info("user created by admin",
		zap.Int64("user_id", user.ID),
		zap.String("role", string(role)),
		zap.Int64("admin_id", adminUserID),
	)
	return toUserDTO(user), nil
}

type AdminUpdateUserInput struct {
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
	Password *string `json:"password"`
}

// 権限・停止・パスワードの変更は既存トークンも無効にする
func (u *AdminUserUsecase) UpdateUser(ctx context.Context, adminUserID, userID int64, in AdminUpdateUserInput) (UserDTO, error) {
	if adminUserID <= 0 {
		return UserDTO{}, usecase.NewUnauthorizedError("unauthorized")
	}
	if userID <= 0 {
		return UserDTO{}, usecase.NewValidationError("invalid user id")
	}

	var upd repository.UserUpdate
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return UserDTO{}, usecase.NewValidationError("name is required")
		}
		upd.Name = &name
	}
	if in.Role != nil {
		role, err := parseRole(*in.Role)
		if err != nil {
			return UserDTO{}, err
		}
		upd.Role = &role
		upd.RevokeTokens = true
	}
	if in.IsActive != nil {
		active := *in.IsActive
		upd.IsActive = &active
		if !active {
			upd.RevokeTokens = true
		}
	}
	if in.Password != nil {
		if err := validator.ValidatePassword(*in.Password); err != nil {
			return UserDTO{}, err
		}
		hashed, err := u.hasher.Hash(*in.Password)
		if err != nil {
			return UserDTO{}, usecase.NewInternalError(err)
		}
		upd.PasswordHash = &hashed
		upd.RevokeTokens = true
	}

	// 自分の権限を落とす・自分を止めるのは不可（管理者がいなくなる）
	if adminUserID == userID {
		if upd.Role != nil && *upd.Role != model.RoleAdmin {
			return UserDTO{}, usecase.NewForbiddenError("cannot change own role")
		}
		if upd.IsActive != nil && !*upd.IsActive {
			return UserDTO{}, usecase.NewForbiddenError("cannot deactivate yourself")
		}
	}

	ctx, cancel := usecase.WithStoreTimeout(ctx, u.timeout)
	defer cancel()

	if err := u.adminRepo.Update(ctx, userID, upd); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return UserDTO{}, usecase.NewNotFoundError("user not found")
		}
		return UserDTO{}, usecase.AsHTTPError(err)
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return UserDTO{}, usecase.AsHTTPError(err)
	}
	if user == nil {
		return UserDTO{}, usecase.NewNotFoundError("user not found")
	}

	u.logger.Info("user updated by admin",
		zap.Int64("user_id", userID),
		zap.Bool("tokens_revoked", upd.RevokeTokens),
		zap.Int64("admin_id", adminUserID),
	)
	return toUserDTO(user), nil
}

// token_versionを進めて発行済みJWTを全部無効にする
func (u *AdminUserUsecase) ForceLogout(ctx context.Context, adminUserID, userID int64) error {
	if adminUserID <= 0 {
		return usecase.NewUnauthorizedError("unauthorized")
	}
	if userID <= 0 {
		return usecase.NewValidationError("invalid user id")
	}

	ctx, cancel := usecase.WithStoreTimeout(ctx, u.timeout)
	defer cancel()

	if err := u.adminRepo.Update(ctx, userID, repository.UserUpdate{RevokeTokens: true}); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return usecase.NewNotFoundError("user not found")
		}
		return usecase.AsHTTPError(err)
	}
	u.logger.Info("user force logged out", zap.Int64("user_id", userID), zap.Int64("admin_id", adminUserID))
	return nil
}

func parseRole(raw string) (model.Role, error) {
	switch model.Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case model.RoleClient:
		return model.RoleClient, nil
	case model.RoleStaff:
		return model.RoleStaff, nil
	case model.RoleAdmin:
		return model.RoleAdmin, nil
	}
	return "", usecase.NewValidationError("invalid role")
}
