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
	"golang.org/x/crypto/bcrypt"
)

// 会員登録の入力
type RegisterUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// 会員登録の出力
type RegisterUserOutput struct {
	User UserDTO `json:"user"`
}

// APIで返すユーザー（ハッシュは含めない）
type UserDTO struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	TokenVersion int    `json:"token_version"`
	IsActive     bool   `json:"is_active"`
}

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// RegisterUserUsecaseはCLIENTの会員登録。
type RegisterUserUsecase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	clock    Clock
	logger   *zap.Logger
}

// DI
func NewRegisterUserUsecase(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	clock Clock,
	logger *zap.Logger,
) *RegisterUserUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegisterUserUsecase{userRepo: userRepo, hasher: hasher, clock: clock, logger: logger}
}

// 会員登録実行
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (RegisterUserOutput, error) {
	var out RegisterUserOutput

	name := strings.TrimSpace(in.Name)
	email := validator.NormalizeEmail(in.Email)
	if err := validator.ValidateRegister(name, email, in.Password); err != nil {
		return out, err
	}

	// email重複チェック
	existing, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return out, usecase.AsHTTPError(err)
	}
	if existing != nil {
		return out, usecase.NewConflictError("email already exists")
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return out, usecase.NewInternalError(err)
	}

	now := u.clock.Now()
	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashed, // 平文は保存しない
		Role:         model.RoleClient,
		TokenVersion: 0,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		// 同時登録で一意制約に当たった
		if errors.Is(err, repository.ErrDuplicate) {
			return out, usecase.NewConflictError("email already exists")
		}
		return out, usecase.AsHTTPError(err)
	}

	u.logger.Info("client registered", zap.Int64("user_id", user.ID))
	out.User = toUserDTO(user)
	return out, nil
}

func toUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         string(u.Role),
		TokenVersion: u.TokenVersion,
		IsActive:     u.IsActive,
	}
}

// bcryptハッシュ化
type BcryptPasswordHasher struct {
	cost int
}

func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost: cost}
}

func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// bcryptハッシュと平文を比較
type BcryptPasswordVerifier struct{}

func NewBcryptPasswordVerifier() *BcryptPasswordVerifier {
	return &BcryptPasswordVerifier{}
}

func (v *BcryptPasswordVerifier) Verify(plain string, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
