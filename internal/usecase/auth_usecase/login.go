package auth

import (
	"context"
	"strconv"
	"time"

	"restaurant-api/internal/domain/model"
	"restaurant-api/internal/repository"
	"restaurant-api/internal/usecase"
	"restaurant-api/internal/validator"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// アクセストークンの有効期限
const accessTokenTTL = 12 * time.Hour

// handlerからusecaseに渡す入力
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type JwtAccessToken struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenVersion int    `json:"token_version"`
}

type LoginOutput struct {
	User  UserDTO        `json:"user"`
	Token JwtAccessToken `json:"token"`
}

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(userID int64, role model.Role, tokenVersion int, now time.Time) (token string, expiresAt time.Time, err error)
}

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

// ログイン失敗の上限（固定ウィンドウ）
type LoginLimits struct {
	MaxAttempts int
	Window      time.Duration
}

type LoginUsecase struct {
	userRepo repository.UserRepository
	attempts repository.LoginAttemptRepository
	verifier PasswordVerifier
	issuer   AccessTokenIssuer
	clock    Clock
	limits   LoginLimits
	logger   *zap.Logger
}

func NewLoginUsecase(
	userRepo repository.UserRepository,
	attempts repository.LoginAttemptRepository,
	verifier PasswordVerifier,
	issuer AccessTokenIssuer,
	clock Clock,
	limits LoginLimits,
	logger *zap.Logger,
) *LoginUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limits.MaxAttempts <= 0 {
		limits.MaxAttempts = 5
	}
	if limits.Window <= 0 {
		limits.Window = 15 * time.Minute
	}
	return &LoginUsecase{
		userRepo: userRepo,
		attempts: attempts,
		verifier: verifier,
		issuer:   issuer,
		clock:    clock,
		limits:   limits,
		logger:   logger,
	}
}

// ログイン処理を実行する
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (LoginOutput, error) {
	var out LoginOutput

	email := validator.NormalizeEmail(in.Email)
	if err := validator.ValidateLogin(email, in.Password); err != nil {
		return out, err
	}

	now := u.clock.Now()
	key := attemptKey(email)

	// 上限に達していたらパスワードを見ない
	failures, err := u.attempts.Failures(ctx, key, now, u.limits.Window)
	if err != nil {
		// カウンタが読めないときは通す（ログだけ）
		u.logger.Warn("login attempt lookup failed", zap.Error(err))
	}
	if failures >= u.limits.MaxAttempts {
		return out, usecase.NewTooManyRequestsError("too many login attempts, try again later")
	}

	user, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return out, usecase.AsHTTPError(err)
	}
	if user == nil || !u.verifier.Verify(in.Password, user.PasswordHash) {
		u.registerFailure(ctx, key, now)
		return out, usecase.NewUnauthorizedError("invalid credentials")
	}

	//停止ユーザーはログイン不可
	if !user.IsActive {
		return out, usecase.NewForbiddenError("user is inactive")
	}

	if err := u.attempts.Reset(ctx, key); err != nil {
		u.logger.Warn("login attempt reset failed", zap.Error(err))
	}

	token, expiresAt, err := u.issuer.Issue(user.ID, user.Role, user.TokenVersion, now)
	if err != nil {
		return out, usecase.NewInternalError(err)
	}

	//最終ログイン時刻更新（失敗してもログインは通す）
	if err := u.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		u.logger.Warn("last login update failed", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	out.User = toUserDTO(user)
	out.Token = JwtAccessToken{
		AccessToken:  token,
		ExpiresIn:    int(expiresAt.Sub(now).Seconds()),
		TokenVersion: user.TokenVersion,
	}
	return out, nil
}

func (u *LoginUsecase) registerFailure(ctx context.Context, key string, now time.Time) {
	n, err := u.attempts.RegisterFailure(ctx, key, now, u.limits.Window)
	if err != nil {
		u.logger.Warn("login attempt record failed", zap.Error(err))
		return
	}
	if n >= u.limits.MaxAttempts {
		u.logger.Warn("login locked", zap.String("key", key), zap.Int("failures", n))
	}
}

func attemptKey(email string) string {
	return "login:" + email
}

// HS256で署名するJWT発行
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTIssuer(secret string, ttl time.Duration) *JWTIssuer {
	if ttl <= 0 {
		ttl = accessTokenTTL
	}
	return &JWTIssuer{secret: []byte(secret), ttl: ttl}
}

func (i *JWTIssuer) Issue(userID int64, role model.Role, tokenVersion int, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.ttl)

	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(userID, 10),
		"role": string(role),
		"tv":   tokenVersion,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
