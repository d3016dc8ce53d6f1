package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"restaurant-api/internal/config"
	"restaurant-api/internal/handler"
	infraRepo "restaurant-api/internal/infra/repository"
	"restaurant-api/internal/middleware"
	"restaurant-api/internal/usecase"
	auth "restaurant-api/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bodyLimit = "1M"

// 外部の部品（mainで作る）
type Deps struct {
	DB       *gorm.DB
	Gateway  usecase.PaymentGateway
	Verifier usecase.WebhookVerifier
	Logger   *zap.Logger
}

// New はrepos -> usecases -> handlers を組み立ててルートを登録したechoを返す
func New(cfg config.Config, d Deps) *echo.Echo {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	//Repository（GORM実装）
	userRepo := infraRepo.NewUserGormRepository(d.DB)
	orderRepo := infraRepo.NewOrderGormRepository(d.DB)
	itemRepo := infraRepo.NewOrderItemGormRepository(d.DB)
	productRepo := infraRepo.NewProductGormRepository(d.DB)
	tableRepo := infraRepo.NewTableGormRepository(d.DB)
	categoryRepo := infraRepo.NewCategoryGormRepository(d.DB)
	userAdminRepo := infraRepo.NewUserAdminGormRepository(d.DB)
	paymentRepo := infraRepo.NewPaymentGormRepository(d.DB)
	auditRepo := infraRepo.NewAuditLogGormRepository(d.DB)
	attemptRepo := infraRepo.NewLoginAttemptGormRepository(d.DB)
	txm := infraRepo.NewTxManagerGorm(d.DB)

	//Usecase
	auditUC := usecase.NewAuditUsecase(auditRepo, logger.Named("audit"))
	orderUC := usecase.NewOrderUsecase(txm, orderRepo, itemRepo, tableRepo, auditUC, cfg.UpstreamTimeout, logger.Named("order"))
	paymentUC := usecase.NewPaymentUsecase(
		orderRepo, paymentRepo, d.Gateway, d.Verifier, auditUC, cfg.PaymentCurrency, cfg.UpstreamTimeout, logger.Named("payment"),
	)
	productUC := usecase.NewProductUsecase(productRepo, categoryRepo, cfg.UpstreamTimeout, logger.Named("catalog"))
	categoryUC := usecase.NewCategoryUsecase(categoryRepo, cfg.UpstreamTimeout, logger.Named("catalog"))
	tableUC := usecase.NewTableUsecase(tableRepo, cfg.UpstreamTimeout, logger.Named("table"))

	cost := bcrypt.DefaultCost
	if !cfg.IsProduction() {
		cost = bcrypt.MinCost
	}
	hasher := auth.NewBcryptPasswordHasher(cost)
	registerUC := auth.NewRegisterUserUsecase(userRepo, hasher, auth.SystemClock{}, logger.Named("auth"))
	adminUserUC := auth.NewAdminUserUsecase(userRepo, userAdminRepo, hasher, cfg.UpstreamTimeout, logger.Named("auth"))
	loginUC := auth.NewLoginUsecase(
		userRepo,
		attemptRepo,
		auth.NewBcryptPasswordVerifier(),
		auth.NewJWTIssuer(cfg.JWTSecret, 0),
		auth.SystemClock{},
		auth.LoginLimits{MaxAttempts: cfg.LoginMaxAttempts, Window: cfg.LoginWindow},
		logger.Named("auth"),
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(logger.Named("http")))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: allowedOrigins(cfg.FEURL),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(echomw.BodyLimit(bodyLimit))

	e.GET("/health", health(d.DB, cfg.UpstreamTimeout))

	handler.NewAuthHandler(registerUC, loginUC).RegisterRoutes(e)
	handler.NewProductHandler(productUC, categoryUC).RegisterRoutes(e, cfg, userRepo)
	handler.NewTableHandler(tableUC).RegisterRoutes(e, cfg, userRepo)
	handler.NewOrderHandler(orderUC).RegisterRoutes(e, cfg, userRepo)
	handler.NewPaymentHandler(paymentUC).RegisterRoutes(e, cfg, userRepo)
	handler.NewAdminOrderHandler(orderUC, auditUC).RegisterRoutes(e, cfg, userRepo)
	handler.NewAdminProductHandler(productUC, categoryUC).RegisterRoutes(e, cfg, userRepo)
	handler.NewAdminUserHandler(adminUserUC).RegisterRoutes(e, cfg, userRepo)

	return e
}

// Start はctxが終わるまで待ってからgraceful shutdownする
func Start(ctx context.Context, e *echo.Echo, addr string, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("server shutting down")
	return e.Shutdown(shutdownCtx)
}

func health(db *gorm.DB, timeout time.Duration) echo.HandlerFunc {
	return func(c echo.Context) error {
		sqlDB, err := db.DB()
		if err == nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
			defer cancel()
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			middleware.LoggerFrom(c).Warn("health check failed", zap.Error(err))
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}

// FE_URLはカンマ区切りで複数可
func allowedOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
