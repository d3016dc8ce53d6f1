package handler

import (
	"io"
	"net/http"

	"restaurant-api/internal/config"
	"restaurant-api/internal/infra/gateway"
	"restaurant-api/internal/middleware"
	"restaurant-api/internal/repository"
	"restaurant-api/internal/usecase"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	uc *usecase.PaymentUsecase
}

func NewPaymentHandler(uc *usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

type PaymentCreateRequest struct {
	OrderID int64 `json:"order_id"`
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	e.POST("/payments/create", h.create, middleware.AuthJWT(cfg), middleware.TokenVersionGuard(userRepo))

	// ゲートウェイからの通知（認証なし、署名で確認）
	e.POST("/webhooks/payment-gateway", h.webhook)
}

func (h *PaymentHandler) create(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req PaymentCreateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.InitiatePayment(c.Request().Context(), actor, req.OrderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 署名は生のボディに対して計算されるのでBindしない
func (h *PaymentHandler) webhook(c echo.Context) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return writeError(c, usecase.NewInvalidPayloadError(err))
	}

	out, err := h.uc.HandleWebhook(c.Request().Context(), raw, signatureFrom(c.Request().Header))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func signatureFrom(h http.Header) string {
	for _, name := range gateway.SignatureHeaders {
		if v := h.Get(name); v != "" {
			return v
		}
	}
	return ""
}
