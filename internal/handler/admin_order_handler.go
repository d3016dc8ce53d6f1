package handler

import (
	"net/http"

	"restaurant-api/internal/config"
	"restaurant-api/internal/domain/model"
	"restaurant-api/internal/middleware"
	"restaurant-api/internal/repository"
	"restaurant-api/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 管理者だけの操作（注文の物理削除と監査ログ）
type AdminOrderHandler struct {
	orders *usecase.OrderUsecase
	audit  *usecase.AuditUsecase
}

func NewAdminOrderHandler(orders *usecase.OrderUsecase, audit *usecase.AuditUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{orders: orders, audit: audit}
}

func (h *AdminOrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := e.Group("/admin")
	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.TokenVersionGuard(userRepo))
	admin.Use(middleware.AdminRoleGuard())

	admin.DELETE("/orders/:id", h.deleteOrder)
	admin.GET("/audit-events", h.listAuditEvents)
}

func (h *AdminOrderHandler) deleteOrder(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	if err := h.orders.DeleteOrder(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

func (h *AdminOrderHandler) listAuditEvents(c echo.Context) error {
	page, ok := queryInt(c, "page")
	if !ok {
		return badRequest(c, "invalid page")
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return badRequest(c, "invalid limit")
	}
	orderID, ok := queryInt64Ptr(c, "order_id")
	if !ok {
		return badRequest(c, "invalid order_id")
	}
	from, ok := queryTimePtr(c, "from")
	if !ok {
		return badRequest(c, "invalid from")
	}
	to, ok := queryTimePtr(c, "to")
	if !ok {
		return badRequest(c, "invalid to")
	}

	var action *model.AuditAction
	if v := c.QueryParam("action"); v != "" {
		a := model.AuditAction(v)
		action = &a
	}

	out, err := h.audit.List(c.Request().Context(), usecase.ListAuditEventsInput{
		OrderID: orderID,
		Action:  action,
		From:    from,
		To:      to,
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
