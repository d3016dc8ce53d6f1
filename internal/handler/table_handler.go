package handler

import (
	"net/http"

	"restaurant-api/internal/config"
	"restaurant-api/internal/middleware"
	"restaurant-api/internal/repository"
	"restaurant-api/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /tables はスタッフ用。追加と削除は管理者だけ
type TableHandler struct {
	uc *usecase.TableUsecase
}

func NewTableHandler(uc *usecase.TableUsecase) *TableHandler {
	return &TableHandler{uc: uc}
}

func (h *TableHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/tables")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo))
	g.Use(middleware.StaffRoleGuard())

	admin := middleware.AdminRoleGuard()
	g.GET("", h.list)
	g.PATCH("/:id", h.update)
	g.POST("", h.create, admin)
	g.DELETE("/:id", h.delete, admin)
}

func (h *TableHandler) list(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.ListTables(c.Request().Context(), actor, c.QueryParam("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *TableHandler) create(c echo.Context) error {
	var req usecase.CreateTableInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	t, err := h.uc.CreateTable(c.Request().Context(), actor, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *TableHandler) update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req usecase.UpdateTableInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	t, err := h.uc.UpdateTable(c.Request().Context(), actor, id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TableHandler) delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	if err := h.uc.DeleteTable(c.Request().Context(), actor, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}
