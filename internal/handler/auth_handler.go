package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/infra/cookiecart"
	"app/internal/logger"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// /authのHTTP
type AuthHandler struct {
	uc      *usecase.AuthUsecase
	factory *usecase.CartFactory
}

// DI
func NewAuthHandler(uc *usecase.AuthUsecase, factory *usecase.CartFactory) *AuthHandler {
	return &AuthHandler{uc: uc, factory: factory}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	e.POST("/auth/register", h.register)
	e.POST("/auth/login", h.login)

	me := e.Group("/auth/me")
	me.Use(middleware.AuthJWT(cfg))
	me.GET("", h.me)
}

func (h *AuthHandler) register(c echo.Context) error {
	var req usecase.AuthRegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Register(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) login(c echo.Context) error {
	var req usecase.AuthLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	ctx := c.Request().Context()

	out, err := h.uc.Login(ctx, req)
	if err != nil {
		return writeError(c, err)
	}

	//ゲスト時のクッキーカートをDBへ引き継ぐ。失敗してもログインは通す
	guest := cookiecart.NewBackend(newEchoCookieJar(c))
	if err := h.factory.MigrateGuestCart(ctx, guest, out.User.ID); err != nil {
		logger.FromCtx(ctx).Warn("guest cart migration failed",
			zap.Int64("user_id", out.User.ID), zap.Error(err))
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) me(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.Me(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
