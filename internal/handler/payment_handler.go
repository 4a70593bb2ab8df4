package handler

import (
	"net/http"
	"strconv"
	"strings"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /paymentのHTTP
type PaymentHandler struct {
	uc *usecase.PaymentUsecase
}

// DI
func NewPaymentHandler(uc *usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

type FinishPaymentRequest struct {
	OrderIDs []int64 `json:"order_ids"`
}

type FinishPaymentResponse struct {
	PaidOrderIDs []int64 `json:"paid_order_ids"`
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/payment")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.listForPayment)
	g.POST("/finish", h.finish)
}

// GET /payment?orderIds=1,2,3
func (h *PaymentHandler) listForPayment(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orderIDs, err := parseIDList(c.QueryParam("orderIds"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid orderIds"})
	}

	out, err := h.uc.ListForPayment(c.Request().Context(), userID, orderIDs)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PaymentHandler) finish(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req FinishPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	paidIDs, err := h.uc.Finalize(c.Request().Context(), userID, req.OrderIDs)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, FinishPaymentResponse{PaidOrderIDs: paidIDs})
}

// "1,2,3" をIDリストにする
func parseIDList(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
