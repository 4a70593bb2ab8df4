package server

import (
	"net/http"

	"app/internal/config"
	"app/internal/handler"

	"github.com/labstack/echo/v4"
)

// Handlers はルーティングに必要なハンドラ一式。
type Handlers struct {
	Auth           *handler.AuthHandler
	Products       *handler.ProductHandler
	Departments    *handler.DepartmentHandler
	VendorProducts *handler.VendorProductHandler
	Cart           *handler.CartHandler
	Payment        *handler.PaymentHandler
	Orders         *handler.OrderHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	h.Auth.RegisterRoutes(e, cfg)
	h.Products.RegisterRoutes(e)
	h.Departments.RegisterRoutes(e, cfg)
	h.VendorProducts.RegisterRoutes(e, cfg)
	h.Cart.RegisterRoutes(e, cfg)
	h.Payment.RegisterRoutes(e, cfg)
	h.Orders.RegisterRoutes(e, cfg)
}
