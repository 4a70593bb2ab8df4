package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/infra/cookiecart"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cart と /checkout のHTTP
type CartHandler struct {
	factory  *usecase.CartFactory
	checkout *usecase.CheckoutUsecase
}

// DI
func NewCartHandler(factory *usecase.CartFactory, checkout *usecase.CheckoutUsecase) *CartHandler {
	return &CartHandler{factory: factory, checkout: checkout}
}

type AddCartRequest struct {
	ProductID int64                 `json:"product_id"`
	Quantity  int64                 `json:"quantity"`
	OptionIDs model.OptionSelection `json:"option_ids"`
}

type UpdateCartItemRequest struct {
	Quantity  int64                 `json:"quantity"`
	OptionIDs model.OptionSelection `json:"option_ids"`
}

type RemoveCartItemRequest struct {
	OptionIDs model.OptionSelection `json:"option_ids"`
}

type CheckoutRequest struct {
	//指定すると1ベンダー分だけ注文にする
	VendorUserID *int64 `json:"vendor_user_id"`
}

type CartResponse struct {
	Groups        []usecase.VendorGroup `json:"groups"`
	TotalQuantity int64                 `json:"total_quantity"`
	TotalPrice    int64                 `json:"total_price"`
}

type CheckoutResponse struct {
	OrderIDs []int64 `json:"order_ids"`
}

// ゲストも使えるのでOptionalAuthにする
func (h *CartHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/cart")
	g.Use(middleware.OptionalAuth(cfg))

	g.GET("", h.getCart)
	g.POST("", h.addToCart)
	g.PATCH("/:product_id", h.patchItem)
	g.DELETE("/:product_id", h.deleteItem)

	co := e.Group("/checkout")
	co.Use(middleware.AuthJWT(cfg))
	co.POST("", h.postCheckout)
}

// 認証状態に応じたバックエンドのカートを組む。
// 以降のカート操作は認証状態を見ない。
func (h *CartHandler) cartFor(c echo.Context) *usecase.CartService {
	if userID, ok := getUserIDFromContext(c); ok {
		return h.factory.ForUser(userID)
	}
	return h.factory.ForGuest(cookiecart.NewBackend(newEchoCookieJar(c)))
}

func (h *CartHandler) getCart(c echo.Context) error {
	cart := h.cartFor(c)
	ctx := c.Request().Context()

	return c.JSON(http.StatusOK, CartResponse{
		Groups:        cart.Grouped(ctx),
		TotalQuantity: cart.TotalQuantity(ctx),
		TotalPrice:    cart.TotalPrice(ctx),
	})
}

func (h *CartHandler) addToCart(c echo.Context) error {
	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart := h.cartFor(c)
	if err := cart.Add(c.Request().Context(), req.ProductID, req.OptionIDs, req.Quantity, true); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "added"})
}

func (h *CartHandler) patchItem(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product_id"})
	}

	var req UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	cart := h.cartFor(c)
	if err := cart.UpdateQuantity(c.Request().Context(), productID, req.OptionIDs, req.Quantity); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "updated"})
}

func (h *CartHandler) deleteItem(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product_id"})
	}

	//option指定はbodyで受ける（無ければoptionなし行が対象）
	var req RemoveCartItemRequest
	_ = c.Bind(&req)

	cart := h.cartFor(c)
	if err := cart.Remove(c.Request().Context(), productID, req.OptionIDs); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "removed"})
}

func (h *CartHandler) postCheckout(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	orderIDs, err := h.checkout.Checkout(c.Request().Context(), userID, req.VendorUserID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, CheckoutResponse{OrderIDs: orderIDs})
}
