package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /vendor/products の出品管理。商品本体と選択軸・組み合わせをまとめる。
type VendorProductHandler struct {
	products   *usecase.ProductUsecase
	variations *usecase.VariationAdminUsecase
}

// DI
func NewVendorProductHandler(products *usecase.ProductUsecase, variations *usecase.VariationAdminUsecase) *VendorProductHandler {
	return &VendorProductHandler{products: products, variations: variations}
}

type PublishRequest struct {
	Publish bool `json:"publish"`
}

type SaveTypesRequest struct {
	Types []usecase.VariationTypeInput `json:"types"`
}

type SaveMatrixRequest struct {
	Rows []usecase.MatrixRowInput `json:"rows"`
}

func (h *VendorProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/vendor/products")

	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.VendorRoleGuard())

	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.POST("/:id/publish", h.publish)

	g.PUT("/:id/variation-types", h.saveTypes)
	g.GET("/:id/variations/matrix", h.matrix)
	g.PUT("/:id/variations", h.saveMatrix)
}

func (h *VendorProductHandler) create(c echo.Context) error {
	var req usecase.ProductInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.products.Create(c.Request().Context(), getActor(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *VendorProductHandler) update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req usecase.ProductInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.products.Update(c.Request().Context(), getActor(c), id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *VendorProductHandler) delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.products.Delete(c.Request().Context(), getActor(c), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

func (h *VendorProductHandler) publish(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req PublishRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.products.Publish(c.Request().Context(), getActor(c), id, req.Publish); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "status updated"})
}

func (h *VendorProductHandler) saveTypes(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req SaveTypesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.variations.SaveTypes(c.Request().Context(), getActor(c), id, req.Types)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *VendorProductHandler) matrix(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.variations.Matrix(c.Request().Context(), getActor(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *VendorProductHandler) saveMatrix(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req SaveMatrixRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.variations.SaveMatrix(c.Request().Context(), getActor(c), id, req.Rows); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "variations saved"})
}

func parseID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
