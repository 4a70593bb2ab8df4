package usecase

import (
	"context"
	"errors"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// OrderUsecase は購入者向けの注文参照。
type OrderUsecase struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	vendors    repo.VendorRepository
}

func NewOrderUsecase(orders repo.OrderRepository, orderItems repo.OrderItemRepository, vendors repo.VendorRepository) *OrderUsecase {
	return &OrderUsecase{orders: orders, orderItems: orderItems, vendors: vendors}
}

type OrderSummary struct {
	Order     model.Order `json:"order"`
	StoreName string      `json:"store_name"`
}

type OrderDetail struct {
	Order     model.Order       `json:"order"`
	StoreName string            `json:"store_name"`
	Items     []model.OrderItem `json:"items"`
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, page int, limit int) ([]OrderSummary, int64, error) {
	if userID <= 0 {
		return nil, 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	orders, total, err := u.orders.ListByUserID(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	storeNames, err := u.storeNames(ctx, orders)
	if err != nil {
		return nil, 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	summaries := make([]OrderSummary, 0, len(orders))
	for _, o := range orders {
		summaries = append(summaries, OrderSummary{
			Order:     o,
			StoreName: storeNames[o.VendorUserID],
		})
	}
	return summaries, total, nil
}

// 他人の注文IDを指定された場合は存在自体を知らせず404にする。
func (u *OrderUsecase) GetMyOrder(ctx context.Context, userID int64, orderID int64) (*OrderDetail, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	order, err := u.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewHTTPError(http.StatusNotFound, "order not found")
		}
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if order.UserID != userID {
		return nil, NewHTTPError(http.StatusNotFound, "order not found")
	}

	items, err := u.orderItems.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	storeName := ""
	if vendor, err := u.vendors.FindByUserID(ctx, order.VendorUserID); err == nil {
		storeName = vendor.StoreName
	}

	return &OrderDetail{Order: order, StoreName: storeName, Items: items}, nil
}

func (u *OrderUsecase) storeNames(ctx context.Context, orders []model.Order) (map[int64]string, error) {
	ids := make([]int64, 0, len(orders))
	seen := map[int64]bool{}
	for _, o := range orders {
		if !seen[o.VendorUserID] {
			seen[o.VendorUserID] = true
			ids = append(ids, o.VendorUserID)
		}
	}

	names := map[int64]string{}
	if len(ids) == 0 {
		return names, nil
	}

	vendors, err := u.vendors.ListByUserIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, v := range vendors {
		names[v.UserID] = v.StoreName
	}
	return names, nil
}
