package usecase

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"app/internal/domain/model"
	"app/internal/infra/events"
	"app/internal/logger"
	repo "app/internal/repository"

	"go.uber.org/zap"
)

// PaymentUsecase は下書き注文の支払い確定を担当する。
type PaymentUsecase struct {
	tx repo.TransactionManager
	//プラットフォーム手数料（%）。整数除算で切り捨て
	feePct int64
	events EventPublisher
}

func NewPaymentUsecase(tx repo.TransactionManager, feePct int64, ev EventPublisher) *PaymentUsecase {
	return &PaymentUsecase{tx: tx, feePct: feePct, events: ev}
}

// 支払いページ表示用の注文サマリ
type PaymentOrder struct {
	Order model.Order       `json:"order"`
	Items []model.OrderItem `json:"items"`
}

// ListForPayment は支払い対象となる本人のDRAFT注文だけを返す。
// 他人の注文や支払い済みの注文をIDで指定しても黙って除外される。
func (u *PaymentUsecase) ListForPayment(ctx context.Context, userID int64, orderIDs []int64) ([]PaymentOrder, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if len(orderIDs) == 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "orderIds is required")
	}

	var result []PaymentOrder
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListDraftsByUserIDAndIDs(ctx, userID, orderIDs)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			result = append(result, PaymentOrder{Order: o, Items: items})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type paidOrder struct {
	orderID           int64
	vendorUserID      int64
	totalPrice        int64
	websiteCommission int64
	vendorSubtotal    int64
}

// Finalize は支払い完了後の確定処理。対象は本人のDRAFTに限る。
// 1トランザクションで注文ごとに:
//
//	(a) websiteCommission = total * feePct / 100 を計算してPAIDへ
//	(b) 明細ごとに在庫を引く。optionつきならoption集合に一致する
//	    variation行のquantityを、option無しなら商品本体のquantityを
//	    減らす。quantityがNULLの在庫は無制限なので触らない
//
// 最後に購入済み商品のカート行を消す（saved_for_later=trueは残す）。
func (u *PaymentUsecase) Finalize(ctx context.Context, userID int64, orderIDs []int64) ([]int64, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if len(orderIDs) == 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "orderIds is required")
	}

	var paid []paidOrder

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListDraftsByUserIDAndIDs(ctx, userID, orderIDs)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(orders) == 0 {
			return NewHTTPError(http.StatusBadRequest, "no payable orders")
		}

		var purchasedProductIDs []int64

		for _, o := range orders {
			commission := o.TotalPrice * u.feePct / 100
			subtotal := o.TotalPrice - commission

			if err := r.Orders().MarkPaid(ctx, o.ID, commission, subtotal); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			for _, item := range items {
				purchasedProductIDs = append(purchasedProductIDs, item.ProductID)

				if err := u.decrementStock(ctx, r, item); err != nil {
					return err
				}
			}

			paid = append(paid, paidOrder{
				orderID:           o.ID,
				vendorUserID:      o.VendorUserID,
				totalPrice:        o.TotalPrice,
				websiteCommission: commission,
				vendorSubtotal:    subtotal,
			})
		}

		if err := r.CartItems().PurgePurchased(ctx, userID, purchasedProductIDs); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	paidIDs := make([]int64, 0, len(paid))
	for _, p := range paid {
		paidIDs = append(paidIDs, p.orderID)

		payload := events.OrderPaidPayload{
			OrderID:           p.orderID,
			UserID:            userID,
			VendorUserID:      p.vendorUserID,
			TotalPrice:        p.totalPrice,
			WebsiteCommission: p.websiteCommission,
			VendorSubtotal:    p.vendorSubtotal,
		}
		if err := u.events.Publish(ctx, events.EventOrderPaid, orderKey(p.orderID), payload); err != nil {
			logger.FromCtx(ctx).Warn("order.paid publish failed",
				zap.Int64("order_id", p.orderID), zap.Error(err))
		}
	}

	return paidIDs, nil
}

// optionつきの明細はvariation行だけが在庫対象。行が無い、または
// quantityがNULL（無制限）なら何も引かない。商品本体のquantityを
// 減らすのはoption無しの明細だけ。
func (u *PaymentUsecase) decrementStock(ctx context.Context, r repo.TxRepos, item model.OrderItem) error {
	if len(item.OptionIDs) > 0 {
		v, err := r.Variations().FindByOptionSet(ctx, item.ProductID, item.OptionIDs)
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if v.Quantity == nil {
			return nil
		}
		if err := r.Inventory().DecrementVariationQuantity(ctx, v.ID, item.Quantity); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	}

	if err := r.Inventory().DecrementProductQuantity(ctx, item.ProductID, item.Quantity); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func orderKey(orderID int64) string {
	return strconv.FormatInt(orderID, 10)
}
