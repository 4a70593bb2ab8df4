package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	"app/internal/infra/events"
	"app/internal/logger"
	"app/internal/media"
	repo "app/internal/repository"

	"go.uber.org/zap"
)

// EventPublisher は注文イベントの発行先。
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, key string, payload interface{}) error
}

// CheckoutUsecase はカートを注文（ベンダーごとに1件）へ変換する。
type CheckoutUsecase struct {
	tx     repo.TransactionManager
	media  media.Resolver
	events EventPublisher
}

func NewCheckoutUsecase(tx repo.TransactionManager, mediaResolver media.Resolver, ev EventPublisher) *CheckoutUsecase {
	return &CheckoutUsecase{tx: tx, media: mediaResolver, events: ev}
}

type checkoutResult struct {
	orderID      int64
	vendorUserID int64
	totalPrice   int64
}

// Checkout はDBカートをベンダー別の注文に変換する。
// 全体が1トランザクション:
//
//	(a) 本人の既存DRAFTを破棄（チェックアウトは常にやり直し）
//	(b) ベンダー別グループ化（vendorUserIDで1ベンダーに絞れる）
//	(c) ベンダーごとにOrder+OrderItemを作成
//
// 途中で失敗したら全部ロールバックし、部分的な注文は残さない。
func (u *CheckoutUsecase) Checkout(ctx context.Context, userID int64, vendorUserID *int64) ([]int64, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var results []checkoutResult

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//既存DRAFTの破棄（明細→本体の順）
		draftIDs, err := r.Orders().ListDraftIDsByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(draftIDs) > 0 {
			if err := r.OrderItems().DeleteByOrderIDs(ctx, draftIDs); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if err := r.Orders().DeleteByIDs(ctx, draftIDs); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		//トランザクション内のrepoでカートを組み立て直す
		cart := NewCartService(
			&userCartBackend{items: r.CartItems(), userID: userID},
			r.Products(), r.Variations(), r.Vendors(), u.media,
		)

		groups, err := cart.GroupedStrict(ctx)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if vendorUserID != nil {
			filtered := groups[:0]
			for _, g := range groups {
				if g.VendorUserID == *vendorUserID {
					filtered = append(filtered, g)
				}
			}
			groups = filtered
		}

		if len(groups) == 0 {
			return NewHTTPError(http.StatusBadRequest, "nothing to check out")
		}

		now := time.Now()
		for _, g := range groups {
			orderID, err := r.Orders().Create(ctx, model.Order{
				UserID:       userID,
				VendorUserID: g.VendorUserID,
				Status:       model.OrderStatusDraft,
				TotalPrice:   g.TotalPrice,
				CreatedAt:    now,
				UpdatedAt:    now,
			})
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			items := make([]model.OrderItem, 0, len(g.Items))
			for _, line := range g.Items {
				items = append(items, model.OrderItem{
					ProductID:   line.ProductID,
					Quantity:    line.Quantity,
					Price:       line.Price,
					OptionIDs:   line.OptionIDs.OptionIDs(),
					Description: describeOptions(line.Options),
					CreatedAt:   now,
				})
			}
			if err := r.OrderItems().CreateBulk(ctx, orderID, items); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			results = append(results, checkoutResult{
				orderID:      orderID,
				vendorUserID: g.VendorUserID,
				totalPrice:   g.TotalPrice,
			})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	//イベントはcommit後に発行。失敗してもチェックアウト自体は成立
	orderIDs := make([]int64, 0, len(results))
	for _, res := range results {
		orderIDs = append(orderIDs, res.orderID)

		payload := events.OrderCreatedPayload{
			OrderID:      res.orderID,
			UserID:       userID,
			VendorUserID: res.vendorUserID,
			TotalPrice:   res.totalPrice,
		}
		if err := u.events.Publish(ctx, events.EventOrderCreated, orderKey(res.orderID), payload); err != nil {
			logger.FromCtx(ctx).Warn("order.created publish failed",
				zap.Int64("order_id", res.orderID), zap.Error(err))
		}
	}

	return orderIDs, nil
}

// 「色: 赤, サイズ: L」形式
func describeOptions(options []DisplayOption) string {
	parts := make([]string, 0, len(options))
	for _, o := range options {
		parts = append(parts, o.TypeName+": "+o.Name)
	}
	return strings.Join(parts, ", ")
}
