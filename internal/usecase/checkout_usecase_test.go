package usecase

import (
	"context"
	"errors"
	"testing"

	"app/internal/domain/model"
	"app/internal/infra/events"
	"app/internal/media"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCheckoutEnv(t *testing.T) (*memStore, *CheckoutUsecase, *recordPublisher) {
	t.Helper()

	s := newMemStore()
	seedCatalog(s)

	pub := &recordPublisher{}
	uc := NewCheckoutUsecase(&memTxManager{s}, media.NewPathResolver("https://cdn.test"), pub)
	return s, uc, pub
}

func fillCart(t *testing.T, s *memStore, userID int64) {
	t.Helper()

	ctx := context.Background()
	cart := newTestFactory(s).ForUser(userID)
	require.NoError(t, cart.Add(ctx, 1, model.OptionSelection{1: 10, 2: 21}, 2, true)) //vendor10 12*2
	require.NoError(t, cart.Add(ctx, 2, nil, 1, true))                                 //vendor20 15*1
}

func TestCheckoutCreatesOneOrderPerVendor(t *testing.T) {
	ctx := context.Background()
	s, uc, pub := newCheckoutEnv(t)
	fillCart(t, s, 1)

	orderIDs, err := uc.Checkout(ctx, 1, nil)
	require.NoError(t, err)
	require.Len(t, orderIDs, 2)

	totals := map[int64]int64{}
	for _, id := range orderIDs {
		o := s.orders[id]
		assert.Equal(t, model.OrderStatusDraft, o.Status)
		assert.Equal(t, int64(1), o.UserID)
		totals[o.VendorUserID] = o.TotalPrice
	}
	assert.Equal(t, int64(24), totals[10])
	assert.Equal(t, int64(15), totals[20])

	//order.createdがベンダーごとに出る
	require.Len(t, pub.events, 2)
	assert.Equal(t, events.EventOrderCreated, pub.events[0].eventType)
}

func TestCheckoutWritesOptionDescriptions(t *testing.T) {
	ctx := context.Background()
	s, uc, _ := newCheckoutEnv(t)
	fillCart(t, s, 1)

	orderIDs, err := uc.Checkout(ctx, 1, nil)
	require.NoError(t, err)

	var vendor10Order int64
	for _, id := range orderIDs {
		if s.orders[id].VendorUserID == 10 {
			vendor10Order = id
		}
	}
	require.NotZero(t, vendor10Order)

	items := s.orderItems[vendor10Order]
	require.Len(t, items, 1)
	assert.Equal(t, "色: 赤, サイズ: L", items[0].Description)
	assert.Equal(t, []int64{10, 21}, items[0].OptionIDs)
	assert.Equal(t, int64(12), items[0].Price)
}

func TestCheckoutDiscardsPreviousDrafts(t *testing.T) {
	ctx := context.Background()
	s, uc, _ := newCheckoutEnv(t)
	fillCart(t, s, 1)

	//前回チェックアウトの下書きが残っている
	staleID, err := (&memOrders{s}).Create(ctx, model.Order{
		UserID: 1, VendorUserID: 10, Status: model.OrderStatusDraft, TotalPrice: 777,
	})
	require.NoError(t, err)
	require.NoError(t, (&memOrderItems{s}).CreateBulk(ctx, staleID, []model.OrderItem{{ProductID: 1, Quantity: 1, Price: 777}}))

	orderIDs, err := uc.Checkout(ctx, 1, nil)
	require.NoError(t, err)

	_, exists := s.orders[staleID]
	assert.False(t, exists)
	assert.Empty(t, s.orderItems[staleID])
	assert.NotContains(t, orderIDs, staleID)
}

func TestCheckoutKeepsOtherUsersDrafts(t *testing.T) {
	ctx := context.Background()
	s, uc, _ := newCheckoutEnv(t)
	fillCart(t, s, 1)

	otherID, err := (&memOrders{s}).Create(ctx, model.Order{
		UserID: 2, VendorUserID: 10, Status: model.OrderStatusDraft, TotalPrice: 500,
	})
	require.NoError(t, err)

	_, err = uc.Checkout(ctx, 1, nil)
	require.NoError(t, err)

	_, exists := s.orders[otherID]
	assert.True(t, exists)
}

func TestCheckoutVendorFilter(t *testing.T) {
	ctx := context.Background()
	s, uc, _ := newCheckoutEnv(t)
	fillCart(t, s, 1)

	vendor := int64(20)
	orderIDs, err := uc.Checkout(ctx, 1, &vendor)
	require.NoError(t, err)
	require.Len(t, orderIDs, 1)

	o := s.orders[orderIDs[0]]
	assert.Equal(t, int64(20), o.VendorUserID)
	assert.Equal(t, int64(15), o.TotalPrice)
}

func TestCheckoutEmptyCart(t *testing.T) {
	ctx := context.Background()
	_, uc, pub := newCheckoutEnv(t)

	_, err := uc.Checkout(ctx, 1, nil)
	require.Error(t, err)

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, 400, he.Status)
	assert.Empty(t, pub.events)
}

func TestCheckoutRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	s, uc, pub := newCheckoutEnv(t)
	fillCart(t, s, 1)

	staleID, err := (&memOrders{s}).Create(ctx, model.Order{
		UserID: 1, VendorUserID: 10, Status: model.OrderStatusDraft, TotalPrice: 777,
	})
	require.NoError(t, err)

	s.orderItemsErr = errors.New("insert failed")

	_, err = uc.Checkout(ctx, 1, nil)
	require.Error(t, err)

	//部分的な注文は残らず、既存の下書きも巻き戻る
	_, exists := s.orders[staleID]
	assert.True(t, exists)
	for id, o := range s.orders {
		if id != staleID {
			t.Fatalf("unexpected order %d: %+v", id, o)
		}
	}
	assert.Empty(t, pub.events)
}
