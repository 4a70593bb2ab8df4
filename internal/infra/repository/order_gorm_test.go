package repository

import (
	"context"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderCreateAndFind(t *testing.T) {
	ctx := context.Background()
	db := initTestDB(t)
	r := NewOrderGormRepository(db)

	id, err := r.Create(ctx, model.Order{
		UserID: 1, VendorUserID: 10, Status: model.OrderStatusDraft, TotalPrice: 24,
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	o, err := r.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusDraft, o.Status)
	assert.Equal(t, int64(24), o.TotalPrice)

	_, err = r.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestOrderDraftLifecycle(t *testing.T) {
	ctx := context.Background()
	db := initTestDB(t)
	r := NewOrderGormRepository(db)

	d1, err := r.Create(ctx, model.Order{UserID: 1, VendorUserID: 10, Status: model.OrderStatusDraft, TotalPrice: 10})
	require.NoError(t, err)
	d2, err := r.Create(ctx, model.Order{UserID: 1, VendorUserID: 20, Status: model.OrderStatusDraft, TotalPrice: 20})
	require.NoError(t, err)
	//他人と支払い済みは対象外
	_, err = r.Create(ctx, model.Order{UserID: 2, VendorUserID: 10, Status: model.OrderStatusDraft, TotalPrice: 30})
	require.NoError(t, err)
	paid, err := r.Create(ctx, model.Order{UserID: 1, VendorUserID: 30, Status: model.OrderStatusPaid, TotalPrice: 40})
	require.NoError(t, err)

	ids, err := r.ListDraftIDsByUserID(ctx, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{d1, d2}, ids)

	drafts, err := r.ListDraftsByUserIDAndIDs(ctx, 1, []int64{d1, d2, paid, 9999})
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	require.NoError(t, r.DeleteByIDs(ctx, ids))

	ids, err = r.ListDraftIDsByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestOrderMarkPaidOnlyOnce(t *testing.T) {
	ctx := context.Background()
	db := initTestDB(t)
	r := NewOrderGormRepository(db)

	id, err := r.Create(ctx, model.Order{UserID: 1, VendorUserID: 10, Status: model.OrderStatusDraft, TotalPrice: 100})
	require.NoError(t, err)

	require.NoError(t, r.MarkPaid(ctx, id, 10, 90))

	o, err := r.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPaid, o.Status)
	assert.Equal(t, int64(10), o.WebsiteCommission)
	assert.Equal(t, int64(90), o.VendorSubtotal)

	//DRAFT以外には効かない
	err = r.MarkPaid(ctx, id, 10, 90)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestOrderListByUserIDPaging(t *testing.T) {
	ctx := context.Background()
	db := initTestDB(t)
	r := NewOrderGormRepository(db)

	for i := 0; i < 5; i++ {
		_, err := r.Create(ctx, model.Order{UserID: 1, VendorUserID: 10, Status: model.OrderStatusPaid, TotalPrice: int64(i)})
		require.NoError(t, err)
	}

	page1, total, err := r.ListByUserID(ctx, 1, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page1, 2)

	page3, _, err := r.ListByUserID(ctx, 1, 3, 2)
	require.NoError(t, err)
	assert.Len(t, page3, 1)

	//新しい順
	assert.Greater(t, page1[0].ID, page1[1].ID)
}

func TestOrderItemsBulk(t *testing.T) {
	ctx := context.Background()
	db := initTestDB(t)
	orders := NewOrderGormRepository(db)
	items := NewOrderItemGormRepository(db)

	orderID, err := orders.Create(ctx, model.Order{UserID: 1, VendorUserID: 10, Status: model.OrderStatusDraft, TotalPrice: 39})
	require.NoError(t, err)

	err = items.CreateBulk(ctx, orderID, []model.OrderItem{
		{ProductID: 1, Quantity: 2, Price: 12, OptionIDs: []int64{10, 21}, Description: "色: 赤, サイズ: L"},
		{ProductID: 2, Quantity: 1, Price: 15},
	})
	require.NoError(t, err)

	got, err := items.ListByOrderID(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []int64{10, 21}, got[0].OptionIDs)
	assert.Equal(t, "色: 赤, サイズ: L", got[0].Description)

	require.NoError(t, items.DeleteByOrderIDs(ctx, []int64{orderID}))
	got, err = items.ListByOrderID(ctx, orderID)
	require.NoError(t, err)
	assert.Empty(t, got)
}
