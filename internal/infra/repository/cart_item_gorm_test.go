package repository

import (
	"context"
	"testing"

	"app/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Save は行ロック前提なのでここでは直接INSERTで行を用意する
func seedCartRow(t *testing.T, db *gorm.DB, item model.CartItem) model.CartItem {
	t.Helper()

	item.OptionKey = item.OptionIDs.Key()
	require.NoError(t, db.Create(&item).Error)
	return item
}

func TestCartItemListByUserID(t *testing.T) {
	ctx := context.Background()
	db := initTestDB(t)
	r := NewCartItemGormRepository(db)

	seedCartRow(t, db, model.CartItem{UserID: 1, ProductID: 1, Quantity: 2, Price: 10, OptionIDs: model.OptionSelection{1: 10, 2: 21}})
	seedCartRow(t, db, model.CartItem{UserID: 1, ProductID: 2, Quantity: 1, Price: 15})
	seedCartRow(t, db, model.CartItem{UserID: 2, ProductID: 1, Quantity: 9, Price: 10})

	rows, err := r.ListByUserID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "1:10,2:21", rows[0].OptionKey)
	assert.Equal(t, model.OptionSelection{1: 10, 2: 21}, rows[0].OptionIDs)
}

func TestCartItemUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	db := initTestDB(t)
	r := NewCartItemGormRepository(db)

	row := seedCartRow(t, db, model.CartItem{UserID: 1, ProductID: 1, Quantity: 2, Price: 10, OptionIDs: model.OptionSelection{1: 10}})

	require.NoError(t, r.UpdateQuantity(ctx, 1, 1, row.OptionKey, 7))

	rows, err := r.ListByUserID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(7), rows[0].Quantity)

	//無い行への更新は黙って何もしない
	require.NoError(t, r.UpdateQuantity(ctx, 1, 999, "", 3))
}

func TestCartItemRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	db := initTestDB(t)
	r := NewCartItemGormRepository(db)

	row := seedCartRow(t, db, model.CartItem{UserID: 1, ProductID: 1, Quantity: 2, Price: 10, OptionIDs: model.OptionSelection{1: 10}})
	seedCartRow(t, db, model.CartItem{UserID: 1, ProductID: 2, Quantity: 1, Price: 15})
	seedCartRow(t, db, model.CartItem{UserID: 2, ProductID: 2, Quantity: 1, Price: 15})

	require.NoError(t, r.Remove(ctx, 1, 1, row.OptionKey))
	//無い行の削除も黙って何もしない
	require.NoError(t, r.Remove(ctx, 1, 999, ""))

	rows, err := r.ListByUserID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2), rows[0].ProductID)

	require.NoError(t, r.Clear(ctx, 1))

	rows, err = r.ListByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, rows)

	//他ユーザーのカートには触れない
	rows, err = r.ListByUserID(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestCartItemPurgePurchasedKeepsSavedForLater(t *testing.T) {
	ctx := context.Background()
	db := initTestDB(t)
	r := NewCartItemGormRepository(db)

	seedCartRow(t, db, model.CartItem{UserID: 1, ProductID: 1, Quantity: 2, Price: 10})
	seedCartRow(t, db, model.CartItem{UserID: 1, ProductID: 1, Quantity: 1, Price: 10, OptionIDs: model.OptionSelection{1: 11}, SavedForLater: true})
	seedCartRow(t, db, model.CartItem{UserID: 1, ProductID: 2, Quantity: 1, Price: 15})

	require.NoError(t, r.PurgePurchased(ctx, 1, []int64{1}))

	rows, err := r.ListByUserID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	//取り置き行と未購入商品の行が残る
	assert.True(t, rows[0].SavedForLater)
	assert.Equal(t, int64(2), rows[1].ProductID)

	//空入力は空振り
	require.NoError(t, r.PurgePurchased(ctx, 1, nil))
}
