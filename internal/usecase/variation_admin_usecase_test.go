package usecase

import (
	"context"
	"testing"

	"app/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVariationEnv(t *testing.T) (*memStore, *VariationAdminUsecase) {
	t.Helper()

	s := newMemStore()
	seedCatalog(s)
	return s, NewVariationAdminUsecase(&memProducts{s}, &memVariations{s})
}

func vendorActor(userID int64) Actor {
	return Actor{UserID: userID, Role: model.RoleVendor}
}

func TestMatrixGeneratesAllCombinations(t *testing.T) {
	ctx := context.Background()
	_, uc := newVariationEnv(t)

	//色2 × サイズ2 = 4行
	rows, err := uc.Matrix(ctx, vendorActor(10), 1)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	keys := map[string]MatrixRow{}
	for _, r := range rows {
		require.Len(t, r.OptionIDs, 2)
		require.Len(t, r.Labels, 2)
		keys[model.OptionSetKey(r.OptionIDs)] = r
	}
	require.Len(t, keys, 4)

	//既存行 {10,21} は価格・数量が重なって出る
	existing := keys["10,21"]
	assert.Equal(t, int64(100), existing.VariationID)
	require.NotNil(t, existing.Price)
	assert.Equal(t, int64(12), *existing.Price)
	require.NotNil(t, existing.Quantity)
	assert.Equal(t, int64(5), *existing.Quantity)

	//新しい組み合わせは空欄
	fresh := keys["10,20"]
	assert.Zero(t, fresh.VariationID)
	assert.Nil(t, fresh.Price)
	assert.Nil(t, fresh.Quantity)

	//ラベルは「軸名: option名」
	assert.Contains(t, existing.Labels[0], ": ")
}

func TestMatrixNoTypes(t *testing.T) {
	ctx := context.Background()
	_, uc := newVariationEnv(t)

	//選択軸の無い商品2は空
	rows, err := uc.Matrix(ctx, vendorActor(20), 2)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSaveMatrixUpsertsAndDeletesRest(t *testing.T) {
	ctx := context.Background()
	s, uc := newVariationEnv(t)

	err := uc.SaveMatrix(ctx, vendorActor(10), 1, []MatrixRowInput{
		//既存行の更新（並びが逆でも同じ集合）
		{OptionIDs: []int64{21, 10}, Price: int64p(14), Quantity: int64p(8)},
		//新規行
		{OptionIDs: []int64{11, 20}, Price: nil, Quantity: int64p(3)},
	})
	require.NoError(t, err)

	//既存IDのまま更新されている
	v := s.variations[100]
	require.NotNil(t, v.Price)
	assert.Equal(t, int64(14), *v.Price)
	assert.Equal(t, int64(8), *v.Quantity)

	//入力に無かった組み合わせ行は消え、全体は2行
	assert.Len(t, s.productVariations(1), 2)

	found := false
	for _, row := range s.productVariations(1) {
		if row.OptionKey == "11,20" {
			found = true
			assert.Nil(t, row.Price)
			require.NotNil(t, row.Quantity)
			assert.Equal(t, int64(3), *row.Quantity)
		}
	}
	assert.True(t, found)
}

func TestSaveMatrixValidation(t *testing.T) {
	ctx := context.Background()
	_, uc := newVariationEnv(t)

	//軸の数と合わない
	err := uc.SaveMatrix(ctx, vendorActor(10), 1, []MatrixRowInput{
		{OptionIDs: []int64{10}},
	})
	require.Error(t, err)

	//存在しないoption
	err = uc.SaveMatrix(ctx, vendorActor(10), 1, []MatrixRowInput{
		{OptionIDs: []int64{10, 999}},
	})
	require.Error(t, err)

	//同じ軸から2つ
	err = uc.SaveMatrix(ctx, vendorActor(10), 1, []MatrixRowInput{
		{OptionIDs: []int64{10, 11}},
	})
	require.Error(t, err)

	//同じ集合の重複行
	err = uc.SaveMatrix(ctx, vendorActor(10), 1, []MatrixRowInput{
		{OptionIDs: []int64{10, 21}},
		{OptionIDs: []int64{21, 10}},
	})
	require.Error(t, err)
}

func TestSaveTypesReplacesAxes(t *testing.T) {
	ctx := context.Background()
	s, uc := newVariationEnv(t)

	saved, err := uc.SaveTypes(ctx, vendorActor(10), 1, []VariationTypeInput{
		{Name: "素材", Options: []VariationOptionInput{{Name: "綿"}, {Name: "麻"}}},
		{Name: "柄", Kind: model.VariationTypeKindImage, Options: []VariationOptionInput{{Name: "無地", ImageRef: "plain.jpg"}}},
	})
	require.NoError(t, err)
	require.Len(t, saved, 2)

	assert.Equal(t, int64(0), saved[0].Position)
	assert.Equal(t, int64(1), saved[1].Position)
	assert.Equal(t, model.VariationTypeKindSelect, saved[0].Kind)
	assert.Equal(t, model.VariationTypeKindImage, saved[1].Kind)
	require.Len(t, saved[0].Options, 2)
	assert.NotZero(t, saved[0].Options[0].ID)

	//丸ごと入れ替わっている
	types := s.types[1]
	require.Len(t, types, 2)
	assert.Equal(t, "素材", types[0].Name)
}

func TestVariationAdminOwnership(t *testing.T) {
	ctx := context.Background()
	_, uc := newVariationEnv(t)

	//商品1はvendor10のもの
	_, err := uc.Matrix(ctx, vendorActor(20), 1)
	require.Error(t, err)
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, 403, he.Status)

	//ADMINは誰の商品でも触れる
	_, err = uc.Matrix(ctx, Actor{UserID: 99, Role: model.RoleAdmin}, 1)
	require.NoError(t, err)

	//一般ユーザーは403
	_, err = uc.Matrix(ctx, Actor{UserID: 10, Role: model.RoleUser}, 1)
	require.Error(t, err)
}
