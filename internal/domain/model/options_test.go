package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptionSelectionKey(t *testing.T) {
	//同じ選択内容ならmapの並びに関係なく同じキーになる
	a := OptionSelection{1: 10, 2: 21}
	b := OptionSelection{2: 21, 1: 10}

	assert.Equal(t, "1:10,2:21", a.Key())
	assert.Equal(t, a.Key(), b.Key())
}

func TestOptionSelectionKeyEmpty(t *testing.T) {
	assert.Equal(t, "", OptionSelection{}.Key())
	assert.Equal(t, "", OptionSelection(nil).Key())
}

func TestOptionSelectionOptionIDs(t *testing.T) {
	s := OptionSelection{3: 30, 1: 12, 2: 5}
	assert.Equal(t, []int64{5, 12, 30}, s.OptionIDs())
}

func TestOptionSetKey(t *testing.T) {
	assert.Equal(t, "5,12,30", OptionSetKey([]int64{30, 5, 12}))
	assert.Equal(t, "", OptionSetKey(nil))
}

func TestSortedOptionIDsDoesNotMutate(t *testing.T) {
	in := []int64{3, 1, 2}
	out := SortedOptionIDs(in)

	assert.Equal(t, []int64{1, 2, 3}, out)
	assert.Equal(t, []int64{3, 1, 2}, in)
}

func TestEqualOptionIDs(t *testing.T) {
	assert.True(t, EqualOptionIDs([]int64{1, 2}, []int64{1, 2}))
	assert.False(t, EqualOptionIDs([]int64{1, 2}, []int64{1, 3}))
	assert.False(t, EqualOptionIDs([]int64{1}, []int64{1, 2}))
	assert.True(t, EqualOptionIDs(nil, nil))
}
