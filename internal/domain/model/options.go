package model

import (
	"sort"
	"strconv"
	"strings"
)

// OptionSelection は variation_type_id -> option_id の選択内容。
// 選択順に依存しないよう、直列化は必ず type_id 昇順で行う。
type OptionSelection map[int64]int64

// Key はカート行の検索・重複判定に使う正規化キーを返す。
// 例: "1:10,2:21"（type_id昇順）。未選択は空文字。
func (s OptionSelection) Key() string {
	if len(s) == 0 {
		return ""
	}

	typeIDs := make([]int64, 0, len(s))
	for tid := range s {
		typeIDs = append(typeIDs, tid)
	}
	sort.Slice(typeIDs, func(i, j int) bool { return typeIDs[i] < typeIDs[j] })

	parts := make([]string, 0, len(typeIDs))
	for _, tid := range typeIDs {
		parts = append(parts, strconv.FormatInt(tid, 10)+":"+strconv.FormatInt(s[tid], 10))
	}
	return strings.Join(parts, ",")
}

// OptionIDs はoption_idだけを昇順で返す。Variationとの突き合わせ用。
func (s OptionSelection) OptionIDs() []int64 {
	ids := make([]int64, 0, len(s))
	for _, oid := range s {
		ids = append(ids, oid)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SortedOptionIDs はコピーを昇順ソートして返す。
func SortedOptionIDs(ids []int64) []int64 {
	out := make([]int64, len(ids))
	copy(out, ids)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// EqualOptionIDs はソート済み前提で要素一致を判定する。
func EqualOptionIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// OptionSetKey はoption_idの集合キー（昇順カンマ区切り）を返す。
// Variationの一意制約に使う。
func OptionSetKey(ids []int64) string {
	sorted := SortedOptionIDs(ids)
	parts := make([]string, 0, len(sorted))
	for _, id := range sorted {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ",")
}
