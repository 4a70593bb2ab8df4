// Package media はメディア参照をサイズ別のURLへ解決する。
package media

import "strings"

type Size string

const (
	SizeThumb Size = "thumb"
	SizeSmall Size = "small"
	SizeLarge Size = "large"
)

type Resolver interface {
	URL(ref string, size Size) string
}

// PathResolver はベースURL配下のパス規約でURLを組み立てる。
// 例: https://cdn.example.com/media/small/abc.jpg
type PathResolver struct {
	BaseURL string
}

func NewPathResolver(baseURL string) *PathResolver {
	return &PathResolver{BaseURL: strings.TrimRight(baseURL, "/")}
}

func (r *PathResolver) URL(ref string, size Size) string {
	if ref == "" {
		return ""
	}
	return r.BaseURL + "/media/" + string(size) + "/" + ref
}
