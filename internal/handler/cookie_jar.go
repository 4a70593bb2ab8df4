package handler

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
)

// echoCookieJar は repo.CookieJar のecho実装。
// JSON文書をそのままcookie値にできないのでURLエンコードして持つ。
type echoCookieJar struct {
	c echo.Context
}

func newEchoCookieJar(c echo.Context) *echoCookieJar {
	return &echoCookieJar{c: c}
}

func (j *echoCookieJar) Get(name string) (string, bool) {
	ck, err := j.c.Cookie(name)
	if err != nil || ck.Value == "" {
		return "", false
	}

	raw, err := url.QueryUnescape(ck.Value)
	if err != nil {
		return "", false
	}
	return raw, true
}

func (j *echoCookieJar) Set(name string, value string, maxAge int) {
	j.c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    url.QueryEscape(value),
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
