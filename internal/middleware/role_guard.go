package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

//contextに入っているroleを確認します。

func AdminRoleGuard() echo.MiddlewareFunc {
	return roleGuard(map[string]bool{"ADMIN": true}, "admin only")
}

// 出品系はVENDORとADMINだけ許可
func VendorRoleGuard() echo.MiddlewareFunc {
	return roleGuard(map[string]bool{"VENDOR": true, "ADMIN": true}, "vendor only")
}

func roleGuard(allowed map[string]bool, msg string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawRole := c.Get(CtxUserRoleKey)
			role, ok := rawRole.(string)
			if !ok || role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			if !allowed[role] {
				return c.JSON(http.StatusForbidden, errorJSON(msg))
			}

			return next(c)
		}
	}
}
