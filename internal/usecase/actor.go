package usecase

import (
	"net/http"

	"app/internal/domain/model"
)

// Actor は操作主体。ハンドラがJWTから組み立てて明示的に渡す。
// ゲストは UserID=0。
type Actor struct {
	UserID int64
	Role   model.Role
}

func requireVendor(a Actor) error {
	if a.UserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if a.Role != model.RoleVendor && a.Role != model.RoleAdmin {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}
	return nil
}

func requireAdmin(a Actor) error {
	if a.UserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if a.Role != model.RoleAdmin {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}
	return nil
}
