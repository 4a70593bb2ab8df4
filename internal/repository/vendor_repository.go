package repository

import (
	"app/internal/domain/model"
	"context"
)

type VendorRepository interface {
	FindByUserID(ctx context.Context, userID int64) (model.Vendor, error)
	ListByUserIDs(ctx context.Context, userIDs []int64) ([]model.Vendor, error)
	Upsert(ctx context.Context, v model.Vendor) error
}
