package repository

import (
	"app/internal/domain/model"
	"context"
)

type DepartmentRepository interface {
	ListActive(ctx context.Context) ([]model.Department, error)
	FindByID(ctx context.Context, id int64) (model.Department, error)
	Create(ctx context.Context, d model.Department) (model.Department, error)
	Update(ctx context.Context, d model.Department) error
	Delete(ctx context.Context, id int64) error
}
