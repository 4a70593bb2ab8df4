package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// DepartmentUsecase は大分類の公開参照とADMIN管理。
type DepartmentUsecase struct {
	departments repo.DepartmentRepository
}

func NewDepartmentUsecase(departments repo.DepartmentRepository) *DepartmentUsecase {
	return &DepartmentUsecase{departments: departments}
}

func (u *DepartmentUsecase) ListActive(ctx context.Context) ([]model.Department, error) {
	deps, err := u.departments.ListActive(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return deps, nil
}

type DepartmentInput struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	IsActive bool   `json:"is_active"`
}

func (u *DepartmentUsecase) Create(ctx context.Context, actor Actor, in DepartmentInput) (*model.Department, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "name is required")
	}

	slug := in.Slug
	if slug == "" {
		slug = Slugify(in.Name)
	}

	d, err := u.departments.Create(ctx, model.Department{
		Name:     strings.TrimSpace(in.Name),
		Slug:     slug,
		IsActive: in.IsActive,
	})
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return &d, nil
}

func (u *DepartmentUsecase) Update(ctx context.Context, actor Actor, id int64, in DepartmentInput) (*model.Department, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "name is required")
	}

	d, err := u.departments.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewHTTPError(http.StatusNotFound, "department not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	d.Name = strings.TrimSpace(in.Name)
	if in.Slug != "" {
		d.Slug = in.Slug
	}
	d.IsActive = in.IsActive

	if err := u.departments.Update(ctx, d); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return &d, nil
}

func (u *DepartmentUsecase) Delete(ctx context.Context, actor Actor, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	if err := u.departments.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "department not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
