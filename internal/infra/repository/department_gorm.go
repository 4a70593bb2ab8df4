package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type DepartmentGormRepository struct {
	db *gorm.DB
}

func NewDepartmentGormRepository(db *gorm.DB) *DepartmentGormRepository {
	return &DepartmentGormRepository{db: db}
}

func (r *DepartmentGormRepository) ListActive(ctx context.Context) ([]model.Department, error) {
	var items []model.Department
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.Department{}, err
	}
	return items, nil
}

func (r *DepartmentGormRepository) FindByID(ctx context.Context, id int64) (model.Department, error) {
	var d model.Department
	err := r.db.WithContext(ctx).First(&d, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Department{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Department{}, err
	}
	return d, nil
}

func (r *DepartmentGormRepository) Create(ctx context.Context, d model.Department) (model.Department, error) {
	if err := r.db.WithContext(ctx).Create(&d).Error; err != nil {
		return model.Department{}, err
	}
	return d, nil
}

func (r *DepartmentGormRepository) Update(ctx context.Context, d model.Department) error {
	res := r.db.WithContext(ctx).Model(&model.Department{}).
		Where("id = ?", d.ID).
		Updates(map[string]interface{}{
			"name":      d.Name,
			"slug":      d.Slug,
			"is_active": d.IsActive,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *DepartmentGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Department{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
