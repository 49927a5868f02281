package courierrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormCourierTypeRepository reads the courier_types catalog.
type GormCourierTypeRepository struct {
	db *gorm.DB
}

func NewGormCourierTypeRepository(db *gorm.DB) *GormCourierTypeRepository {
	return &GormCourierTypeRepository{db: db}
}

func (r *GormCourierTypeRepository) Get(ctx context.Context, title string) (courier.Type, error) {
	var dto CourierTypeDTO
	if err := r.db.WithContext(ctx).Take(&dto, "title = ?", title).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return courier.Type{}, errs.NewObjectNotFoundError("courier_type", title)
		}
		return courier.Type{}, err
	}

	return typeToDomain(dto)
}
