package orderrepo

import (
	"context"
	"errors"

	"dispatch/internal/adapters/out/postgres/pgerrors"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id int64, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order with its delivery windows.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	if err := db.Omit(clause.Associations).Create(&dto).Error; err != nil {
		if pgerrors.IsUniqueViolation(err) {
			return errs.NewObjectAlreadyExistsErrorWithCause("order_id", aggregate.ID(), err)
		}
		return err
	}

	if len(dto.DeliveryHours) > 0 {
		if err := db.Create(&dto.DeliveryHours).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves the assignment state of an existing order. Weight, region and
// delivery windows never change after import.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", dto.ID).Updates(map[string]any{
		"is_assign":   dto.IsAssign,
		"is_complete": dto.IsComplete,
		"courier_id":  dto.CourierID,
		"assign_time": dto.AssignTime,
	})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order_id", dto.ID)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Claim writes the assignment only while the row is still unassigned. A
// concurrent claim of the same row blocks on its row lock and, once the other
// transaction commits, matches nothing.
func (r *GormOrderRepository) Claim(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if !aggregate.IsOutstanding() {
		return errs.NewValueIsInvalidError("order_status")
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND is_assign = ?", dto.ID, false).
		Updates(map[string]any{
			"is_assign":   true,
			"courier_id":  dto.CourierID,
			"assign_time": dto.AssignTime,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectConflictError("order_id", dto.ID)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id int64) (*order.Order, error) {
	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Preload("DeliveryHours", orderByID).
		Take(&dto, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order_id", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllUnassigned lists orders waiting for a courier, lightest first.
func (r *GormOrderRepository) GetAllUnassigned(ctx context.Context) ([]*order.Order, error) {
	return r.find(r.db.WithContext(ctx).Where("is_assign = ?", false))
}

// GetOutstandingByCourier lists the courier's active batch in dispatch order,
// so a repeated assignment reports the batch exactly as it was formed.
func (r *GormOrderRepository) GetOutstandingByCourier(ctx context.Context, courierID int64) ([]*order.Order, error) {
	return r.find(r.db.WithContext(ctx).
		Where("courier_id = ? AND is_assign = ? AND is_complete = ?", courierID, true, false))
}

func (r *GormOrderRepository) find(db *gorm.DB) ([]*order.Order, error) {
	var dtos []OrderDTO
	if err := db.Preload("DeliveryHours", orderByID).Order("weight, id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

// ExistingIDs returns the stored subset of ids.
func (r *GormOrderRepository) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	existing := make([]int64, 0)
	if len(ids) == 0 {
		return existing, nil
	}

	if err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id IN ?", ids).
		Order("id").
		Pluck("id", &existing).Error; err != nil {
		return nil, err
	}

	return existing, nil
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}
