package courierrepo

import (
	"context"
	"errors"

	"dispatch/internal/adapters/out/postgres/pgerrors"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCourierRepository implements CourierRepository using GORM.
type GormCourierRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id int64, aggregate any)
}

// NewGormCourierRepository creates a new GORM courier repository.
func NewGormCourierRepository(db *gorm.DB, tracker aggregateTracker) *GormCourierRepository {
	return &GormCourierRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new courier with its region ledgers and working hours.
func (r *GormCourierRepository) Add(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	if err := db.Omit(clause.Associations).Create(&dto).Error; err != nil {
		if pgerrors.IsUniqueViolation(err) {
			return errs.NewObjectAlreadyExistsErrorWithCause("courier_id", aggregate.ID(), err)
		}
		if pgerrors.IsForeignKeyViolation(err) {
			return errs.NewValueIsInvalidErrorWithCause("courier_type", err)
		}
		return err
	}

	if len(dto.Regions) > 0 {
		if err := db.Create(&dto.Regions).Error; err != nil {
			return err
		}
	}

	if len(dto.WorkingHours) > 0 {
		if err := db.Create(&dto.WorkingHours).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing courier. Region ledgers are upserted by number and
// regions no longer served are deleted, so surviving regions keep their row
// and position. Working hours are reconciled by value.
func (r *GormCourierRepository) Update(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	result := db.Model(&CourierDTO{}).Where("id = ?", dto.ID).Updates(map[string]any{
		"courier_type":      dto.CourierType,
		"earning":           dto.Earning,
		"last_completed_at": dto.LastCompletedAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("courier_id", dto.ID)
	}

	if err := r.syncRegions(db, dto); err != nil {
		return err
	}

	if err := r.syncWorkingHours(db, dto); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormCourierRepository) syncRegions(db *gorm.DB, dto CourierDTO) error {
	numbers := make([]int, 0, len(dto.Regions))
	for _, region := range dto.Regions {
		numbers = append(numbers, region.Number)
	}

	stale := db.Where("courier_id = ?", dto.ID)
	if len(numbers) > 0 {
		stale = stale.Where("number NOT IN ?", numbers)
	}
	if err := stale.Delete(&RegionDTO{}).Error; err != nil {
		return err
	}

	if len(dto.Regions) == 0 {
		return nil
	}

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "courier_id"}, {Name: "number"}},
		DoUpdates: clause.AssignmentColumns([]string{"orders_count", "sum_time"}),
	}).Create(&dto.Regions).Error
}

func (r *GormCourierRepository) syncWorkingHours(db *gorm.DB, dto CourierDTO) error {
	var stored []CourierIntervalDTO
	if err := db.Where("courier_id = ?", dto.ID).Order("id").Find(&stored).Error; err != nil {
		return err
	}

	type window struct{ start, end int }
	wanted := make(map[window]struct{}, len(dto.WorkingHours))
	for _, h := range dto.WorkingHours {
		wanted[window{h.StartMinute, h.EndMinute}] = struct{}{}
	}

	kept := make(map[window]struct{}, len(stored))
	staleIDs := make([]int64, 0)
	for _, h := range stored {
		w := window{h.StartMinute, h.EndMinute}
		if _, ok := wanted[w]; ok {
			kept[w] = struct{}{}
			continue
		}
		staleIDs = append(staleIDs, h.ID)
	}

	if len(staleIDs) > 0 {
		if err := db.Where("id IN ?", staleIDs).Delete(&CourierIntervalDTO{}).Error; err != nil {
			return err
		}
	}

	added := make([]CourierIntervalDTO, 0)
	for _, h := range dto.WorkingHours {
		if _, ok := kept[window{h.StartMinute, h.EndMinute}]; !ok {
			added = append(added, h)
		}
	}
	if len(added) == 0 {
		return nil
	}

	return db.Create(&added).Error
}

// Get retrieves a courier by ID.
func (r *GormCourierRepository) Get(ctx context.Context, id int64) (*courier.Courier, error) {
	return r.load(r.db.WithContext(ctx), id)
}

// GetForUpdate locks the courier row with SELECT ... FOR UPDATE, then loads the
// aggregate. The lock is held until the surrounding transaction ends.
func (r *GormCourierRepository) GetForUpdate(ctx context.Context, id int64) (*courier.Courier, error) {
	db := r.db.WithContext(ctx)

	var locked CourierDTO
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Take(&locked, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier_id", id)
		}
		return nil, err
	}

	return r.load(db, id)
}

func (r *GormCourierRepository) load(db *gorm.DB, id int64) (*courier.Courier, error) {
	var dto CourierDTO
	err := db.
		Preload("Type").
		Preload("Regions", orderByID).
		Preload("WorkingHours", orderByID).
		Take(&dto, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier_id", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

// ExistingIDs returns the stored subset of ids.
func (r *GormCourierRepository) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	existing := make([]int64, 0)
	if len(ids) == 0 {
		return existing, nil
	}

	if err := r.db.WithContext(ctx).
		Model(&CourierDTO{}).
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
