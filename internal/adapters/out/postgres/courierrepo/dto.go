// Package courierrepo maps courier aggregates onto the couriers, regions,
// courier_intervals and courier_types tables.
package courierrepo

import (
	"math"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// CourierDTO is a row of the couriers table together with its child rows.
type CourierDTO struct {
	ID              int64                `gorm:"primaryKey;autoIncrement:false"`
	CourierType     string               `gorm:"column:courier_type;not null"`
	Earning         int64                `gorm:"not null"`
	LastCompletedAt *time.Time           `gorm:"type:timestamptz"`
	Type            CourierTypeDTO       `gorm:"foreignKey:CourierType;references:Title"`
	Regions         []RegionDTO          `gorm:"foreignKey:CourierID"`
	WorkingHours    []CourierIntervalDTO `gorm:"foreignKey:CourierID"`
}

func (CourierDTO) TableName() string {
	return "couriers"
}

// CourierTypeDTO is a row of the seeded courier type catalog.
type CourierTypeDTO struct {
	Title       string `gorm:"primaryKey"`
	Carrying    int    `gorm:"not null"`
	Coefficient int    `gorm:"not null"`
}

func (CourierTypeDTO) TableName() string {
	return "courier_types"
}

// RegionDTO is a region ledger. The serial id keeps the order regions were added in.
type RegionDTO struct {
	ID          int64 `gorm:"primaryKey"`
	CourierID   int64 `gorm:"not null"`
	Number      int   `gorm:"not null"`
	OrdersCount int   `gorm:"not null"`
	// SumTime is stored in seconds.
	SumTime float64 `gorm:"type:double precision;not null"`
}

func (RegionDTO) TableName() string {
	return "regions"
}

// CourierIntervalDTO is one working window in minutes of the day.
type CourierIntervalDTO struct {
	ID          int64 `gorm:"primaryKey"`
	CourierID   int64 `gorm:"not null"`
	StartMinute int   `gorm:"type:smallint;not null"`
	EndMinute   int   `gorm:"type:smallint;not null"`
}

func (CourierIntervalDTO) TableName() string {
	return "courier_intervals"
}

func fromDomain(aggregate *courier.Courier) CourierDTO {
	dto := CourierDTO{
		ID:              aggregate.ID(),
		CourierType:     aggregate.Type().Title(),
		Earning:         aggregate.Earning(),
		LastCompletedAt: aggregate.LastCompletedAt(),
		Regions:         make([]RegionDTO, 0, len(aggregate.Regions())),
		WorkingHours:    make([]CourierIntervalDTO, 0, len(aggregate.WorkingHours())),
	}

	for _, r := range aggregate.Regions() {
		dto.Regions = append(dto.Regions, RegionDTO{
			CourierID:   aggregate.ID(),
			Number:      r.Number(),
			OrdersCount: r.OrdersCount(),
			SumTime:     r.SumTime().Seconds(),
		})
	}

	for _, h := range aggregate.WorkingHours() {
		dto.WorkingHours = append(dto.WorkingHours, intervalFromDomain(aggregate.ID(), h))
	}

	return dto
}

func intervalFromDomain(courierID int64, h kernel.TimeInterval) CourierIntervalDTO {
	return CourierIntervalDTO{
		CourierID:   courierID,
		StartMinute: h.Start(),
		EndMinute:   h.End(),
	}
}

func toDomain(dto CourierDTO) (*courier.Courier, error) {
	courierType, err := typeToDomain(dto.Type)
	if err != nil {
		return nil, err
	}

	regions := make([]*courier.Region, 0, len(dto.Regions))
	for _, r := range dto.Regions {
		region, regionErr := courier.RestoreRegion(r.Number, r.OrdersCount, secondsToDuration(r.SumTime))
		if regionErr != nil {
			return nil, regionErr
		}
		regions = append(regions, region)
	}

	hours := make([]kernel.TimeInterval, 0, len(dto.WorkingHours))
	for _, h := range dto.WorkingHours {
		interval, intervalErr := kernel.NewTimeInterval(h.StartMinute, h.EndMinute)
		if intervalErr != nil {
			return nil, intervalErr
		}
		hours = append(hours, interval)
	}

	var lastCompletedAt *time.Time
	if dto.LastCompletedAt != nil {
		at := dto.LastCompletedAt.UTC()
		lastCompletedAt = &at
	}

	return courier.RestoreCourier(dto.ID, courierType, dto.Earning, lastCompletedAt, regions, hours)
}

func typeToDomain(dto CourierTypeDTO) (courier.Type, error) {
	return courier.NewType(dto.Title, dto.Carrying, dto.Coefficient)
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(math.Round(seconds * float64(time.Second)))
}
