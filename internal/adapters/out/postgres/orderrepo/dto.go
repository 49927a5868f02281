// Package orderrepo maps order aggregates onto the orders and order_intervals tables.
package orderrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// OrderDTO is a row of the orders table. The status is kept as the two flags
// the table has always used.
type OrderDTO struct {
	ID            int64              `gorm:"primaryKey;autoIncrement:false"`
	Weight        decimal.Decimal    `gorm:"type:numeric(4,2);not null"`
	Region        int                `gorm:"not null"`
	IsAssign      bool               `gorm:"not null"`
	IsComplete    bool               `gorm:"not null"`
	CourierID     *int64             `gorm:"index"`
	AssignTime    *time.Time         `gorm:"type:timestamptz"`
	DeliveryHours []OrderIntervalDTO `gorm:"foreignKey:OrderID"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderIntervalDTO is one delivery window in minutes of the day.
type OrderIntervalDTO struct {
	ID          int64 `gorm:"primaryKey"`
	OrderID     int64 `gorm:"not null"`
	StartMinute int   `gorm:"type:smallint;not null"`
	EndMinute   int   `gorm:"type:smallint;not null"`
}

func (OrderIntervalDTO) TableName() string {
	return "order_intervals"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	isAssign, isComplete := aggregate.Status().Flags()

	dto := OrderDTO{
		ID:            aggregate.ID(),
		Weight:        aggregate.Weight(),
		Region:        aggregate.Region(),
		IsAssign:      isAssign,
		IsComplete:    isComplete,
		CourierID:     aggregate.CourierID(),
		AssignTime:    aggregate.AssignTime(),
		DeliveryHours: make([]OrderIntervalDTO, 0, len(aggregate.DeliveryHours())),
	}

	for _, h := range aggregate.DeliveryHours() {
		dto.DeliveryHours = append(dto.DeliveryHours, OrderIntervalDTO{
			OrderID:     aggregate.ID(),
			StartMinute: h.Start(),
			EndMinute:   h.End(),
		})
	}

	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	status, err := order.StatusFromFlags(dto.IsAssign, dto.IsComplete)
	if err != nil {
		return nil, err
	}

	hours := make([]kernel.TimeInterval, 0, len(dto.DeliveryHours))
	for _, h := range dto.DeliveryHours {
		interval, intervalErr := kernel.NewTimeInterval(h.StartMinute, h.EndMinute)
		if intervalErr != nil {
			return nil, intervalErr
		}
		hours = append(hours, interval)
	}

	var assignTime *time.Time
	if dto.AssignTime != nil {
		at := dto.AssignTime.UTC()
		assignTime = &at
	}

	return order.RestoreOrder(dto.ID, dto.Weight, dto.Region, hours, status, dto.CourierID, assignTime)
}
