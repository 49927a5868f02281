package queries

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetCourierQueryHandler assembles the courier read model from a single
// read-only snapshot, so a concurrent completion is seen either entirely or not at all.
type GetCourierQueryHandler struct {
	db        *gorm.DB
	evaluator services.PerformanceEvaluator
}

func NewGetCourierQueryHandler(db *gorm.DB) GetCourierQueryHandler {
	return GetCourierQueryHandler{
		db:        db,
		evaluator: services.NewPerformanceEvaluator(),
	}
}

// Handle yields errs.ErrObjectNotFound for unknown couriers.
func (h GetCourierQueryHandler) Handle(ctx context.Context, query GetCourierQuery) (GetCourierQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetCourierQueryResponse{}, err
	}

	var (
		response GetCourierQueryResponse
		earning  int64
		regions  []*courier.Region
	)

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := tx.Raw(`
			SELECT id, courier_type, earning
			FROM couriers
			WHERE id = ?
		`, query.CourierID()).Row()
		if err := row.Scan(&response.ID, &response.Type, &earning); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errs.NewObjectNotFoundError("courier_id", query.CourierID())
			}
			return err
		}

		var err error
		if regions, err = h.regions(tx, query.CourierID()); err != nil {
			return err
		}

		response.WorkingHours, err = h.workingHours(tx, query.CourierID())
		return err
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return GetCourierQueryResponse{}, err
	}

	response.Regions = make([]int, 0, len(regions))
	for _, r := range regions {
		response.Regions = append(response.Regions, r.Number())
	}

	if performance := h.evaluator.Evaluate(earning, regions); performance.Visible {
		response.Earnings = &performance.Earnings
		response.Rating = &performance.Rating
	}

	return response, nil
}

func (h GetCourierQueryHandler) regions(tx *gorm.DB, courierID int64) ([]*courier.Region, error) {
	rows, err := tx.Raw(`
		SELECT number, orders_count, sum_time
		FROM regions
		WHERE courier_id = ?
		ORDER BY id
	`, courierID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regions := make([]*courier.Region, 0)
	for rows.Next() {
		var (
			number, ordersCount int
			sumTime             float64
		)
		if err = rows.Scan(&number, &ordersCount, &sumTime); err != nil {
			return nil, err
		}

		region, regionErr := courier.RestoreRegion(number, ordersCount,
			time.Duration(math.Round(sumTime*float64(time.Second))))
		if regionErr != nil {
			return nil, regionErr
		}
		regions = append(regions, region)
	}

	return regions, rows.Err()
}

func (h GetCourierQueryHandler) workingHours(tx *gorm.DB, courierID int64) ([]string, error) {
	rows, err := tx.Raw(`
		SELECT start_minute, end_minute
		FROM courier_intervals
		WHERE courier_id = ?
		ORDER BY id
	`, courierID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hours := make([]string, 0)
	for rows.Next() {
		var start, end int
		if err = rows.Scan(&start, &end); err != nil {
			return nil, err
		}

		interval, intervalErr := kernel.NewTimeInterval(start, end)
		if intervalErr != nil {
			return nil, intervalErr
		}
		hours = append(hours, interval.String())
	}

	return hours, rows.Err()
}
