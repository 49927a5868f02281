package queries

import (
	"context"

	"gorm.io/gorm"
)

type GetOrderBacklogQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderBacklogQueryHandler(db *gorm.DB) GetOrderBacklogQueryHandler {
	return GetOrderBacklogQueryHandler{db: db}
}

func (h GetOrderBacklogQueryHandler) Handle(
	ctx context.Context,
	query GetOrderBacklogQuery,
) (GetOrderBacklogQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderBacklogQueryResponse{}, err
	}

	var backlog GetOrderBacklogQueryResponse
	err := h.db.WithContext(ctx).Raw(`
		SELECT
			count(*) FILTER (WHERE NOT is_assign),
			count(*) FILTER (WHERE is_assign AND NOT is_complete),
			count(*) FILTER (WHERE is_complete)
		FROM orders
	`).Row().Scan(&backlog.Unassigned, &backlog.Active, &backlog.Completed)
	if err != nil {
		return GetOrderBacklogQueryResponse{}, err
	}

	return backlog, nil
}
