package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

type (
	CreateCouriersHandler interface {
		Handle(ctx context.Context, cmd commands.CreateCouriersCommand) ([]int64, error)
	}
	UpdateCourierHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateCourierCommand) (*courier.Courier, error)
	}
	CreateOrdersHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrdersCommand) ([]int64, error)
	}
	AssignOrdersHandler interface {
		Handle(ctx context.Context, cmd commands.AssignOrdersCommand) (commands.AssignOrdersResult, error)
	}
	CompleteOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CompleteOrderCommand) (int64, error)
	}
	GetCourierHandler interface {
		Handle(ctx context.Context, query queries.GetCourierQuery) (queries.GetCourierQueryResponse, error)
	}
)

// Handlers groups the use cases the server delegates to.
type Handlers struct {
	CreateCouriers CreateCouriersHandler
	UpdateCourier  UpdateCourierHandler
	GetCourier     GetCourierHandler
	CreateOrders   CreateOrdersHandler
	AssignOrders   AssignOrdersHandler
	CompleteOrder  CompleteOrderHandler
}

// Server translates the REST API into commands and queries.
type Server struct {
	handlers Handlers
}

func NewServer(handlers Handlers) (*Server, error) {
	if handlers.CreateCouriers == nil || handlers.UpdateCourier == nil || handlers.GetCourier == nil ||
		handlers.CreateOrders == nil || handlers.AssignOrders == nil || handlers.CompleteOrder == nil {
		return nil, errs.NewValueIsRequiredError("handlers")
	}
	return &Server{handlers: handlers}, nil
}

// Register mounts the API routes on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", s.Health)

	e.POST("/couriers", s.CreateCouriers)
	e.PATCH("/couriers/:courier_id", s.UpdateCourier)
	e.GET("/couriers/:courier_id", s.GetCourier)

	e.POST("/orders", s.CreateOrders)
	e.POST("/orders/assign", s.AssignOrders)
	e.POST("/orders/complete", s.CompleteOrder)
}

func (s *Server) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CreateCouriers handles POST /couriers. Every item that fails validation is
// reported; nothing is stored unless the whole batch is valid.
func (s *Server) CreateCouriers(c echo.Context) error {
	var req batchRequest
	if err := decodeStrict(c.Request().Body, &req); err != nil {
		return err
	}

	data := make([]commands.NewCourierData, 0, len(req.Data))
	invalid := make([]int64, 0)
	malformed := false

	for _, raw := range req.Data {
		var item courierItem
		err := decodeItem(raw, &item)
		if err == nil {
			err = c.Validate(&item)
		}
		if err != nil {
			if id, ok := itemID(raw, "courier_id"); ok {
				invalid = append(invalid, id)
			} else {
				malformed = true
			}
			continue
		}

		hours, err := kernel.ParseTimeIntervals(item.WorkingHours)
		if err != nil {
			invalid = append(invalid, item.CourierID)
			continue
		}

		data = append(data, commands.NewCourierData{
			ID:           item.CourierID,
			Type:         item.CourierType,
			Regions:      item.Regions,
			WorkingHours: hours,
		})
	}

	if len(invalid) > 0 || malformed {
		return errs.NewBatchIsInvalidError("couriers", invalid, nil)
	}

	cmd, err := commands.NewCreateCouriersCommand(data)
	if err != nil {
		return err
	}

	ids, err := s.handlers.CreateCouriers.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, couriersResponse{Couriers: newIDRefs(ids)})
}

// UpdateCourier handles PATCH /couriers/:courier_id.
func (s *Server) UpdateCourier(c echo.Context) error {
	courierID, err := pathID(c, "courier_id")
	if err != nil {
		return err
	}

	var patch courierPatch
	if err = decodeStrict(c.Request().Body, &patch); err != nil {
		return err
	}
	if err = c.Validate(&patch); err != nil {
		return err
	}

	changes := commands.CourierChanges{
		Type:    patch.CourierType,
		Regions: patch.Regions,
	}
	if patch.WorkingHours != nil {
		hours, parseErr := kernel.ParseTimeIntervals(*patch.WorkingHours)
		if parseErr != nil {
			return parseErr
		}
		changes.WorkingHours = &hours
	}

	cmd, err := commands.NewUpdateCourierCommand(courierID, changes)
	if err != nil {
		return err
	}

	updated, err := s.handlers.UpdateCourier.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newCourierResponse(updated))
}

// GetCourier handles GET /couriers/:courier_id.
func (s *Server) GetCourier(c echo.Context) error {
	courierID, err := pathID(c, "courier_id")
	if err != nil {
		return err
	}

	query, err := queries.NewGetCourierQuery(courierID)
	if err != nil {
		return err
	}

	profile, err := s.handlers.GetCourier.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newCourierProfileResponse(profile))
}

// CreateOrders handles POST /orders.
func (s *Server) CreateOrders(c echo.Context) error {
	var req batchRequest
	if err := decodeStrict(c.Request().Body, &req); err != nil {
		return err
	}

	data := make([]commands.NewOrderData, 0, len(req.Data))
	invalid := make([]int64, 0)
	malformed := false

	for _, raw := range req.Data {
		var item orderItem
		err := decodeItem(raw, &item)
		if err == nil {
			err = c.Validate(&item)
		}
		if err == nil && !hasTwoDecimals(item.Weight) {
			err = errs.NewValueIsInvalidError("weight")
		}
		if err != nil {
			if id, ok := itemID(raw, "order_id"); ok {
				invalid = append(invalid, id)
			} else {
				malformed = true
			}
			continue
		}

		hours, err := kernel.ParseTimeIntervals(item.DeliveryHours)
		if err != nil {
			invalid = append(invalid, item.OrderID)
			continue
		}

		data = append(data, commands.NewOrderData{
			ID:            item.OrderID,
			Weight:        item.Weight,
			Region:        item.Region,
			DeliveryHours: hours,
		})
	}

	if len(invalid) > 0 || malformed {
		return errs.NewBatchIsInvalidError("orders", invalid, nil)
	}

	cmd, err := commands.NewCreateOrdersCommand(data)
	if err != nil {
		return err
	}

	ids, err := s.handlers.CreateOrders.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, ordersResponse{Orders: newIDRefs(ids)})
}

// AssignOrders handles POST /orders/assign. An unknown courier is a bad request
// here, since the id comes from the body.
func (s *Server) AssignOrders(c echo.Context) error {
	var req assignRequest
	if err := decodeStrict(c.Request().Body, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	cmd, err := commands.NewAssignOrdersCommand(req.CourierID)
	if err != nil {
		return err
	}

	result, err := s.handlers.AssignOrders.Handle(c.Request().Context(), cmd)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return errs.NewValueIsInvalidErrorWithCause("courier_id", err)
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, assignResponse{
		Orders:     newIDRefs(result.OrderIDs),
		AssignTime: newAssignTime(result.AssignTime),
	})
}

// CompleteOrder handles POST /orders/complete.
func (s *Server) CompleteOrder(c echo.Context) error {
	var req completeRequest
	if err := decodeStrict(c.Request().Body, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	cmd, err := commands.NewCompleteOrderCommand(req.CourierID, req.OrderID, req.CompleteTime.Time())
	if err != nil {
		return err
	}

	orderID, err := s.handlers.CompleteOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, completeResponse{OrderID: orderID})
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}
