package http_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockCreateCouriersHandler struct{ mock.Mock }

func (m *MockCreateCouriersHandler) Handle(ctx context.Context, cmd commands.CreateCouriersCommand) ([]int64, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type MockUpdateCourierHandler struct{ mock.Mock }

func (m *MockUpdateCourierHandler) Handle(ctx context.Context, cmd commands.UpdateCourierCommand) (*courier.Courier, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Courier), args.Error(1)
}

type MockGetCourierHandler struct{ mock.Mock }

func (m *MockGetCourierHandler) Handle(
	ctx context.Context,
	query queries.GetCourierQuery,
) (queries.GetCourierQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.GetCourierQueryResponse), args.Error(1)
}

type MockCreateOrdersHandler struct{ mock.Mock }

func (m *MockCreateOrdersHandler) Handle(ctx context.Context, cmd commands.CreateOrdersCommand) ([]int64, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type MockAssignOrdersHandler struct{ mock.Mock }

func (m *MockAssignOrdersHandler) Handle(
	ctx context.Context,
	cmd commands.AssignOrdersCommand,
) (commands.AssignOrdersResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.AssignOrdersResult), args.Error(1)
}

type MockCompleteOrderHandler struct{ mock.Mock }

func (m *MockCompleteOrderHandler) Handle(ctx context.Context, cmd commands.CompleteOrderCommand) (int64, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(int64), args.Error(1)
}

type handlerMocks struct {
	createCouriers *MockCreateCouriersHandler
	updateCourier  *MockUpdateCourierHandler
	getCourier     *MockGetCourierHandler
	createOrders   *MockCreateOrdersHandler
	assignOrders   *MockAssignOrdersHandler
	completeOrder  *MockCompleteOrderHandler
}

func newHandlerMocks() handlerMocks {
	return handlerMocks{
		createCouriers: new(MockCreateCouriersHandler),
		updateCourier:  new(MockUpdateCourierHandler),
		getCourier:     new(MockGetCourierHandler),
		createOrders:   new(MockCreateOrdersHandler),
		assignOrders:   new(MockAssignOrdersHandler),
		completeOrder:  new(MockCompleteOrderHandler),
	}
}

func (m handlerMocks) handlers() httpin.Handlers {
	return httpin.Handlers{
		CreateCouriers: m.createCouriers,
		UpdateCourier:  m.updateCourier,
		GetCourier:     m.getCourier,
		CreateOrders:   m.createOrders,
		AssignOrders:   m.assignOrders,
		CompleteOrder:  m.completeOrder,
	}
}

func (m handlerMocks) assertExpectations(t *testing.T) {
	t.Helper()
	m.createCouriers.AssertExpectations(t)
	m.updateCourier.AssertExpectations(t)
	m.getCourier.AssertExpectations(t)
	m.createOrders.AssertExpectations(t)
	m.assignOrders.AssertExpectations(t)
	m.completeOrder.AssertExpectations(t)
}

func serve(t *testing.T, m handlerMocks, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := httpin.NewEcho(zap.NewNop())
	server, err := httpin.NewServer(m.handlers())
	require.NoError(t, err)
	server.Register(e)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newCourier(t *testing.T, id int64, typeTitle string, regions []int, hours ...string) *courier.Courier {
	t.Helper()
	catalog := map[string][2]int{"foot": {10, 2}, "bike": {15, 5}, "car": {50, 9}}
	params := catalog[typeTitle]
	courierType, err := courier.NewType(typeTitle, params[0], params[1])
	require.NoError(t, err)
	intervals, err := kernel.ParseTimeIntervals(hours)
	require.NoError(t, err)
	c, err := courier.NewCourier(id, courierType, regions, intervals)
	require.NoError(t, err)
	return c
}
