package http_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewServer_RequiresEveryHandler(t *testing.T) {
	handlers := newHandlerMocks().handlers()
	handlers.CompleteOrder = nil

	server, err := httpin.NewServer(handlers)

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.Nil(t, server)
}

func TestServer_Health(t *testing.T) {
	rec := serve(t, newHandlerMocks(), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_CreateCouriers(t *testing.T) {
	m := newHandlerMocks()
	m.createCouriers.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateCouriersCommand) bool {
		couriers := cmd.Couriers()
		return len(couriers) == 2 &&
			couriers[0].ID == 1 && couriers[0].Type == "foot" &&
			assert.ObjectsAreEqual([]int{1, 12, 22}, couriers[0].Regions) &&
			len(couriers[0].WorkingHours) == 2 && couriers[0].WorkingHours[0].String() == "11:35-14:05" &&
			couriers[1].ID == 2 && couriers[1].Type == "bike"
	})).Return([]int64{1, 2}, nil).Once()

	rec := serve(t, m, http.MethodPost, "/couriers", `{"data":[
		{"courier_id":1,"courier_type":"foot","regions":[1,12,22],"working_hours":["11:35-14:05","09:00-11:00"]},
		{"courier_id":2,"courier_type":"bike","regions":[22],"working_hours":["09:00-18:00"]}
	]}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"couriers":[{"id":1},{"id":2}]}`, rec.Body.String())
	m.assertExpectations(t)
}

func TestServer_CreateCouriers_ReportsEveryInvalidItem(t *testing.T) {
	m := newHandlerMocks()

	rec := serve(t, m, http.MethodPost, "/couriers", `{"data":[
		{"courier_id":1,"courier_type":"foot","regions":[1],"working_hours":["11:35-14:05"]},
		{"courier_id":2,"courier_type":"bike","regions":[1],"working_hours":["11:35-14:05"],"rating":5},
		{"courier_id":3,"regions":[1],"working_hours":["11:35-14:05"]},
		{"courier_id":4,"courier_type":"car","regions":[1],"working_hours":["18:00-09:00"]},
		{"courier_id":5,"courier_type":"car","regions":[-1],"working_hours":[]}
	]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"validation_error":{"couriers":[{"id":2},{"id":3},{"id":4},{"id":5}]}}`, rec.Body.String())
	m.assertExpectations(t)
}

func TestServer_CreateCouriers_DuplicateIDs(t *testing.T) {
	m := newHandlerMocks()

	rec := serve(t, m, http.MethodPost, "/couriers", `{"data":[
		{"courier_id":7,"courier_type":"foot","regions":[1],"working_hours":[]},
		{"courier_id":7,"courier_type":"bike","regions":[2],"working_hours":[]}
	]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"validation_error":{"couriers":[{"id":7}]}}`, rec.Body.String())
	m.assertExpectations(t)
}

func TestServer_CreateCouriers_RejectedByHandler(t *testing.T) {
	m := newHandlerMocks()
	m.createCouriers.On("Handle", mock.Anything, mock.Anything).
		Return(nil, errs.NewBatchIsInvalidError("couriers", []int64{1}, errs.ErrObjectAlreadyExists)).Once()

	rec := serve(t, m, http.MethodPost, "/couriers",
		`{"data":[{"courier_id":1,"courier_type":"foot","regions":[1],"working_hours":[]}]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"validation_error":{"couriers":[{"id":1}]}}`, rec.Body.String())
	m.assertExpectations(t)
}

func TestServer_CreateCouriers_MalformedBody(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "not_json", body: `data`},
		{name: "unknown_top_level_field", body: `{"data":[],"extra":1}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := newHandlerMocks()

			rec := serve(t, m, http.MethodPost, "/couriers", tc.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			m.assertExpectations(t)
		})
	}
}

func TestServer_CreateCouriers_ItemWithoutIDKeepsKey(t *testing.T) {
	m := newHandlerMocks()

	rec := serve(t, m, http.MethodPost, "/couriers", `{"data":[{"courier_type":"foot"}]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"validation_error":{"couriers":[]}}`, rec.Body.String())
	m.assertExpectations(t)
}

func TestServer_CreateEmptyBatch(t *testing.T) {
	t.Run("couriers", func(t *testing.T) {
		m := newHandlerMocks()
		m.createCouriers.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateCouriersCommand) bool {
			return len(cmd.Couriers()) == 0
		})).Return([]int64{}, nil).Once()

		rec := serve(t, m, http.MethodPost, "/couriers", `{"data":[]}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"couriers":[]}`, rec.Body.String())
		m.assertExpectations(t)
	})

	t.Run("orders", func(t *testing.T) {
		m := newHandlerMocks()
		m.createOrders.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateOrdersCommand) bool {
			return len(cmd.Orders()) == 0
		})).Return([]int64{}, nil).Once()

		rec := serve(t, m, http.MethodPost, "/orders", `{"data":[]}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"orders":[]}`, rec.Body.String())
		m.assertExpectations(t)
	})
}

func TestServer_CreateOrders_ItemWithoutIDKeepsKey(t *testing.T) {
	m := newHandlerMocks()

	rec := serve(t, m, http.MethodPost, "/orders", `{"data":[{"weight":1,"region":1}]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"validation_error":{"orders":[]}}`, rec.Body.String())
	m.assertExpectations(t)
}

func TestServer_CreateOrders(t *testing.T) {
	m := newHandlerMocks()
	m.createOrders.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateOrdersCommand) bool {
		orders := cmd.Orders()
		return len(orders) == 2 &&
			orders[0].ID == 1 && orders[0].Weight.Equal(decimal.RequireFromString("0.23")) &&
			orders[0].Region == 12 && orders[0].DeliveryHours[0].String() == "09:00-18:00" &&
			orders[1].ID == 2 && orders[1].Weight.Equal(decimal.NewFromInt(15))
	})).Return([]int64{1, 2}, nil).Once()

	rec := serve(t, m, http.MethodPost, "/orders", `{"data":[
		{"order_id":1,"weight":0.23,"region":12,"delivery_hours":["09:00-18:00"]},
		{"order_id":2,"weight":15,"region":1,"delivery_hours":["09:00-18:00"]}
	]}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"orders":[{"id":1},{"id":2}]}`, rec.Body.String())
	m.assertExpectations(t)
}

func TestServer_CreateOrders_ValidatesWeight(t *testing.T) {
	m := newHandlerMocks()

	rec := serve(t, m, http.MethodPost, "/orders", `{"data":[
		{"order_id":1,"weight":0.01,"region":1,"delivery_hours":["09:00-18:00"]},
		{"order_id":2,"weight":0.001,"region":1,"delivery_hours":["09:00-18:00"]},
		{"order_id":3,"weight":50.01,"region":1,"delivery_hours":["09:00-18:00"]},
		{"order_id":4,"weight":1.234,"region":1,"delivery_hours":["09:00-18:00"]},
		{"order_id":5,"region":1,"delivery_hours":["09:00-18:00"]},
		{"order_id":6,"weight":50,"region":1,"delivery_hours":[]}
	]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"validation_error":{"orders":[{"id":2},{"id":3},{"id":4},{"id":5},{"id":6}]}}`,
		rec.Body.String())
	m.assertExpectations(t)
}

func TestServer_UpdateCourier(t *testing.T) {
	m := newHandlerMocks()
	updated := newCourier(t, 2, "car", []int{1, 2}, "09:00-18:00")
	m.updateCourier.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.UpdateCourierCommand) bool {
		changes := cmd.Changes()
		return cmd.CourierID() == 2 &&
			changes.Type != nil && *changes.Type == "car" &&
			changes.Regions != nil && assert.ObjectsAreEqual([]int{1, 2}, *changes.Regions) &&
			changes.WorkingHours == nil
	})).Return(updated, nil).Once()

	rec := serve(t, m, http.MethodPatch, "/couriers/2", `{"courier_type":"car","regions":[1,2]}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"courier_id":2,"courier_type":"car","regions":[1,2],"working_hours":["09:00-18:00"]}`,
		rec.Body.String())
	m.assertExpectations(t)
}

func TestServer_UpdateCourier_Errors(t *testing.T) {
	testCases := []struct {
		name       string
		target     string
		body       string
		handlerErr error
		wantStatus int
	}{
		{name: "empty_patch", target: "/couriers/2", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "unknown_field", target: "/couriers/2", body: `{"rating":5}`, wantStatus: http.StatusBadRequest},
		{name: "bad_hours", target: "/couriers/2", body: `{"working_hours":["25:00-26:00"]}`,
			wantStatus: http.StatusBadRequest},
		{name: "bad_path_id", target: "/couriers/abc", body: `{"regions":[1]}`, wantStatus: http.StatusBadRequest},
		{name: "unknown_courier", target: "/couriers/9", body: `{"regions":[1]}`,
			handlerErr: errs.NewObjectNotFoundError("courier_id", int64(9)), wantStatus: http.StatusNotFound},
		{name: "region_with_active_order", target: "/couriers/2", body: `{"regions":[3]}`,
			handlerErr: errs.NewValueIsInvalidError("regions"), wantStatus: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := newHandlerMocks()
			if tc.handlerErr != nil {
				m.updateCourier.On("Handle", mock.Anything, mock.Anything).Return(nil, tc.handlerErr).Once()
			}

			rec := serve(t, m, http.MethodPatch, tc.target, tc.body)

			assert.Equal(t, tc.wantStatus, rec.Code)
			m.assertExpectations(t)
		})
	}
}

func TestServer_GetCourier(t *testing.T) {
	t.Run("with_performance", func(t *testing.T) {
		m := newHandlerMocks()
		earnings := int64(1000)
		rating := decimal.RequireFromString("3.96")
		m.getCourier.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetCourierQuery) bool {
			return q.CourierID() == 2
		})).Return(queries.GetCourierQueryResponse{
			ID:           2,
			Type:         "foot",
			Regions:      []int{1, 12},
			WorkingHours: []string{"11:35-14:05"},
			Earnings:     &earnings,
			Rating:       &rating,
		}, nil).Once()

		rec := serve(t, m, http.MethodGet, "/couriers/2", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"courier_id":2,"courier_type":"foot","regions":[1,12],
			"working_hours":["11:35-14:05"],"earnings":1000,"rating":3.96}`, rec.Body.String())
		m.assertExpectations(t)
	})

	t.Run("without_deliveries", func(t *testing.T) {
		m := newHandlerMocks()
		m.getCourier.On("Handle", mock.Anything, mock.Anything).Return(queries.GetCourierQueryResponse{
			ID:           3,
			Type:         "bike",
			Regions:      []int{},
			WorkingHours: []string{},
		}, nil).Once()

		rec := serve(t, m, http.MethodGet, "/couriers/3", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"courier_id":3,"courier_type":"bike","regions":[],"working_hours":[]}`,
			rec.Body.String())
		m.assertExpectations(t)
	})

	t.Run("unknown_courier", func(t *testing.T) {
		m := newHandlerMocks()
		m.getCourier.On("Handle", mock.Anything, mock.Anything).
			Return(queries.GetCourierQueryResponse{}, errs.NewObjectNotFoundError("courier_id", int64(4))).Once()

		rec := serve(t, m, http.MethodGet, "/couriers/4", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"code":404,"message":"object not found: 4"}`, rec.Body.String())
		m.assertExpectations(t)
	})

	t.Run("non_positive_id", func(t *testing.T) {
		m := newHandlerMocks()

		rec := serve(t, m, http.MethodGet, "/couriers/0", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		m.assertExpectations(t)
	})
}

func TestServer_AssignOrders(t *testing.T) {
	t.Run("new_batch", func(t *testing.T) {
		m := newHandlerMocks()
		assignTime := time.Date(2021, 1, 10, 9, 32, 14, 420000000, time.UTC)
		m.assignOrders.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.AssignOrdersCommand) bool {
			return cmd.CourierID() == 2
		})).Return(commands.AssignOrdersResult{OrderIDs: []int64{1, 3}, AssignTime: &assignTime}, nil).Once()

		rec := serve(t, m, http.MethodPost, "/orders/assign", `{"courier_id":2}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"orders":[{"id":1},{"id":3}],"assign_time":"2021-01-10T09:32:14.420000Z"}`,
			rec.Body.String())
		m.assertExpectations(t)
	})

	t.Run("nothing_to_assign", func(t *testing.T) {
		m := newHandlerMocks()
		m.assignOrders.On("Handle", mock.Anything, mock.Anything).
			Return(commands.AssignOrdersResult{OrderIDs: []int64{}}, nil).Once()

		rec := serve(t, m, http.MethodPost, "/orders/assign", `{"courier_id":2}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"orders":[]}`, rec.Body.String())
		m.assertExpectations(t)
	})

	t.Run("unknown_courier_is_bad_request", func(t *testing.T) {
		m := newHandlerMocks()
		m.assignOrders.On("Handle", mock.Anything, mock.Anything).
			Return(commands.AssignOrdersResult{}, errs.NewObjectNotFoundError("courier_id", int64(9))).Once()

		rec := serve(t, m, http.MethodPost, "/orders/assign", `{"courier_id":9}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		m.assertExpectations(t)
	})

	t.Run("store_failure_hides_details", func(t *testing.T) {
		m := newHandlerMocks()
		m.assignOrders.On("Handle", mock.Anything, mock.Anything).
			Return(commands.AssignOrdersResult{}, errors.New("connection reset by peer")).Once()

		rec := serve(t, m, http.MethodPost, "/orders/assign", `{"courier_id":2}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"code":500,"message":"Internal Server Error"}`, rec.Body.String())
		m.assertExpectations(t)
	})

	t.Run("missing_courier_id", func(t *testing.T) {
		m := newHandlerMocks()

		rec := serve(t, m, http.MethodPost, "/orders/assign", `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		m.assertExpectations(t)
	})
}

func TestServer_CompleteOrder(t *testing.T) {
	testCases := []struct {
		name         string
		completeTime string
		want         time.Time
	}{
		{
			name:         "offset_time",
			completeTime: "2021-01-10T10:33:01.42Z",
			want:         time.Date(2021, 1, 10, 10, 33, 1, 420000000, time.UTC),
		},
		{
			name:         "foreign_offset_is_normalized",
			completeTime: "2021-01-10T13:33:01.42+03:00",
			want:         time.Date(2021, 1, 10, 10, 33, 1, 420000000, time.UTC),
		},
		{
			name:         "naive_time_is_utc",
			completeTime: "2021-01-10T10:33:01.42",
			want:         time.Date(2021, 1, 10, 10, 33, 1, 420000000, time.UTC),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := newHandlerMocks()
			m.completeOrder.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CompleteOrderCommand) bool {
				return cmd.CourierID() == 2 && cmd.OrderID() == 33 && cmd.CompleteTime().Equal(tc.want)
			})).Return(int64(33), nil).Once()

			rec := serve(t, m, http.MethodPost, "/orders/complete",
				`{"courier_id":2,"order_id":33,"complete_time":"`+tc.completeTime+`"}`)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"order_id":33}`, rec.Body.String())
			m.assertExpectations(t)
		})
	}
}

func TestServer_CompleteOrder_Errors(t *testing.T) {
	testCases := []struct {
		name       string
		body       string
		handlerErr error
		wantStatus int
	}{
		{name: "missing_time", body: `{"courier_id":2,"order_id":33}`, wantStatus: http.StatusBadRequest},
		{name: "garbage_time", body: `{"courier_id":2,"order_id":33,"complete_time":"yesterday"}`,
			wantStatus: http.StatusBadRequest},
		{name: "unknown_field",
			body:       `{"courier_id":2,"order_id":33,"complete_time":"2021-01-10T10:33:01Z","note":"x"}`,
			wantStatus: http.StatusBadRequest},
		{name: "not_owned",
			body:       `{"courier_id":2,"order_id":33,"complete_time":"2021-01-10T10:33:01Z"}`,
			handlerErr: errs.NewValueIsInvalidError("order_id"), wantStatus: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := newHandlerMocks()
			if tc.handlerErr != nil {
				m.completeOrder.On("Handle", mock.Anything, mock.Anything).Return(int64(0), tc.handlerErr).Once()
			}

			rec := serve(t, m, http.MethodPost, "/orders/complete", tc.body)

			assert.Equal(t, tc.wantStatus, rec.Code)
			m.assertExpectations(t)
		})
	}
}

func TestServer_UnknownRoute(t *testing.T) {
	rec := serve(t, newHandlerMocks(), http.MethodGet, "/orders", "")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
