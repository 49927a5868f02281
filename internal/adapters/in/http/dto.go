package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// assignTimeLayout always renders six fractional digits and a literal Z.
const assignTimeLayout = "2006-01-02T15:04:05.000000Z"

// naiveTimeLayout accepts a complete_time without an offset; it is read as UTC.
const naiveTimeLayout = "2006-01-02T15:04:05.999999999"

type batchRequest struct {
	Data []json.RawMessage `json:"data"`
}

type courierItem struct {
	CourierID    int64    `json:"courier_id"    validate:"required,gt=0"`
	CourierType  string   `json:"courier_type"  validate:"required"`
	Regions      []int    `json:"regions"       validate:"required,unique,dive,gt=0"`
	WorkingHours []string `json:"working_hours" validate:"required,dive,time_interval"`
}

type orderItem struct {
	OrderID       int64           `json:"order_id"       validate:"required,gt=0"`
	Weight        decimal.Decimal `json:"weight"         validate:"gte=0.01,lte=50"`
	Region        int             `json:"region"         validate:"required,gt=0"`
	DeliveryHours []string        `json:"delivery_hours" validate:"required,min=1,dive,time_interval"`
}

type courierPatch struct {
	CourierType  *string   `json:"courier_type"  validate:"omitempty,min=1"`
	Regions      *[]int    `json:"regions"       validate:"omitempty,unique,dive,gt=0"`
	WorkingHours *[]string `json:"working_hours" validate:"omitempty,dive,time_interval"`
}

type assignRequest struct {
	CourierID int64 `json:"courier_id" validate:"required,gt=0"`
}

type completeRequest struct {
	CourierID    int64      `json:"courier_id"    validate:"required,gt=0"`
	OrderID      int64      `json:"order_id"      validate:"required,gt=0"`
	CompleteTime *timestamp `json:"complete_time" validate:"required"`
}

// timestamp accepts RFC 3339 and offset-less ISO 8601 date-times.
type timestamp time.Time

func (t *timestamp) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("complete_time", err)
	}
	for _, layout := range []string{time.RFC3339Nano, naiveTimeLayout} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			*t = timestamp(parsed)
			return nil
		}
	}
	return errs.NewValueIsInvalidErrorWithCause("complete_time", fmt.Errorf("unsupported format %q", raw))
}

func (t *timestamp) Time() time.Time {
	if t == nil {
		return time.Time{}
	}
	return time.Time(*t)
}

type idRef struct {
	ID int64 `json:"id"`
}

type couriersResponse struct {
	Couriers []idRef `json:"couriers"`
}

type ordersResponse struct {
	Orders []idRef `json:"orders"`
}

// validationErrorResponse wraps couriersResponse or ordersResponse.
type validationErrorResponse struct {
	ValidationError any `json:"validation_error"`
}

type assignResponse struct {
	Orders     []idRef `json:"orders"`
	AssignTime *string `json:"assign_time,omitempty"`
}

type completeResponse struct {
	OrderID int64 `json:"order_id"`
}

type courierResponse struct {
	CourierID    int64        `json:"courier_id"`
	CourierType  string       `json:"courier_type"`
	Regions      []int        `json:"regions"`
	WorkingHours []string     `json:"working_hours"`
	Earnings     *int64       `json:"earnings,omitempty"`
	Rating       *json.Number `json:"rating,omitempty"`
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newCourierResponse(c *courier.Courier) courierResponse {
	return courierResponse{
		CourierID:    c.ID(),
		CourierType:  c.Type().Title(),
		Regions:      c.RegionNumbers(),
		WorkingHours: kernel.Strings(c.WorkingHours()),
	}
}

func newCourierProfileResponse(p queries.GetCourierQueryResponse) courierResponse {
	resp := courierResponse{
		CourierID:    p.ID,
		CourierType:  p.Type,
		Regions:      p.Regions,
		WorkingHours: p.WorkingHours,
		Earnings:     p.Earnings,
	}
	if p.Rating != nil {
		rating := json.Number(p.Rating.String())
		resp.Rating = &rating
	}
	return resp
}

func newIDRefs(ids []int64) []idRef {
	refs := make([]idRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, idRef{ID: id})
	}
	return refs
}

func newAssignTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.UTC().Format(assignTimeLayout)
	return &formatted
}

// decodeStrict rejects unknown fields and trailing data.
func decodeStrict(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("body", err)
	}
	if dec.More() {
		return errs.NewValueIsInvalidErrorWithCause("body", fmt.Errorf("unexpected data after the object"))
	}
	return nil
}

// itemID digs the identifier out of a batch item that failed to decode, so it
// can still be reported back.
func itemID(raw json.RawMessage, field string) (int64, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return 0, false
	}
	var id int64
	if err := json.Unmarshal(fields[field], &id); err != nil {
		return 0, false
	}
	return id, true
}

func decodeItem(raw json.RawMessage, v any) error {
	return decodeStrict(bytes.NewReader(raw), v)
}

// hasTwoDecimals reports whether w fits the numeric(4,2) weight column.
func hasTwoDecimals(w decimal.Decimal) bool {
	return w.Equal(w.Round(2))
}
