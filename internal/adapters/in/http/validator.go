package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// CustomValidator plugs go-playground/validator into echo.
//
// Extra tags:
//
//	time_interval  "HH:MM-HH:MM" window that does not cross midnight
//
// decimal.Decimal fields are validated as float64, so the numeric tags
// (gte, lte, ...) apply to them.
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("time_interval", timeInterval); err != nil {
		panic(err)
	}

	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})

	return &CustomValidator{validator: v}
}

// Validate reports failures as errs.ErrValueIsInvalid naming the offending fields.
func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
			return errs.NewValueIsInvalidErrorWithCause("body", err)
		}

		names := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			names = append(names, fe.Field())
		}
		return errs.NewValueIsInvalidErrorWithCause(strings.Join(names, ", "), err)
	}
	return nil
}

func timeInterval(fl validator.FieldLevel) bool {
	_, err := kernel.ParseTimeInterval(fl.Field().String())
	return err == nil
}

func decimalValue(field reflect.Value) any {
	d, ok := field.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}
	f, _ := d.Float64()
	return f
}
