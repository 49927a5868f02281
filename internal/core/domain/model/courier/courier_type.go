package courier

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrTypeIsNotConstructed = errors.New("Type must be created via NewType constructor")

// Type is an immutable catalog entry: how much a courier can carry in one batch
// and the multiplier applied to the batch payment.
type Type struct {
	title       string
	carrying    int
	coefficient int
	guard       guard.ConstructorGuard
}

func NewType(title string, carrying, coefficient int) (Type, error) {
	t := Type{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		t.setTitle(title),
		t.setCarrying(carrying),
		t.setCoefficient(coefficient),
	); err != nil {
		return Type{}, err
	}

	return t, nil
}

func (t Type) Title() string {
	return t.title
}

func (t Type) Carrying() int {
	return t.carrying
}

// CarryingWeight is Carrying as an exact decimal, comparable with order weights.
func (t Type) CarryingWeight() decimal.Decimal {
	return decimal.NewFromInt(int64(t.carrying))
}

func (t Type) Coefficient() int {
	return t.coefficient
}

func (t Type) IsEqual(other Type) bool {
	return t.title == other.title
}

func (t Type) Validate() error {
	return t.guard.Validate(ErrTypeIsNotConstructed)
}

func (t *Type) setTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return errs.NewValueIsRequiredError("courier_type")
	}
	t.title = title
	return nil
}

func (t *Type) setCarrying(carrying int) error {
	if carrying <= 0 {
		return errs.NewValueIsInvalidError("carrying")
	}
	t.carrying = carrying
	return nil
}

func (t *Type) setCoefficient(coefficient int) error {
	if coefficient <= 0 {
		return errs.NewValueIsInvalidError("coefficient")
	}
	t.coefficient = coefficient
	return nil
}
