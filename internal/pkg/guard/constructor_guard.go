// Package guard detects zero-value structs that bypassed their constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded into commands, queries and aggregates. Only the
// value returned by NewConstructorGuard passes Validate, so a literal like
// commands.AssignOrdersCommand{} is rejected before it reaches a handler.
//
// Example:
//
//	var ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")
//
//	func (c *Courier) Validate() error {
//	    return c.guard.Validate(ErrCourierIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
