// Package errs holds the error vocabulary shared by the domain, the use cases
// and the adapters.
//
// Every typed error unwraps to one sentinel, and callers classify with errors.Is:
//
//	ErrValueIsRequired      ValueIsRequiredError
//	ErrValueIsInvalid       ValueIsInvalidError, BatchIsInvalidError
//	ErrValueIsOutOfRange    ValueIsOutOfRangeError
//	ErrObjectNotFound       ObjectNotFoundError
//	ErrObjectAlreadyExists  ObjectAlreadyExistsError
//	ErrObjectConflict       ObjectConflictError
//
// BatchIsInvalidError additionally carries the ids of the rejected items of a
// create request; the HTTP adapter renders them with errors.As.
package errs
