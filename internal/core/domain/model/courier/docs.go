// Package courier models couriers as aggregates.
//
// A Courier owns its Region ledgers and working hours. Types come from a fixed
// catalog (title, carrying capacity, earnings coefficient) and are referenced,
// never mutated, by couriers.
//
// Batch cycle:
//
//	Idle ──assign──> Active ──last delivery──> Idle
//
// While Active, LastCompletedAt is the milestone of the previous delivery, or nil
// before the first one. CloseBatch pays BatchPayment * coefficient and returns
// the courier to Idle.
package courier
