// Package kernel holds value objects shared by the courier and order aggregates.
//
// TimeInterval is a minute-resolution wall-clock window without a date. AnyOverlap
// is the only temporal feasibility check used when matching orders to couriers:
// no travel time and no multi-day scheduling are modelled.
package kernel
