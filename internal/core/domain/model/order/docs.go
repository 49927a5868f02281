// Package order provides the Order aggregate and its Status state machine.
//
// Weights are exact decimals so that capacity sums never drift. Delivery windows
// are fixed at creation. Assignment stamps the courier and the batch time once;
// completion is final.
package order
