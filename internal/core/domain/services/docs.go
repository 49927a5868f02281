// Package services holds domain services that coordinate the courier and order
// aggregates without owning state:
//
//   - BatchDispatcher forms a new batch for a courier from unassigned orders
//   - CompletionAccountant records a delivery and closes the batch
//   - PerformanceEvaluator derives rating and earnings on read
//
// Services never touch storage. Persistence is injected as callbacks or done by
// the calling command handler within its unit of work.
package services
