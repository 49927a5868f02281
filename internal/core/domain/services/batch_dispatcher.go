package services

import (
	"cmp"
	"errors"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// ClaimFunc persists the assignment of a single order. It returns an error
// wrapping errs.ErrObjectConflict when another batch claimed the order first.
type ClaimFunc func(o *order.Order) error

// BatchDispatcher forms a new batch of orders for a courier.
//
// Selection algorithm:
//   - candidates are ordered by weight, then id, both ascending
//   - each candidate is taken when the courier serves its region, the running
//     batch weight stays within the courier's carrying capacity and one of its
//     delivery windows overlaps a working window
//   - accepted orders are assigned at assignTime and claimed one by one
//
// The scan is greedy: lighter orders are packed first, so a heavier order that
// would have fit on its own can be skipped. Claims happen in the same global
// order for every courier, which keeps row locks ordered across transactions.
//
// Example usage:
//
//	dispatcher := services.NewBatchDispatcher()
//	batch, err := dispatcher.Dispatch(c, unassigned, now, func(o *order.Order) error {
//	    return orderRepo.Claim(ctx, o)
//	})
type BatchDispatcher struct{}

func NewBatchDispatcher() BatchDispatcher {
	return BatchDispatcher{}
}

// Dispatch returns the orders that ended up in the batch. Orders lost to a
// concurrent claim are skipped and do not count towards the batch weight; any
// other claim error aborts the dispatch.
func (d BatchDispatcher) Dispatch(
	c *courier.Courier,
	candidates []*order.Order,
	assignTime time.Time,
	claim ClaimFunc,
) ([]*order.Order, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	sorted := slices.Clone(candidates)
	slices.SortFunc(sorted, func(a, b *order.Order) int {
		if byWeight := a.Weight().Cmp(b.Weight()); byWeight != 0 {
			return byWeight
		}
		return cmp.Compare(a.ID(), b.ID())
	})

	batch := make([]*order.Order, 0)
	loaded := decimal.Zero

	for _, o := range sorted {
		if err := o.Validate(); err != nil {
			return nil, err
		}
		if o.Status() != order.Created || !c.CanTake(o, loaded) {
			continue
		}

		if err := o.Assign(c.ID(), assignTime); err != nil {
			return nil, err
		}

		if err := claim(o); err != nil {
			if errors.Is(err, errs.ErrObjectConflict) {
				continue
			}
			return nil, err
		}

		loaded = loaded.Add(o.Weight())
		batch = append(batch, o)
	}

	return batch, nil
}
