package commissions

import (
	"context"

	"go.uber.org/multierr"

	pkgerrors "github.com/mercaditoapp/mercadito-backend/pkg/errors"
)

// Reconciler heals sellers left with more than one active override when a
// deactivate-then-create pair is interrupted midway. The newest override wins.
type Reconciler interface {
	Reconcile(ctx context.Context) (int64, error)
}

// Reconcile deactivates every active override except the newest for each
// affected seller and returns how many rows were flipped.
func (s *service) Reconcile(ctx context.Context) (int64, error) {
	sellerIDs, err := s.repo.ListSellersWithDuplicateActive(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list duplicate active overrides")
	}

	var healed int64
	var errs error
	for _, sellerID := range sellerIDs {
		count, err := s.repo.DeactivateAllButNewest(ctx, sellerID)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		healed += count
	}

	if errs != nil {
		s.logg.Error(ctx, "commission reconcile completed with failures", errs)
		if healed == 0 {
			return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "reconcile commission overrides")
		}
	}
	return healed, nil
}
