package cron

import (
	"context"
	"fmt"

	"github.com/mercaditoapp/mercadito-backend/pkg/logger"
	"github.com/mercaditoapp/mercadito-backend/pkg/metrics"
)

type commissionReconciler interface {
	Reconcile(ctx context.Context) (int64, error)
}

// CommissionReconcileJobParams configure the commission reconcile job.
type CommissionReconcileJobParams struct {
	Logger      *logger.Logger
	Commissions commissionReconciler
	Metrics     *metrics.CronJobMetrics
}

// NewCommissionReconcileJob builds the job that heals sellers holding more
// than one active commission override, keeping only the newest.
func NewCommissionReconcileJob(params CommissionReconcileJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Commissions == nil {
		return nil, fmt.Errorf("commissions service required")
	}
	return &commissionReconcileJob{
		logg:        params.Logger,
		commissions: params.Commissions,
		metrics:     params.Metrics,
	}, nil
}

type commissionReconcileJob struct {
	logg        *logger.Logger
	commissions commissionReconciler
	metrics     *metrics.CronJobMetrics
}

func (j *commissionReconcileJob) Name() string { return "commission-reconcile" }

func (j *commissionReconcileJob) Run(ctx context.Context) error {
	healed, err := j.commissions.Reconcile(ctx)
	if err != nil {
		return fmt.Errorf("commission reconcile: %w", err)
	}
	if j.metrics != nil {
		j.metrics.AddProcessed(j.Name(), int(healed))
	}
	logCtx := j.logg.WithField(ctx, "overrides_healed", healed)
	j.logg.Info(logCtx, "commission reconcile complete")
	return nil
}
