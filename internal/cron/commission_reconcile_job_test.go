package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/mercaditoapp/mercadito-backend/pkg/logger"
	"github.com/mercaditoapp/mercadito-backend/pkg/metrics"
)

type fakeReconciler struct {
	healed int64
	err    error
	called int
}

func (f *fakeReconciler) Reconcile(_ context.Context) (int64, error) {
	f.called++
	if f.err != nil {
		return 0, f.err
	}
	return f.healed, nil
}

func TestCommissionReconcileJobReportsHealedCount(t *testing.T) {
	reconciler := &fakeReconciler{healed: 3}
	job, err := NewCommissionReconcileJob(CommissionReconcileJobParams{
		Logger:      logger.New(logger.Options{ServiceName: "test"}),
		Commissions: reconciler,
		Metrics:     metrics.NewCronJobMetrics(nil),
	})
	if err != nil {
		t.Fatalf("NewCommissionReconcileJob: %v", err)
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if reconciler.called != 1 {
		t.Fatalf("expected reconciler called once, got %d", reconciler.called)
	}
	if job.Name() != "commission-reconcile" {
		t.Fatalf("name = %q", job.Name())
	}
}

func TestCommissionReconcileJobPropagatesErrors(t *testing.T) {
	job, err := NewCommissionReconcileJob(CommissionReconcileJobParams{
		Logger:      logger.New(logger.Options{ServiceName: "test"}),
		Commissions: &fakeReconciler{err: errors.New("boom")},
	})
	if err != nil {
		t.Fatalf("NewCommissionReconcileJob: %v", err)
	}

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
