package service

import (
	"context"
	"time"

	"github.com/Eursukkul/booking-microservice/checkin-service/internal/repository"
	"github.com/juju/errors"
	"gorm.io/gorm"
)

// ReconcileResult describes one event's attendee count before and after repair.
type ReconcileResult struct {
	EventID  string `json:"event_id"`
	Before   int    `json:"before"`
	After    int    `json:"after"`
	Repaired bool   `json:"repaired"`
}

type SweepReport struct {
	Events         int   `json:"events"`
	Repaired       int   `json:"repaired"`
	OrphansRemoved int64 `json:"orphans_removed"`
}

// Reconciler repairs drift between an event's denormalized attendee count and
// its registrations, and removes registrations left behind by deleted events.
// Writes made through the services keep both in step; the sweep covers rows
// written by other means (manual fixes, imports, older clients).
type Reconciler struct {
	eventRepo repository.EventRepository
	regRepo   repository.RegistrationRepository
	policy    RetryPolicy
}

func NewReconciler(eventRepo repository.EventRepository, regRepo repository.RegistrationRepository, policy RetryPolicy) *Reconciler {
	return &Reconciler{eventRepo: eventRepo, regRepo: regRepo, policy: policy.normalized()}
}

func (r *Reconciler) ReconcileEvent(ctx context.Context, eventID string) (ReconcileResult, error) {
	result := ReconcileResult{EventID: eventID}
	err := runTx(ctx, r.eventRepo.GetDB(), r.policy, func(tx *gorm.DB) error {
		event, err := r.eventRepo.FindByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			return notFound(err, ErrEventNotFound, "event %q", eventID)
		}
		count, err := r.regRepo.CountByEvent(ctx, tx, eventID)
		if err != nil {
			return err
		}
		result.Before = event.AttendeeCount
		result.After = int(count)
		result.Repaired = false
		if result.Before == result.After {
			return nil
		}
		if err := r.eventRepo.UpdateAttendeeCount(ctx, tx, event, result.After); err != nil {
			return err
		}
		result.Repaired = true
		return nil
	})
	if err != nil {
		return ReconcileResult{}, errors.Annotatef(err, "reconcile %q", eventID)
	}
	if result.Repaired {
		logger.Warningf("event %s attendee count drifted: %d -> %d", eventID, result.Before, result.After)
	}
	return result, nil
}

func (r *Reconciler) Sweep(ctx context.Context) (SweepReport, error) {
	var report SweepReport

	orphans, err := r.regRepo.DeleteOrphans(ctx, nil)
	if err != nil {
		return report, errors.Annotate(classify(err), "remove orphan registrations")
	}
	report.OrphansRemoved = orphans
	if orphans > 0 {
		logger.Warningf("removed %d registrations for deleted events", orphans)
	}

	events, err := r.eventRepo.FindAll(ctx, nil)
	if err != nil {
		return report, errors.Annotate(classify(err), "list events")
	}
	for _, event := range events {
		res, err := r.ReconcileEvent(ctx, event.ID)
		if errors.Is(err, ErrEventNotFound) {
			continue
		}
		if err != nil {
			return report, errors.Trace(err)
		}
		report.Events++
		if res.Repaired {
			report.Repaired++
		}
	}
	return report, nil
}

// Run sweeps every interval until ctx is done.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration) {
	logger.Infof("reconcile sweep every %s", interval)
	for {
		select {
		case <-ctx.Done():
			logger.Infof("reconcile sweep stopped")
			return
		case <-r.policy.Clock.After(interval):
			report, err := r.Sweep(ctx)
			if err != nil {
				logger.Errorf("reconcile sweep: %v", err)
				continue
			}
			logger.Debugf("reconcile sweep: %d events, %d repaired, %d orphans", report.Events, report.Repaired, report.OrphansRemoved)
		}
	}
}
