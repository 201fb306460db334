// Package statussweep rewrites stored booking and membership statuses so they
// agree with the derived status at a given instant.
package statussweep

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"courtly/internal/domain/booking"
	"courtly/internal/domain/membership"
	"courtly/internal/pkg/logger"
	"courtly/internal/pkg/metrics"
)

const (
	aggregateBookings    = "bookings"
	aggregateMemberships = "memberships"
)

// Report counts the rows moved into each status by one run.
type Report struct {
	RanAt       time.Time                   `json:"ranAt"`
	Bookings    map[booking.Status]int64    `json:"bookings"`
	Memberships map[membership.Status]int64 `json:"memberships"`
}

func (r Report) Total() int64 {
	var n int64
	for _, v := range r.Bookings {
		n += v
	}
	for _, v := range r.Memberships {
		n += v
	}
	return n
}

type Reconciler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewReconciler(db *gorm.DB) *Reconciler {
	return &Reconciler{db: db, log: logger.L().Named("statussweep")}
}

// Run sweeps bookings then memberships. The sweeps are independent: a failure
// in one is reported alongside the other's result.
func (r *Reconciler) Run(ctx context.Context, now time.Time) (Report, error) {
	report := Report{RanAt: now}

	var errs []error
	bookings, err := r.sweepBookings(ctx, now)
	if err != nil {
		errs = append(errs, err)
	}
	report.Bookings = bookings

	members, err := r.sweepMemberships(ctx, now)
	if err != nil {
		errs = append(errs, err)
	}
	report.Memberships = members

	r.log.Info("status sweep finished",
		zap.Time("now", now),
		zap.Any("bookings", report.Bookings),
		zap.Any("memberships", report.Memberships),
		zap.Int("failures", len(errs)),
	)
	return report, errors.Join(errs...)
}

// sweepBookings leaves cancelled rows alone and only writes rows whose stored
// status differs from the derived one.
func (r *Reconciler) sweepBookings(ctx context.Context, now time.Time) (map[booking.Status]int64, error) {
	start := time.Now()
	updated := make(map[booking.Status]int64, 3)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, st := range []booking.Status{booking.StatusExpired, booking.StatusActive, booking.StatusUpcoming} {
			res := tx.Model(&booking.Booking{}).
				Scopes(booking.StatusScope(st, now)).
				Where("bookings.status <> ?", st).
				UpdateColumns(map[string]any{"status": st, "updated_at": now.UTC()})
			if res.Error != nil {
				return fmt.Errorf("mark bookings %s: %w", st, res.Error)
			}
			updated[st] = res.RowsAffected
		}
		return nil
	})
	metrics.SweepDuration.WithLabelValues(aggregateBookings).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SweepFailures.WithLabelValues(aggregateBookings).Inc()
		r.log.Error("booking sweep failed", zap.Error(err))
		return map[booking.Status]int64{}, err
	}

	for st, n := range updated {
		metrics.SweepUpdates.WithLabelValues(aggregateBookings, string(st)).Add(float64(n))
	}
	return updated, nil
}

func (r *Reconciler) sweepMemberships(ctx context.Context, now time.Time) (map[membership.Status]int64, error) {
	start := time.Now()
	updated := make(map[membership.Status]int64, 2)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, st := range []membership.Status{membership.StatusExpired, membership.StatusActive} {
			res := tx.Model(&membership.Member{}).
				Scopes(membership.StatusScope(st, now)).
				Where("gym_members.subscription_status <> ?", st).
				UpdateColumns(map[string]any{"subscription_status": st, "updated_at": now.UTC()})
			if res.Error != nil {
				return fmt.Errorf("mark memberships %s: %w", st, res.Error)
			}
			updated[st] = res.RowsAffected
		}
		return nil
	})
	metrics.SweepDuration.WithLabelValues(aggregateMemberships).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SweepFailures.WithLabelValues(aggregateMemberships).Inc()
		r.log.Error("membership sweep failed", zap.Error(err))
		return map[membership.Status]int64{}, err
	}

	for st, n := range updated {
		metrics.SweepUpdates.WithLabelValues(aggregateMemberships, string(st)).Add(float64(n))
	}
	return updated, nil
}
