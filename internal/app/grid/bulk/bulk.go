// Package bulk implements the two multi-cell operations: reassigning a
// member's allocations to someone else, and duplicating a 7-day week
// pattern.
//
// Days fan out concurrently and settle independently: there is no
// atomicity across days and no rollback. A day that fails is recorded
// in the Report and the rest keep going, which mirrors how the writes
// behave at the storage layer (attempt-once, last write wins).
package bulk

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/crewgrid/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxInFlight bounds how many day-columns are written concurrently.
const maxInFlight = 4

// Store is the slice of the allocation store the engine needs.
type Store interface {
	Create(ctx context.Context, a models.Allocation) (models.Allocation, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListByMemberDay(ctx context.Context, memberID primitive.ObjectID, day time.Time) ([]models.Allocation, error)
}

// Failure records one day-column that did not settle cleanly.
type Failure struct {
	Day time.Time
	Err error
}

// Report is the settlement summary of one bulk operation.
type Report struct {
	mu       sync.Mutex
	Created  int
	Deleted  int
	Failures []Failure
}

func (r *Report) fail(day time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Failures = append(r.Failures, Failure{Day: day, Err: err})
}

func (r *Report) add(created, deleted int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Created += created
	r.Deleted += deleted
}

// Partial reports whether some day-columns failed while others settled.
func (r *Report) Partial() bool {
	return len(r.Failures) > 0 && (r.Created > 0 || r.Deleted > 0)
}

type Engine struct {
	store Store
	log   *zap.Logger
}

func NewEngine(store Store, logger *zap.Logger) *Engine {
	return &Engine{store: store, log: logger}
}

// Reassign moves every allocation fromMember has on the given days over
// to toMember: equivalent records (same shot, weight, kind, flags) are
// created for the target and the originals deleted. Days settle
// concurrently and independently.
func (e *Engine) Reassign(ctx context.Context, fromMember, toMember primitive.ObjectID, days []time.Time) *Report {
	report := &Report{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxInFlight)
	for _, day := range days {
		g.Go(func() error {
			e.reassignDay(gctx, fromMember, toMember, day, report)
			return nil
		})
	}
	_ = g.Wait()

	if len(report.Failures) > 0 {
		e.log.Warn("bulk reassign settled with failures",
			zap.String("from", fromMember.Hex()),
			zap.String("to", toMember.Hex()),
			zap.Int("failed_days", len(report.Failures)),
			zap.Int("created", report.Created),
			zap.Int("deleted", report.Deleted))
	}
	return report
}

func (e *Engine) reassignDay(ctx context.Context, from, to primitive.ObjectID, day time.Time, report *Report) {
	allocs, err := e.store.ListByMemberDay(ctx, from, day)
	if err != nil {
		report.fail(day, err)
		return
	}

	created, deleted := 0, 0
	for _, a := range allocs {
		clone := cloneFor(a, to, a.Day)
		if _, err := e.store.Create(ctx, clone); err != nil {
			report.fail(day, err)
			continue
		}
		created++
		if err := e.store.Delete(ctx, a.ID); err != nil {
			report.fail(day, err)
			continue
		}
		deleted++
	}
	report.add(created, deleted)
}

// CopyWeekPattern duplicates a member's allocations from the week
// starting at srcWeekStart onto the week starting at dstWeekStart,
// offset by offset for each of the 7 days. Existing allocations on the
// target days are preserved: the copy is additive, not replacing.
func (e *Engine) CopyWeekPattern(ctx context.Context, memberID primitive.ObjectID, srcWeekStart, dstWeekStart time.Time) *Report {
	report := &Report{}
	src := models.DayKey(srcWeekStart)
	dst := models.DayKey(dstWeekStart)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxInFlight)
	for offset := 0; offset < 7; offset++ {
		g.Go(func() error {
			e.copyDay(gctx, memberID, src.AddDate(0, 0, offset), dst.AddDate(0, 0, offset), report)
			return nil
		})
	}
	_ = g.Wait()

	if len(report.Failures) > 0 {
		e.log.Warn("week copy settled with failures",
			zap.String("member", memberID.Hex()),
			zap.Time("source_week", src),
			zap.Time("target_week", dst),
			zap.Int("failed_days", len(report.Failures)))
	}
	return report
}

func (e *Engine) copyDay(ctx context.Context, memberID primitive.ObjectID, srcDay, dstDay time.Time, report *Report) {
	allocs, err := e.store.ListByMemberDay(ctx, memberID, srcDay)
	if err != nil {
		report.fail(srcDay, err)
		return
	}

	created := 0
	for _, a := range allocs {
		clone := cloneFor(a, memberID, dstDay)
		if _, err := e.store.Create(ctx, clone); err != nil {
			report.fail(dstDay, err)
			continue
		}
		created++
	}
	report.add(created, 0)
}

// cloneFor copies an allocation's content onto a new owner and day,
// dropping identity and audit fields so the store assigns fresh ones.
func cloneFor(a models.Allocation, memberID primitive.ObjectID, day time.Time) models.Allocation {
	return models.Allocation{
		MemberID:     memberID,
		Kind:         a.Kind,
		ShotName:     a.ShotName,
		ShowName:     a.ShowName,
		Day:          models.DayKey(day),
		Weight:       a.Weight,
		WeekendExtra: a.WeekendExtra,
	}
}
