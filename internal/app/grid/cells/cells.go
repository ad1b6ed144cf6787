// Package cells computes the derived per-(member, day) projection the
// grid renders. Nothing here is persisted or cached: a DailyCell is
// recomputed from the current allocation snapshot on every render, so a
// refresh after a mutation is always enough to make it consistent.
package cells

import (
	"time"

	"github.com/dalemusser/crewgrid/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status classifies how booked a cell is.
type Status string

const (
	StatusAvailable Status = "available" // total == 0
	StatusPartial   Status = "partial"   // 0 < total < 1
	StatusFull      Status = "full"      // total >= 1
)

// FullDay is the per-day weight ceiling in man-days. An average of
// exactly FullDay over a range is a fully booked member, not an
// overallocated one; only strictly greater counts as overallocation.
const FullDay = 1.0

// Utilization bucket names, as used by the saved-view filter tuple.
const (
	BucketOverallocated = "overallocated"
	BucketPartial       = "partial"
	BucketAvailable     = "available"
)

// DailyCell is the derived content of one grid cell.
type DailyCell struct {
	MemberID    primitive.ObjectID
	Day         time.Time
	Allocations []models.Allocation
	Total       float64 // sum of work weights
	Status      Status
	OnLeave     bool
}

// SameDay reports whether a and b fall on the same calendar date (UTC).
// Time-of-day never participates in allocation matching.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// IsWeekend reports whether day falls on Saturday or Sunday (UTC).
func IsWeekend(day time.Time) bool {
	wd := day.UTC().Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Aggregate filters allocs down to the given member and calendar day and
// derives the cell total and status.
func Aggregate(memberID primitive.ObjectID, day time.Time, allocs []models.Allocation) DailyCell {
	cell := DailyCell{MemberID: memberID, Day: models.DayKey(day)}

	for _, a := range allocs {
		if a.MemberID != memberID || !SameDay(a.Day, day) {
			continue
		}
		cell.Allocations = append(cell.Allocations, a)
		if a.Kind == models.AllocationLeave {
			cell.OnLeave = true
		}
		if a.CountsTowardCapacity() {
			cell.Total += a.Weight
		}
	}

	switch {
	case cell.Total == 0:
		cell.Status = StatusAvailable
	case cell.Total < FullDay:
		cell.Status = StatusPartial
	default:
		cell.Status = StatusFull
	}
	return cell
}

// AverageWeight returns a member's mean daily work weight over the
// days-long range starting at start.
func AverageWeight(memberID primitive.ObjectID, start time.Time, days int, allocs []models.Allocation) float64 {
	if days <= 0 {
		return 0
	}
	var total float64
	for _, a := range allocs {
		if a.MemberID != memberID || !a.CountsTowardCapacity() {
			continue
		}
		if inRange(a.Day, start, days) {
			total += a.Weight
		}
	}
	return total / float64(days)
}

// BucketFor maps an average daily weight to its utilization bucket.
// The boundaries are deliberate: exactly 0 is available, exactly
// FullDay is partial-side (fully booked, not over), only > FullDay is
// overallocated.
func BucketFor(average float64) string {
	switch {
	case average > FullDay:
		return BucketOverallocated
	case average == 0:
		return BucketAvailable
	default:
		return BucketPartial
	}
}

func inRange(day, start time.Time, days int) bool {
	d := models.DayKey(day)
	s := models.DayKey(start)
	if d.Before(s) {
		return false
	}
	return d.Before(s.AddDate(0, 0, days))
}
