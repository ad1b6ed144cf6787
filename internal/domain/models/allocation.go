// internal/domain/models/allocation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AllocationKind distinguishes the three mutually exclusive shapes an
// allocation can take. Modeling leave and idle as kinds (rather than a
// pair of independent booleans) makes "simultaneously leave and idle"
// unrepresentable.
type AllocationKind string

const (
	// AllocationWork is a fractional man-day spent on a named shot.
	AllocationWork AllocationKind = "work"
	// AllocationLeave blocks the whole day; exclusive with everything else.
	AllocationLeave AllocationKind = "leave"
	// AllocationIdle marks a day the member is present but unassigned.
	AllocationIdle AllocationKind = "idle"
)

// Allocation is one member working some fraction of one calendar day on
// one shot (or being on leave / idle that day).
//
// Day is stored as UTC midnight; only the calendar date is meaningful.
// Weight is a fraction of a man-day. For a given (member, day) the sum
// of work weights must not exceed 1.0; leave and idle always carry 1.0.
type Allocation struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MemberID primitive.ObjectID `bson:"member_id" json:"member_id"`

	Kind AllocationKind `bson:"kind" json:"kind"`

	ShotName string `bson:"shot_name,omitempty" json:"shot_name,omitempty"`
	// ShowName is derived from the shot registry at validation time,
	// never entered by the coordinator.
	ShowName string `bson:"show_name,omitempty" json:"show_name,omitempty"`

	Day    time.Time `bson:"day" json:"day"`
	Weight float64   `bson:"weight" json:"weight"`

	// WeekendExtra marks work recorded on a weekend day that the grid
	// had flagged as working at write time.
	WeekendExtra bool `bson:"weekend_extra,omitempty" json:"weekend_extra,omitempty"`

	CreatedByID   *primitive.ObjectID `bson:"created_by_id,omitempty" json:"created_by_id,omitempty"`
	CreatedByName string              `bson:"created_by_name,omitempty" json:"created_by_name,omitempty"`
	CreatedAt     time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt     *time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// CountsTowardCapacity reports whether this allocation's weight counts
// against the 1.0 MD per-day ceiling. Leave and idle records do not.
func (a Allocation) CountsTowardCapacity() bool {
	return a.Kind == AllocationWork
}

// DayKey truncates t to UTC midnight. All allocation dates pass through
// here before being stored or compared.
func DayKey(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
