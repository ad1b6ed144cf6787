// internal/domain/models/savedview.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ViewFilter is the filter/sort tuple a saved view snapshots. It is
// embedded verbatim in the SavedView document and applied wholesale when
// the view is loaded.
//
// Utilization holds a derived bucket name ("overallocated", "partial",
// "available" or "" for no filter); the bucket itself is computed from
// the visible range at render time, never stored per member.
type ViewFilter struct {
	Department  string `bson:"department,omitempty" json:"department,omitempty"`
	Shift       string `bson:"shift,omitempty" json:"shift,omitempty"`
	Show        string `bson:"show,omitempty" json:"show,omitempty"`
	Utilization string `bson:"utilization,omitempty" json:"utilization,omitempty"`
	Search      string `bson:"search,omitempty" json:"search,omitempty"`

	RangeStart time.Time `bson:"range_start" json:"range_start"`
	RangeDays  int       `bson:"range_days" json:"range_days"`
}

// SavedView is a named, reusable filter configuration for a grid view.
// At most one view per view type may be flagged Default; quick filters
// additionally appear in the one-click shortcut bar.
type SavedView struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name   string             `bson:"name" json:"name"`
	NameCI string             `bson:"name_ci" json:"name_ci"`

	ViewType string     `bson:"view_type" json:"view_type"` // e.g. "grid"
	Filter   ViewFilter `bson:"filter" json:"filter"`

	Public      bool `bson:"public" json:"public"`
	QuickFilter bool `bson:"quick_filter" json:"quick_filter"`
	Default     bool `bson:"default" json:"default"`

	CreatedByID   *primitive.ObjectID `bson:"created_by_id,omitempty" json:"created_by_id,omitempty"`
	CreatedByName string              `bson:"created_by_name,omitempty" json:"created_by_name,omitempty"`
	CreatedAt     time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt     *time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
