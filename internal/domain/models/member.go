// internal/domain/models/member.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member is a crew member who can appear as a row in the allocation grid.
//
// Members are created and edited through the external member admin; the
// grid treats them as a read-only snapshot and never mutates them.
type Member struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped

	Title        string              `bson:"title,omitempty" json:"title,omitempty"`
	SupervisorID *primitive.ObjectID `bson:"supervisor_id,omitempty" json:"supervisor_id,omitempty"`
	Department   string              `bson:"department" json:"department"`
	Shift        string              `bson:"shift,omitempty" json:"shift,omitempty"` // e.g. "day", "night"

	Active bool `bson:"active" json:"active"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
