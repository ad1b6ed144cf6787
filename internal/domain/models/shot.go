// internal/domain/models/shot.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Shot is an entry in the work-item registry. Allocations may only name
// shots that exist here; the show name on an allocation is copied from
// the matching shot at validation time.
type Shot struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name   string             `bson:"name" json:"name"`
	NameCI string             `bson:"name_ci" json:"name_ci"` // lowercase, diacritics-stripped

	ShowName string `bson:"show_name" json:"show_name"` // owning production/show
	Status   string `bson:"status" json:"status"`       // "active" or "retired"

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
