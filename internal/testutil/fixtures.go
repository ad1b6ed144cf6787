package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/crewgrid/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateMember creates an active test member in the given department.
func (f *Fixtures) CreateMember(ctx context.Context, fullName, department string) models.Member {
	f.t.Helper()

	m := models.Member{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Title:      "Artist",
		Department: department,
		Shift:      "day",
		Active:     true,
		CreatedAt:  time.Now().UTC(),
	}

	if _, err := f.db.Collection("members").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test member: %v", err)
	}
	return m
}

// CreateShot registers a test shot under the given show.
func (f *Fixtures) CreateShot(ctx context.Context, name, showName string) models.Shot {
	f.t.Helper()

	s := models.Shot{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		ShowName:  showName,
		Status:    "active",
		CreatedAt: time.Now().UTC(),
	}

	if _, err := f.db.Collection("shots").InsertOne(ctx, s); err != nil {
		f.t.Fatalf("failed to create test shot: %v", err)
	}
	return s
}

// CreateWorkAllocation creates a work allocation for the member on the
// given calendar day.
func (f *Fixtures) CreateWorkAllocation(ctx context.Context, memberID primitive.ObjectID, day time.Time, shot string, weight float64) models.Allocation {
	f.t.Helper()

	a := models.Allocation{
		ID:        primitive.NewObjectID(),
		MemberID:  memberID,
		Kind:      models.AllocationWork,
		ShotName:  shot,
		Day:       models.DayKey(day),
		Weight:    weight,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := f.db.Collection("allocations").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test allocation: %v", err)
	}
	return a
}

// CreateLeave creates a full-day leave allocation.
func (f *Fixtures) CreateLeave(ctx context.Context, memberID primitive.ObjectID, day time.Time) models.Allocation {
	f.t.Helper()

	a := models.Allocation{
		ID:        primitive.NewObjectID(),
		MemberID:  memberID,
		Kind:      models.AllocationLeave,
		Day:       models.DayKey(day),
		Weight:    1.0,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := f.db.Collection("allocations").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test leave: %v", err)
	}
	return a
}
