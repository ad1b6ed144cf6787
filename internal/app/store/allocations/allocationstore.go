package allocationstore

import (
	"context"
	"time"

	"github.com/dalemusser/crewgrid/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store wraps the allocations collection. Create and Delete are the
// only mutation primitives; a cell edit is modeled as delete-then-create.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("allocations")}
}

// Create inserts a new allocation document.
//
// Day is normalized to UTC midnight and CreatedAt is set to now (UTC)
// when zero. The caller is responsible for kind, shot, weight and the
// weekend-extra flag; validation happens before the store is reached.
func (s *Store) Create(ctx context.Context, a models.Allocation) (models.Allocation, error) {
	a.Day = models.DayKey(a.Day)
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	res, err := s.c.InsertOne(ctx, a)
	if err != nil {
		return a, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = oid
	}
	return a, nil
}

// Delete removes the allocation with the given _id.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// GetByID returns a single allocation by its _id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Allocation, error) {
	var a models.Allocation
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	return a, err
}

// ListByMemberDay returns all of a member's allocations on one calendar
// day, oldest first.
func (s *Store) ListByMemberDay(ctx context.Context, memberID primitive.ObjectID, day time.Time) ([]models.Allocation, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"member_id": memberID, "day": models.DayKey(day)},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Allocation
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByMemberDay removes every allocation for (member, day) and
// returns how many were deleted. Writing an empty cell value reduces to
// exactly this call.
func (s *Store) DeleteByMemberDay(ctx context.Context, memberID primitive.ObjectID, day time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"member_id": memberID, "day": models.DayKey(day)})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListRange returns allocations whose day falls inside the days-long
// window starting at start. memberIDs narrows the result when non-empty.
func (s *Store) ListRange(ctx context.Context, start time.Time, days int, memberIDs []primitive.ObjectID) ([]models.Allocation, error) {
	from := models.DayKey(start)
	until := from.AddDate(0, 0, days)

	filter := bson.M{"day": bson.M{"$gte": from, "$lt": until}}
	if len(memberIDs) > 0 {
		filter["member_id"] = bson.M{"$in": memberIDs}
	}

	cur, err := s.c.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "member_id", Value: 1}, {Key: "day", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Allocation
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
