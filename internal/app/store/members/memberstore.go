package memberstore

import (
	"context"
	"time"

	"github.com/dalemusser/crewgrid/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Filter narrows a member listing. Zero values mean "no constraint";
// Search matches as a case/diacritic-insensitive name prefix.
type Filter struct {
	Department string
	Shift      string
	Search     string
	ActiveOnly bool
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("members")}
}

// Create inserts a member. FullNameCI is derived here so callers never
// have to remember the folded field.
func (s *Store) Create(ctx context.Context, m models.Member) (models.Member, error) {
	m.FullNameCI = text.Fold(m.FullName)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	res, err := s.c.InsertOne(ctx, m)
	if err != nil {
		return m, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		m.ID = oid
	}
	return m, nil
}

// GetByID returns a single member by its _id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Member, error) {
	var m models.Member
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	return m, err
}

// List returns members matching the filter, sorted by folded full name.
func (s *Store) List(ctx context.Context, f Filter) ([]models.Member, error) {
	q := bson.M{}
	if f.Department != "" {
		q["department"] = f.Department
	}
	if f.Shift != "" {
		q["shift"] = f.Shift
	}
	if f.ActiveOnly {
		q["active"] = true
	}
	if f.Search != "" {
		folded := text.Fold(f.Search)
		q["full_name_ci"] = bson.M{"$gte": folded, "$lt": folded + "￿"}
	}

	cur, err := s.c.Find(ctx, q,
		options.Find().SetSort(bson.D{{Key: "full_name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Member
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
