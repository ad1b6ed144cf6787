package shotstore

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

// Store wraps the shots collection, which doubles as the work-item
// registry consulted on every cell write (it satisfies
// validate.Registry).
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("shots")}
}

// Create registers a shot under its show. NameCI is derived here.
func (s *Store) Create(ctx context.Context, sh models.Shot) (models.Shot, error) {
	sh.NameCI = text.Fold(sh.Name)
	if sh.Status == "" {
		sh.Status = "active"
	}
	if sh.CreatedAt.IsZero() {
		sh.CreatedAt = time.Now().UTC()
	}

	res, err := s.c.InsertOne(ctx, sh)
	if err != nil {
		return sh, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		sh.ID = oid
	}
	return sh, nil
}

// LookupShot resolves a shot name (case/diacritic-insensitively) to its
// owning show. ok is false when no active shot has that name.
func (s *Store) LookupShot(ctx context.Context, name string) (string, bool, error) {
	var sh models.Shot
	err := s.c.FindOne(ctx, bson.M{"name_ci": text.Fold(name), "status": "active"}).Decode(&sh)
	if err == mongo.ErrNoDocuments {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return sh.ShowName, true, nil
}

// ListByShow returns all shots of one show, sorted by name.
func (s *Store) ListByShow(ctx context.Context, showName string) ([]models.Shot, error) {
	cur, err := s.c.Find(ctx, bson.M{"show_name": showName},
		options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Shot
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
