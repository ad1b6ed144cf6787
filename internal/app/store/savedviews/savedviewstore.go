package savedviewstore

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

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("saved_views")}
}

// Create persists a saved view. NameCI is derived; CreatedAt defaults
// to now (UTC). A view created with Default set clears any previous
// default for the same view type first.
func (s *Store) Create(ctx context.Context, v models.SavedView) (models.SavedView, error) {
	v.NameCI = text.Fold(v.Name)
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}

	if v.Default {
		if err := s.clearDefault(ctx, v.ViewType); err != nil {
			return v, err
		}
	}

	res, err := s.c.InsertOne(ctx, v)
	if err != nil {
		return v, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		v.ID = oid
	}
	return v, nil
}

// Delete removes the saved view with the given _id.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// GetByID returns a single saved view by its _id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.SavedView, error) {
	var v models.SavedView
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&v)
	return v, err
}

// ListByType returns all saved views of one view type, sorted by name.
func (s *Store) ListByType(ctx context.Context, viewType string) ([]models.SavedView, error) {
	cur, err := s.c.Find(ctx, bson.M{"view_type": viewType},
		options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.SavedView
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListQuickFilters returns the views flagged for the one-click shortcut
// bar, sorted by name.
func (s *Store) ListQuickFilters(ctx context.Context, viewType string) ([]models.SavedView, error) {
	cur, err := s.c.Find(ctx, bson.M{"view_type": viewType, "quick_filter": true},
		options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.SavedView
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetDefault flags one view as the default for its view type, clearing
// the flag from every sibling so at most one default ever exists.
func (s *Store) SetDefault(ctx context.Context, id primitive.ObjectID) error {
	v, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.clearDefault(ctx, v.ViewType); err != nil {
		return err
	}
	_, err = s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"default": true}})
	return err
}

// GetDefault returns the default view for a view type, or
// mongo.ErrNoDocuments when none is flagged.
func (s *Store) GetDefault(ctx context.Context, viewType string) (models.SavedView, error) {
	var v models.SavedView
	err := s.c.FindOne(ctx, bson.M{"view_type": viewType, "default": true}).Decode(&v)
	return v, err
}

func (s *Store) clearDefault(ctx context.Context, viewType string) error {
	_, err := s.c.UpdateMany(ctx,
		bson.M{"view_type": viewType, "default": true},
		bson.M{"$set": bson.M{"default": false}})
	return err
}
