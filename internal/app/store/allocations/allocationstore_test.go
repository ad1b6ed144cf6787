package allocationstore_test

import (
	"testing"
	"time"

	allocationstore "github.com/dalemusser/crewgrid/internal/app/store/allocations"
	"github.com/dalemusser/crewgrid/internal/domain/models"
	"github.com/dalemusser/crewgrid/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var monday = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := allocationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	member := fixtures.CreateMember(ctx, "Ada Vance", "compositing")

	a := models.Allocation{
		MemberID: member.ID,
		Kind:     models.AllocationWork,
		ShotName: "sq010_sh020",
		ShowName: "Aurora",
		Day:      time.Date(2025, 1, 6, 14, 30, 0, 0, time.UTC), // time-of-day must be stripped
		Weight:   0.5,
	}

	created, err := store.Create(ctx, a)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	if !created.Day.Equal(monday) {
		t.Errorf("Day = %v, want UTC midnight %v", created.Day, monday)
	}
	if created.Weight != 0.5 {
		t.Errorf("Weight = %v, want 0.5", created.Weight)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := allocationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	member := fixtures.CreateMember(ctx, "Ada Vance", "compositing")
	a := fixtures.CreateWorkAllocation(ctx, member.ID, monday, "sq010_sh020", 1.0)

	if err := store.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	_, err := store.GetByID(ctx, a.ID)
	if err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments after delete, got %v", err)
	}
}

func TestStore_ListByMemberDay(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := allocationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	member := fixtures.CreateMember(ctx, "Ada Vance", "compositing")
	other := fixtures.CreateMember(ctx, "Ben Okafor", "lighting")

	fixtures.CreateWorkAllocation(ctx, member.ID, monday, "sq010_sh020", 0.5)
	fixtures.CreateWorkAllocation(ctx, member.ID, monday, "sq010_sh030", 0.5)
	fixtures.CreateWorkAllocation(ctx, member.ID, monday.AddDate(0, 0, 1), "sq020_sh010", 1.0)
	fixtures.CreateWorkAllocation(ctx, other.ID, monday, "sq030_sh010", 1.0)

	list, err := store.ListByMemberDay(ctx, member.ID, monday)
	if err != nil {
		t.Fatalf("ListByMemberDay failed: %v", err)
	}

	if len(list) != 2 {
		t.Fatalf("expected 2 allocations, got %d", len(list))
	}
	for _, a := range list {
		if a.MemberID != member.ID {
			t.Errorf("unexpected member %v in result", a.MemberID)
		}
		if !a.Day.Equal(monday) {
			t.Errorf("unexpected day %v in result", a.Day)
		}
	}
}

func TestStore_DeleteByMemberDay(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := allocationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	member := fixtures.CreateMember(ctx, "Ada Vance", "compositing")
	fixtures.CreateWorkAllocation(ctx, member.ID, monday, "sq010_sh020", 0.5)
	fixtures.CreateWorkAllocation(ctx, member.ID, monday, "sq010_sh030", 0.5)
	keep := fixtures.CreateWorkAllocation(ctx, member.ID, monday.AddDate(0, 0, 1), "sq020_sh010", 1.0)

	deleted, err := store.DeleteByMemberDay(ctx, member.ID, monday)
	if err != nil {
		t.Fatalf("DeleteByMemberDay failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	// The adjacent day must be untouched.
	if _, err := store.GetByID(ctx, keep.ID); err != nil {
		t.Errorf("adjacent-day allocation should survive: %v", err)
	}

	list, err := store.ListByMemberDay(ctx, member.ID, monday)
	if err != nil {
		t.Fatalf("ListByMemberDay failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected empty cell after DeleteByMemberDay, got %d", len(list))
	}
}

func TestStore_ListRange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := allocationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	member := fixtures.CreateMember(ctx, "Ada Vance", "compositing")

	fixtures.CreateWorkAllocation(ctx, member.ID, monday, "in1", 0.5)
	fixtures.CreateWorkAllocation(ctx, member.ID, monday.AddDate(0, 0, 6), "in2", 0.5)
	fixtures.CreateWorkAllocation(ctx, member.ID, monday.AddDate(0, 0, 7), "out_after", 0.5)
	fixtures.CreateWorkAllocation(ctx, member.ID, monday.AddDate(0, 0, -1), "out_before", 0.5)

	list, err := store.ListRange(ctx, monday, 7, nil)
	if err != nil {
		t.Fatalf("ListRange failed: %v", err)
	}

	if len(list) != 2 {
		t.Fatalf("expected 2 allocations inside the window, got %d", len(list))
	}
	for _, a := range list {
		if a.ShotName != "in1" && a.ShotName != "in2" {
			t.Errorf("unexpected allocation %q in window", a.ShotName)
		}
	}
}

func TestStore_ListRange_MemberScope(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := allocationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fixtures.CreateMember(ctx, "Ada Vance", "compositing")
	b := fixtures.CreateMember(ctx, "Ben Okafor", "lighting")
	fixtures.CreateWorkAllocation(ctx, a.ID, monday, "mine", 1.0)
	fixtures.CreateWorkAllocation(ctx, b.ID, monday, "theirs", 1.0)

	list, err := store.ListRange(ctx, monday, 7, []primitive.ObjectID{a.ID})
	if err != nil {
		t.Fatalf("ListRange failed: %v", err)
	}
	if len(list) != 1 || list[0].ShotName != "mine" {
		t.Errorf("expected only member A's allocation, got %v", list)
	}
}
