package shotstore_test

import (
	"testing"

	shotstore "github.com/dalemusser/crewgrid/internal/app/store/shots"
	"github.com/dalemusser/crewgrid/internal/domain/models"
	"github.com/dalemusser/crewgrid/internal/testutil"
)

func TestStore_LookupShot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := shotstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateShot(ctx, "sq010_sh020", "Aurora")

	show, ok, err := store.LookupShot(ctx, "sq010_sh020")
	if err != nil {
		t.Fatalf("LookupShot failed: %v", err)
	}
	if !ok {
		t.Fatal("expected shot to be found")
	}
	if show != "Aurora" {
		t.Errorf("show = %q, want %q", show, "Aurora")
	}
}

func TestStore_LookupShot_CaseInsensitive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := shotstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateShot(ctx, "SQ010_SH020", "Aurora")

	_, ok, err := store.LookupShot(ctx, "sq010_sh020")
	if err != nil {
		t.Fatalf("LookupShot failed: %v", err)
	}
	if !ok {
		t.Error("expected case-insensitive match")
	}
}

func TestStore_LookupShot_Unknown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := shotstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, ok, err := store.LookupShot(ctx, "no_such_shot")
	if err != nil {
		t.Fatalf("LookupShot failed: %v", err)
	}
	if ok {
		t.Error("expected unknown shot not to be found")
	}
}

func TestStore_Create_DerivesFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := shotstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Shot{Name: "SQ020_SH001", ShowName: "Aurora"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.NameCI != "sq020_sh001" {
		t.Errorf("NameCI = %q, want folded name", created.NameCI)
	}
	if created.Status != "active" {
		t.Errorf("Status = %q, want active default", created.Status)
	}
}

func TestStore_ListByShow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := shotstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateShot(ctx, "sq010_sh020", "Aurora")
	fixtures.CreateShot(ctx, "sq010_sh010", "Aurora")
	fixtures.CreateShot(ctx, "ext_sh001", "Borealis")

	list, err := store.ListByShow(ctx, "Aurora")
	if err != nil {
		t.Fatalf("ListByShow failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 shots, got %d", len(list))
	}
	if list[0].Name != "sq010_sh010" {
		t.Errorf("expected name-sorted order, got %q first", list[0].Name)
	}
}
