package user

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"hearth/internal/adapters/storage"
	domain "hearth/internal/domain/user"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// One connection: each new connection to :memory: is a fresh database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return NewSQLiteStore(db)
}

func TestSQLiteStore_SaveAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	u := domain.User{ID: "u1", Name: "Ana", Color: "#4A90D9", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	if err := s.Save(ctx, u); err != nil {
		t.Fatalf("save: %v", err)
	}

	byID, err := s.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.Name != "Ana" || byID.Color != "#4A90D9" {
		t.Errorf("got %+v", byID)
	}

	byName, err := s.GetByName(ctx, "Ana")
	if err != nil {
		t.Fatalf("get by name: %v", err)
	}
	if byName.ID != "u1" {
		t.Errorf("id = %s", byName.ID)
	}

	if _, err := s.GetByID(ctx, "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown id err = %v, want ErrNotFound", err)
	}
	if _, err := s.GetByName(ctx, "Nobody"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown name err = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_SaveUpsertsByName(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if err := s.Save(ctx, domain.User{ID: "u1", Name: "Ana", Color: "#4A90D9", CreatedAt: created}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	// Re-seeding the same name under a new generated id must keep the
	// original row so events stay attributed.
	if err := s.Save(ctx, domain.User{ID: "u1-new", Name: "Ana", Color: "#4AD97B", CreatedAt: created}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := s.GetByName(ctx, "Ana")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != "u1" {
		t.Errorf("id = %s, want original u1", got.ID)
	}
	if got.Color != "#4AD97B" {
		t.Errorf("color = %s, want updated", got.Color)
	}

	users, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("roster = %d rows, want 1", len(users))
	}
}

func TestSQLiteStore_ListOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	for _, u := range []domain.User{
		{ID: "u2", Name: "Ben", Color: "#D94A4A", CreatedAt: day(2)},
		{ID: "u1", Name: "Ana", Color: "#4A90D9", CreatedAt: day(1)},
	} {
		if err := s.Save(ctx, u); err != nil {
			t.Fatalf("save %s: %v", u.Name, err)
		}
	}

	users, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 2 || users[0].Name != "Ana" || users[1].Name != "Ben" {
		t.Errorf("order = %+v", users)
	}
}
