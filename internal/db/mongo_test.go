package db_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hrkit/employee-api/internal/db"
	"github.com/hrkit/employee-api/internal/models"
	"github.com/hrkit/employee-api/internal/utils"
)

func setupMongo(t *testing.T) *db.Mongo {
	t.Helper()

	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set; skipping mongo integration test")
	}

	database := "employee_api_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	cfg := utils.MongoConfig{
		URI:            uri,
		Database:       database,
		ConnectTimeout: 5 * time.Second,
	}

	store, err := db.NewMongo(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to connect to mongo: %v", err)
	}

	t.Cleanup(func() {
		ctx := context.Background()
		store.Database.Drop(ctx)
		store.Close(ctx)
	})

	if err := store.EnsureIndexes(context.Background()); err != nil {
		t.Fatalf("ensure indexes failed: %v", err)
	}

	return store
}

func TestUserStoreUniqueIndexes(t *testing.T) {
	store := setupMongo(t)
	users := store.UserStore()
	ctx := context.Background()

	now := time.Now().UTC()
	first := &models.User{Username: "al", Email: "al@x.com", PasswordHash: "hash", CreatedAt: now, UpdatedAt: now}

	id, err := users.Insert(ctx, first)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if id == "" {
		t.Fatalf("expected generated id")
	}

	dup := &models.User{Username: "other", Email: "al@x.com", PasswordHash: "hash", CreatedAt: now, UpdatedAt: now}
	if _, err := users.Insert(ctx, dup); !errors.Is(err, db.ErrDuplicateKey) {
		t.Fatalf("expected duplicate key on email, got %v", err)
	}

	found, err := users.FindByIdentifier(ctx, "al")
	if err != nil {
		t.Fatalf("find by username failed: %v", err)
	}
	if found == nil || found.Email != "al@x.com" {
		t.Fatalf("unexpected lookup result: %+v", found)
	}

	missing, err := users.FindByIdentifier(ctx, "nobody")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown identifier, got %+v", missing)
	}
}

func TestEmployeeStoreCRUD(t *testing.T) {
	store := setupMongo(t)
	employees := store.EmployeeStore()
	ctx := context.Background()

	now := time.Now().UTC()
	emp := &models.Employee{
		FirstName:  "A",
		LastName:   "B",
		Email:      "a@b.com",
		Position:   "Eng",
		Department: "R&D",
		Salary:     1000,
		HireDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	id, err := employees.Insert(ctx, emp)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	fetched, err := employees.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if fetched.Email != "a@b.com" || fetched.Salary != 1000 {
		t.Fatalf("unexpected record: %+v", fetched)
	}

	fetched.Position = "Staff Eng"
	fetched.UpdatedAt = time.Now().UTC()
	if err := employees.Update(ctx, id, fetched); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	matches, err := employees.Search(ctx, "r&d", "")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(matches) != 1 || matches[0].Position != "Staff Eng" {
		t.Fatalf("unexpected search result: %+v", matches)
	}

	if err := employees.Delete(ctx, id); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := employees.FindByID(ctx, id); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := employees.Delete(ctx, "not-a-hex-id"); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected not found for malformed id, got %v", err)
	}
}
