package employee_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/hrkit/employee-api/internal/db/dbtest"
	"github.com/hrkit/employee-api/internal/employee"
	"github.com/hrkit/employee-api/internal/models"
)

func newService(t *testing.T) *employee.Service {
	t.Helper()
	return employee.NewService(dbtest.NewEmployees(), zap.NewNop().Sugar())
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func validInput() models.EmployeeInput {
	return models.EmployeeInput{
		FirstName:  strPtr("A"),
		LastName:   strPtr("B"),
		Email:      strPtr("a@b.com"),
		Position:   strPtr("Eng"),
		Department: strPtr("R&D"),
		Salary:     floatPtr(1000),
		HireDate:   strPtr("2024-01-01"),
	}
}

func TestCreateAndGet(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	emp, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if emp.ID != id {
		t.Fatalf("expected id %s, got %s", id, emp.ID)
	}
	if emp.FirstName != "A" || emp.Email != "a@b.com" || emp.Salary != 1000 {
		t.Fatalf("unexpected projection: %+v", emp)
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, validInput()); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	dup := validInput()
	dup.FirstName = strPtr("Other")
	if _, err := svc.Create(ctx, dup); !errors.Is(err, employee.ErrEmailExists) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	t.Run("missing salary", func(t *testing.T) {
		input := validInput()
		input.Salary = nil
		id, err := svc.Create(ctx, input)
		if !models.IsValidation(err) {
			t.Fatalf("expected validation error for absent salary, got id %q err %v", id, err)
		}
	})

	t.Run("negative salary", func(t *testing.T) {
		input := validInput()
		input.Salary = floatPtr(-1)
		if _, err := svc.Create(ctx, input); !models.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("zero salary ok", func(t *testing.T) {
		input := validInput()
		input.Email = strPtr("zero@b.com")
		input.Salary = floatPtr(0)
		if _, err := svc.Create(ctx, input); err != nil {
			t.Fatalf("expected zero salary to pass, got %v", err)
		}
	})

	t.Run("malformed email", func(t *testing.T) {
		input := validInput()
		input.Email = strPtr("not-an-email")
		if _, err := svc.Create(ctx, input); !models.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("short valid email ok", func(t *testing.T) {
		input := validInput()
		input.Email = strPtr("a@b.co")
		if _, err := svc.Create(ctx, input); err != nil {
			t.Fatalf("expected a@b.co to pass, got %v", err)
		}
	})

	t.Run("missing required field", func(t *testing.T) {
		input := validInput()
		input.Position = nil
		input.Email = strPtr("missing@b.com")
		if _, err := svc.Create(ctx, input); !models.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestPartialUpdate(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updatedID, err := svc.Update(ctx, id, models.EmployeeInput{Position: strPtr("Staff Eng")})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updatedID != id {
		t.Fatalf("expected identifier %s back, got %s", id, updatedID)
	}

	emp, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if emp.Position != "Staff Eng" {
		t.Fatalf("expected position updated, got %q", emp.Position)
	}
	if emp.FirstName != "A" || emp.Email != "a@b.com" || emp.Department != "R&D" {
		t.Fatalf("expected untouched fields preserved, got %+v", emp)
	}
}

func TestUpdateRevalidates(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Update(ctx, id, models.EmployeeInput{Salary: floatPtr(-5)}); !models.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateMissing(t *testing.T) {
	svc := newService(t)

	_, err := svc.Update(context.Background(), "64a000000000000000000000", models.EmployeeInput{Position: strPtr("x")})
	if !errors.Is(err, employee.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if err := svc.Delete(ctx, ""); !errors.Is(err, employee.ErrIDRequired) {
		t.Fatalf("expected id-required error, got %v", err)
	}

	id, err := svc.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(ctx, id); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := svc.Get(ctx, id); !errors.Is(err, employee.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}

	if err := svc.Delete(ctx, id); !errors.Is(err, employee.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestSearch(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	first := validInput()
	if _, err := svc.Create(ctx, first); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	second := validInput()
	second.Email = strPtr("c@d.com")
	second.Department = strPtr("Sales")
	second.Position = strPtr("Account Manager")
	if _, err := svc.Create(ctx, second); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	sales, err := svc.Search(ctx, "sales", "")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(sales) != 1 || sales[0].Department != "Sales" {
		t.Fatalf("expected one Sales match, got %+v", sales)
	}

	all, err := svc.Search(ctx, "", "")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected unfiltered search to return all, got %d", len(all))
	}
}
