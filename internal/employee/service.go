package employee

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hrkit/employee-api/internal/db"
	"github.com/hrkit/employee-api/internal/models"
)

var (
	ErrNotFound    = errors.New("employee not found")
	ErrEmailExists = errors.New("employee already exists with this email")
	ErrIDRequired  = errors.New("employee ID is required")
)

// Store is the persistence surface the service needs from the employees
// collection.
type Store interface {
	Insert(ctx context.Context, emp *models.Employee) (string, error)
	FindAll(ctx context.Context) ([]models.Employee, error)
	FindByID(ctx context.Context, id string) (*models.Employee, error)
	FindByEmail(ctx context.Context, email string) (*models.Employee, error)
	Update(ctx context.Context, id string, emp *models.Employee) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, department, position string) ([]models.Employee, error)
}

type Service struct {
	store  Store
	logger *zap.SugaredLogger
}

func NewService(store Store, logger *zap.SugaredLogger) *Service {
	return &Service{store: store, logger: logger}
}

// Create validates the full schema, rejects a duplicate email and persists
// the record.
func (s *Service) Create(ctx context.Context, input models.EmployeeInput) (string, error) {
	if err := input.ValidateNew(); err != nil {
		return "", err
	}

	var emp models.Employee
	if err := input.Apply(&emp); err != nil {
		return "", err
	}
	if err := emp.Validate(); err != nil {
		return "", err
	}

	existing, err := s.store.FindByEmail(ctx, emp.Email)
	if err != nil {
		return "", fmt.Errorf("check existing employee: %w", err)
	}
	if existing != nil {
		return "", ErrEmailExists
	}

	now := time.Now().UTC()
	emp.CreatedAt = now
	emp.UpdatedAt = now

	id, err := s.store.Insert(ctx, &emp)
	if err != nil {
		if errors.Is(err, db.ErrDuplicateKey) {
			return "", ErrEmailExists
		}
		return "", fmt.Errorf("insert employee: %w", err)
	}

	s.logger.Infow("employee created", "employee_id", id, "email", emp.Email)
	return id, nil
}

func (s *Service) List(ctx context.Context) ([]models.PublicEmployee, error) {
	employees, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return project(employees), nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.PublicEmployee, error) {
	emp, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	public := emp.Public()
	return &public, nil
}

// Update applies the supplied fields on top of the stored record, re-runs the
// full schema validation and persists the merged state. Absent fields keep
// their stored values.
func (s *Service) Update(ctx context.Context, id string, input models.EmployeeInput) (string, error) {
	emp, err := s.find(ctx, id)
	if err != nil {
		return "", err
	}

	if err := input.Apply(emp); err != nil {
		return "", err
	}
	if err := emp.Validate(); err != nil {
		return "", err
	}

	if input.Email != nil {
		other, err := s.store.FindByEmail(ctx, emp.Email)
		if err != nil {
			return "", fmt.Errorf("check existing employee: %w", err)
		}
		if other != nil && other.ID != emp.ID {
			return "", ErrEmailExists
		}
	}

	emp.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(ctx, id, emp); err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			return "", ErrNotFound
		case errors.Is(err, db.ErrDuplicateKey):
			return "", ErrEmailExists
		default:
			return "", fmt.Errorf("update employee: %w", err)
		}
	}

	return emp.ID.Hex(), nil
}

// Delete hard-removes the record. There is no tombstone.
func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrIDRequired
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete employee: %w", err)
	}

	s.logger.Infow("employee deleted", "employee_id", id)
	return nil
}

// Search filters by department and/or position. With neither term it behaves
// like List.
func (s *Service) Search(ctx context.Context, department, position string) ([]models.PublicEmployee, error) {
	employees, err := s.store.Search(ctx, strings.TrimSpace(department), strings.TrimSpace(position))
	if err != nil {
		return nil, fmt.Errorf("search employees: %w", err)
	}
	return project(employees), nil
}

func (s *Service) find(ctx context.Context, id string) (*models.Employee, error) {
	emp, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch employee: %w", err)
	}
	return emp, nil
}

func project(employees []models.Employee) []models.PublicEmployee {
	public := make([]models.PublicEmployee, 0, len(employees))
	for _, emp := range employees {
		public = append(public, emp.Public())
	}
	return public
}
