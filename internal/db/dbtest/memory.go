// Package dbtest provides in-memory store implementations for tests that
// should not require a running MongoDB.
package dbtest

import (
	"context"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hrkit/employee-api/internal/db"
	"github.com/hrkit/employee-api/internal/models"
)

type Users struct {
	mu    sync.Mutex
	users map[string]models.User
}

func NewUsers() *Users {
	return &Users{users: make(map[string]models.User)}
}

func (s *Users) Insert(ctx context.Context, user *models.User) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return "", db.ErrDuplicateKey
		}
	}

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.users[user.ID.Hex()] = *user
	return user.ID.Hex(), nil
}

func (s *Users) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == username || existing.Email == email {
			found := existing
			return &found, nil
		}
	}
	return nil, nil
}

func (s *Users) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == identifier || existing.Username == identifier {
			found := existing
			return &found, nil
		}
	}
	return nil, nil
}

type Employees struct {
	mu        sync.Mutex
	employees map[string]models.Employee
}

func NewEmployees() *Employees {
	return &Employees{employees: make(map[string]models.Employee)}
}

func (s *Employees) Insert(ctx context.Context, emp *models.Employee) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.employees {
		if existing.Email == emp.Email {
			return "", db.ErrDuplicateKey
		}
	}

	if emp.ID.IsZero() {
		emp.ID = primitive.NewObjectID()
	}
	s.employees[emp.ID.Hex()] = *emp
	return emp.ID.Hex(), nil
}

func (s *Employees) FindAll(ctx context.Context) ([]models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]models.Employee, 0, len(s.employees))
	for _, emp := range s.employees {
		all = append(all, emp)
	}
	return all, nil
}

func (s *Employees) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	emp, ok := s.employees[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &emp, nil
}

func (s *Employees) FindByEmail(ctx context.Context, email string) (*models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, emp := range s.employees {
		if emp.Email == email {
			found := emp
			return &found, nil
		}
	}
	return nil, nil
}

func (s *Employees) Update(ctx context.Context, id string, emp *models.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[id]; !ok {
		return db.ErrNotFound
	}
	for key, existing := range s.employees {
		if key != id && existing.Email == emp.Email {
			return db.ErrDuplicateKey
		}
	}
	s.employees[id] = *emp
	return nil
}

func (s *Employees) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[id]; !ok {
		return db.ErrNotFound
	}
	delete(s.employees, id)
	return nil
}

func (s *Employees) Search(ctx context.Context, department, position string) ([]models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]models.Employee, 0)
	for _, emp := range s.employees {
		if department != "" && !strings.Contains(strings.ToLower(emp.Department), strings.ToLower(department)) {
			continue
		}
		if position != "" && !strings.Contains(strings.ToLower(emp.Position), strings.ToLower(position)) {
			continue
		}
		matched = append(matched, emp)
	}
	return matched, nil
}
