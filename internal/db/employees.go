package db

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hrkit/employee-api/internal/models"
)

// EmployeeStore is the employees collection behind the CRUD operations.
type EmployeeStore struct {
	coll *mongo.Collection
}

func (m *Mongo) EmployeeStore() *EmployeeStore {
	return &EmployeeStore{coll: m.Employees}
}

func (s *EmployeeStore) Insert(ctx context.Context, emp *models.Employee) (string, error) {
	result, err := s.coll.InsertOne(ctx, emp)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrDuplicateKey
		}
		return "", fmt.Errorf("insert employee: %w", err)
	}
	return hexID(result.InsertedID)
}

func (s *EmployeeStore) FindAll(ctx context.Context) ([]models.Employee, error) {
	return s.find(ctx, bson.M{})
}

func (s *EmployeeStore) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var emp models.Employee
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&emp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query employee: %w", err)
	}
	return &emp, nil
}

// FindByEmail returns the employee registered under email, or nil when none.
func (s *EmployeeStore) FindByEmail(ctx context.Context, email string) (*models.Employee, error) {
	var emp models.Employee
	if err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&emp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("query employee by email: %w", err)
	}
	return &emp, nil
}

// Update replaces the business fields of the record with the validated state
// in emp and bumps updated_at.
func (s *EmployeeStore) Update(ctx context.Context, id string, emp *models.Employee) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	update := bson.M{"$set": bson.M{
		"firstName":  emp.FirstName,
		"lastName":   emp.LastName,
		"email":      emp.Email,
		"position":   emp.Position,
		"department": emp.Department,
		"salary":     emp.Salary,
		"hireDate":   emp.HireDate,
		"updated_at": emp.UpdatedAt,
	}}

	result, err := s.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("update employee: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *EmployeeStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Search filters by case-insensitive substring match on department and
// position. Empty terms match everything.
func (s *EmployeeStore) Search(ctx context.Context, department, position string) ([]models.Employee, error) {
	filter := bson.M{}
	if department != "" {
		filter["department"] = bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(department), Options: "i"}}
	}
	if position != "" {
		filter["position"] = bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(position), Options: "i"}}
	}
	return s.find(ctx, filter)
}

func (s *EmployeeStore) find(ctx context.Context, filter bson.M) ([]models.Employee, error) {
	cursor, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query employees: %w", err)
	}
	defer cursor.Close(ctx)

	employees := make([]models.Employee, 0)
	if err := cursor.All(ctx, &employees); err != nil {
		return nil, fmt.Errorf("decode employees: %w", err)
	}
	return employees, nil
}

func hexID(inserted interface{}) (string, error) {
	oid, ok := inserted.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", inserted)
	}
	return oid.Hex(), nil
}

