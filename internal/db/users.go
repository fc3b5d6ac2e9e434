package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hrkit/employee-api/internal/models"
)

// UserStore is the users collection behind the signup and login operations.
type UserStore struct {
	coll *mongo.Collection
}

func (m *Mongo) UserStore() *UserStore {
	return &UserStore{coll: m.Users}
}

func (s *UserStore) Insert(ctx context.Context, user *models.User) (string, error) {
	result, err := s.coll.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrDuplicateKey
		}
		return "", fmt.Errorf("insert user: %w", err)
	}
	return hexID(result.InsertedID)
}

// FindByUsernameOrEmail returns a user whose username or email matches either
// supplied value, or nil when none does.
func (s *UserStore) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"username": username},
		bson.M{"email": email},
	}}
	return s.findOne(ctx, filter)
}

// FindByIdentifier returns a user whose email or username equals identifier.
func (s *UserStore) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"email": identifier},
		bson.M{"username": identifier},
	}}
	return s.findOne(ctx, filter)
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := s.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}
