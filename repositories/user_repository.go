// repositories/user_repository.go
package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rkaram/bankms_backend/config"
	"github.com/rkaram/bankms_backend/models"
	"github.com/rkaram/bankms_backend/services"
)

// UserRepository is the mongo-backed credential store
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a user repository over the users collection
func NewUserRepository(db *mongo.Client) *UserRepository {
	return &UserRepository{
		collection: config.GetCollection(db, "users"),
	}
}

// FindByEmail looks up a user by normalized email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, services.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdatePassword overwrites the user's password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, userID primitive.ObjectID, passwordHash string) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"password": passwordHash, "updatedAt": time.Now()}},
	)
	return err
}

// SetActive flips the user's active flag
func (r *UserRepository) SetActive(ctx context.Context, userID primitive.ObjectID, active bool) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"isActive": active, "updatedAt": time.Now()}},
	)
	return err
}
