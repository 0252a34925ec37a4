// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a bank login credential and its linked customer identity
type User struct {
	ID         primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Email      string               `json:"email" bson:"email"`
	Password   string               `json:"password,omitempty" bson:"password"`
	Username   string               `json:"username" bson:"username"`
	CustomerID primitive.ObjectID   `json:"customerId,omitempty" bson:"customerId,omitempty"`
	AccountIDs []primitive.ObjectID `json:"accountIds,omitempty" bson:"accountIds,omitempty"`
	IsActive   bool                 `json:"isActive" bson:"isActive"`
	CreatedAt  time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Identity holds the claims returned to the client on successful login
type Identity struct {
	UserID       string `json:"userId"`
	CustomerID   string `json:"customerId"`
	Username     string `json:"username"`
	Token        string `json:"token,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}
