// models/customer.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Customer represents a bank customer profile
type Customer struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	FullName    string             `json:"fullName" bson:"fullName" validate:"required"`
	Email       string             `json:"email" bson:"email" validate:"required,email"`
	Phone       string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Address     string             `json:"address,omitempty" bson:"address,omitempty"`
	DateOfBirth string             `json:"dateOfBirth,omitempty" bson:"dateOfBirth,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}
