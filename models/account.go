// models/account.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account represents a customer's bank account
type Account struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AccountNumber string             `json:"accountNumber" bson:"accountNumber" validate:"required"`
	CustomerID    primitive.ObjectID `json:"customerId" bson:"customerId" validate:"required"`
	Type          string             `json:"type" bson:"type" validate:"required,oneof=savings checking"`
	Balance       float64            `json:"balance" bson:"balance"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}
