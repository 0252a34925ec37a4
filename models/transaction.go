// models/transaction.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transaction represents a single movement on an account
type Transaction struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AccountNumber string             `json:"accountNumber" bson:"accountNumber" validate:"required"`
	Type          string             `json:"type" bson:"type" validate:"required,oneof=deposit withdrawal"`
	Amount        float64            `json:"amount" bson:"amount" validate:"required,gt=0"`
	Description   string             `json:"description,omitempty" bson:"description,omitempty"`
	Date          time.Time          `json:"date" bson:"date"`
}
